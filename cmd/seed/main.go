package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"smartdraft-be/internal/config"
	"smartdraft-be/internal/entity"
	"smartdraft-be/internal/repository/implementation"
	"smartdraft-be/pkg/database"
	"smartdraft-be/pkg/embedding"
	"smartdraft-be/pkg/retrieval"

	"github.com/google/uuid"
)

// Seeds the corpus table from a directory of text/markdown files. Each file
// becomes one source; its content is split into overlapping chunks, embedded,
// and stored for similarity search.
func main() {
	dir := flag.String("dir", "./corpus", "directory of .txt/.md files to ingest")
	chunkSize := flag.Int("chunk-size", 1500, "chunk size in characters")
	overlap := flag.Int("overlap", 200, "overlap between adjacent chunks")
	flag.Parse()

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	corpusRepo := implementation.NewCorpusRepository(db)
	embedder := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("Error: Failed to read corpus dir %s: %v", *dir, err)
	}

	ctx := context.Background()
	total := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}

		path := filepath.Join(*dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Warn: skipping %s: %v", path, err)
			continue
		}

		sourceId := strings.TrimSuffix(entry.Name(), ext)
		title := strings.ReplaceAll(sourceId, "_", " ")
		chunks := retrieval.SplitText(string(content), *chunkSize, *overlap)
		log.Printf("Ingesting %s: %d chunks", entry.Name(), len(chunks))

		for i, text := range chunks {
			vector, err := embedder.Generate(ctx, text)
			if err != nil {
				log.Fatalf("Error: embedding failed for %s chunk %d: %v", sourceId, i, err)
			}

			chunk := &entity.CorpusChunk{
				Id:         uuid.New(),
				SourceId:   sourceId,
				Title:      title,
				Content:    text,
				ChunkIndex: i,
				CreatedAt:  time.Now(),
			}
			if err := corpusRepo.Create(ctx, chunk, vector); err != nil {
				log.Fatalf("Error: insert failed for %s chunk %d: %v", sourceId, i, err)
			}
			total++
		}
	}

	count, err := corpusRepo.Count(ctx)
	if err != nil {
		log.Fatalf("Error: count failed: %v", err)
	}
	log.Printf("Seed completed: %d chunks ingested, %d total in corpus", total, count)
}
