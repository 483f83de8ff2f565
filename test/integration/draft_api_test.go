package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"smartdraft-be/internal/bootstrap"
	"smartdraft-be/internal/config"
	"smartdraft-be/internal/entity"
	"smartdraft-be/internal/mapper"
	"smartdraft-be/internal/model"
	"smartdraft-be/internal/server"
	"smartdraft-be/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
	}
	if os.Getenv("DB_CONNECTION_STRING") == "" {
		t.Skip("DB_CONNECTION_STRING not set, skipping integration test")
	}

	cfg := config.Load()
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	require.NoError(t, err, "failed to connect to DB")

	require.NoError(t, db.AutoMigrate(&model.Document{}, &model.CorpusChunk{}))

	container := bootstrap.NewContainer(db, cfg)
	srv := server.New(cfg, container)
	return srv.GetApp(), db
}

func doJSON(t *testing.T, app *fiber.App, method, url string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]interface{}
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp.StatusCode, parsed
}

func seedSession(t *testing.T, db *gorm.DB, sessionId string) {
	t.Helper()

	doc := &entity.Document{
		SessionId:     sessionId,
		UserPrompt:    "integration prompt",
		ModelId:       "phi",
		ChunksUsed:    3,
		Summary:       "integration summary",
		Insights:      []string{"insight"},
		Conclusion:    "integration conclusion",
		FormattedText: "# Summary\n\nintegration summary\n",
		CreatedAt:     time.Now(),
	}
	docModel := mapper.NewDocumentMapper().ToModel(doc)
	require.NoError(t, db.Create(docModel).Error)

	t.Cleanup(func() {
		db.Where("session_id = ?", sessionId).Delete(&model.Document{})
	})
}

func TestSessionLifecycleAPI(t *testing.T) {
	app, db := setupApp(t)
	sessionId := "it-" + uuid.NewString()
	seedSession(t, db, sessionId)

	// Listing includes the seeded session.
	status, envelope := doJSON(t, app, "GET", "/api/draft/v1/sessions", nil)
	require.Equal(t, http.StatusOK, status)
	found := false
	for _, item := range envelope["data"].([]interface{}) {
		if item.(map[string]interface{})["session_id"] == sessionId {
			found = true
		}
	}
	assert.True(t, found, "seeded session missing from listing")

	// Show returns the document.
	status, envelope = doJSON(t, app, "GET", "/api/draft/v1/session/"+sessionId, nil)
	require.Equal(t, http.StatusOK, status)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "integration summary", data["summary"])

	// Explicit save overwrites and persists.
	status, _ = doJSON(t, app, "PUT", "/api/draft/v1/session/"+sessionId, map[string]interface{}{
		"formatted_text": "# Edited\n",
	})
	require.Equal(t, http.StatusOK, status)

	status, envelope = doJSON(t, app, "GET", "/api/draft/v1/session/"+sessionId, nil)
	require.Equal(t, http.StatusOK, status)
	data = envelope["data"].(map[string]interface{})
	assert.Equal(t, "# Edited\n", data["formatted_text"])

	// Unknown session is a 404.
	status, _ = doJSON(t, app, "GET", "/api/draft/v1/session/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSystemAPI(t *testing.T) {
	app, _ := setupApp(t)

	status, envelope := doJSON(t, app, "GET", "/api/draft/v1/status", nil)
	require.Equal(t, http.StatusOK, status)
	data := envelope["data"].(map[string]interface{})
	assert.Contains(t, data, "memory")
	assert.Contains(t, data, "cache_stats")

	status, _ = doJSON(t, app, "POST", "/api/draft/v1/clear-cache", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestGenerateAPI(t *testing.T) {
	app, _ := setupApp(t)
	if os.Getenv("OLLAMA_INTEGRATION") != "true" {
		t.Skip("OLLAMA_INTEGRATION not set, skipping live generation test")
	}

	status, envelope := doJSON(t, app, "POST", "/api/draft/v1/generate", map[string]interface{}{
		"prompt":      "How to start a vegetable garden",
		"chunk_count": 3,
	})
	require.Equal(t, http.StatusOK, status, "generate failed: %v", envelope)

	data := envelope["data"].(map[string]interface{})
	doc := data["document"].(map[string]interface{})
	assert.NotEmpty(t, doc["formatted_text"])
	fmt.Printf("generated in %.1fs\n", doc["generation_time_seconds"].(float64))
}
