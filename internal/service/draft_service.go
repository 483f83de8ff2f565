package service

import (
	"context"
	"sync"
	"time"

	"smartdraft-be/internal/constant"
	"smartdraft-be/internal/dto"
	"smartdraft-be/internal/entity"
	"smartdraft-be/internal/pkg/logger"
	"smartdraft-be/internal/repository/contract"
	"smartdraft-be/pkg/cache"
	"smartdraft-be/pkg/draft/assemble"
	"smartdraft-be/pkg/draft/prompt"
	"smartdraft-be/pkg/errs"
	"smartdraft-be/pkg/llm"
	pkgNats "smartdraft-be/pkg/nats"
	"smartdraft-be/pkg/resilience"
	"smartdraft-be/pkg/retrieval"
	"smartdraft-be/pkg/sysmon"

	"github.com/google/uuid"
)

type IDraftService interface {
	Generate(ctx context.Context, req *dto.GenerateRequest) (*dto.GenerateResponse, error)
}

// DraftServiceConfig groups the orchestration knobs.
type DraftServiceConfig struct {
	DefaultModel    string
	Temperature     float64
	MaxTokens       int
	RetrievalPolicy resilience.Policy
	// GenerationPolicy carries a long timeout; local model inference can
	// legitimately take minutes.
	GenerationPolicy resilience.Policy
}

type draftService struct {
	retriever      retrieval.Retriever
	generator      llm.Generator
	monitor        *sysmon.Monitor
	tiers          *cache.MultiTier
	store          contract.SessionStore
	eventPublisher *pkgNats.Publisher
	log            logger.ILogger
	cfg            DraftServiceConfig
	now            func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewDraftService(
	retriever retrieval.Retriever,
	generator llm.Generator,
	monitor *sysmon.Monitor,
	tiers *cache.MultiTier,
	store contract.SessionStore,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
	cfg DraftServiceConfig,
) IDraftService {
	return &draftService{
		retriever:      retriever,
		generator:      generator,
		monitor:        monitor,
		tiers:          tiers,
		store:          store,
		eventPublisher: eventPublisher,
		log:            log,
		cfg:            cfg,
		now:            time.Now,
		inFlight:       make(map[string]struct{}),
	}
}

// Generate runs the full pipeline for one request: admission check, cached or
// fresh retrieval, resilient model invocation, tolerant assembly, then the
// write-through to cache and store. At most one generation runs per session;
// a concurrent request for the same session is rejected as busy rather than
// queued, so the caller can retry once the first result lands.
func (s *draftService) Generate(ctx context.Context, req *dto.GenerateRequest) (*dto.GenerateResponse, error) {
	started := s.now()

	sessionId := req.SessionId
	if sessionId == "" {
		sessionId = uuid.New().String()
	}
	modelId := req.ModelId
	if modelId == "" {
		modelId = s.cfg.DefaultModel
	}
	chunkCount := req.ChunkCount
	if chunkCount <= 0 {
		chunkCount = constant.DefaultChunkCount
	}

	if !s.acquireSession(sessionId) {
		return nil, errs.New(errs.KindSessionBusy, "a generation for this session is already in flight")
	}
	defer s.releaseSession(sessionId)

	s.logState(sessionId, constant.StateReceived, nil)

	// Soft admission: the monitor is advisory, so a negative verdict annotates
	// the response instead of rejecting the request.
	report := s.monitor.Check(modelId)
	s.logState(sessionId, constant.StateAdmitted, map[string]interface{}{
		"model":        modelId,
		"fits":         report.Fits,
		"available_gb": report.AvailableGB,
	})

	chunks, cacheHit, err := s.retrieve(ctx, sessionId, req.Prompt, chunkCount)
	if err != nil {
		s.logState(sessionId, constant.StateFailed, map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	raw, err := s.generate(ctx, sessionId, req.Prompt, modelId, chunks)
	if err != nil {
		s.logState(sessionId, constant.StateFailed, map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	s.logState(sessionId, constant.StateAssembling, nil)
	sections := assemble.Parse(raw)

	doc := &entity.Document{
		SessionId:     sessionId,
		UserPrompt:    req.Prompt,
		ModelId:       modelId,
		ChunksUsed:    len(chunks),
		Summary:       sections.Summary,
		Insights:      sections.Insights,
		Conclusion:    sections.Conclusion,
		FormattedText: assemble.RenderMarkdown(sections),
		CreatedAt:     s.now(),
	}
	doc.GenerationTimeSeconds = s.now().Sub(started).Seconds()

	s.logState(sessionId, constant.StatePersisting, nil)
	// Durable write first: the session cache must never serve a document the
	// store does not hold, or the draft silently vanishes on restart.
	if err := s.store.Put(ctx, doc); err != nil {
		s.logState(sessionId, constant.StateFailed, map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	s.tiers.SetSession(doc)

	s.logState(sessionId, constant.StateCompleted, map[string]interface{}{
		"seconds":   doc.GenerationTimeSeconds,
		"cache_hit": cacheHit,
	})

	if err := s.eventPublisher.Publish(ctx, pkgNats.EventDocumentGenerated, map[string]interface{}{
		"session_id": sessionId,
		"model_id":   modelId,
	}); err != nil {
		s.log.Warn("draft", "failed to publish generation event", map[string]interface{}{"error": err.Error()})
	}

	return &dto.GenerateResponse{
		SessionId:             sessionId,
		Document:              DocumentToResponse(doc),
		Chunks:                chunks,
		CacheHit:              cacheHit,
		MemoryWarning:         report.Warning,
		GenerationTimeSeconds: doc.GenerationTimeSeconds,
	}, nil
}

func (s *draftService) retrieve(ctx context.Context, sessionId, promptText string, chunkCount int) ([]retrieval.Chunk, bool, error) {
	s.logState(sessionId, constant.StateRetrieving, nil)

	if chunks, ok := s.tiers.GetResults(promptText, chunkCount); ok {
		return chunks, true, nil
	}

	chunks, err := resilience.Invoke(ctx, s.cfg.RetrievalPolicy, func(ctx context.Context) ([]retrieval.Chunk, error) {
		return s.retriever.Search(ctx, promptText, chunkCount)
	})
	if err != nil {
		return nil, false, err
	}

	s.tiers.SetResults(promptText, chunkCount, chunks)
	return chunks, false, nil
}

func (s *draftService) generate(ctx context.Context, sessionId, userPrompt, modelId string, chunks []retrieval.Chunk) (string, error) {
	s.logState(sessionId, constant.StateGenerating, map[string]interface{}{"chunks": len(chunks)})

	fullPrompt := prompt.Build(userPrompt, chunks)
	return resilience.Invoke(ctx, s.cfg.GenerationPolicy, func(ctx context.Context) (string, error) {
		return s.generator.Complete(ctx, fullPrompt,
			llm.WithModel(modelId),
			llm.WithTemperature(s.cfg.Temperature),
			llm.WithMaxTokens(s.cfg.MaxTokens),
		)
	})
}

func (s *draftService) acquireSession(sessionId string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionId]; busy {
		return false
	}
	s.inFlight[sessionId] = struct{}{}
	return true
}

func (s *draftService) releaseSession(sessionId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionId)
}

func (s *draftService) logState(sessionId, state string, details map[string]interface{}) {
	if details == nil {
		details = map[string]interface{}{}
	}
	details["session_id"] = sessionId
	details["state"] = state
	s.log.Info("draft", "pipeline state", details)
}

// DocumentToResponse converts a stored document into its API projection.
func DocumentToResponse(doc *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		SessionId:             doc.SessionId,
		UserPrompt:            doc.UserPrompt,
		ModelId:               doc.ModelId,
		ChunksUsed:            doc.ChunksUsed,
		Summary:               doc.Summary,
		Insights:              doc.Insights,
		Conclusion:            doc.Conclusion,
		FormattedText:         doc.FormattedText,
		GenerationTimeSeconds: doc.GenerationTimeSeconds,
		CreatedAt:             doc.CreatedAt,
		UpdatedAt:             doc.UpdatedAt,
	}
}
