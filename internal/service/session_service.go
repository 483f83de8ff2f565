package service

import (
	"context"
	"encoding/json"
	"time"

	"smartdraft-be/internal/dto"
	"smartdraft-be/internal/entity"
	"smartdraft-be/internal/pkg/logger"
	"smartdraft-be/internal/repository/contract"
	"smartdraft-be/pkg/cache"
	"smartdraft-be/pkg/draft/assemble"
)

type ISessionService interface {
	Show(ctx context.Context, sessionId string) (*dto.DocumentResponse, error)
	Save(ctx context.Context, sessionId string, req *dto.SaveSessionRequest) (*dto.DocumentResponse, error)
	Edit(ctx context.Context, sessionId string, req *dto.EditSessionRequest) error
	List(ctx context.Context) ([]dto.SessionSummaryResponse, error)
	Export(ctx context.Context, sessionId string) (string, error)
}

type sessionService struct {
	store            contract.SessionStore
	tiers            *cache.MultiTier
	publisherService IPublisherService
	log              logger.ILogger
	now              func() time.Time
}

func NewSessionService(
	store contract.SessionStore,
	tiers *cache.MultiTier,
	publisherService IPublisherService,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		store:            store,
		tiers:            tiers,
		publisherService: publisherService,
		log:              log,
		now:              time.Now,
	}
}

// Show serves from the session cache when possible so an active editing burst
// does not hammer durable storage.
func (s *sessionService) Show(ctx context.Context, sessionId string) (*dto.DocumentResponse, error) {
	doc, err := s.load(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return DocumentToResponse(doc), nil
}

// Save is the explicit, immediate write path. It bypasses the auto-save
// debounce entirely: the user asked for durability now.
func (s *sessionService) Save(ctx context.Context, sessionId string, req *dto.SaveSessionRequest) (*dto.DocumentResponse, error) {
	doc, err := s.load(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	applyEdit(doc, req.Summary, req.Insights, req.Conclusion, req.FormattedText)
	now := s.now()
	doc.UpdatedAt = &now

	if err := s.store.Put(ctx, doc); err != nil {
		return nil, err
	}
	s.tiers.SetSession(doc)
	return DocumentToResponse(doc), nil
}

// Edit records an in-memory edit and notifies the auto-save pipeline. The
// durable write happens later, once the debounce decides the burst is over.
func (s *sessionService) Edit(ctx context.Context, sessionId string, req *dto.EditSessionRequest) error {
	doc, err := s.load(ctx, sessionId)
	if err != nil {
		return err
	}

	applyEdit(doc, req.Summary, req.Insights, req.Conclusion, req.FormattedText)
	now := s.now()
	doc.UpdatedAt = &now
	s.tiers.SetSession(doc)

	payload, err := json.Marshal(dto.SessionEditedMessage{
		SessionId: sessionId,
		EditedAt:  now,
	})
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, payload)
}

func (s *sessionService) List(ctx context.Context) ([]dto.SessionSummaryResponse, error) {
	summaries, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SessionSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, dto.SessionSummaryResponse{
			SessionId:  summary.SessionId,
			UserPrompt: summary.UserPrompt,
			ModelId:    summary.ModelId,
			UpdatedAt:  summary.UpdatedAt,
		})
	}
	return out, nil
}

// Export renders the document as standalone markdown. FormattedText is
// authoritative once the user has edited; fall back to re-rendering the
// structured fields for documents that predate it.
func (s *sessionService) Export(ctx context.Context, sessionId string) (string, error) {
	doc, err := s.load(ctx, sessionId)
	if err != nil {
		return "", err
	}
	if doc.FormattedText != "" {
		return doc.FormattedText, nil
	}
	return assemble.RenderMarkdown(assemble.Sections{
		Summary:    doc.Summary,
		Insights:   doc.Insights,
		Conclusion: doc.Conclusion,
	}), nil
}

func (s *sessionService) load(ctx context.Context, sessionId string) (*entity.Document, error) {
	if doc, ok := s.tiers.GetSession(sessionId); ok {
		return doc, nil
	}

	doc, err := s.store.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	s.tiers.SetSession(doc)
	return doc, nil
}

func applyEdit(doc *entity.Document, summary string, insights []string, conclusion, formattedText string) {
	if summary != "" {
		doc.Summary = summary
	}
	if insights != nil {
		doc.Insights = insights
	}
	if conclusion != "" {
		doc.Conclusion = conclusion
	}
	if formattedText != "" {
		doc.FormattedText = formattedText
	}
}
