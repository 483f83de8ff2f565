package service

import (
	"context"

	"smartdraft-be/internal/dto"
	"smartdraft-be/internal/pkg/logger"
	"smartdraft-be/pkg/cache"
	pkgNats "smartdraft-be/pkg/nats"
	"smartdraft-be/pkg/sysmon"
)

type ISystemService interface {
	Status(ctx context.Context, modelId string) (*dto.StatusResponse, error)
	ClearCache(ctx context.Context) error
}

type systemService struct {
	monitor        *sysmon.Monitor
	tiers          *cache.MultiTier
	eventPublisher *pkgNats.Publisher
	log            logger.ILogger
	defaultModel   string
}

func NewSystemService(
	monitor *sysmon.Monitor,
	tiers *cache.MultiTier,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
	defaultModel string,
) ISystemService {
	return &systemService{
		monitor:        monitor,
		tiers:          tiers,
		eventPublisher: eventPublisher,
		log:            log,
		defaultModel:   defaultModel,
	}
}

func (s *systemService) Status(ctx context.Context, modelId string) (*dto.StatusResponse, error) {
	if modelId == "" {
		modelId = s.defaultModel
	}
	return &dto.StatusResponse{
		Memory:     s.monitor.Check(modelId),
		CacheStats: s.tiers.Stats(),
		Models:     s.monitor.Models(),
	}, nil
}

func (s *systemService) ClearCache(ctx context.Context) error {
	s.tiers.Clear()
	s.log.Info("system", "all cache tiers cleared", nil)

	if err := s.eventPublisher.Publish(ctx, pkgNats.EventCacheCleared, map[string]interface{}{}); err != nil {
		s.log.Warn("system", "failed to publish cache-cleared event", map[string]interface{}{"error": err.Error()})
	}
	return nil
}
