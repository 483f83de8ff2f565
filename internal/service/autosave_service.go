package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"smartdraft-be/internal/dto"
	"smartdraft-be/internal/pkg/logger"
	"smartdraft-be/internal/repository/contract"
	"smartdraft-be/pkg/cache"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IAutosaveService interface {
	Consume(ctx context.Context) error
	NoteEdit(sessionId string, editedAt time.Time)
}

// Scheduler runs f after d and returns a cancel function. Injected so the
// debounce timing can be tested without real time passing.
type Scheduler func(d time.Duration, f func()) (cancel func())

func timerScheduler(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

// autosaveService turns a stream of edit notifications into debounced durable
// writes. Each edit reschedules the session's save timer for quietWindow
// later; when a timer fires it re-checks that at least minQuiet of silence has
// actually elapsed, so a save scheduled before a newer edit reschedules
// instead of writing stale state. Only the final pause in an editing burst
// produces a write.
type autosaveService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	store     contract.SessionStore
	tiers     *cache.MultiTier
	log       logger.ILogger

	quietWindow time.Duration
	minQuiet    time.Duration

	now      func() time.Time
	schedule Scheduler

	mu       sync.Mutex
	lastEdit map[string]time.Time
	cancels  map[string]func()
}

func NewAutosaveService(
	pubSub *gochannel.GoChannel,
	topicName string,
	store contract.SessionStore,
	tiers *cache.MultiTier,
	log logger.ILogger,
	quietWindow, minQuiet time.Duration,
) IAutosaveService {
	return NewAutosaveServiceWithClock(pubSub, topicName, store, tiers, log, quietWindow, minQuiet, time.Now, timerScheduler)
}

func NewAutosaveServiceWithClock(
	pubSub *gochannel.GoChannel,
	topicName string,
	store contract.SessionStore,
	tiers *cache.MultiTier,
	log logger.ILogger,
	quietWindow, minQuiet time.Duration,
	now func() time.Time,
	schedule Scheduler,
) IAutosaveService {
	return &autosaveService{
		pubSub:      pubSub,
		topicName:   topicName,
		store:       store,
		tiers:       tiers,
		log:         log,
		quietWindow: quietWindow,
		minQuiet:    minQuiet,
		now:         now,
		schedule:    schedule,
		lastEdit:    make(map[string]time.Time),
		cancels:     make(map[string]func()),
	}
}

func (s *autosaveService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(msg)
		}
	}()

	return nil
}

func (s *autosaveService) processMessage(msg *message.Message) {
	var payload dto.SessionEditedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.log.Error("autosave", "failed to unmarshal edit message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed, retrying will not help
		return
	}

	s.NoteEdit(payload.SessionId, payload.EditedAt)
	msg.Ack()
}

// NoteEdit records an edit and (re)schedules the session's save timer.
func (s *autosaveService) NoteEdit(sessionId string, editedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if editedAt.After(s.lastEdit[sessionId]) {
		s.lastEdit[sessionId] = editedAt
	}
	s.rescheduleLocked(sessionId, s.quietWindow)
}

// rescheduleLocked replaces any pending timer for the session. Caller holds
// the lock.
func (s *autosaveService) rescheduleLocked(sessionId string, d time.Duration) {
	if cancel, ok := s.cancels[sessionId]; ok {
		cancel()
	}
	s.cancels[sessionId] = s.schedule(d, func() { s.onFire(sessionId) })
}

func (s *autosaveService) onFire(sessionId string) {
	s.mu.Lock()

	last, tracked := s.lastEdit[sessionId]
	if !tracked {
		delete(s.cancels, sessionId)
		s.mu.Unlock()
		return
	}

	// A newer edit slipped in after this save was scheduled: saving now would
	// be premature, so push the timer out again.
	if s.now().Sub(last) < s.minQuiet {
		s.rescheduleLocked(sessionId, s.quietWindow)
		s.mu.Unlock()
		return
	}

	doc, ok := s.tiers.GetSession(sessionId)
	delete(s.cancels, sessionId)
	delete(s.lastEdit, sessionId)
	s.mu.Unlock()

	if !ok {
		// Session evicted from cache before the save fired; the explicit save
		// path is the only remaining source of truth for this edit.
		s.log.Warn("autosave", "session missing from cache at save time", map[string]interface{}{"session_id": sessionId})
		return
	}

	ctx, cancelCtx := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelCtx()

	if err := s.store.Put(ctx, doc); err != nil {
		s.log.Error("autosave", "durable write failed", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		// Re-arm so the write is retried after another quiet window.
		s.mu.Lock()
		s.lastEdit[sessionId] = last
		s.rescheduleLocked(sessionId, s.quietWindow)
		s.mu.Unlock()
		return
	}

	s.log.Info("autosave", "session saved", map[string]interface{}{"session_id": sessionId})
}

