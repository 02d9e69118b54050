package events

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/treatyview/internal/common"
	"github.com/ternarybob/treatyview/internal/interfaces"
)

// Service is an in-process pub/sub bus for dataset events
type Service struct {
	subscribers map[interfaces.EventType][]interfaces.EventHandler
	closed      bool
	mu          sync.RWMutex
	logger      arbor.ILogger
}

// NewService creates a new event service
func NewService(logger arbor.ILogger) interfaces.EventService {
	return &Service{
		subscribers: make(map[interfaces.EventType][]interfaces.EventHandler),
		logger:      logger,
	}
}

// Subscribe adds handler to the subscribers of eventType
func (s *Service) Subscribe(eventType interfaces.EventType, handler interfaces.EventHandler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("event service closed")
	}
	s.subscribers[eventType] = append(s.subscribers[eventType], handler)

	s.logger.Debug().
		Str("event_type", string(eventType)).
		Int("subscribers", len(s.subscribers[eventType])).
		Msg("Subscribed to event")
	return nil
}

// Unsubscribe removes handler, matched by function identity
func (s *Service) Unsubscribe(eventType interfaces.EventType, handler interfaces.EventHandler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target := reflect.ValueOf(handler).Pointer()
	current := s.subscribers[eventType]
	for i, h := range current {
		if reflect.ValueOf(h).Pointer() != target {
			continue
		}
		s.subscribers[eventType] = append(current[:i:i], current[i+1:]...)
		return nil
	}

	return fmt.Errorf("handler not subscribed to %s", eventType)
}

// snapshot copies the handler list so delivery runs without the lock
func (s *Service) snapshot(eventType interfaces.EventType) []interfaces.EventHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]interfaces.EventHandler(nil), s.subscribers[eventType]...)
}

// invoke calls one handler, reporting a panic as an error
func (s *Service) invoke(ctx context.Context, handler interfaces.EventHandler, event interfaces.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler for %s panicked: %v", event.Type, r)
		}
	}()

	if err = handler(ctx, event); err != nil {
		s.logger.Warn().
			Err(err).
			Str("event_type", string(event.Type)).
			Msg("Event handler failed")
	}
	return err
}

// Publish delivers event to every subscriber in the background
func (s *Service) Publish(ctx context.Context, event interfaces.Event) error {
	handlers := s.snapshot(event.Type)
	s.logger.Debug().
		Str("event_type", string(event.Type)).
		Int("subscribers", len(handlers)).
		Msg("Publishing event")

	for _, handler := range handlers {
		common.SafeGo(s.logger, "event:"+string(event.Type), func() {
			s.invoke(ctx, handler, event)
		})
	}
	return nil
}

// PublishSync delivers event to every subscriber concurrently and returns
// the joined handler errors once all have finished
func (s *Service) PublishSync(ctx context.Context, event interfaces.Event) error {
	handlers := s.snapshot(event.Type)
	errs := make([]error, len(handlers))

	var wg sync.WaitGroup
	for i, handler := range handlers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.invoke(ctx, handler, event)
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

// Close drops every subscriber; later subscriptions fail
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers = make(map[interfaces.EventType][]interfaces.EventHandler)
	s.closed = true
	return nil
}
