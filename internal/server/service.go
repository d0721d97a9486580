// Package server exposes a store.Store to remote wishjar clients over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/wishjar/internal/model"
	"github.com/theirongolddev/wishjar/internal/store"
)

// KeyHeader carries the opaque user key.
const KeyHeader = "X-Wishjar-Key"

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
	Backend      string
	Debug        bool
}

// Event is emitted whenever a record is saved.
type Event struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	KeyHint     string    `json:"key_hint"`
	Wishes      int       `json:"wishes"`
	TotalTarget float64   `json:"total_target"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	UptimeSec       int64     `json:"uptime_sec"`
	Backend         string    `json:"backend"`
	FetchCount      int64     `json:"fetch_count"`
	SaveCount       int64     `json:"save_count"`
	LastSaveAt      time.Time `json:"last_save_at,omitempty"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
	Records         *int      `json:"records,omitempty"`
}

// Service provides the sync API.
type Service struct {
	cfg    Config
	store  store.Store
	logger *slog.Logger
	now    func() time.Time

	keysMu sync.Mutex
	keys   map[string]*keyLock

	mu          sync.RWMutex
	startedAt   time.Time
	fetchCount  int64
	saveCount   int64
	lastSaveAt  time.Time
	lastError   string
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service serving st.
func New(cfg Config, st store.Store, logger *slog.Logger) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8765"
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cfg:       cfg,
		store:     st,
		logger:    logger,
		now:       time.Now,
		keys:      make(map[string]*keyLock),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info("sync server listening", "addr", s.cfg.Addr, "backend", s.cfg.Backend)

	select {
	case <-ctx.Done():
		s.logger.Info("sync server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("sync http server: %w", err)
	}
}

// keyLock is a per-key mutex shared by the requests currently using the key.
type keyLock struct {
	mu   sync.Mutex
	refs int
}

// lockKey serializes all store access for one user key. The entry is
// dropped once no request holds or waits for it.
func (s *Service) lockKey(key string) func() {
	s.keysMu.Lock()
	kl, ok := s.keys[key]
	if !ok {
		kl = &keyLock{}
		s.keys[key] = kl
	}
	kl.refs++
	s.keysMu.Unlock()

	kl.mu.Lock()
	return func() {
		kl.mu.Unlock()

		s.keysMu.Lock()
		kl.refs--
		if kl.refs == 0 {
			delete(s.keys, key)
		}
		s.keysMu.Unlock()
	}
}

func (s *Service) lockedKeys() int {
	s.keysMu.Lock()
	defer s.keysMu.Unlock()
	return len(s.keys)
}

func (s *Service) noteFetch() {
	s.mu.Lock()
	s.fetchCount++
	s.mu.Unlock()
}

func (s *Service) noteError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
}

func (s *Service) noteSave(rec model.SavingsRecord) {
	now := s.now()

	s.mu.Lock()
	s.saveCount++
	s.lastSaveAt = now
	s.lastError = ""
	s.nextEventID++
	ev := Event{
		ID:          s.nextEventID,
		Type:        "saved",
		Timestamp:   now,
		KeyHint:     model.MaskKey(rec.UserKey),
		Wishes:      len(rec.Wishes),
		TotalTarget: rec.TotalTarget(),
	}
	s.mu.Unlock()

	s.publishEvent(ev)
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotEvents() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		UptimeSec:       int64(s.now().Sub(s.startedAt).Seconds()),
		Backend:         s.cfg.Backend,
		FetchCount:      s.fetchCount,
		SaveCount:       s.saveCount,
		LastSaveAt:      s.lastSaveAt,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
