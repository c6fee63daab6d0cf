package status

import (
	"context"
	"sync"
	"time"
)

// Registry keeps at most one live polling session per transaction id.
// Sessions run against the registry's base context, not the request that
// created them, so tracking survives the HTTP call that started it.
type Registry struct {
	ctx      context.Context
	fetcher  Fetcher
	interval time.Duration
	sinks    []Sink

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(ctx context.Context, fetcher Fetcher, interval time.Duration, sinks ...Sink) *Registry {
	return &Registry{
		ctx:      ctx,
		fetcher:  fetcher,
		interval: interval,
		sinks:    sinks,
		sessions: make(map[string]*Session),
	}
}

// Track returns the live session for transactionID, starting one if none
// exists. A session that already ran to Terminal or Stopped is replaced.
func (r *Registry) Track(transactionID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[transactionID]; ok {
		switch s.State() {
		case StatePolling, StateTerminal:
			return s, nil
		}
	}

	s := NewSession(r.fetcher, transactionID, r.interval, r.sinks...)
	if err := s.Start(r.ctx); err != nil {
		return nil, err
	}
	r.sessions[transactionID] = s
	return s, nil
}

// Get returns the session for transactionID, if any.
func (r *Registry) Get(transactionID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[transactionID]
	return s, ok
}

// Stop halts and forgets the session for transactionID. Safe to call for
// unknown ids.
func (r *Registry) Stop(transactionID string) {
	r.mu.Lock()
	s, ok := r.sessions[transactionID]
	delete(r.sessions, transactionID)
	r.mu.Unlock()
	if ok {
		s.Stop()
	}
}

// StopAll halts every live session, used on shutdown.
func (r *Registry) StopAll() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()
	for _, s := range sessions {
		s.Stop()
	}
}
