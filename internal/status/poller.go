// Package status tracks the asynchronous outcome of a submitted payment:
// one polling session per transaction id, repeated fetches at a fixed
// interval until the processor reports a terminal status.
package status

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"chargepay/internal/core"
	"chargepay/internal/gateway"
	"chargepay/internal/metrics"
)

// SessionState is the lifecycle of one polling session.
type SessionState string

const (
	StateIdle     SessionState = "idle"
	StatePolling  SessionState = "polling"
	StateTerminal SessionState = "terminal"
	StateStopped  SessionState = "stopped"
)

// DefaultInterval matches the processor's recommended status poll cadence.
const DefaultInterval = 5 * time.Second

// Fetcher fetches the current transaction snapshot. *gateway.Client
// satisfies it.
type Fetcher interface {
	GetTransaction(ctx context.Context, transactionID string) (gateway.TransactionSnapshot, error)
}

// Sink receives every snapshot a session applies. Sinks must not block;
// their errors are theirs to log.
type Sink interface {
	OnSnapshot(ctx context.Context, snap gateway.TransactionSnapshot)
}

// Transaction ids are opaque but the processor only ever issues
// URL-safe ones; anything else never left the gateway and would just
// poll a 404 forever.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Session polls one transaction id. All mutable state is owned by the
// session; snapshots are replaced wholesale, never merged. A single
// goroutine runs the fetch loop, so at most one fetch is in flight and
// ticks that fire mid-fetch are absorbed.
type Session struct {
	fetcher  Fetcher
	id       string
	interval time.Duration
	sinks    []Sink

	mu    sync.Mutex
	state SessionState
	snap  *gateway.TransactionSnapshot
	err   error

	refreshCh chan struct{}
	stopCh    chan struct{}
	stopOnce  sync.Once
	done      chan struct{}
}

func NewSession(fetcher Fetcher, transactionID string, interval time.Duration, sinks ...Sink) *Session {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Session{
		fetcher:   fetcher,
		id:        strings.TrimSpace(transactionID),
		interval:  interval,
		sinks:     sinks,
		state:     StateIdle,
		refreshCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start validates the transaction id and launches the fetch loop. The
// first fetch is issued immediately, then one per interval until a
// terminal status arrives or Stop is called.
func (s *Session) Start(ctx context.Context) error {
	if s.id == "" || !idPattern.MatchString(s.id) {
		return core.ErrInvalidTransactionID
	}

	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return fmt.Errorf("session for %s already started", s.id)
	}
	s.state = StatePolling
	s.mu.Unlock()

	log.Info().Str("transaction_id", s.id).Dur("interval", s.interval).Msg("status polling started")
	go s.run(ctx)
	return nil
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	// A constant backoff under a cancellable ticker gives the fixed
	// schedule; the ticker delivers its first tick immediately, which is
	// the session's initial fetch.
	ticker := backoff.NewTicker(backoff.NewConstantBackOff(s.interval))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return
		case <-s.stopCh:
			return
		case <-s.refreshCh:
			if s.fetch(ctx) {
				return
			}
		case <-ticker.C:
			if s.fetch(ctx) {
				return
			}
		}
	}
}

// fetch performs one status round trip and applies the result. Returns
// true when the session reached a terminal state and the loop must exit.
func (s *Session) fetch(ctx context.Context) bool {
	snap, err := s.fetcher.GetTransaction(ctx, s.id)

	s.mu.Lock()
	if s.state == StateStopped {
		// Stopped while the fetch was in flight; discard the result.
		s.mu.Unlock()
		return true
	}
	if err != nil {
		// Transient failure: keep the last snapshot, expose the error,
		// keep polling.
		s.err = err
		s.mu.Unlock()
		metrics.PollFetchesTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("transaction_id", s.id).Msg("status fetch failed")
		return false
	}

	s.snap = &snap
	s.err = nil
	terminal := snap.Status.Terminal()
	if terminal {
		s.state = StateTerminal
	}
	s.mu.Unlock()

	metrics.PollFetchesTotal.WithLabelValues("ok").Inc()
	for _, sink := range s.sinks {
		sink.OnSnapshot(ctx, snap)
	}
	if terminal {
		log.Info().Str("transaction_id", s.id).Str("status", string(snap.Status)).Msg("transaction reached terminal status")
	}
	return terminal
}

// Refresh triggers one immediate fetch outside the schedule. It is a
// no-op unless the session is polling: once terminal, no further request
// may be issued for the id, and a stopped session has no loop to serve it.
func (s *Session) Refresh() {
	s.mu.Lock()
	polling := s.state == StatePolling
	s.mu.Unlock()
	if !polling {
		return
	}
	select {
	case s.refreshCh <- struct{}{}:
	default: // a refresh is already queued
	}
}

// Stop cancels the schedule. Idempotent and callable from any state; an
// in-flight fetch may finish but its result is discarded.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.mu.Lock()
	s.state = StateStopped
	s.mu.Unlock()
}

// Done is closed when the fetch loop has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns the last applied snapshot, or ok=false before the
// first successful fetch.
func (s *Session) Snapshot() (gateway.TransactionSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return gateway.TransactionSnapshot{}, false
	}
	return *s.snap, true
}

// Err returns the error from the most recent fetch, nil after any
// successful fetch.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
