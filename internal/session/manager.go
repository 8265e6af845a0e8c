package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ruwbdy/Operation-portal-sub000/internal/recon"
	"github.com/Ruwbdy/Operation-portal-sub000/internal/stream"
)

// Manager tracks search sessions and enforces the one-active-stream-per-
// console-session rule: starting a new search first cancels the previous
// stream for the same console key, then constructs a fresh session, so two
// searches' data can never mix.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session // by search session id
	active   map[string]*Session // by console session key

	streamer Streamer
	alerts   AlertPublisher
}

// NewManager creates a session manager. alerts may be nil, in which case
// ghost-debit alerting is disabled.
func NewManager(streamer Streamer, alerts AlertPublisher) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		active:   make(map[string]*Session),
		streamer: streamer,
		alerts:   alerts,
	}
}

// StartSearch cancels any in-flight search for the console key and starts
// a new one. The msisdn is expected normalized and the dates validated.
func (m *Manager) StartSearch(consoleKey, msisdn string, from, to time.Time) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Cancel the previous stream before any new state exists.
	if prev, ok := m.active[consoleKey]; ok {
		prev.cancel()
		delete(m.sessions, prev.ID)
		log.Printf("search %s superseded by new search for console session %s", prev.ID, consoleKey)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:      uuid.New().String(),
		MSISDN:  msisdn,
		phase:   PhaseConnecting,
		store:   recon.NewRowStore(),
		alerted: make(map[string]bool),
		cancel:  cancel,
		done:    make(chan struct{}),
		alerts:  m.alerts,
	}

	m.sessions[s.ID] = s
	m.active[consoleKey] = s

	go s.run(ctx, m.streamer, stream.Query{MSISDN: msisdn, From: from, To: to})

	return s
}

// Get returns the session with the given id, if it is still tracked.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Cancel cancels the session with the given id. Returns false if no such
// session is tracked.
func (m *Manager) Cancel(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	s.cancel()
	return true
}
