// Package session owns the search lifecycle of the fulfilment console:
// one Session per search, each with its own row store, stream consumer and
// trace snapshot, and a Manager that guarantees at most one active stream
// per console session.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Ruwbdy/Operation-portal-sub000/internal/models"
	"github.com/Ruwbdy/Operation-portal-sub000/internal/recon"
	"github.com/Ruwbdy/Operation-portal-sub000/internal/stream"
)

// Phase is the coarse processing phase of a search, as surfaced to the UI.
type Phase string

const (
	PhaseConnecting Phase = "connecting"
	PhaseCIS        Phase = "cis"
	PhaseCCN        Phase = "ccn"
	PhaseSDP        Phase = "sdp"
	PhaseComplete   Phase = "complete"
	PhaseError      Phase = "error"
)

// Streamer opens one fulfilment event stream and blocks until it ends.
type Streamer interface {
	Stream(ctx context.Context, q stream.Query, out chan<- stream.Batch) error
}

// AlertPublisher delivers ghost-debit anomalies to the operator reversal
// workflow. Implementations must tolerate concurrent calls.
type AlertPublisher interface {
	PublishGhostDebit(ctx context.Context, msisdn string, trace *models.FulfilmentTrace) error
}

// Session is one fulfilment search: it exclusively owns its row store and
// trace snapshot, which are replaced wholesale (never shared) when a new
// search starts. All merging happens on the session's single consumer
// goroutine; snapshot reads are guarded so an HTTP reader never observes a
// table mid-merge.
type Session struct {
	ID     string
	MSISDN string

	mu      sync.RWMutex
	phase   Phase
	errMsg  string
	store   *recon.RowStore
	traces  []*models.FulfilmentTrace
	alerted map[string]bool

	cancel context.CancelFunc
	done   chan struct{}

	alerts AlertPublisher
}

// Snapshot returns the current phase, the error message (set only in the
// error phase) and the trace list, most recent first.
func (s *Session) Snapshot() (Phase, string, []*models.FulfilmentTrace) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase, s.errMsg, s.traces
}

// Cancel aborts the in-flight stream. Cancellation is silent: no error is
// reported and the phase never transitions to error because of it.
// Whatever was merged before the cancel remains readable.
func (s *Session) Cancel() {
	s.cancel()
}

// Done is closed when the session's consumer goroutine has finished.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// run drives one search to completion: it starts the stream, folds every
// batch into the row store, rebuilds the trace snapshot after each batch
// and reports the terminal phase.
func (s *Session) run(ctx context.Context, streamer Streamer, q stream.Query) {
	defer close(s.done)

	out := make(chan stream.Batch)
	errCh := make(chan error, 1)
	go func() {
		errCh <- streamer.Stream(ctx, q, out)
		close(out)
	}()

	for batch := range out {
		s.apply(ctx, batch)
	}

	err := <-errCh
	if ctx.Err() != nil {
		// Explicit cancellation: no phase transition, no error report.
		return
	}

	s.mu.Lock()
	if err != nil {
		s.phase = PhaseError
		s.errMsg = err.Error()
		log.Printf("search %s: stream failed: %v", s.ID, err)
	} else {
		s.phase = PhaseComplete
	}
	s.mu.Unlock()
}

// apply merges one batch and rebuilds the trace snapshot. Merge and
// rebuild run to completion under the write lock, so the two are observed
// atomically.
func (s *Session) apply(ctx context.Context, batch stream.Batch) {
	var ghost []*models.FulfilmentTrace

	s.mu.Lock()
	switch batch.Kind {
	case stream.BatchCIS:
		s.phase = PhaseCIS
		for _, rec := range batch.CIS {
			s.store.MergeCIS(rec)
		}
	case stream.BatchCCN:
		s.phase = PhaseCCN
		for _, rec := range batch.CCN {
			s.store.MergeCCN(rec)
		}
	case stream.BatchSDP:
		s.phase = PhaseSDP
		for _, rec := range batch.SDP {
			s.store.MergeSDP(rec)
		}
	}

	s.traces = recon.BuildTraces(s.store)

	// Collect ghost debits not yet alerted for this session. A late SDP
	// batch can flip a row out of GHOST_DEBIT, but an alert already sent
	// is never retracted here; the reversal workflow re-checks.
	for _, trace := range s.traces {
		if trace.FulfilmentStatus == models.StatusGhostDebit && !s.alerted[trace.CorrelationID] {
			s.alerted[trace.CorrelationID] = true
			ghost = append(ghost, trace)
		}
	}
	s.mu.Unlock()

	for _, trace := range ghost {
		s.publishAlert(ctx, trace)
	}
}

// publishAlert hands one ghost-debit trace to the alert publisher.
// Publishing is best-effort: a failure is logged and never fails the
// search.
func (s *Session) publishAlert(ctx context.Context, trace *models.FulfilmentTrace) {
	if s.alerts == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.alerts.PublishGhostDebit(pubCtx, s.MSISDN, trace); err != nil {
		log.Printf("search %s: failed to publish ghost-debit alert for %s: %v",
			s.ID, trace.CorrelationID, err)
	}
}
