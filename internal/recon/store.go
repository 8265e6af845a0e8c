// Package recon implements the fulfilment reconciliation core: a keyed
// table of partially-assembled fulfilment rows, incrementally completed as
// CIS, CCN and SDP events arrive in any order, and a pure classifier that
// turns a row into a presentable fulfilment trace.
package recon

import (
	"github.com/Ruwbdy/Operation-portal-sub000/internal/models"
)

// RowStore is the keyed table of fulfilment rows for one search session.
// Each session owns exactly one store; a new search constructs a fresh
// store and discards the old one, so two searches' data are never merged.
//
// Merging is a pure per-slot overwrite: the same record merged twice
// produces the same row, and the final table is identical regardless of
// the interleaving order of the three event streams. Each event kind is
// expected at most once per key; if the upstream ever re-emits a kind for
// the same key, the later record wins (documented assumption, not an
// enforced invariant).
type RowStore struct {
	rows map[string]*models.FulfilmentRow
}

// NewRowStore creates an empty row store.
func NewRowStore() *RowStore {
	return &RowStore{
		rows: make(map[string]*models.FulfilmentRow),
	}
}

// row returns the row for key, creating it if this is the first sighting.
func (s *RowStore) row(key string) *models.FulfilmentRow {
	r, ok := s.rows[key]
	if !ok {
		r = &models.FulfilmentRow{CorrelationID: key}
		s.rows[key] = r
	}
	return r
}

// MergeCIS folds one subscription event into the table, keyed by its
// correlation id.
func (s *RowStore) MergeCIS(rec models.CISRecord) {
	if rec.CorrelationID == "" {
		return
	}
	r := rec
	s.row(rec.CorrelationID).CIS = &r
}

// MergeCCN folds one balance-debit event into the table. The key is the
// record's transaction id when non-empty, else its session id; a record
// with neither cannot be joined and is dropped.
func (s *RowStore) MergeCCN(rec models.CCNRecord) {
	key := rec.JoinKey()
	if key == "" {
		return
	}
	r := rec
	s.row(key).CCN = &r
}

// MergeSDP folds one dedicated-account event into the table, keyed by its
// originating transaction id. Records lacking the key cannot be joined and
// are dropped without creating a row. The event-type discriminator routes
// the record to the expiry slot or the credit slot.
func (s *RowStore) MergeSDP(rec models.SDPRecord) {
	if rec.OrigTransactionID == "" {
		return
	}
	r := rec
	row := s.row(rec.OrigTransactionID)
	if rec.IsExpiry() {
		row.SDPExpiry = &r
	} else {
		row.SDPCredit = &r
	}
}

// Len returns the number of distinct correlation ids seen so far.
func (s *RowStore) Len() int {
	return len(s.rows)
}

// Row returns the row for the given correlation id, or nil.
func (s *RowStore) Row(key string) *models.FulfilmentRow {
	return s.rows[key]
}

// Rows returns all rows in unspecified order.
func (s *RowStore) Rows() []*models.FulfilmentRow {
	out := make([]*models.FulfilmentRow, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	return out
}
