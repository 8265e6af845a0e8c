package recon

import (
	"reflect"
	"testing"

	"github.com/Ruwbdy/Operation-portal-sub000/internal/models"
)

// mergeOp is one merge step, so permutations can be replayed against
// fresh stores.
type mergeOp func(*RowStore)

func cisOp(rec models.CISRecord) mergeOp { return func(s *RowStore) { s.MergeCIS(rec) } }
func ccnOp(rec models.CCNRecord) mergeOp { return func(s *RowStore) { s.MergeCCN(rec) } }
func sdpOp(rec models.SDPRecord) mergeOp { return func(s *RowStore) { s.MergeSDP(rec) } }

// permutations returns every ordering of ops.
func permutations(ops []mergeOp) [][]mergeOp {
	if len(ops) <= 1 {
		return [][]mergeOp{ops}
	}
	var out [][]mergeOp
	for i := range ops {
		rest := make([]mergeOp, 0, len(ops)-1)
		rest = append(rest, ops[:i]...)
		rest = append(rest, ops[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]mergeOp{ops[i]}, p...))
		}
	}
	return out
}

func snapshot(s *RowStore) map[string]models.FulfilmentRow {
	out := make(map[string]models.FulfilmentRow)
	for _, r := range s.Rows() {
		out[r.CorrelationID] = *r
	}
	return out
}

func TestMerge_OrderIndependence(t *testing.T) {
	ops := []mergeOp{
		cisOp(models.CISRecord{CorrelationID: "A", Action: models.CISActionSubscription, Status: "SUCCESS"}),
		ccnOp(models.CCNRecord{VasTransactionID: "A", DebitAmount: "50"}),
		sdpOp(models.SDPRecord{OrigTransactionID: "A", PAMEventType: "1"}),
		cisOp(models.CISRecord{CorrelationID: "B", Action: models.CISActionSubscription, Status: "FAILURE"}),
	}

	reference := NewRowStore()
	for _, op := range ops {
		op(reference)
	}
	want := snapshot(reference)

	for i, perm := range permutations(ops) {
		s := NewRowStore()
		for _, op := range perm {
			op(s)
		}
		if got := snapshot(s); !reflect.DeepEqual(got, want) {
			t.Errorf("permutation %d produced a different table:\ngot  %+v\nwant %+v", i, got, want)
		}
	}
}

func TestMerge_Idempotence(t *testing.T) {
	cis := models.CISRecord{CorrelationID: "A", Action: models.CISActionSubscription, Status: "SUCCESS"}
	ccn := models.CCNRecord{VasTransactionID: "A", DebitAmount: "50"}
	sdp := models.SDPRecord{OrigTransactionID: "A", PAMEventType: "1"}

	s := NewRowStore()
	s.MergeCIS(cis)
	s.MergeCCN(ccn)
	s.MergeSDP(sdp)
	want := snapshot(s)

	s.MergeCIS(cis)
	s.MergeCCN(ccn)
	s.MergeSDP(sdp)

	if got := snapshot(s); !reflect.DeepEqual(got, want) {
		t.Errorf("repeated merge changed the table:\ngot  %+v\nwant %+v", got, want)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 row after repeated merges, got %d", s.Len())
	}
}

func TestMergeSDP_EmptyJoinKeyDropped(t *testing.T) {
	s := NewRowStore()
	s.MergeSDP(models.SDPRecord{OrigTransactionID: "", PAMEventType: "1", DedicatedAccountID: "7"})

	if s.Len() != 0 {
		t.Errorf("expected no rows after merging an unjoinable SDP record, got %d", s.Len())
	}
}

func TestMergeCCN_JoinKeyFallback(t *testing.T) {
	s := NewRowStore()

	// Transaction id takes precedence when present
	s.MergeCCN(models.CCNRecord{VasTransactionID: "A", SessionID: "ignored"})
	if s.Row("A") == nil || s.Row("A").CCN == nil {
		t.Fatal("expected a row keyed by the transaction id")
	}
	if s.Row("ignored") != nil {
		t.Error("session id must not be used when the transaction id is present")
	}

	// Session id is the fallback
	s.MergeCCN(models.CCNRecord{SessionID: "B"})
	if s.Row("B") == nil || s.Row("B").CCN == nil {
		t.Fatal("expected a row keyed by the session id fallback")
	}

	// A record with neither key cannot be joined
	before := s.Len()
	s.MergeCCN(models.CCNRecord{DebitAmount: "10"})
	if s.Len() != before {
		t.Error("a CCN record with no join key must not create a row")
	}
}

func TestMergeSDP_ExpiryAndCreditSlots(t *testing.T) {
	s := NewRowStore()
	s.MergeSDP(models.SDPRecord{OrigTransactionID: "A", PAMEventType: "1", DedicatedAccountID: "7"})
	s.MergeSDP(models.SDPRecord{OrigTransactionID: "A", PAMEventType: models.PAMEventTypeExpiry, DedicatedAccountID: "7"})

	row := s.Row("A")
	if row == nil {
		t.Fatal("expected a row for key A")
	}
	if row.SDPCredit == nil {
		t.Error("expected the credit slot to be populated")
	}
	if row.SDPExpiry == nil {
		t.Error("expected the expiry slot to be populated")
	}
	if s.Len() != 1 {
		t.Errorf("credit and expiry events for one key must share a row, got %d rows", s.Len())
	}
}

func TestMerge_SlotOverwriteKeepsOtherSlots(t *testing.T) {
	s := NewRowStore()
	s.MergeCCN(models.CCNRecord{VasTransactionID: "A", DebitAmount: "50"})
	s.MergeCIS(models.CISRecord{CorrelationID: "A", Action: models.CISActionSubscription, Status: "SUCCESS"})

	// A later CIS record for the same key overwrites only the CIS slot
	s.MergeCIS(models.CISRecord{CorrelationID: "A", Action: models.CISActionSubscription, Status: "FAILURE"})

	row := s.Row("A")
	if row.CIS == nil || row.CIS.Status != "FAILURE" {
		t.Error("expected the CIS slot to hold the later record")
	}
	if row.CCN == nil || row.CCN.DebitAmount != "50" {
		t.Error("overwriting the CIS slot must not lose the CCN slot")
	}
}
