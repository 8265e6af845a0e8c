package recon

import (
	"sort"
	"strconv"
	"time"

	"github.com/Ruwbdy/Operation-portal-sub000/internal/models"
)

// BuildTrace converts a fulfilment row into a trace. The second return
// value is false when the row is not traceable: no CIS record arrived, or
// the CIS action is not a subscription (deprovisions and other actions are
// excluded from this view).
func BuildTrace(row *models.FulfilmentRow) (*models.FulfilmentTrace, bool) {
	if row == nil || row.CIS == nil || row.CIS.Action != models.CISActionSubscription {
		return nil, false
	}

	cis := row.CIS
	cisOk := cis.Succeeded()
	ccnPresent := row.CCN != nil
	sdpPresent := row.SDPCredit != nil // the expiry slot does not count toward fulfilment

	trace := &models.FulfilmentTrace{
		CorrelationID:    row.CorrelationID,
		ProductID:        cis.ProductID,
		OfferID:          cis.OfferID,
		Channel:          cis.Channel,
		ChargeAmount:     cis.ChargeAmount,
		CISLeg:           legFromOutcome(cisOk),
		CCNLeg:           legFromPresence(ccnPresent),
		SDPLeg:           legFromPresence(sdpPresent),
		DAIDs:            []string{},
		DAAmounts:        []string{},
		FulfilmentStatus: classify(cisOk, ccnPresent, sdpPresent),
		Timestamp:        formatTimestamp(cis.TransactionTS),
		RawTimestamp:     cis.TransactionTS,
	}

	if !cisOk {
		trace.CISFailureReason = cis.FailureReason
	}

	if ccnPresent {
		trace.CCNDebitAmount = row.CCN.DebitAmount
		trace.CCNBalanceBefore = row.CCN.BalanceBefore
		trace.CCNBalanceAfter = row.CCN.BalanceAfter
	}

	if sdpPresent {
		trace.DAIDs = models.SplitDAList(row.SDPCredit.DedicatedAccountID)
		trace.DAAmounts = models.SplitDAList(row.SDPCredit.AmountAfter)
	}

	return trace, true
}

// BuildTraces classifies every traceable row in the store and returns the
// traces sorted by raw CIS timestamp, most recent first.
func BuildTraces(store *RowStore) []*models.FulfilmentTrace {
	traces := make([]*models.FulfilmentTrace, 0, store.Len())
	for _, row := range store.Rows() {
		if trace, ok := BuildTrace(row); ok {
			traces = append(traces, trace)
		}
	}
	sort.SliceStable(traces, func(i, j int) bool {
		return traces[i].RawTimestamp > traces[j].RawTimestamp
	})
	return traces
}

// classify maps the three leg outcomes onto the fulfilment status taxonomy.
// First match wins:
//
//	cisOk  ccnPresent  sdpPresent  status
//	true   true        true        FULFILLED
//	true   true        false       PARTIAL
//	true   false       (any)       FAILED
//	false  true        (any)       GHOST_DEBIT
//	false  false       (any)       CIS_FAILED
//
// The (true, false, true) combination falls through to FAILED together
// with (true, false, false); it has never been observed upstream and is
// deliberately not given its own status.
func classify(cisOk, ccnPresent, sdpPresent bool) models.FulfilmentStatus {
	switch {
	case cisOk && ccnPresent && sdpPresent:
		return models.StatusFulfilled
	case cisOk && ccnPresent:
		return models.StatusPartial
	case cisOk:
		return models.StatusFailed
	case ccnPresent:
		return models.StatusGhostDebit
	default:
		return models.StatusCISFailed
	}
}

func legFromOutcome(ok bool) models.LegStatus {
	if ok {
		return models.LegOK
	}
	return models.LegFail
}

func legFromPresence(present bool) models.LegStatus {
	if present {
		return models.LegOK
	}
	return models.LegMissing
}

// formatTimestamp renders an epoch-millisecond timestamp for display.
// Records that carried no usable timestamp keep the raw numeric string so
// the field is never empty.
func formatTimestamp(millis int64) string {
	if millis <= 0 {
		return strconv.FormatInt(millis, 10)
	}
	return time.UnixMilli(millis).Format("2006-01-02 15:04:05")
}
