package models

// FulfilmentRow is the merged unit of reconciliation, keyed by correlation
// id. A row is created on first sighting of any event bearing the key, from
// whichever stream arrives first, and each slot is overwritten independently
// as its event kind arrives. A row may be partially populated at any time.
type FulfilmentRow struct {
	CorrelationID string
	CIS           *CISRecord
	CCN           *CCNRecord
	SDPCredit     *SDPRecord
	SDPExpiry     *SDPRecord
}

// FulfilmentStatus classifies the outcome of one subscription attempt
// across the three event sources.
type FulfilmentStatus string

const (
	// StatusFulfilled: CIS succeeded, balance debited, bundle credited
	StatusFulfilled FulfilmentStatus = "FULFILLED"

	// StatusPartial: CIS succeeded and balance debited, but no bundle credit
	StatusPartial FulfilmentStatus = "PARTIAL"

	// StatusFailed: CIS succeeded but neither debit nor credit happened
	StatusFailed FulfilmentStatus = "FAILED"

	// StatusGhostDebit: CIS rejected the attempt yet the balance was
	// debited. Money was taken with no service delivered; an operator
	// must trigger a manual reversal.
	StatusGhostDebit FulfilmentStatus = "GHOST_DEBIT"

	// StatusCISFailed: CIS rejected the attempt and no debit occurred
	StatusCISFailed FulfilmentStatus = "CIS_FAILED"
)

// LegStatus describes one leg of a fulfilment trace
type LegStatus string

const (
	LegOK      LegStatus = "ok"
	LegFail    LegStatus = "fail"
	LegMissing LegStatus = "missing"
)

// FulfilmentTrace is the reconciled, human-presentable summary of one
// subscription attempt's journey across CIS, CCN and SDP.
type FulfilmentTrace struct {
	CorrelationID string `json:"correlationId"`
	ProductID     string `json:"productId"`
	OfferID       string `json:"offerId"`
	Channel       string `json:"channel"`
	ChargeAmount  string `json:"chargeAmount"`

	CISLeg LegStatus `json:"cisLeg"`
	CCNLeg LegStatus `json:"ccnLeg"`
	SDPLeg LegStatus `json:"sdpLeg"`

	CISFailureReason string `json:"cisFailureReason,omitempty"`

	CCNDebitAmount   string `json:"ccnDebitAmount,omitempty"`
	CCNBalanceBefore string `json:"ccnBalanceBefore,omitempty"`
	CCNBalanceAfter  string `json:"ccnBalanceAfter,omitempty"`

	DAIDs     []string `json:"daIds"`
	DAAmounts []string `json:"daAmounts"`

	FulfilmentStatus FulfilmentStatus `json:"fulfilmentStatus"`

	Timestamp    string `json:"timestamp"`    // human-readable
	RawTimestamp int64  `json:"rawTimestamp"` // epoch milliseconds
}
