package models

// CISAction represents the action kind of a CIS subscription event
type CISAction string

const (
	// CISActionSubscription indicates a bundle subscription attempt
	CISActionSubscription CISAction = "Subscription"

	// CISActionDeprovision indicates a bundle deprovision attempt
	CISActionDeprovision CISAction = "Deprovision"
)

// CIS outcome values as reported by the subscription gateway
const (
	CISStatusSuccess = "SUCCESS"
	CISStatusFailure = "FAILURE"
)

// PAMEventTypeExpiry marks an SDP record as an expiry/debit event.
// Any other value is treated as a credit/provision event.
const PAMEventTypeExpiry = "2"

// CISRecord is one subscription or deprovision attempt as reported by CIS.
// It arrives once per attempt and is identified solely by its correlation id.
type CISRecord struct {
	CorrelationID    string    `json:"correlation_id"`
	Action           CISAction `json:"action"`
	Status           string    `json:"status"`
	FailureReason    string    `json:"failure_reason,omitempty"`
	ProductID        string    `json:"product_id"`
	OfferID          string    `json:"offer_id"`
	ChargeAmount     string    `json:"charge_amount"`
	Channel          string    `json:"channel"`
	TransactionTS    int64     `json:"transaction_timestamp"` // epoch milliseconds
	SubscriberMSISDN string    `json:"msisdn,omitempty"`
}

// Succeeded reports whether the attempt nominally succeeded at CIS.
func (r CISRecord) Succeeded() bool {
	return r.Status == CISStatusSuccess
}

// CCNRecord is a main-account balance debit tied to one attempt.
// The join key may be carried under either the transaction id or the
// session id field, depending on the charging path that produced it.
type CCNRecord struct {
	VasTransactionID string `json:"vas_transactionid"`
	SessionID        string `json:"session_id"`
	DebitAmount      string `json:"debit_amount"`
	BalanceBefore    string `json:"balance_before"`
	BalanceAfter     string `json:"balance_after"`
	DAS              string `json:"das,omitempty"`
}

// JoinKey resolves the key linking this debit to its CIS attempt.
// Precedence is fixed: the transaction id wins when non-empty, the
// session id is the fallback. An empty result means the record cannot
// be joined.
func (r CCNRecord) JoinKey() string {
	if r.VasTransactionID != "" {
		return r.VasTransactionID
	}
	return r.SessionID
}

// SDPRecord is a dedicated-account provisioning event (credit or expiry)
// for one attempt. The id and amount fields are colon-delimited lists,
// positionally aligned.
type SDPRecord struct {
	OrigTransactionID  string `json:"orig_transaction_id"`
	PAMEventType       string `json:"pam_event_type"`
	DedicatedAccountID string `json:"dedicated_account_id"`
	AmountBefore       string `json:"amount_before"`
	AmountAfter        string `json:"amount_after"`
	ParameterValue     string `json:"parameter_value,omitempty"`
}

// IsExpiry reports whether this record is an expiry/debit event rather
// than a credit/provision event.
func (r SDPRecord) IsExpiry() bool {
	return r.PAMEventType == PAMEventTypeExpiry
}
