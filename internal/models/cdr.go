package models

import (
	"time"
)

// CDRType represents the record type of a call detail record
type CDRType string

const (
	CDRTypeVoice CDRType = "VOICE"
	CDRTypeData  CDRType = "DATA"
	CDRTypeSMS   CDRType = "SMS"
)

// CDR is one call detail record from the CDR history store. The console
// only reads CDRs; mediation writes them.
type CDR struct {
	ID         string
	MSISDN     string
	Type       CDRType
	Timestamp  time.Time
	Duration   int64 // seconds, voice only
	Volume     int64 // bytes, data only
	OtherParty string
	Charge     string // decimal string as billed
	CellID     string
}
