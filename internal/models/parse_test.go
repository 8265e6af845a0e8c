package models

import (
	"reflect"
	"testing"
)

func TestSplitDAList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty field", "", []string{}},
		{"single element", "7", []string{"7"}},
		{"multiple elements", "7:8:12", []string{"7", "8", "12"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitDAList(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitDAList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDASField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []DAEntry
	}{
		{"empty field", "", nil},
		{"single entry", "7#100", []DAEntry{{AccountID: "7", Amount: "100"}}},
		{
			"multiple entries", "7#100~8#250",
			[]DAEntry{{AccountID: "7", Amount: "100"}, {AccountID: "8", Amount: "250"}},
		},
		{
			"malformed entry skipped", "7#100~garbage~8#250",
			[]DAEntry{{AccountID: "7", Amount: "100"}, {AccountID: "8", Amount: "250"}},
		},
		{"entry without id skipped", "#100", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDASField(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseDASField(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCCNRecord_JoinKey(t *testing.T) {
	tests := []struct {
		name string
		rec  CCNRecord
		want string
	}{
		{"transaction id wins", CCNRecord{VasTransactionID: "T1", SessionID: "S1"}, "T1"},
		{"session id fallback", CCNRecord{SessionID: "S1"}, "S1"},
		{"neither present", CCNRecord{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.JoinKey(); got != tt.want {
				t.Errorf("JoinKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSDPRecord_IsExpiry(t *testing.T) {
	if (SDPRecord{PAMEventType: PAMEventTypeExpiry}).IsExpiry() != true {
		t.Error("expected event type 2 to be an expiry")
	}
	if (SDPRecord{PAMEventType: "1"}).IsExpiry() {
		t.Error("expected event type 1 to be a credit")
	}
}
