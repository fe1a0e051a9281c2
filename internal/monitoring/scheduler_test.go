package monitoring

import (
	"encoding/json"
	"testing"
)

func TestRetentionDays(t *testing.T) {
	tests := []struct {
		name    string
		payload json.RawMessage
		want    int
	}{
		{"explicit days", json.RawMessage(`{"days": 14}`), 14},
		{"missing payload", nil, defaultRetentionDays},
		{"empty object", json.RawMessage(`{}`), defaultRetentionDays},
		{"garbage payload", json.RawMessage(`not json`), defaultRetentionDays},
		{"non-positive days", json.RawMessage(`{"days": -3}`), defaultRetentionDays},
	}

	for _, tt := range tests {
		if got := retentionDays(tt.payload); got != tt.want {
			t.Errorf("%s: retentionDays() = %d, want %d", tt.name, got, tt.want)
		}
	}
}
