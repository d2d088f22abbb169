package ingestion

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractTimestampFormats(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"iso_utc", "event at 2024-02-15T14:30:00Z done", "2024-02-15T14:30:00Z"},
		{"iso_offset", "event at 2024-02-15T14:30:00+02:00 done", "2024-02-15T12:30:00Z"},
		{"iso_fraction", "at 2024-02-15T14:30:00.123Z", "2024-02-15T14:30:00Z"},
		{"iso_no_zone", "at 2024-02-15T14:30:00 exactly", "2024-02-15T14:30:00Z"},
		{"log_format", "2024-02-15 14:30:00 login from host", "2024-02-15T14:30:00Z"},
		{"us_datetime", "on 2/15/2024 14:30:00 a transfer", "2024-02-15T14:30:00Z"},
		{"access_log", `10.0.0.1 - - [15/Feb/2024:14:30:00 +0000] "GET /"`, "2024-02-15T14:30:00Z"},
		{"date_only_iso", "backup ran 2024-02-15 overnight", "2024-02-15T00:00:00Z"},
		{"date_only_us", "seen on 2/15/2024 by admin", "2024-02-15T00:00:00Z"},
		{"none", "no timestamps here", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTimestamp(tt.text))
		})
	}
}

func TestExtractTimestampSyslogDefaultsToCurrentYear(t *testing.T) {
	got := ExtractTimestamp("Feb 15 14:30:00 host sshd[811]: Failed password")
	want := fmt.Sprintf("%s-02-15T14:30:00Z", time.Now().Format("2006"))
	assert.Equal(t, want, got)
}

func TestExtractTimestampIdempotent(t *testing.T) {
	first := ExtractTimestamp("incident at 2024-02-15T16:45:12-05:00")
	assert.Equal(t, "2024-02-15T21:45:12Z", first)
	assert.Equal(t, first, ExtractTimestamp(first))
}

func TestExtractTimestampPrefersFullerMatch(t *testing.T) {
	// The date-only rule must not shadow the datetime in the same text.
	got := ExtractTimestamp("2024-02-15 23:59:59 end of day summary")
	assert.Equal(t, "2024-02-15T23:59:59Z", got)
}
