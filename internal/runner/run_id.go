package runner

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

const runIDSuffixBytes = 6

// NewRunID derives a sortable run id from the start time and session id.
func NewRunID(now time.Time, sessionID uuid.UUID) string {
	return FormatRunID(now, hex.EncodeToString(sessionID[:runIDSuffixBytes]))
}

func FormatRunID(now time.Time, suffix string) string {
	return now.UTC().Format("20060102T150405Z") + "-" + suffix
}
