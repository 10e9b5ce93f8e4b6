package pipeline

import (
	"time"

	"github.com/araddon/dateparse"
)

// normalizePublishTime converts a raw timestamp representation into an
// ISO-8601 string. Missing or unparseable input falls back to now; a
// malformed date must never abort ingestion.
func normalizePublishTime(raw string, now func() time.Time) string {
	if raw == "" {
		return now().Format(time.RFC3339)
	}

	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return now().Format(time.RFC3339)
	}

	return t.Format(time.RFC3339)
}
