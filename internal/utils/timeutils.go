package utils

import "time"

// ReportTimestamp formats t the way reports carry generation time.
func ReportTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
