package utils

import "time"

// TimestampLayout is ISO 8601 in UTC with millisecond precision, the format
// stored in every createdAt/updatedAt attribute.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
