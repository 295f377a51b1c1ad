package utils

import "time"

// TimestampLayout is how trade times are shown to users
const TimestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders t in UTC
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
