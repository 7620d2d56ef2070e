package repository

import (
	"fmt"
	"time"
)

// timeLayouts are the formats SQLite hands back as text, depending on how
// the column was written ("2006-01-02" for dates, CURRENT_TIMESTAMP's
// "2006-01-02 15:04:05", RFC3339 for application-written timestamps).
var timeLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseTime parses a date or timestamp string from a SQLite text column.
func ParseTime(str string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date: %q", str)
}
