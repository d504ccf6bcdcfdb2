package http

import "time"

// dateLayout is the wire format for day-granular validity dates.
const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// parseDate returns the zero time for an empty input so the validation
// layer can report the field as missing instead of malformed.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}
