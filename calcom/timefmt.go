package calcom

import (
	"strings"
	"time"
)

// Timestamp layouts accepted for booking start times, tried in order. A value
// without zone information is treated as UTC by convention.
var startLayouts = []struct {
	layout string
	utc    bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05.999999999", true},
	{"2006-01-02 15:04:05", true},
}

// ParseStart parses an ISO-8601 booking start time.
func ParseStart(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	var lastErr error
	for _, l := range startLayouts {
		t, err := time.Parse(l.layout, value)
		if err != nil {
			lastErr = err
			continue
		}
		if l.utc {
			t = t.UTC()
		}
		return t, nil
	}
	return time.Time{}, lastErr
}

// FormatLike renders t in the same ISO-8601 shape as ref: the fractional
// second width is copied from ref and the zone is rendered as "Z" for UTC.
// It is used to derive a booking end time expressed in the same form as the
// caller-supplied start time.
func FormatLike(ref string, t time.Time) string {
	layout := "2006-01-02T15:04:05"
	if frac := fractionWidth(ref); frac > 0 {
		layout += "." + strings.Repeat("0", frac)
	}
	// Z07:00 renders "Z" for UTC and a numeric offset otherwise.
	return t.Format(layout + "Z07:00")
}

// fractionWidth counts the fractional second digits in an ISO-8601 timestamp.
func fractionWidth(value string) int {
	dot := strings.IndexByte(value, '.')
	if dot < 0 {
		return 0
	}
	width := 0
	for _, r := range value[dot+1:] {
		if r < '0' || r > '9' {
			break
		}
		width++
	}
	return width
}
