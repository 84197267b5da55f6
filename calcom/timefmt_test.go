package calcom

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStart(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"rfc3339 with millis", "2024-08-15T14:00:00.000Z", time.Date(2024, 8, 15, 14, 0, 0, 0, time.UTC)},
		{"rfc3339 plain", "2024-08-15T14:00:00Z", time.Date(2024, 8, 15, 14, 0, 0, 0, time.UTC)},
		{"no zone treated as utc", "2024-08-15T14:00:00", time.Date(2024, 8, 15, 14, 0, 0, 0, time.UTC)},
		{"space separator", "2024-08-15 14:00:00", time.Date(2024, 8, 15, 14, 0, 0, 0, time.UTC)},
		{"surrounding whitespace", "  2024-08-15T14:00:00Z  ", time.Date(2024, 8, 15, 14, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStart(tt.value)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseStart_Invalid(t *testing.T) {
	_, err := ParseStart("next tuesday")
	assert.Error(t, err)

	_, err = ParseStart("")
	assert.Error(t, err)
}

// The derived end time must look exactly like the start time it was derived
// from, fractional seconds included.
func TestFormatLike_MirrorsReferenceShape(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"2024-08-15T14:00:00.000Z", "2024-08-15T14:30:00.000Z"},
		{"2024-08-15T14:00:00Z", "2024-08-15T14:30:00Z"},
		{"2024-08-15T14:00:00.000000Z", "2024-08-15T14:30:00.000000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			start, err := ParseStart(tt.ref)
			require.NoError(t, err)

			got := FormatLike(tt.ref, start.Add(30*time.Minute))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatLike_NonUTCOffset(t *testing.T) {
	ref := "2024-08-15T14:00:00.000+02:00"
	start, err := ParseStart(ref)
	require.NoError(t, err)

	got := FormatLike(ref, start.Add(30*time.Minute))
	assert.Equal(t, "2024-08-15T14:30:00.000+02:00", got)
}
