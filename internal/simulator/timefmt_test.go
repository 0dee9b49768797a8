package simulator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRaceTime(t *testing.T) {
	d := time.Hour + 23*time.Minute + 4*time.Second + 567*time.Millisecond
	assert.Equal(t, "1:23:04.567", FormatRaceTime(d))
	assert.Equal(t, "0:00:00.000", FormatRaceTime(-time.Second))
}

func TestFormatGap(t *testing.T) {
	assert.Equal(t, "+5.123", FormatGap(5123*time.Millisecond))
	assert.Equal(t, "+75.000", FormatGap(75*time.Second))
	assert.Equal(t, "+0.000", FormatGap(0))
}

func TestLapTimeRoundTrip(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"1:30.000", 90 * time.Second},
		{"1:21.046", 81046 * time.Millisecond},
		{"59.999", 59999 * time.Millisecond},
		{"0:58.1", 58100 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLapTime(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "1:21.046", FormatLapTime(81046*time.Millisecond))
}

func TestParseLapTimeRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "1:75.000", "-1:10.000", "1:-5"} {
		_, err := ParseLapTime(in)
		assert.Error(t, err, in)
	}
}
