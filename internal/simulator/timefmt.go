package simulator

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatRaceTime renders a total race time as H:MM:SS.mmm
func FormatRaceTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	h := ms / 3_600_000
	m := (ms / 60_000) % 60
	sec := (ms / 1000) % 60
	return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, sec, ms%1000)
}

// FormatGap renders the interval to the leader as +S.mmm
func FormatGap(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("+%d.%03d", ms/1000, ms%1000)
}

// FormatLapTime renders a lap time as M:SS.mmm
func FormatLapTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%d:%02d.%03d", ms/60_000, (ms/1000)%60, ms%1000)
}

// ParseLapTime parses "M:SS.mmm" or "SS.mmm"
func ParseLapTime(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty lap time")
	}
	minutes := 0
	rest := s
	if idx := strings.Index(s, ":"); idx >= 0 {
		m, err := strconv.Atoi(s[:idx])
		if err != nil || m < 0 {
			return 0, fmt.Errorf("invalid lap time %q", s)
		}
		minutes = m
		rest = s[idx+1:]
	}
	secs, err := strconv.ParseFloat(rest, 64)
	if err != nil || secs < 0 || (minutes > 0 && secs >= 60) {
		return 0, fmt.Errorf("invalid lap time %q", s)
	}
	total := time.Duration(minutes)*time.Minute + time.Duration(secs*float64(time.Second))
	return total.Round(time.Millisecond), nil
}
