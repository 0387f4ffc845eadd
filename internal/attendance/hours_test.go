package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkingHours(t *testing.T) {
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected float64
	}{
		{"standard eight hour day", day.Add(9 * time.Hour), day.Add(17 * time.Hour), 8.00},
		{"zero duration", day.Add(9 * time.Hour), day.Add(9 * time.Hour), 0.00},
		{"ninety minutes", day.Add(9 * time.Hour), day.Add(10*time.Hour + 30*time.Minute), 1.50},
		{"repeating fraction rounds up", day.Add(9 * time.Hour), day.Add(10*time.Hour + 40*time.Minute), 1.67},
		{"repeating fraction rounds down", day.Add(9 * time.Hour), day.Add(9*time.Hour + 20*time.Minute), 0.33},
		{"sub-minute stint", day.Add(9 * time.Hour), day.Add(9*time.Hour + 18*time.Second), 0.01},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, WorkingHours(tc.start, tc.end))
		})
	}
}

func TestWorkingHoursPanicsOnReversedPair(t *testing.T) {
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	assert.Panics(t, func() {
		WorkingHours(day.Add(17*time.Hour), day.Add(9*time.Hour))
	})
}
