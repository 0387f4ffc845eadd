package attendance

import (
	"fmt"
	"math"
	"time"
)

// WorkingHours returns the elapsed time between check-in and check-out
// in hours, rounded to two decimal places. end must not precede start;
// the aggregate never produces such a pair, so a violation is a caller
// bug and panics rather than yielding a negative duration.
func WorkingHours(start, end time.Time) float64 {
	if end.Before(start) {
		panic(fmt.Sprintf("working hours: end %s precedes start %s", end, start))
	}
	return math.Round(end.Sub(start).Hours()*100) / 100
}
