package attendance

import (
	"time"

	"attendance-backend/internal/geo"
	"attendance-backend/internal/model"
)

// Apply folds one geofence verdict into the day's interval sequence.
//
// Only verdict transitions change the aggregate: entering the fence
// appends a new open interval, leaving it closes the last one in place
// and computes its working hours. Repeated same-verdict pings are
// no-ops, so the dominant periodic-polling traffic never duplicates or
// reshapes intervals. In particular the entry point of an open interval
// is authoritative; later "inside" pings with drifted coordinates do
// not overwrite it.
//
// Apply returns the interval that was appended or closed (or the
// unchanged last interval for a no-op; the zero Interval when the day
// is empty) and whether the aggregate mutated.
func Apply(day *model.AttendanceDay, inside bool, now time.Time, sample geo.Point) (model.Interval, bool) {
	last := day.Last()

	if inside {
		if last != nil && last.Open() {
			// Already checked in; keep polling.
			return *last, false
		}
		iv := model.Interval{
			CheckInTime:   now,
			EntryLocation: sample,
			IsInsideHQ:    true,
			Status:        model.StatusCheckedIn,
		}
		day.Records = append(day.Records, iv)
		return iv, true
	}

	if last == nil || !last.Open() {
		// An "outside" ping with nothing open carries no information.
		if last == nil {
			return model.Interval{}, false
		}
		return *last, false
	}

	out := now
	hours := WorkingHours(last.CheckInTime, out)
	last.CheckOutTime = &out
	last.IsInsideHQ = false
	last.Status = model.StatusCheckedOut
	last.WorkingHours = &hours
	return *last, true
}
