package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"attendance-backend/internal/geo"
)

// Attendance interval statuses as they appear in API responses.
const (
	StatusCheckedIn  = "Checked In"
	StatusCheckedOut = "Checked Out"
)

// Interval is one contiguous presence episode. CheckOutTime is nil
// while the interval is still open; WorkingHours is set on close.
type Interval struct {
	CheckInTime   time.Time  `json:"checkInTime"`
	CheckOutTime  *time.Time `json:"checkOutTime,omitempty"`
	EntryLocation geo.Point  `json:"entryLocation"`
	IsInsideHQ    bool       `json:"isInsideHQ"`
	Status        string     `json:"status"`
	WorkingHours  *float64   `json:"workingHours,omitempty"`
}

// Open reports whether the interval has not been checked out yet.
func (iv Interval) Open() bool {
	return iv.CheckOutTime == nil
}

// IntervalList stores the ordered interval sequence of one day as a
// JSON text column, so the whole sequence updates atomically with the
// row's version.
type IntervalList []Interval

// Value implements driver.Valuer.
func (l IntervalList) Value() (driver.Value, error) {
	if l == nil {
		l = IntervalList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal interval list: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *IntervalList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = IntervalList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported interval list source type %T", src)
	}
}

// AttendanceDay is the per-user-per-day aggregate: one row per
// (UserID, Day) holding the ordered interval sequence. Version backs
// the optimistic conditional update in the store.
type AttendanceDay struct {
	ID        int64        `gorm:"primaryKey" json:"-"`
	UserID    string       `gorm:"uniqueIndex:idx_attendance_user_day;size:36;not null" json:"userId"`
	Day       string       `gorm:"uniqueIndex:idx_attendance_user_day;size:10;not null" json:"date"`
	Version   int64        `gorm:"not null;default:0" json:"-"`
	Records   IntervalList `gorm:"type:text;not null" json:"records"`
	CreatedAt time.Time    `gorm:"not null" json:"-"`
	UpdatedAt time.Time    `gorm:"not null" json:"-"`
}

// DayKeyLayout is the calendar-day key format of AttendanceDay.Day.
const DayKeyLayout = "2006-01-02"

// DayKey computes the aggregate key for an instant in the given zone.
// The zone is explicit so the day boundary is reproducible in tests
// rather than inherited from the process clock.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayKeyLayout)
}

// Last returns a pointer to the final interval, or nil when the day
// has none yet.
func (d *AttendanceDay) Last() *Interval {
	if len(d.Records) == 0 {
		return nil
	}
	return &d.Records[len(d.Records)-1]
}
