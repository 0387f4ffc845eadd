package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"attendance-backend/internal/geo"
	"attendance-backend/internal/model"
)

// ErrNotFound marks lookups for users, locations, and attendance days
// that have no matching row.
var ErrNotFound = errors.New("not found")

// ErrConflict marks an optimistic persist that lost against a
// concurrent writer; the caller reloads and retries.
var ErrConflict = errors.New("concurrent modification")

// Store defines all database operations: the user and location
// directories plus the per-user-per-day attendance record store.
type Store interface {
	DB() *gorm.DB

	// User directory.
	UserExists(ctx context.Context, id string) (bool, error)
	CreateUser(ctx context.Context, u *model.User) error

	// Location directory.
	ResolveLocation(ctx context.Context, name string) (geo.Point, error)
	UpsertLocation(ctx context.Context, loc *model.Location) error
	ListLocations(ctx context.Context) ([]model.Location, error)

	// Attendance record store.
	LoadOrCreateDay(ctx context.Context, userID, day string) (*model.AttendanceDay, error)
	SaveDay(ctx context.Context, day *model.AttendanceDay) error
	GetDay(ctx context.Context, userID, day string) (*model.AttendanceDay, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for handlers and the
// notification worker.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// UserExists reports whether the user directory knows the given id.
func (s *gormStore) UserExists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count > 0, nil
}

// CreateUser inserts a directory entry, assigning an id when absent.
func (s *gormStore) CreateUser(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// ResolveLocation maps a site name to its geofence reference point.
func (s *gormStore) ResolveLocation(ctx context.Context, name string) (geo.Point, error) {
	var loc model.Location
	err := s.db.WithContext(ctx).First(&loc, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return geo.Point{}, fmt.Errorf("location %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return geo.Point{}, fmt.Errorf("resolve location %q: %w", name, err)
	}
	return geo.Point{Latitude: loc.Latitude, Longitude: loc.Longitude}, nil
}

// UpsertLocation creates or replaces a named site's reference point.
func (s *gormStore) UpsertLocation(ctx context.Context, loc *model.Location) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"latitude", "longitude", "updated_at"}),
	}).Create(loc).Error
	if err != nil {
		return fmt.Errorf("upsert location %q: %w", loc.Name, err)
	}
	return nil
}

// ListLocations returns all registered sites.
func (s *gormStore) ListLocations(ctx context.Context) ([]model.Location, error) {
	var locs []model.Location
	if err := s.db.WithContext(ctx).Order("name").Find(&locs).Error; err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locs, nil
}

// LoadOrCreateDay fetches the aggregate for (userID, day), lazily
// inserting an empty one on the first sample of the day. The insert is
// conflict-tolerant so two concurrent first samples converge on the
// same row.
func (s *gormStore) LoadOrCreateDay(ctx context.Context, userID, day string) (*model.AttendanceDay, error) {
	seed := model.AttendanceDay{UserID: userID, Day: day, Records: model.IntervalList{}}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoNothing: true,
	}).Create(&seed).Error
	if err != nil {
		return nil, fmt.Errorf("create attendance day: %w", err)
	}

	var out model.AttendanceDay
	if err := s.db.WithContext(ctx).First(&out, "user_id = ? AND day = ?", userID, day).Error; err != nil {
		return nil, fmt.Errorf("load attendance day: %w", err)
	}
	return &out, nil
}

// SaveDay persists a mutated aggregate with an optimistic conditional
// update: the row is only written when its stored version still matches
// the one the aggregate was loaded at. A lost race surfaces as
// ErrConflict and leaves the stored state untouched.
func (s *gormStore) SaveDay(ctx context.Context, day *model.AttendanceDay) error {
	res := s.db.WithContext(ctx).Model(&model.AttendanceDay{}).
		Where("id = ? AND version = ?", day.ID, day.Version).
		Updates(map[string]any{
			"records": day.Records,
			"version": day.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("save attendance day: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("attendance day for user %s on %s: %w", day.UserID, day.Day, ErrConflict)
	}
	day.Version++
	return nil
}

// GetDay fetches the aggregate for (userID, day) without creating it.
func (s *gormStore) GetDay(ctx context.Context, userID, day string) (*model.AttendanceDay, error) {
	var out model.AttendanceDay
	err := s.db.WithContext(ctx).First(&out, "user_id = ? AND day = ?", userID, day).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("attendance for user %s on %s: %w", userID, day, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get attendance day: %w", err)
	}
	return &out, nil
}
