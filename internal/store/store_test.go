package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"attendance-backend/internal/model"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func dayColumns() []string {
	return []string{"id", "user_id", "day", "version", "records", "created_at", "updated_at"}
}

func TestGormStore_UserExists(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE id = $1`)).
		WithArgs("6f1c8f2e-0000-0000-0000-000000000001").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := s.UserExists(context.Background(), "6f1c8f2e-0000-0000-0000-000000000001")
	assert.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE id = $1`)).
		WithArgs("6f1c8f2e-0000-0000-0000-000000000002").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err = s.UserExists(context.Background(), "6f1c8f2e-0000-0000-0000-000000000002")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_ResolveLocation(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	t.Run("known site yields its reference point", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "locations" WHERE name = $1`)).
			WithArgs("HQ", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "latitude", "longitude", "created_at", "updated_at"}).
				AddRow(1, "HQ", 12.9716, 77.5946, time.Now(), time.Now()))

		p, err := s.ResolveLocation(context.Background(), "HQ")
		assert.NoError(t, err)
		assert.Equal(t, 12.9716, p.Latitude)
		assert.Equal(t, 77.5946, p.Longitude)
	})

	t.Run("unknown site is ErrNotFound", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "locations" WHERE name = $1`)).
			WithArgs("Branch", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "latitude", "longitude", "created_at", "updated_at"}))

		_, err := s.ResolveLocation(context.Background(), "Branch")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_LoadOrCreateDay(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)
	userID := "6f1c8f2e-0000-0000-0000-000000000001"

	// Insert races are absorbed by ON CONFLICT DO NOTHING; the existing
	// row wins and is read back.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "attendance_days"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "attendance_days" WHERE user_id = $1 AND day = $2`)).
		WithArgs(userID, "2026-08-28", 1).
		WillReturnRows(sqlmock.NewRows(dayColumns()).
			AddRow(7, userID, "2026-08-28", 3, `[]`, time.Now(), time.Now()))

	day, err := s.LoadOrCreateDay(context.Background(), userID, "2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, int64(7), day.ID)
	assert.Equal(t, int64(3), day.Version)
	assert.Empty(t, day.Records)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_SaveDay(t *testing.T) {
	userID := "6f1c8f2e-0000-0000-0000-000000000001"
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	day := func() *model.AttendanceDay {
		return &model.AttendanceDay{
			ID:      7,
			UserID:  userID,
			Day:     "2026-08-28",
			Version: 3,
			Records: model.IntervalList{{
				CheckInTime: now,
				IsInsideHQ:  true,
				Status:      model.StatusCheckedIn,
			}},
		}
	}

	t.Run("matching version writes and bumps", func(t *testing.T) {
		gormDB, mock := newTestDB(t)
		s := NewGormStore(gormDB)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "attendance_days" SET`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		d := day()
		assert.NoError(t, s.SaveDay(context.Background(), d))
		assert.Equal(t, int64(4), d.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version is ErrConflict and leaves the row alone", func(t *testing.T) {
		gormDB, mock := newTestDB(t)
		s := NewGormStore(gormDB)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "attendance_days" SET`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		d := day()
		err := s.SaveDay(context.Background(), d)
		assert.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, int64(3), d.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStore_GetDay_NotFound(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)
	userID := "6f1c8f2e-0000-0000-0000-000000000001"

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "attendance_days" WHERE user_id = $1 AND day = $2`)).
		WithArgs(userID, "2026-08-27", 1).
		WillReturnRows(sqlmock.NewRows(dayColumns()))

	_, err := s.GetDay(context.Background(), userID, "2026-08-27")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
