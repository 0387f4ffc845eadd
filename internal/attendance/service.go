package attendance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"attendance-backend/internal/geo"
	"attendance-backend/internal/model"
	"attendance-backend/internal/notification"
	"attendance-backend/internal/store"
)

// ErrInvalidInput marks malformed identifiers and dates. The API layer
// maps it to a 400 response.
var ErrInvalidInput = errors.New("invalid input")

// Summary is the caller-facing result of one location update. The
// pointer fields stay nil when the day has no intervals yet.
type Summary struct {
	Message      string     `json:"message"`
	CheckInTime  *time.Time `json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime"`
	WorkingHours *float64   `json:"workingHours"`
}

// MessageNoRecord is returned when a sample produced no interval at all.
const MessageNoRecord = "Location Updated Successfully"

// Options configures a Service.
type Options struct {
	// Timezone names the zone whose midnight bounds a calendar day.
	Timezone string
	// GeofenceRadiusMeters is the containment radius around a site's
	// reference point. A sample exactly on the boundary is inside.
	GeofenceRadiusMeters float64
	// ConflictRetries bounds how often a load-apply-persist cycle is
	// repeated after an optimistic version conflict.
	ConflictRetries int
	// ReferenceTTL bounds how long a resolved site reference point may
	// be served from the in-process cache.
	ReferenceTTL time.Duration
}

// Service orchestrates location updates and historical queries. One
// instance is shared across requests; all mutable state lives in the
// store, keyed per (user, day).
type Service struct {
	store      store.Store
	classifier geo.Classifier
	zone       *time.Location
	retries    int
	refCache   *cache.Cache
	pool       *notification.WorkerPool
}

// NewService creates a Service. pool may be nil when push notifications
// are not configured.
func NewService(st store.Store, pool *notification.WorkerPool, opts Options) (*Service, error) {
	zone, err := time.LoadLocation(opts.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", opts.Timezone, err)
	}
	ttl := opts.ReferenceTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Service{
		store:      st,
		classifier: geo.NewClassifier(opts.GeofenceRadiusMeters),
		zone:       zone,
		retries:    opts.ConflictRetries,
		refCache:   cache.New(ttl, 2*ttl),
		pool:       pool,
	}, nil
}

// RecordLocation handles one inbound location sample: classify it
// against the named site's geofence and fold the verdict into today's
// aggregate. The load-apply-persist cycle is retried on version
// conflicts so concurrent pings for the same user serialize.
func (s *Service) RecordLocation(ctx context.Context, userID string, sample geo.Point, locationName string, now time.Time) (Summary, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return Summary{}, fmt.Errorf("%w: user id %q", ErrInvalidInput, userID)
	}
	if locationName == "" {
		return Summary{}, fmt.Errorf("%w: location name is required", ErrInvalidInput)
	}

	exists, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("check user %s: %w", userID, err)
	}
	if !exists {
		return Summary{}, fmt.Errorf("user %s: %w", userID, store.ErrNotFound)
	}

	ref, err := s.referencePoint(ctx, locationName)
	if err != nil {
		return Summary{}, err
	}

	inside := s.classifier.IsInside(sample, ref)
	dayKey := model.DayKey(now, s.zone)

	var result model.Interval
	var changed bool
	for attempt := 0; ; attempt++ {
		day, err := s.store.LoadOrCreateDay(ctx, userID, dayKey)
		if err != nil {
			return Summary{}, fmt.Errorf("load attendance day: %w", err)
		}

		// Samples may carry client timestamps; one that predates the
		// day's latest recorded instant would fold in out of order.
		if last := day.Last(); last != nil {
			latest := last.CheckInTime
			if last.CheckOutTime != nil {
				latest = *last.CheckOutTime
			}
			if now.Before(latest) {
				return Summary{}, fmt.Errorf("%w: timestamp %s precedes the last recorded event at %s",
					ErrInvalidInput, now.Format(time.RFC3339), latest.Format(time.RFC3339))
			}
		}

		result, changed = Apply(day, inside, now, sample)
		if !changed {
			// Nothing to persist; the stored state already reflects
			// this verdict.
			break
		}

		err = s.store.SaveDay(ctx, day)
		if err == nil {
			break
		}
		if errors.Is(err, store.ErrConflict) && attempt < s.retries {
			log.Printf("attendance: version conflict for user %s on %s, retrying (%d/%d)", userID, dayKey, attempt+1, s.retries)
			continue
		}
		return Summary{}, err
	}

	if changed && s.pool != nil {
		s.pool.Dispatch(notification.Event{UserID: userID, Status: result.Status})
	}

	return summarize(result), nil
}

// GetDetails returns the full interval sequence for one user-day.
// Working hours are recomputed for every closed interval instead of
// trusting the stored value, so legacy records stay consistent with the
// current calculator.
func (s *Service) GetDetails(ctx context.Context, userID, date string) ([]model.Interval, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("%w: user id %q", ErrInvalidInput, userID)
	}
	if _, err := time.ParseInLocation(model.DayKeyLayout, date, s.zone); err != nil {
		return nil, fmt.Errorf("%w: date %q", ErrInvalidInput, date)
	}

	day, err := s.store.GetDay(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	records := make([]model.Interval, len(day.Records))
	copy(records, day.Records)
	for i := range records {
		if records[i].CheckOutTime != nil {
			hours := WorkingHours(records[i].CheckInTime, *records[i].CheckOutTime)
			records[i].WorkingHours = &hours
		} else {
			records[i].WorkingHours = nil
		}
	}
	return records, nil
}

// referencePoint resolves a site name to its reference point, serving
// repeat lookups from the in-process cache. Misses are not cached so a
// newly registered site is picked up immediately.
func (s *Service) referencePoint(ctx context.Context, name string) (geo.Point, error) {
	if v, ok := s.refCache.Get(name); ok {
		return v.(geo.Point), nil
	}
	p, err := s.store.ResolveLocation(ctx, name)
	if err != nil {
		return geo.Point{}, err
	}
	s.refCache.Set(name, p, cache.DefaultExpiration)
	return p, nil
}

func summarize(iv model.Interval) Summary {
	if iv.Status == "" {
		return Summary{Message: MessageNoRecord}
	}
	checkIn := iv.CheckInTime
	return Summary{
		Message:      iv.Status,
		CheckInTime:  &checkIn,
		CheckOutTime: iv.CheckOutTime,
		WorkingHours: iv.WorkingHours,
	}
}
