package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"attendance-backend/internal/attendance"
	"attendance-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	svc     *attendance.Service
	store   store.Store
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(svc *attendance.Service, s store.Store, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		svc:     svc,
		store:   s,
		webpush: webpushOptions,
	}
}

// httpStatus maps the service error taxonomy onto response codes:
// invalid input 400, missing user/location/record 404, exhausted
// conflict retries 503, anything else 500.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, attendance.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
