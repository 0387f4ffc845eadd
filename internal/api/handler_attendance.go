package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"attendance-backend/internal/geo"
)

type recordLocationRequest struct {
	UserID    string     `json:"userId" binding:"required"`
	Latitude  *float64   `json:"latitude" binding:"required"`
	Longitude *float64   `json:"longitude" binding:"required"`
	Name      string     `json:"name" binding:"required"`
	Timestamp *time.Time `json:"timestamp"`
}

// RecordLocation handles the POST /api/attendance/location request:
// one geolocation sample for one user.
func (h *Handler) RecordLocation(c *gin.Context) {
	var req recordLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	if req.Timestamp != nil {
		now = *req.Timestamp
	}

	sample := geo.Point{Latitude: *req.Latitude, Longitude: *req.Longitude}
	summary, err := h.svc.RecordLocation(c.Request.Context(), req.UserID, sample, req.Name, now)
	if err != nil {
		c.JSON(httpStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetAttendanceDetails handles the GET /api/attendance/details request
// for one user's interval sequence on one calendar date.
func (h *Handler) GetAttendanceDetails(c *gin.Context) {
	userID := c.Query("userId")
	date := c.Query("date")
	if userID == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and date are required"})
		return
	}

	records, err := h.svc.GetDetails(c.Request.Context(), userID, date)
	if err != nil {
		c.JSON(httpStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}
