package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"attendance-backend/internal/model"
)

type createUserRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	ContactNumber string `json:"contactNumber"`
	CompanyID     string `json:"companyId"`
}

// CreateUser handles the POST /api/users request, registering a user
// directory entry.
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := model.User{
		Name:          req.Name,
		Email:         req.Email,
		ContactNumber: req.ContactNumber,
		CompanyID:     req.CompanyID,
	}
	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

type putLocationRequest struct {
	Name      string   `json:"name" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// PutLocation handles the PUT /api/locations request, creating or
// moving a named site's reference point.
func (h *Handler) PutLocation(c *gin.Context) {
	var req putLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc := model.Location{
		Name:      req.Name,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	}
	if err := h.store.UpsertLocation(c.Request.Context(), &loc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save location"})
		return
	}

	c.JSON(http.StatusOK, loc)
}

// ListLocations handles the GET /api/locations request.
func (h *Handler) ListLocations(c *gin.Context) {
	locs, err := h.store.ListLocations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve locations"})
		return
	}

	c.JSON(http.StatusOK, locs)
}
