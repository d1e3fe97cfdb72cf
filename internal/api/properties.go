// Package api provides HTTP handlers for the lease registry.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/models"
)

// PropertyHandler serves property registry endpoints.
type PropertyHandler struct {
	svc domain.PropertyService
	log *logrus.Logger
}

// NewPropertyHandler creates a PropertyHandler with the given service and logger.
func NewPropertyHandler(svc domain.PropertyService, log *logrus.Logger) *PropertyHandler {
	return &PropertyHandler{svc: svc, log: log}
}

// Create handles POST /api/v1/properties.
func (h *PropertyHandler) Create(c *gin.Context) {
	var req models.MintPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	caller := getPartyID(c)
	if caller == uuid.Nil {
		return
	}

	prop, err := h.svc.MintProperty(c.Request.Context(), caller, req)
	if err != nil {
		respondDomainError(c, h.log, "minting property", err)

		return
	}

	c.JSON(http.StatusCreated, prop)
}

// Get handles GET /api/v1/properties/:id. The response carries the property
// and, when one exists, its lease record.
func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}

	prop, lease, err := h.svc.GetProperty(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, h.log, "getting property", err)

		return
	}

	resp := gin.H{"property": prop}
	if lease != nil {
		resp["lease"] = lease
	}

	c.JSON(http.StatusOK, resp)
}

// List handles GET /api/v1/properties.
func (h *PropertyHandler) List(c *gin.Context) {
	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	properties, hasMore, err := h.svc.ListProperties(c.Request.Context(), limit, offset)
	if err != nil {
		h.log.WithError(err).Error("listing properties")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"properties": properties, "has_more": hasMore})
}

// conditionRequest is the payload for reporting a new wear score.
type conditionRequest struct {
	Condition int `json:"condition"`
}

// UpdateCondition handles PUT /api/v1/properties/:id/condition.
func (h *PropertyHandler) UpdateCondition(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}

	var req conditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	caller := getPartyID(c)
	if caller == uuid.Nil {
		return
	}

	prop, err := h.svc.UpdateCondition(c.Request.Context(), caller, id, req.Condition)
	if err != nil {
		respondDomainError(c, h.log, "updating property condition", err)

		return
	}

	c.JSON(http.StatusOK, prop)
}

// Quote handles GET /api/v1/properties/:id/quote. Pricing inputs arrive as
// query parameters; no state changes.
func (h *PropertyHandler) Quote(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}

	duration := parseInt(c.Query("duration_months"), 0)
	if duration == 0 {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "duration_months is required")

		return
	}

	userScore := parseOffset(c.DefaultQuery("user_score", "0"))
	currentUsage := int64(parseOffset(c.DefaultQuery("current_usage", "0")))
	usageCap := int64(parseOffset(c.DefaultQuery("usage_cap", "0")))

	quote, err := h.svc.Quote(c.Request.Context(), id, duration, userScore, currentUsage, usageCap)
	if err != nil {
		respondDomainError(c, h.log, "computing quote", err)

		return
	}

	c.JSON(http.StatusOK, quote)
}
