package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/models"
)

// LeaseHandler serves lease lifecycle endpoints. Every entry point resolves
// the caller from the auth context; record-level authorization happens in
// the service layer.
type LeaseHandler struct {
	svc domain.LeaseService
	log *logrus.Logger
}

// NewLeaseHandler creates a LeaseHandler with the given service and logger.
func NewLeaseHandler(svc domain.LeaseService, log *logrus.Logger) *LeaseHandler {
	return &LeaseHandler{svc: svc, log: log}
}

// Apply handles POST /api/v1/properties/:id/lease/apply.
func (h *LeaseHandler) Apply(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}

	var req models.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	caller := getPartyID(c)
	if caller == uuid.Nil {
		return
	}

	lease, err := h.svc.Apply(c.Request.Context(), caller, id, req)
	if err != nil {
		respondDomainError(c, h.log, "applying for lease", err)

		return
	}

	c.JSON(http.StatusCreated, lease)
}

// Confirm handles POST /api/v1/properties/:id/lease/confirm.
func (h *LeaseHandler) Confirm(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}

	caller := getPartyID(c)
	if caller == uuid.Nil {
		return
	}

	lease, err := h.svc.Confirm(c.Request.Context(), caller, id)
	if err != nil {
		respondDomainError(c, h.log, "confirming lease", err)

		return
	}

	c.JSON(http.StatusOK, lease)
}

// Pay handles POST /api/v1/properties/:id/lease/pay.
func (h *LeaseHandler) Pay(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}

	var req models.PayRentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	caller := getPartyID(c)
	if caller == uuid.Nil {
		return
	}

	lease, err := h.svc.PayRent(c.Request.Context(), caller, id, req)
	if err != nil {
		respondDomainError(c, h.log, "paying rent", err)

		return
	}

	c.JSON(http.StatusOK, lease)
}

// Extend handles POST /api/v1/properties/:id/lease/extend.
func (h *LeaseHandler) Extend(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}

	var req models.ExtendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	caller := getPartyID(c)
	if caller == uuid.Nil {
		return
	}

	lease, err := h.svc.Extend(c.Request.Context(), caller, id, req)
	if err != nil {
		respondDomainError(c, h.log, "extending lease", err)

		return
	}

	c.JSON(http.StatusOK, lease)
}

// Terminate handles POST /api/v1/properties/:id/lease/terminate.
func (h *LeaseHandler) Terminate(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}

	caller := getPartyID(c)
	if caller == uuid.Nil {
		return
	}

	refunded, err := h.svc.Terminate(c.Request.Context(), caller, id)
	if err != nil {
		respondDomainError(c, h.log, "terminating lease", err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"refunded": refunded})
}

// ClaimDefault handles POST /api/v1/properties/:id/lease/claim-default.
func (h *LeaseHandler) ClaimDefault(c *gin.Context) {
	id, ok := parsePropertyID(c)
	if !ok {
		return
	}

	caller := getPartyID(c)
	if caller == uuid.Nil {
		return
	}

	claimed, err := h.svc.ClaimDefault(c.Request.Context(), caller, id)
	if err != nil {
		respondDomainError(c, h.log, "claiming default", err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"claimed": claimed})
}

// Switch handles POST /api/v1/leases/switch: apply to a new property once
// any lease on the old one is no longer active.
func (h *LeaseHandler) Switch(c *gin.Context) {
	var req models.SwitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	caller := getPartyID(c)
	if caller == uuid.Nil {
		return
	}

	lease, err := h.svc.Switch(c.Request.Context(), caller, req)
	if err != nil {
		respondDomainError(c, h.log, "switching lease", err)

		return
	}

	c.JSON(http.StatusCreated, lease)
}
