package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/models"
)

// AdminHandler serves administrative configuration endpoints.
type AdminHandler struct {
	svc domain.AdminService
	log *logrus.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(svc domain.AdminService, log *logrus.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, log: log}
}

// configResponse is the JSON payload returned by GET /admin/config.
type configResponse struct {
	GracePeriodSeconds int64 `json:"grace_period_seconds"`
	DepositMultiplier  int   `json:"deposit_multiplier"`
	MonthSeconds       int64 `json:"month_seconds"`
}

// GetConfig handles GET /api/v1/admin/config.
func (h *AdminHandler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, configResponse{
		GracePeriodSeconds: int64(h.svc.GracePeriod().Seconds()),
		DepositMultiplier:  models.DepositMultiplier,
		MonthSeconds:       int64(models.MonthInterval.Seconds()),
	})
}

// gracePeriodRequest is the payload for updating the grace period.
type gracePeriodRequest struct {
	Seconds int64 `json:"seconds"`
}

// SetGracePeriod handles PUT /api/v1/admin/grace-period.
func (h *AdminHandler) SetGracePeriod(c *gin.Context) {
	var req gracePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	caller := getPartyID(c)
	if caller == uuid.Nil {
		return
	}

	if err := h.svc.SetGracePeriod(c.Request.Context(), caller, req.Seconds); err != nil {
		respondDomainError(c, h.log, "setting grace period", err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"grace_period_seconds": req.Seconds})
}
