package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/models"
)

// AuditHandler serves the transition audit trail.
type AuditHandler struct {
	svc domain.AuditService
	log *logrus.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(svc domain.AuditService, log *logrus.Logger) *AuditHandler {
	return &AuditHandler{svc: svc, log: log}
}

// Query handles GET /api/v1/audit.
func (h *AuditHandler) Query(c *gin.Context) {
	opts := models.AuditQueryOpts{
		Action: c.Query("action"),
		Limit:  parseInt(c.Query("limit"), 50),
		Offset: parseOffset(c.Query("offset")),
	}

	if pid := c.Query("property_id"); pid != "" {
		v, err := strconv.ParseInt(pid, 10, 64)
		if err != nil || v <= 0 {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "property_id must be a positive integer")
			return
		}
		opts.PropertyID = v
	}

	if actor := c.Query("actor"); actor != "" {
		id, err := uuid.Parse(actor)
		if err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "actor must be a UUID")
			return
		}
		opts.Actor = id
	}

	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid since format, use RFC3339")
			return
		}
		opts.Since = &t
	}

	entries, hasMore, err := h.svc.QueryAudit(c.Request.Context(), opts)
	if err != nil {
		h.log.WithError(err).Error("failed to query audit log")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "failed to query audit log")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     entries,
		"has_more": hasMore,
	})
}
