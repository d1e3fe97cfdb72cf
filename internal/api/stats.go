package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rentora/rentora/internal/dbpool"
	"github.com/rentora/rentora/internal/escrow"
	"github.com/rentora/rentora/internal/metrics"
)

// StatsHandler serves the registry statistics endpoint.
type StatsHandler struct {
	pool   *dbpool.Pool
	ledger *escrow.Ledger
	log    *logrus.Logger
}

// NewStatsHandler creates a StatsHandler with the given dependencies.
func NewStatsHandler(pool *dbpool.Pool, ledger *escrow.Ledger, log *logrus.Logger) *StatsHandler {
	return &StatsHandler{pool: pool, ledger: ledger, log: log}
}

// statsResponse is the JSON payload returned by the stats endpoint.
type statsResponse struct {
	Properties    int   `json:"properties"`
	Leased        int   `json:"leased"`
	ActiveLeases  int   `json:"active_leases"`
	PendingLeases int   `json:"pending_leases"`
	EscrowHeld    int64 `json:"escrow_held"`
	AuditEntries  int   `json:"audit_entries"`
}

// GetStats handles GET /api/v1/stats. It returns aggregate registry statistics.
func (h *StatsHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	var resp statsResponse

	// Single consolidated query for all counts.
	if err := h.pool.QueryRow(ctx,
		`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE leased),
			(SELECT COUNT(*) FROM leases WHERE state = 'active'),
			(SELECT COUNT(*) FROM leases WHERE state = 'pending'),
			(SELECT COUNT(*) FROM audit_log)
		 FROM properties`,
	).Scan(
		&resp.Properties, &resp.Leased,
		&resp.ActiveLeases, &resp.PendingLeases,
		&resp.AuditEntries,
	); err != nil {
		h.log.WithError(err).Error("stats: consolidated query")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	resp.EscrowHeld = h.ledger.HeldTotal()

	// Update Prometheus gauges with fresh counts.
	metrics.PropertiesTotal.Set(float64(resp.Properties))
	metrics.EscrowHeld.Set(float64(resp.EscrowHeld))

	c.JSON(http.StatusOK, resp)
}
