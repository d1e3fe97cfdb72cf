package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/middleware"
	"github.com/rentora/rentora/internal/ws"
)

// getPartyID extracts the authenticated party ID from the Gin context.
// Returns uuid.Nil (after writing an error response) if it is missing.
func getPartyID(c *gin.Context) uuid.UUID {
	v, exists := c.Get(middleware.PartyIDKey)
	if !exists {
		respondError(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing authentication")

		return uuid.Nil
	}

	id, ok := v.(uuid.UUID)
	if !ok || id == uuid.Nil {
		respondError(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid party id")

		return uuid.Nil
	}

	return id
}

// parsePropertyID parses the :id path parameter as a positive int64.
func parsePropertyID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "property id must be a positive integer")

		return 0, false
	}

	return id, true
}

func wsHandler(appCtx context.Context, log *logrus.Logger, hub *ws.Hub, corsOrigins []string, lookup domain.PartyLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		partyID := getPartyID(c)
		if partyID == uuid.Nil {
			return
		}

		// Extract the raw API key for periodic re-validation.
		apiKey := middleware.ExtractBearerToken(c)

		// CORS origins are reused as WebSocket origin patterns. The config
		// validator ensures these are safe host patterns (no wildcards etc.).
		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
			OriginPatterns:       corsOrigins,
			CompressionMode:      websocket.CompressionContextTakeover,
			CompressionThreshold: 128,
		})
		if err != nil {
			log.WithError(err).Error("websocket accept failed")

			return
		}

		client := ws.NewClient(hub, conn, lookup, partyID.String(), apiKey)
		hub.Register(client)

		// Derive a context that cancels when either the server shuts down or the request ends.
		wsCtx, wsCancel := context.WithCancel(appCtx)
		go func() {
			select {
			case <-c.Request.Context().Done():
				wsCancel()
			case <-wsCtx.Done():
			}
		}()

		go client.WritePump(wsCtx)
		client.ReadPump(wsCtx)
		wsCancel()
	}
}

func ginLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}
		if rid, exists := c.Get(middleware.RequestIDKey); exists {
			fields["request_id"] = rid
		}
		if pid, exists := c.Get(middleware.PartyIDKey); exists {
			fields["party_id"] = pid
		}
		log.WithFields(fields).Info("request")
	}
}

// maxPaginationLimit caps the maximum number of items per page.
const maxPaginationLimit = 1000

// maxPaginationOffset caps the maximum offset for paginated queries.
const maxPaginationOffset = 100000

func parseInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fallback
	}

	if v > maxPaginationLimit {
		return maxPaginationLimit
	}

	return v
}

func parseOffset(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0
	}

	if v > maxPaginationOffset {
		return maxPaginationOffset
	}

	return v
}
