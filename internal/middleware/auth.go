package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/httputil"
)

// authTimingFloor pads rejected auth responses so a caller cannot tell a
// well-formed but unknown key apart from a malformed one by latency.
const authTimingFloor = 50 * time.Millisecond

// PartyIDKey is the gin context key holding the authenticated party ID.
const PartyIDKey = "party_id"

// AuthMiddleware authenticates requests by Bearer API key and stores the
// resolved party ID on the context. When a BruteForceGuard is supplied,
// failures count toward its lockout and successes clear it.
func AuthMiddleware(lookup domain.PartyLookup, log *logrus.Logger, guards ...*BruteForceGuard) gin.HandlerFunc {
	var guard *BruteForceGuard
	if len(guards) > 0 {
		guard = guards[0]
	}

	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if c.Writer.Status() != http.StatusUnauthorized {
				return
			}
			if pad := authTimingFloor - time.Since(start); pad > 0 {
				time.Sleep(pad)
			}
		}()

		apiKey := ExtractBearerToken(c)
		if apiKey == "" {
			httputil.RespondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization header")

			return
		}

		partyID, err := lookup.GetPartyByAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			if guard != nil {
				guard.RecordFailure(apiKey)
			}

			log.WithFields(logrus.Fields{
				"client_ip":  c.ClientIP(),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
				"user_agent": c.Request.UserAgent(),
				"request_id": RequestIDFrom(c),
				"key_prefix": keyPrefix(apiKey),
			}).Warn("rejected api key")

			httputil.RespondError(c, http.StatusUnauthorized, "unauthorized", "invalid api key")

			return
		}

		if guard != nil {
			guard.ResetKey(apiKey)
		}

		c.Set(PartyIDKey, partyID)
		c.Next()
	}
}

// ExtractBearerToken returns the API key from the Authorization header, or
// "" when the header is absent or not a Bearer scheme.
func ExtractBearerToken(c *gin.Context) string {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		return ""
	}

	return token
}

// keyPrefix keeps just enough of a key to correlate log lines.
func keyPrefix(key string) string {
	if len(key) <= 4 {
		return key
	}

	return key[:4] + "..."
}
