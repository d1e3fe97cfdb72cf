package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rentora/rentora/internal/httputil"
	"github.com/rentora/rentora/internal/metrics"
	"github.com/rentora/rentora/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeNotFound        = "not_found"
	ErrCodeInternalError   = "internal_error"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeForbidden       = "forbidden"
	ErrCodeConflict        = "conflict"
	ErrCodePaymentRequired = "payment_required"
	ErrCodeTooEarly        = "too_early"
	ErrCodeRateLimited     = "rate_limited"
	ErrCodeValidationError = "validation_error"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondDomainError maps a domain error to its HTTP status and error code.
// Unclassified errors are logged and reported as 500.
func respondDomainError(c *gin.Context, log *logrus.Logger, op string, err error) {
	switch {
	case errors.Is(err, models.ErrPropertyNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "property not found")
	case errors.Is(err, models.ErrLeaseNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "lease not found")
	case errors.Is(err, models.ErrDuplicateKey):
		respondError(c, http.StatusConflict, ErrCodeConflict, "record already exists")
	default:
		respondDomainKind(c, log, op, err)
	}
}

func respondDomainKind(c *gin.Context, log *logrus.Logger, op string, err error) {
	switch models.KindOf(err) {
	case models.KindValidation:
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
	case models.KindAuthorization:
		respondError(c, http.StatusForbidden, ErrCodeForbidden, err.Error())
	case models.KindState:
		respondError(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case models.KindPayment:
		respondError(c, http.StatusPaymentRequired, ErrCodePaymentRequired, err.Error())
	case models.KindTiming:
		respondError(c, http.StatusConflict, ErrCodeTooEarly, err.Error())
	default:
		log.WithError(err).Error(op)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
