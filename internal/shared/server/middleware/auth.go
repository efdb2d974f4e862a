package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/shared/server/respond"
)

const customerIDKey = "customerId"

// APIKeyHeader carries the tenant credential on authenticated routes.
const APIKeyHeader = "X-API-Key"

// ErrUnavailable signals the identity store could not answer in time.
// Authenticators return it to get a retryable 503 instead of a 401.
var ErrUnavailable = errors.New("identity store unavailable")

// ErrUnknownKey signals the API key does not belong to any customer.
// Only this error produces a 401; anything else is a server fault.
var ErrUnknownKey = errors.New("unknown API key")

// AuthenticateFunc resolves an API key to a customer ID.
type AuthenticateFunc func(ctx context.Context, apiKey string) (string, error)

// APIKeyAuth validates the X-API-Key header and stores the customer ID in context.
func APIKeyAuth(authenticate AuthenticateFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		apiKey := strings.TrimSpace(c.GetHeader(APIKeyHeader))
		if apiKey == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing API key", nil)
			return
		}

		customerID, err := authenticate(c.Request.Context(), apiKey)
		if err != nil {
			switch {
			case errors.Is(err, ErrUnknownKey):
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid API key", nil)
			case errors.Is(err, ErrUnavailable):
				respond.Error(c, http.StatusServiceUnavailable, "unavailable", "identity store unavailable, retry later", nil)
			default:
				respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to authenticate request", nil)
			}
			return
		}

		c.Set(customerIDKey, customerID)
		c.Next()
	}
}

// CustomerIDFromContext fetches the customer ID set by the auth middleware.
func CustomerIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(customerIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
