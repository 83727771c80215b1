package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/contractor-scheduler/internal/auth"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/contractor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/contractor-scheduler/internal/logger"
)

const ContextPrincipal = "principal"

// PrincipalResolver loads the caller's current identity from the store.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID uuid.UUID) (access.Principal, error)
}

// AuthMiddleware verifies the bearer token and resolves the principal on
// every request, so contractor and subscription changes apply immediately.
func AuthMiddleware(tokens *auth.Tokens, resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Expected a bearer token")
			c.Abort()
			return
		}

		userID, err := tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Invalid or expired token")
			c.Abort()
			return
		}

		p, err := resolver.ResolvePrincipal(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				httperr.Unauthorized(c, "unknown_user", "Token refers to an unknown user")
				c.Abort()
				return
			}
			logger.FromGin(c).Error("resolve principal", zap.Error(err))
			httperr.Internal(c, "internal_error", "Could not authenticate request")
			c.Abort()
			return
		}

		c.Set(ContextPrincipal, p)
		c.Set(logger.ContextLogger, logger.FromGin(c).With(zap.String("user_id", userID.String())))

		c.Next()
	}
}

// Principal returns the caller resolved by AuthMiddleware.
func Principal(c *gin.Context) access.Principal {
	return c.MustGet(ContextPrincipal).(access.Principal)
}
