package account

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quickai/server/internal/module/pipeline"
	"github.com/quickai/server/internal/utils/middleware"
	"github.com/quickai/server/internal/utils/requestctx"
	"go.uber.org/zap"
)

// CallerResolver resolves a user id into a caller.
type CallerResolver interface {
	Resolve(ctx context.Context, userID string) (pipeline.Caller, error)
}

// Entitlement resolves the authenticated user's plan and usage and stores
// them on the request. It must run after the auth middleware.
func Entitlement(resolver CallerResolver, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Not authenticated",
			})
			return
		}

		ctx := requestctx.WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)

		caller, err := resolver.Resolve(ctx, userID)
		if err != nil {
			logger.Error("failed to resolve entitlement",
				append(requestctx.LogFields(ctx), zap.Error(err))...,
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Internal server error",
			})
			return
		}

		pipeline.SetCaller(c, caller)
		c.Next()
	}
}
