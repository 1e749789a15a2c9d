package billing

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/quickai/server/internal/utils/errors"
	"github.com/quickai/server/internal/utils/middleware"
	"go.uber.org/zap"
)

const maxWebhookBytes = 64 << 10

// CheckoutResponse carries the hosted checkout URL.
type CheckoutResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

// Handler handles billing requests.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new billing handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers routes that require authentication.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/checkout", h.CreateCheckout)
}

// RegisterWebhookRoutes registers the Stripe webhook. It must not require auth.
func (h *Handler) RegisterWebhookRoutes(r *gin.RouterGroup) {
	r.POST("/webhook", h.HandleWebhook)
}

// CreateCheckout starts a premium checkout.
//
//	@Summary		Upgrade to premium
//	@Tags			Billing
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	CheckoutResponse
//	@Failure		503	{object}	map[string]any
//	@Router			/billing/checkout [post]
func (h *Handler) CreateCheckout(c *gin.Context) {
	userID := middleware.GetUserID(c)
	url, err := h.service.CreateCheckout(c.Request.Context(), userID, middleware.GetEmail(c))
	if err != nil {
		if appErr, ok := apperrors.As(err); ok {
			c.JSON(appErr.StatusCode, gin.H{"success": false, "message": appErr.Message})
			return
		}
		h.logger.Error("failed to create checkout", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, CheckoutResponse{Success: true, URL: url})
}

// HandleWebhook receives Stripe events.
//
//	@Summary		Stripe webhook
//	@Tags			Billing
//	@Accept			json
//	@Produce		json
//	@Param			Stripe-Signature	header		string	true	"Stripe signature"
//	@Success		200					{object}	map[string]any
//	@Failure		400					{object}	map[string]any
//	@Router			/billing/webhook [post]
func (h *Handler) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	err = h.service.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"received": true})
	case errors.Is(err, ErrInvalidSignature):
		h.logger.Warn("invalid webhook signature", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
	default:
		h.logger.Error("failed to process webhook", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
	}
}
