package account

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quickai/server/internal/module/pipeline"
)

// MeResponse describes the caller's plan and usage.
type MeResponse struct {
	Success   bool   `json:"success"`
	UserID    string `json:"user_id"`
	Plan      string `json:"plan"`
	FreeUsage int    `json:"free_usage"`
	FreeLimit int    `json:"free_limit"`
}

// Handler handles account requests.
type Handler struct {
	service *Service
}

// NewHandler creates a new account handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers account routes on a group that runs Entitlement.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/me", h.Me)
}

// Me returns the caller's plan and free usage.
//
//	@Summary		Current plan and usage
//	@Tags			Account
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	MeResponse
//	@Failure		401	{object}	map[string]any
//	@Router			/user/me [get]
func (h *Handler) Me(c *gin.Context) {
	caller, ok := pipeline.GetCaller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, MeResponse{
		Success:   true,
		UserID:    caller.UserID,
		Plan:      string(caller.Plan),
		FreeUsage: caller.FreeUsage,
		FreeLimit: h.service.FreeLimit(),
	})
}
