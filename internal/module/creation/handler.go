package creation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quickai/server/internal/utils/middleware"
	"github.com/quickai/server/internal/utils/pagination"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for creations.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new creation handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers creation routes. The group must already require auth.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/get-user-creations", h.GetUserCreations)
	r.GET("/get-published-creations", h.GetPublishedCreations)
	r.POST("/toggle-like-creation", h.ToggleLike)
}

// GetUserCreations lists the caller's creations.
//
//	@Summary		List my creations
//	@Tags			Creations
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	ListResponse
//	@Failure		500	{object}	MessageResponse
//	@Router			/user/get-user-creations [get]
func (h *Handler) GetUserCreations(c *gin.Context) {
	creations, err := h.service.ListForUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Success: true, Creations: nonNil(creations)})
}

// GetPublishedCreations lists the community feed.
//
//	@Summary		List published creations
//	@Tags			Creations
//	@Produce		json
//	@Security		BearerAuth
//	@Param			page		query		int	false	"Page number"
//	@Param			page_size	query		int	false	"Page size"
//	@Success		200			{object}	ListResponse
//	@Failure		500			{object}	MessageResponse
//	@Router			/user/get-published-creations [get]
func (h *Handler) GetPublishedCreations(c *gin.Context) {
	page := pagination.Parse(c.Query("page"), c.Query("page_size"))
	creations, err := h.service.ListPublished(c.Request.Context(), page)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Success: true, Creations: nonNil(creations)})
}

// ToggleLike likes or unlikes a creation for the caller.
//
//	@Summary		Toggle like
//	@Tags			Creations
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		ToggleLikeRequest	true	"Creation id"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	MessageResponse
//	@Router			/user/toggle-like-creation [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	var req ToggleLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Creation id is required"})
		return
	}

	liked, err := h.service.ToggleLike(c.Request.Context(), middleware.GetUserID(c), req.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	message := "Creation Unliked"
	if liked {
		message = "Creation Liked"
	}
	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: message})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	if errors.Is(err, ErrCreationNotFound) {
		c.JSON(http.StatusOK, MessageResponse{Message: "Creation not found"})
		return
	}

	h.logger.Error("creation request failed",
		zap.String("path", c.FullPath()),
		zap.String("user_id", middleware.GetUserID(c)),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Internal server error"})
}

func nonNil(creations []*Creation) []*Creation {
	if creations == nil {
		return []*Creation{}
	}
	return creations
}
