package pipeline

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/quickai/server/internal/utils/errors"
	"go.uber.org/zap"
)

// Handler exposes the pipeline over HTTP.
type Handler struct {
	pipeline *Pipeline
	logger   *zap.Logger
}

// NewHandler creates a new pipeline handler.
func NewHandler(p *Pipeline, logger *zap.Logger) *Handler {
	return &Handler{pipeline: p, logger: logger}
}

// RegisterRoutes registers AI routes. The group must resolve the caller first.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/generate-article", h.GenerateArticle)
	r.POST("/generate-blog-title", h.GenerateBlogTitle)
	r.POST("/generate-image", h.GenerateImage)
	r.POST("/remove-image-background", h.RemoveImageBackground)
	r.POST("/remove-image-object", h.RemoveImageObject)
	r.POST("/resume-review", h.ReviewResume)
}

// GenerateArticle writes an article.
//
//	@Summary		Generate article
//	@Tags			AI
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		ArticleRequest	true	"Topic and length"
//	@Success		200		{object}	ContentResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/ai/generate-article [post]
func (h *Handler) GenerateArticle(c *gin.Context) {
	var body ArticleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, invalid("Invalid request body"))
		return
	}
	h.run(c, &Request{Kind: KindArticle, Prompt: body.Prompt, Length: body.Length})
}

// GenerateBlogTitle suggests blog titles.
//
//	@Summary		Generate blog titles
//	@Tags			AI
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		PromptRequest	true	"Keyword and category"
//	@Success		200		{object}	ContentResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/ai/generate-blog-title [post]
func (h *Handler) GenerateBlogTitle(c *gin.Context) {
	var body PromptRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, invalid("Invalid request body"))
		return
	}
	h.run(c, &Request{Kind: KindBlogTitle, Prompt: body.Prompt})
}

// GenerateImage synthesizes an image. Premium only.
//
//	@Summary		Generate image
//	@Tags			AI
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		ImageRequest	true	"Prompt and publish flag"
//	@Success		200		{object}	SecureURLResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/ai/generate-image [post]
func (h *Handler) GenerateImage(c *gin.Context) {
	var body ImageRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, invalid("Invalid request body"))
		return
	}
	h.run(c, &Request{Kind: KindImage, Prompt: body.Prompt, Publish: body.Publish})
}

// RemoveImageBackground removes the background of an uploaded image. Premium only.
//
//	@Summary		Remove image background
//	@Tags			AI
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			image	formData	file	true	"Image"
//	@Success		200		{object}	SecureURLResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/ai/remove-image-background [post]
func (h *Handler) RemoveImageBackground(c *gin.Context) {
	h.run(c, &Request{Kind: KindBackgroundRemoval, File: formFile(c, "image")})
}

// RemoveImageObject erases a named object from an uploaded image. Premium only.
//
//	@Summary		Remove object from image
//	@Tags			AI
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			image	formData	file	true	"Image"
//	@Param			object	formData	string	true	"Object to remove"
//	@Success		200		{object}	SecureURLResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/ai/remove-image-object [post]
func (h *Handler) RemoveImageObject(c *gin.Context) {
	h.run(c, &Request{
		Kind:   KindObjectRemoval,
		Object: c.PostForm("object"),
		File:   formFile(c, "image"),
	})
}

// ReviewResume reviews an uploaded PDF resume. Premium only.
//
//	@Summary		Review resume
//	@Tags			AI
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			resume	formData	file	true	"PDF resume, at most 5MB"
//	@Success		200		{object}	ContentResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/ai/resume-review [post]
func (h *Handler) ReviewResume(c *gin.Context) {
	h.run(c, &Request{Kind: KindResumeReview, File: formFile(c, "resume")})
}

func (h *Handler) run(c *gin.Context, req *Request) {
	caller, ok := GetCaller(c)
	if !ok {
		h.respondError(c, apperrors.Unauthorized("Not authenticated"))
		return
	}

	result, err := h.pipeline.Run(c.Request.Context(), caller, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, result.Field: result.Payload})
}

// respondError renders err as a failure envelope.
func (h *Handler) respondError(c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		h.logger.Error("unclassified pipeline error", zap.Error(err))
		appErr = apperrors.Internal("Internal server error", err)
	}

	body := gin.H{"success": false, "message": appErr.Message}
	for k, v := range appErr.Details {
		body[k] = v
	}
	c.JSON(appErr.StatusCode, body)
}

// formFile returns the named upload, or nil when the form has none.
func formFile(c *gin.Context, name string) File {
	fh, err := c.FormFile(name)
	if err != nil {
		return nil
	}
	return MultipartFile(fh)
}
