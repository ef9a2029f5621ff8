package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lesser-scholar/internal/service"
	"github.com/lesser-scholar/internal/validation"
	"github.com/rs/zerolog"
)

// CommentHandler handles public article and comment endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// GetIndex handles GET /
func (h *CommentHandler) GetIndex(c *gin.Context) {
	index, err := h.services.Comment.Index(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "failed to load index")
		return
	}
	c.JSON(http.StatusOK, index)
}

// GetArticle handles GET /a/:name
func (h *CommentHandler) GetArticle(c *gin.Context) {
	view, err := h.services.Comment.Article(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, h.log, err, "failed to load comments")
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetRecent handles GET /recent
func (h *CommentHandler) GetRecent(c *gin.Context) {
	recent, err := h.services.Comment.Recent(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "failed to load recent activity")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recent": recent})
}

// GetTag handles GET /tag/:name
func (h *CommentHandler) GetTag(c *gin.Context) {
	view, err := h.services.Comment.Tag(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, h.log, err, "failed to load tag")
		return
	}
	c.JSON(http.StatusOK, view)
}

// SubmitComment handles POST /comment/:name
// Accepts form fields author, text and website and queues the comment for moderation
func (h *CommentHandler) SubmitComment(c *gin.Context) {
	name := c.Param("name")
	form := &validation.CommentForm{
		Article: name,
		Author:  c.PostForm("author"),
		Text:    c.PostForm("text"),
		Website: c.PostForm("website"),
	}

	if _, err := h.services.Comment.Submit(c.Request.Context(), form); err != nil {
		respondError(c, h.log, err, "failed to queue comment")
		return
	}

	c.Redirect(http.StatusFound, "/a/"+name)
}
