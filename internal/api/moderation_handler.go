package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lesser-scholar/internal/models"
	"github.com/lesser-scholar/internal/service"
	"github.com/rs/zerolog"
)

// ModerationHandler handles the moderator endpoints
type ModerationHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewModerationHandler creates a new ModerationHandler
func NewModerationHandler(services *service.Services, log zerolog.Logger) *ModerationHandler {
	return &ModerationHandler{
		services: services,
		log:      log.With().Str("handler", "moderation").Logger(),
	}
}

// ByIDRequest is the body of POST /comment_approval/by-id
type ByIDRequest struct {
	Decisions map[string]models.Decision `json:"decisions" binding:"required"`
}

// ListPending handles GET /comment_approval
func (h *ModerationHandler) ListPending(c *gin.Context) {
	pending, err := h.services.Moderation.Pending(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "failed to load pending comments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(pending), "pending": pending})
}

// ApplyDecisions handles POST /comment_approval
// The body is a form whose values, in order, are the decisions for the queue
// as it was listed. Keys are ignored.
func (h *ModerationHandler) ApplyDecisions(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	decisions, err := ParseDecisions(string(body))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.apply(c, func() (*models.ModerationResult, error) {
		return h.services.Moderation.ApplyDecisions(c.Request.Context(), decisions)
	})
}

// ApplyByID handles POST /comment_approval/by-id
func (h *ModerationHandler) ApplyByID(c *gin.Context) {
	var req ByIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "decisions object is required"})
		return
	}

	h.apply(c, func() (*models.ModerationResult, error) {
		return h.services.Moderation.ApplyByID(c.Request.Context(), req.Decisions)
	})
}

func (h *ModerationHandler) apply(c *gin.Context, run func() (*models.ModerationResult, error)) {
	result, err := run()
	if err != nil {
		respondError(c, h.log, err, "failed to apply decisions")
		return
	}

	pending, err := h.services.Moderation.Pending(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "failed to load pending comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  result,
		"pending": pending,
	})
}

// ParseDecisions reads the ordered values of an urlencoded body
func ParseDecisions(body string) ([]models.Decision, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, nil
	}

	pairs := strings.Split(body, "&")
	decisions := make([]models.Decision, 0, len(pairs))
	for i, pair := range pairs {
		_, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("decision %d has no value", i)
		}
		token, err := url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("decision %d: %w", i, err)
		}
		decisions = append(decisions, models.Decision(token))
	}
	return decisions, nil
}
