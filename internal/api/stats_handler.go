package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lesser-scholar/internal/config"
	"github.com/lesser-scholar/internal/service"
	"github.com/rs/zerolog"
)

// StatsHandler handles the access statistics endpoint
type StatsHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *StatsHandler {
	return &StatsHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "stats").Logger(),
	}
}

// GetStats handles GET /stats
// Compacts any completed day not yet summarized, so the first call after a
// day ends may take a while.
func (h *StatsHandler) GetStats(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, h.cfg.Server.WriteTimeout)
	defer cancel()

	stats, err := h.services.Stats.Stats(ctx)
	if err != nil {
		respondError(c, h.log, err, "failed to compute statistics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(stats),
		"stats": stats,
	})
}
