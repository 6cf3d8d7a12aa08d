package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CacheStats(c *gin.Context) {
	stats, err := h.tileUseCase.CacheStats()
	if err != nil {
		h.RespondWithInternalServerError(c)
		return
	}

	h.RespondWithJSON(c, http.StatusOK, "cache statistics", gin.H{
		"tile_count":       stats.TileCount,
		"total_size_bytes": stats.TotalBytes,
		"total_size_mb":    float64(stats.TotalBytes) / (1024 * 1024),
	})
}
