package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/missionmap/tileserver/internal/infrastructure/http/v1/dto"
	"github.com/missionmap/tileserver/internal/usecase"
)

func (h *Handler) Prefetch(c *gin.Context) {
	l := requestLogger(c)

	var req dto.PrefetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body",
		})
		return
	}

	if req.Source == "" {
		req.Source = "TOPO"
	}

	if err := h.validate.Struct(req); err != nil {
		l.Warn("invalid prefetch request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	region := usecase.Region{
		Source:    strings.ToUpper(req.Source),
		CenterLat: req.CenterLat,
		CenterLon: req.CenterLon,
		ZoomMin:   req.ZoomMin,
		ZoomMax:   req.ZoomMax,
		Radius:    req.Radius,
	}

	candidates := len(usecase.EnumerateKeys(region))

	// The pass outlives the request; run it on the background context.
	go h.prefetchUseCase.PrefetchRegion(context.Background(), region)

	h.RespondWithJSON(c, http.StatusAccepted, "prefetch started", dto.PrefetchResponse{
		Source:     region.Source,
		Candidates: candidates,
	})
}
