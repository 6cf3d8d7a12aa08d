package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/missionmap/tileserver/internal/repository/store"
)

// tileParam parses one path segment as an integer, tolerating a trailing
// file extension ("5678.png" -> 5678) like the renderer sends.
func tileParam(v string) (int, error) {
	if i := strings.IndexByte(v, '.'); i >= 0 {
		v = v[:i]
	}
	return strconv.Atoi(v)
}

func (h *Handler) Tile(c *gin.Context) {
	l := requestLogger(c)

	source := c.Param("source")
	strZ := c.Param("z")
	strX := c.Param("x")
	strY := c.Param("y")

	z, err := tileParam(strZ)
	if err != nil {
		l.Warn("invalid z parameter", "z", strZ, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "z should be integer",
		})
		return
	}

	x, err := tileParam(strX)
	if err != nil {
		l.Warn("invalid x parameter", "x", strX, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "x should be integer",
		})
		return
	}

	y, err := tileParam(strY)
	if err != nil {
		l.Warn("invalid y parameter", "y", strY, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "y should be integer",
		})
		return
	}

	key := store.NewKey(source, z, x, y)

	data, err := h.tileUseCase.GetTile(c.Request.Context(), key)
	if err != nil {
		// Unknown source and upstream failures both present as a missing
		// tile; the renderer shows a blank square and the next request
		// retries.
		l.Warn("tile not found", "key", key.String(), "error", err)
		c.Status(http.StatusNotFound)
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}
