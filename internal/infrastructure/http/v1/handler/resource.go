package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// contentTypes is the whitelist of static resources the map page needs.
var contentTypes = map[string]string{
	".js":  "application/javascript",
	".css": "text/css",
	".png": "image/png",
}

func (h *Handler) Resource(c *gin.Context) {
	l := requestLogger(c)

	rel := strings.TrimPrefix(c.Param("filepath"), "/")

	contentType, ok := contentTypes[filepath.Ext(rel)]
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	full := filepath.Join(h.resourceRoot, filepath.Clean("/"+rel))

	// The cleaned path must still live under the resource root.
	if relBack, err := filepath.Rel(h.resourceRoot, full); err != nil ||
		relBack == ".." || strings.HasPrefix(relBack, ".."+string(filepath.Separator)) {
		l.Warn("resource path escapes root", "path", rel)
		c.Status(http.StatusNotFound)
		return
	}

	data, err := os.ReadFile(full)
	if err != nil {
		l.Debug("resource not found", "path", rel, "error", err)
		c.Status(http.StatusNotFound)
		return
	}

	c.Data(http.StatusOK, contentType, data)
}
