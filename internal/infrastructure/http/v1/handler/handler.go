package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/missionmap/tileserver/internal/usecase"
	"github.com/missionmap/tileserver/pkg/logger"
)

const (
	internalServerErrorText = "the server encountered an error and could not process your request"
)

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type Handler struct {
	validate        *validator.Validate
	tileUseCase     *usecase.TileUseCase
	prefetchUseCase *usecase.PrefetchUseCase
	resourceRoot    string
}

func NewHandler(v *validator.Validate, tileUC *usecase.TileUseCase, prefetchUC *usecase.PrefetchUseCase, resourceRoot string) *Handler {
	return &Handler{
		validate:        v,
		tileUseCase:     tileUC,
		prefetchUseCase: prefetchUC,
		resourceRoot:    resourceRoot,
	}
}

// requestLogger returns the logger the middleware put on the context,
// falling back to a no-op so a handler never panics over missing wiring.
func requestLogger(c *gin.Context) logger.Logger {
	if v, ok := c.Get("logger"); ok {
		if l, ok := v.(logger.Logger); ok {
			return l
		}
	}
	return logger.NewNop()
}

func (h *Handler) RespondWithInternalServerError(c *gin.Context) {
	h.RespondWithJSON(c, http.StatusInternalServerError, internalServerErrorText, nil)
}

func (h *Handler) RespondWithJSON(c *gin.Context, code int, message string, data any) {
	success := code < 400

	r := response{
		Success: success,
		Message: message,
		Data:    data,
	}

	c.JSON(code, r)
}
