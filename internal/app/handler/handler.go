package handler

import (
	"net/http"
	"strings"
	"time"

	"formbackend/internal/app/dto"
	"formbackend/internal/app/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	formKeyPrefix  = "form:"
	draftKeyPrefix = "draft:"
	uploadsPrefix  = "/uploads/"

	submissionsPageSize = 100
)

type Handler struct {
	Deps
	auth     *middleware.AuthMiddleware
	draftTTL time.Duration
	now      func() time.Time
}

func NewHandler(deps Deps, auth *middleware.AuthMiddleware, draftTTL time.Duration) *Handler {
	return &Handler{
		Deps:     deps,
		auth:     auth,
		draftTTL: draftTTL,
		now:      time.Now,
	}
}

type apiFunc func(ctx *gin.Context) error

// wrap turns an error returned by a handler into a 500 with the error message.
func (h *Handler) wrap(fn apiFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := fn(ctx); err != nil {
			logrus.Errorf("Error: %v", err)
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		}
	}
}

// errorHandler logs err (when set) and answers with a fixed client-facing message.
func (h *Handler) errorHandler(ctx *gin.Context, errorStatusCode int, message string, err error) {
	if err != nil {
		logrus.Errorf("%s: %v", message, err)
	}
	ctx.JSON(errorStatusCode, dto.ErrorResponse{Error: message})
}

// logDiscarded records an error the request deliberately carries on without.
func logDiscarded(what string, err error) {
	logrus.Errorf("%s (continuing): %v", what, err)
}

// NotFound answers every unmatched route and method.
func (h *Handler) NotFound(ctx *gin.Context) {
	ctx.String(http.StatusNotFound, "Not Found")
}

// lastSegment returns the id addressed by a catch-all route parameter.
func lastSegment(rest string) string {
	return rest[strings.LastIndex(rest, "/")+1:]
}

func formKey(id string) string  { return formKeyPrefix + id }
func draftKey(id string) string { return draftKeyPrefix + id }
