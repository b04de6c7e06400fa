// internal/handler/log.go

package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orgoj/logemit/internal/logger"
	"github.com/orgoj/logemit/internal/validation"
)

// LogRequestBody defines the structure for the /log endpoint request body
type LogRequestBody struct {
	Level   string `json:"level" binding:"required"`
	Target  string `json:"target" binding:"required"`
	Message string `json:"message"`
	File    string `json:"file"`
	Line    int    `json:"line" binding:"gte=0"`
}

// LogHandlerDependencies holds dependencies for the log handler
type LogHandlerDependencies struct {
	Emitter     logger.Emitter
	MaxBodySize int64
}

// NewLogHandler creates a Gin handler function for the /log endpoint. Accepted
// records are handed to the emitter synchronously and answered with 204.
func NewLogHandler(deps LogHandlerDependencies) gin.HandlerFunc {
	if deps.Emitter == nil {
		panic("LogHandler requires a non-nil Emitter")
	}

	return func(ctx *gin.Context) {
		// Limit request body size BEFORE parsing JSON
		if deps.MaxBodySize > 0 {
			ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, deps.MaxBodySize)
		}

		var reqBody LogRequestBody
		if err := ctx.ShouldBindJSON(&reqBody); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				logger.Warnf("handler", "request body from IP %s exceeds %d bytes", ctx.ClientIP(), tooLarge.Limit)
				ctx.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
				return
			}
			logger.Warnf("handler", "JSON binding error for IP %s: %v", ctx.ClientIP(), err)
			ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		level, err := logger.ParseLevel(reqBody.Level)
		if err != nil || level == logger.Off {
			logger.Debugf("handler", "invalid level '%s' from IP %s", reqBody.Level, ctx.ClientIP())
			ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid level"})
			return
		}
		if err := validation.IsValidTarget(reqBody.Target, validation.DefaultMaxTargetLength); err != nil {
			logger.Debugf("handler", "invalid target from IP %s: %v", ctx.ClientIP(), err)
			ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid target"})
			return
		}

		deps.Emitter.Log(&logger.Record{
			Level:   level,
			Target:  reqBody.Target,
			Message: validation.SanitizeMessage(reqBody.Message, validation.DefaultMaxMessageLength),
			File:    validation.SanitizeFile(reqBody.File, validation.DefaultMaxFileLength),
			Line:    reqBody.Line,
			Time:    time.Now(),
		})
		ctx.Status(http.StatusNoContent)
	}
}
