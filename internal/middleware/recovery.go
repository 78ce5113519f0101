package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/medibook/booking-api/internal/handler"
)

// Recovery handles panics. Like every other failure, a panic is reported
// through the envelope rather than a 5xx; the process never crashes on a
// request.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("stack", string(debug.Stack())).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("request_id", c.GetString(ContextRequestID)).
					Msg("request panic recovered")

				c.AbortWithStatusJSON(http.StatusOK, handler.NewErrorResponse("something went wrong"))
			}
		}()
		c.Next()
	}
}
