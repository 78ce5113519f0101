package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/medibook/booking-api/pkg/errors"
)

// Response is the uniform API envelope. Clients inspect Success rather
// than the HTTP status: handler failures are reported with HTTP 200 and
// Success=false; only the auth middlewares answer 401.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{Success: true, Data: data}
}

func NewMessageResponse(message string) *Response {
	return &Response{Success: true, Message: message}
}

func NewErrorResponse(message string) *Response {
	return &Response{Success: false, Message: message}
}

// RespondError reports any failure through the envelope. Internal errors
// are logged with their cause and reported with a generic message.
func RespondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code != apperrors.ErrInternal {
		c.JSON(http.StatusOK, NewErrorResponse(appErr.Message))
		return
	}

	log.Error().Err(err).
		Str("path", c.Request.URL.Path).
		Str("request_id", c.GetString("request_id")).
		Msg("request failed")
	c.JSON(http.StatusOK, NewErrorResponse("something went wrong"))
}
