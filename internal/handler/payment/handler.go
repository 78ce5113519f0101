package payment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medibook/booking-api/internal/handler"
	"github.com/medibook/booking-api/internal/middleware"
	"github.com/medibook/booking-api/internal/model"
	paymentservice "github.com/medibook/booking-api/internal/service/payment"
	apperrors "github.com/medibook/booking-api/pkg/errors"
)

type Handler struct {
	paymentSvc *paymentservice.Service
}

func NewHandler(paymentSvc *paymentservice.Service) *Handler {
	return &Handler{paymentSvc: paymentSvc}
}

// RegisterRoutes mounts the payment bridge under the patient surface; only
// the booking account pays for its appointments.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	payments := api.Group("/patient/payments", auth.Patient())
	{
		payments.POST("/order", h.CreateOrder)
		payments.POST("/verify", h.VerifyPayment)
	}
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.Validation("missing details"))
		return
	}

	order, err := h.paymentSvc.CreateOrder(c.Request.Context(), req.AppointmentID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(order))
}

func (h *Handler) VerifyPayment(c *gin.Context) {
	var req model.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.Validation("missing details"))
		return
	}

	if err := h.paymentSvc.VerifyPayment(c.Request.Context(), &req); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewMessageResponse("payment verified"))
}
