package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medibook/booking-api/internal/handler"
	"github.com/medibook/booking-api/internal/middleware"
	"github.com/medibook/booking-api/internal/model"
	authservice "github.com/medibook/booking-api/internal/service/auth"
	"github.com/medibook/booking-api/internal/service/booking"
	doctorservice "github.com/medibook/booking-api/internal/service/doctor"
	apperrors "github.com/medibook/booking-api/pkg/errors"
)

type Handler struct {
	authSvc    *authservice.Service
	doctorSvc  *doctorservice.Service
	bookingSvc *booking.Service
}

func NewHandler(authSvc *authservice.Service, doctorSvc *doctorservice.Service, bookingSvc *booking.Service) *Handler {
	return &Handler{
		authSvc:    authSvc,
		doctorSvc:  doctorSvc,
		bookingSvc: bookingSvc,
	}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	// Public browse endpoint for the booking front end.
	api.GET("/doctors", h.List)

	doctors := api.Group("/doctor")
	{
		doctors.POST("/login", h.Login)
	}

	authed := doctors.Group("", auth.Doctor())
	{
		authed.GET("/profile", h.GetProfile)
		authed.POST("/profile", h.UpdateProfile)
		authed.POST("/availability", h.ToggleAvailability)
		authed.GET("/appointments", h.ListAppointments)
		authed.POST("/appointments/complete", h.CompleteAppointment)
		authed.POST("/appointments/cancel", h.CancelAppointment)
		authed.GET("/dashboard", h.Dashboard)
	}
}

func (h *Handler) List(c *gin.Context) {
	doctors, err := h.doctorSvc.List(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.Validation("missing details"))
		return
	}

	token, err := h.authSvc.LoginDoctor(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"token": token}))
}

func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.doctorSvc.GetProfile(c.Request.Context(), middleware.DoctorID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(profile))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req model.UpdateDoctorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.Validation("missing details"))
		return
	}

	if err := h.doctorSvc.UpdateProfile(c.Request.Context(), middleware.DoctorID(c), &req); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewMessageResponse("profile updated"))
}

func (h *Handler) ToggleAvailability(c *gin.Context) {
	available, err := h.doctorSvc.ToggleAvailability(c.Request.Context(), middleware.DoctorID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"available": available}))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	appointments, err := h.bookingSvc.ListForDoctor(c.Request.Context(), middleware.DoctorID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) CompleteAppointment(c *gin.Context) {
	appointmentID, ok := h.bindAppointmentID(c)
	if !ok {
		return
	}

	if err := h.bookingSvc.Complete(c.Request.Context(), middleware.DoctorID(c), appointmentID); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewMessageResponse("appointment completed"))
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	appointmentID, ok := h.bindAppointmentID(c)
	if !ok {
		return
	}

	if err := h.bookingSvc.CancelByDoctor(c.Request.Context(), middleware.DoctorID(c), appointmentID); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewMessageResponse("appointment cancelled"))
}

func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.bookingSvc.DoctorDashboard(c.Request.Context(), middleware.DoctorID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(dashboard))
}

func (h *Handler) bindAppointmentID(c *gin.Context) (id primitive.ObjectID, ok bool) {
	var req model.AppointmentIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.Validation("missing details"))
		return id, false
	}
	parsed, err := handler.ParseObjectID(req.AppointmentID)
	if err != nil {
		handler.RespondError(c, err)
		return id, false
	}
	return parsed, true
}
