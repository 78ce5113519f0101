package admin

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

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
	admins := api.Group("/admin")
	{
		admins.POST("/login", h.Login)
	}

	authed := admins.Group("", auth.Admin())
	{
		authed.POST("/doctors", h.AddDoctor)
		authed.GET("/doctors", h.ListDoctors)
		authed.POST("/availability", h.ToggleAvailability)
		authed.GET("/appointments", h.ListAppointments)
		authed.POST("/appointments/cancel", h.CancelAppointment)
		authed.GET("/dashboard", h.Dashboard)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.Validation("missing details"))
		return
	}

	token, err := h.authSvc.LoginAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"token": token}))
}

// AddDoctor provisions a provider from a multipart form: text fields, the
// address as a JSON-encoded string and an optional profile image.
func (h *Handler) AddDoctor(c *gin.Context) {
	fee, err := strconv.ParseInt(c.PostForm("fee"), 10, 64)
	if err != nil {
		handler.RespondError(c, apperrors.Validation("missing details"))
		return
	}

	req := model.AddDoctorRequest{
		Name:       c.PostForm("name"),
		Email:      c.PostForm("email"),
		Password:   c.PostForm("password"),
		Speciality: c.PostForm("speciality"),
		Degree:     c.PostForm("degree"),
		Experience: c.PostForm("experience"),
		About:      c.PostForm("about"),
		Fee:        fee,
	}
	if raw := c.PostForm("address"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Address); err != nil {
			handler.RespondError(c, apperrors.Validation("invalid address"))
			return
		}
	}

	var image io.Reader
	if fileHeader, err := c.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			handler.RespondError(c, err)
			return
		}
		defer file.Close()
		image = file
	}

	doctor, err := h.doctorSvc.AddDoctor(c.Request.Context(), &req, image)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctor))
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.doctorSvc.List(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) ToggleAvailability(c *gin.Context) {
	var req struct {
		DoctorID string `json:"doctor_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.Validation("missing details"))
		return
	}
	doctorID, err := handler.ParseObjectID(req.DoctorID)
	if err != nil {
		handler.RespondError(c, apperrors.Validation("invalid doctor id"))
		return
	}

	available, err := h.doctorSvc.ToggleAvailability(c.Request.Context(), doctorID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"available": available}))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	appointments, err := h.bookingSvc.ListAll(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	var req model.AppointmentIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.Validation("missing details"))
		return
	}
	appointmentID, err := handler.ParseObjectID(req.AppointmentID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if err := h.bookingSvc.CancelByAdmin(c.Request.Context(), appointmentID); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewMessageResponse("appointment cancelled"))
}

func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.bookingSvc.AdminDashboard(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(dashboard))
}
