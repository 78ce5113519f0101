package patient

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medibook/booking-api/internal/handler"
	"github.com/medibook/booking-api/internal/middleware"
	"github.com/medibook/booking-api/internal/model"
	authservice "github.com/medibook/booking-api/internal/service/auth"
	"github.com/medibook/booking-api/internal/service/booking"
	patientservice "github.com/medibook/booking-api/internal/service/patient"
	apperrors "github.com/medibook/booking-api/pkg/errors"
)

type Handler struct {
	authSvc    *authservice.Service
	profileSvc *patientservice.Service
	bookingSvc *booking.Service
}

func NewHandler(authSvc *authservice.Service, profileSvc *patientservice.Service, bookingSvc *booking.Service) *Handler {
	return &Handler{
		authSvc:    authSvc,
		profileSvc: profileSvc,
		bookingSvc: bookingSvc,
	}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	patients := api.Group("/patient")
	{
		patients.POST("/register", h.Register)
		patients.POST("/login", h.Login)
	}

	authed := patients.Group("", auth.Patient())
	{
		authed.GET("/profile", h.GetProfile)
		authed.POST("/profile", h.UpdateProfile)
		authed.POST("/appointments", h.BookAppointment)
		authed.GET("/appointments", h.ListAppointments)
		authed.POST("/appointments/cancel", h.CancelAppointment)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.Validation("missing details"))
		return
	}

	token, err := h.authSvc.RegisterPatient(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"token": token}))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.Validation("missing details"))
		return
	}

	token, err := h.authSvc.LoginPatient(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"token": token}))
}

func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.profileSvc.GetProfile(c.Request.Context(), middleware.PatientID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(profile))
}

// UpdateProfile takes a multipart form: text fields plus the address as a
// JSON-encoded string and an optional avatar image.
func (h *Handler) UpdateProfile(c *gin.Context) {
	req := model.UpdateProfileRequest{
		Name:   c.PostForm("name"),
		Phone:  c.PostForm("phone"),
		DOB:    c.PostForm("dob"),
		Gender: c.PostForm("gender"),
	}
	if raw := c.PostForm("address"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Address); err != nil {
			handler.RespondError(c, apperrors.Validation("invalid address"))
			return
		}
	}

	var avatar io.Reader
	if fileHeader, err := c.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			handler.RespondError(c, err)
			return
		}
		defer file.Close()
		avatar = file
	}

	if err := h.profileSvc.UpdateProfile(c.Request.Context(), middleware.PatientID(c), &req, avatar); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewMessageResponse("profile updated"))
}

func (h *Handler) BookAppointment(c *gin.Context) {
	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.Validation("missing details"))
		return
	}

	apt, err := h.bookingSvc.Book(c.Request.Context(), middleware.PatientID(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	appointments, err := h.bookingSvc.ListForPatient(c.Request.Context(), middleware.PatientID(c))
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

	if err := h.bookingSvc.CancelByPatient(c.Request.Context(), middleware.PatientID(c), appointmentID); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewMessageResponse("appointment cancelled"))
}
