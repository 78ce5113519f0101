package auth

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	"github.com/medibook/booking-api/pkg/auth"
	apperrors "github.com/medibook/booking-api/pkg/errors"
	"github.com/medibook/booking-api/pkg/security"
)

// AdminCredentials is the single admin identity, provisioned through the
// environment rather than the database.
type AdminCredentials struct {
	Email    string
	Password string
}

type Service struct {
	patients repository.PatientRepository
	doctors  repository.DoctorRepository
	hasher   security.PasswordHasher
	jwtSvc   auth.JWTService
	admin    AdminCredentials
	validate *validator.Validate
}

func NewService(
	patients repository.PatientRepository,
	doctors repository.DoctorRepository,
	hasher security.PasswordHasher,
	jwtSvc auth.JWTService,
	admin AdminCredentials,
) *Service {
	return &Service{
		patients: patients,
		doctors:  doctors,
		hasher:   hasher,
		jwtSvc:   jwtSvc,
		admin:    admin,
		validate: validator.New(),
	}
}

// RegisterPatient stores a new account with a hashed credential and
// returns a signed token for it.
func (s *Service) RegisterPatient(ctx context.Context, req *model.RegisterRequest) (string, error) {
	if err := s.validate.Struct(req); err != nil {
		return "", apperrors.Validation(validationMessage(err))
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooWeak) {
			return "", apperrors.Validation(err.Error())
		}
		return "", err
	}

	patient := &model.Patient{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return "", err
	}

	return s.jwtSvc.GenerateToken(patient.ID.Hex(), auth.RolePatient)
}

func (s *Service) LoginPatient(ctx context.Context, req *model.LoginRequest) (string, error) {
	patient, err := s.patients.GetByEmail(ctx, req.Email)
	if err != nil {
		return "", apperrors.InvalidCredentials()
	}
	if err := s.hasher.Compare(patient.PasswordHash, req.Password); err != nil {
		return "", apperrors.InvalidCredentials()
	}
	return s.jwtSvc.GenerateToken(patient.ID.Hex(), auth.RolePatient)
}

func (s *Service) LoginDoctor(ctx context.Context, req *model.LoginRequest) (string, error) {
	doctor, err := s.doctors.GetByEmail(ctx, req.Email)
	if err != nil {
		return "", apperrors.InvalidCredentials()
	}
	if err := s.hasher.Compare(doctor.PasswordHash, req.Password); err != nil {
		return "", apperrors.InvalidCredentials()
	}
	return s.jwtSvc.GenerateToken(doctor.ID.Hex(), auth.RoleDoctor)
}

// LoginAdmin checks the env-provisioned credentials and issues a token
// carrying the admin email claim.
func (s *Service) LoginAdmin(ctx context.Context, email, password string) (string, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.admin.Email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
	if !emailOK || !passOK || s.admin.Email == "" {
		return "", apperrors.InvalidCredentials()
	}
	return s.jwtSvc.GenerateAdminToken(email)
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request"
	}

	fe := fieldErrs[0]
	switch {
	case fe.Tag() == "required":
		return "missing details"
	case fe.Tag() == "email":
		return "enter a valid email"
	case fe.Field() == "Password" && fe.Tag() == "min":
		return "password must be at least 8 characters"
	default:
		return "invalid " + fe.Field()
	}
}
