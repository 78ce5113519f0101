package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/medibook/booking-api/internal/model"
	pkgauth "github.com/medibook/booking-api/pkg/auth"
	apperrors "github.com/medibook/booking-api/pkg/errors"
	"github.com/medibook/booking-api/pkg/security"
)

type memPatientRepo struct {
	byEmail map[string]*model.Patient
}

func newMemPatientRepo() *memPatientRepo {
	return &memPatientRepo{byEmail: make(map[string]*model.Patient)}
}

func (r *memPatientRepo) Create(ctx context.Context, patient *model.Patient) error {
	if _, exists := r.byEmail[patient.Email]; exists {
		return apperrors.Validation("email already registered")
	}
	patient.ID = primitive.NewObjectID()
	r.byEmail[patient.Email] = patient
	return nil
}

func (r *memPatientRepo) Get(ctx context.Context, id primitive.ObjectID) (*model.Patient, error) {
	for _, p := range r.byEmail {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperrors.NotFound("patient")
}

func (r *memPatientRepo) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	p, ok := r.byEmail[email]
	if !ok {
		return nil, apperrors.NotFound("patient")
	}
	return p, nil
}

func (r *memPatientRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, req *model.UpdateProfileRequest) error {
	return nil
}

func (r *memPatientRepo) UpdateImage(ctx context.Context, id primitive.ObjectID, imageURL string) error {
	return nil
}

func (r *memPatientRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.byEmail)), nil
}

type memDoctorRepo struct {
	byEmail map[string]*model.Doctor
}

func newMemDoctorRepo() *memDoctorRepo {
	return &memDoctorRepo{byEmail: make(map[string]*model.Doctor)}
}

func (r *memDoctorRepo) Create(ctx context.Context, doctor *model.Doctor) error {
	doctor.ID = primitive.NewObjectID()
	r.byEmail[doctor.Email] = doctor
	return nil
}

func (r *memDoctorRepo) Get(ctx context.Context, id primitive.ObjectID) (*model.Doctor, error) {
	for _, d := range r.byEmail {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, apperrors.NotFound("doctor")
}

func (r *memDoctorRepo) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	d, ok := r.byEmail[email]
	if !ok {
		return nil, apperrors.NotFound("doctor")
	}
	return d, nil
}

func (r *memDoctorRepo) List(ctx context.Context) ([]*model.Doctor, error) { return nil, nil }

func (r *memDoctorRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, req *model.UpdateDoctorProfileRequest) error {
	return nil
}

func (r *memDoctorRepo) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	return nil
}

func (r *memDoctorRepo) ReserveSlot(ctx context.Context, id primitive.ObjectID, date, slot string) (bool, error) {
	return false, nil
}

func (r *memDoctorRepo) ReleaseSlot(ctx context.Context, id primitive.ObjectID, date, slot string) error {
	return nil
}

func (r *memDoctorRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.byEmail)), nil
}

const (
	adminEmail    = "admin@clinic.test"
	adminPassword = "admin-password"
)

func newTestService() (*Service, *memPatientRepo, *memDoctorRepo, pkgauth.JWTService) {
	patients := newMemPatientRepo()
	doctors := newMemDoctorRepo()
	jwtSvc := pkgauth.NewJWTService("test-secret")
	svc := NewService(patients, doctors, security.NewBcryptHasher(bcrypt.MinCost), jwtSvc, AdminCredentials{
		Email:    adminEmail,
		Password: adminPassword,
	})
	return svc, patients, doctors, jwtSvc
}

func TestRegisterPatient(t *testing.T) {
	svc, patients, _, jwtSvc := newTestService()

	token, err := svc.RegisterPatient(context.Background(), &model.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.test",
		Password: "longenough",
	})
	require.NoError(t, err)

	claims, err := jwtSvc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, pkgauth.RolePatient, claims.Role)

	stored := patients.byEmail["asha@example.test"]
	require.NotNil(t, stored)
	assert.Equal(t, stored.ID.Hex(), claims.Subject)
	assert.NotEqual(t, "longenough", stored.PasswordHash)
}

func TestRegisterPatientValidation(t *testing.T) {
	svc, _, _, _ := newTestService()

	cases := []struct {
		name string
		req  model.RegisterRequest
		msg  string
	}{
		{"missing name", model.RegisterRequest{Email: "a@b.test", Password: "longenough"}, "missing details"},
		{"bad email", model.RegisterRequest{Name: "A", Email: "not-an-email", Password: "longenough"}, "enter a valid email"},
		{"short password", model.RegisterRequest{Name: "A", Email: "a@b.test", Password: "seven77"}, "password must be at least 8 characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RegisterPatient(context.Background(), &tc.req)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
			assert.Equal(t, tc.msg, err.Error())
		})
	}
}

func TestRegisterPatientMinimumLengthPassword(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.RegisterPatient(context.Background(), &model.RegisterRequest{
		Name:     "A",
		Email:    "a@b.test",
		Password: "eight888",
	})
	assert.NoError(t, err)
}

func TestRegisterPatientDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService()

	req := &model.RegisterRequest{Name: "A", Email: "a@b.test", Password: "longenough"}
	_, err := svc.RegisterPatient(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.RegisterPatient(context.Background(), req)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestLoginPatient(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.RegisterPatient(context.Background(), &model.RegisterRequest{
		Name: "A", Email: "a@b.test", Password: "longenough",
	})
	require.NoError(t, err)

	token, err := svc.LoginPatient(context.Background(), &model.LoginRequest{
		Email: "a@b.test", Password: "longenough",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.LoginPatient(context.Background(), &model.LoginRequest{
		Email: "a@b.test", Password: "wrong-password",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidCredentials))

	_, err = svc.LoginPatient(context.Background(), &model.LoginRequest{
		Email: "nobody@b.test", Password: "longenough",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidCredentials))
}

func TestLoginDoctor(t *testing.T) {
	svc, _, doctors, jwtSvc := newTestService()

	hash, err := security.NewBcryptHasher(bcrypt.MinCost).Hash("docpassword")
	require.NoError(t, err)
	doctor := &model.Doctor{Email: "doc@clinic.test", PasswordHash: hash}
	require.NoError(t, doctors.Create(context.Background(), doctor))

	token, err := svc.LoginDoctor(context.Background(), &model.LoginRequest{
		Email: "doc@clinic.test", Password: "docpassword",
	})
	require.NoError(t, err)

	claims, err := jwtSvc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, pkgauth.RoleDoctor, claims.Role)
	assert.Equal(t, doctor.ID.Hex(), claims.Subject)
}

func TestLoginAdmin(t *testing.T) {
	svc, _, _, jwtSvc := newTestService()

	token, err := svc.LoginAdmin(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)

	claims, err := jwtSvc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, pkgauth.RoleAdmin, claims.Role)
	assert.Equal(t, adminEmail, claims.Email)

	_, err = svc.LoginAdmin(context.Background(), adminEmail, "wrong")
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidCredentials))

	_, err = svc.LoginAdmin(context.Background(), "other@clinic.test", adminPassword)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidCredentials))
}

func TestLoginAdminUnconfigured(t *testing.T) {
	patients := newMemPatientRepo()
	doctors := newMemDoctorRepo()
	svc := NewService(patients, doctors, security.NewBcryptHasher(bcrypt.MinCost), pkgauth.NewJWTService("test-secret"), AdminCredentials{})

	_, err := svc.LoginAdmin(context.Background(), "", "")
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidCredentials))
}
