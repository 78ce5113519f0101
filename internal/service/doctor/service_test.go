package doctor

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/medibook/booking-api/internal/model"
	apperrors "github.com/medibook/booking-api/pkg/errors"
	"github.com/medibook/booking-api/pkg/security"
)

type memDoctorRepo struct {
	doctors   map[primitive.ObjectID]*model.Doctor
	listCalls int
}

func newMemDoctorRepo() *memDoctorRepo {
	return &memDoctorRepo{doctors: make(map[primitive.ObjectID]*model.Doctor)}
}

func (r *memDoctorRepo) Create(ctx context.Context, doctor *model.Doctor) error {
	doctor.ID = primitive.NewObjectID()
	r.doctors[doctor.ID] = doctor
	return nil
}

func (r *memDoctorRepo) Get(ctx context.Context, id primitive.ObjectID) (*model.Doctor, error) {
	doctor, ok := r.doctors[id]
	if !ok {
		return nil, apperrors.NotFound("doctor")
	}
	return doctor, nil
}

func (r *memDoctorRepo) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	for _, d := range r.doctors {
		if d.Email == email {
			return d, nil
		}
	}
	return nil, apperrors.NotFound("doctor")
}

func (r *memDoctorRepo) List(ctx context.Context) ([]*model.Doctor, error) {
	r.listCalls++
	out := make([]*model.Doctor, 0, len(r.doctors))
	for _, d := range r.doctors {
		out = append(out, d)
	}
	return out, nil
}

func (r *memDoctorRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, req *model.UpdateDoctorProfileRequest) error {
	doctor, ok := r.doctors[id]
	if !ok {
		return apperrors.NotFound("doctor")
	}
	doctor.Fee = req.Fee
	doctor.Address = req.Address
	doctor.Available = req.Available
	return nil
}

func (r *memDoctorRepo) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	doctor, ok := r.doctors[id]
	if !ok {
		return apperrors.NotFound("doctor")
	}
	doctor.Available = available
	return nil
}

func (r *memDoctorRepo) ReserveSlot(ctx context.Context, id primitive.ObjectID, date, slot string) (bool, error) {
	return false, nil
}

func (r *memDoctorRepo) ReleaseSlot(ctx context.Context, id primitive.ObjectID, date, slot string) error {
	return nil
}

func (r *memDoctorRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.doctors)), nil
}

type stubUploader struct {
	url string
}

func (u *stubUploader) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	return u.url, nil
}

func newTestService() (*Service, *memDoctorRepo) {
	repo := newMemDoctorRepo()
	svc := NewService(repo, security.NewBcryptHasher(bcrypt.MinCost), &stubUploader{url: "https://cdn.test/doc.png"})
	return svc, repo
}

func seedDoctor(t *testing.T, repo *memDoctorRepo) *model.Doctor {
	t.Helper()
	doctor := &model.Doctor{
		Name:         "Dr. Mehta",
		Email:        "mehta@clinic.test",
		PasswordHash: "hash",
		Fee:          50,
		Available:    true,
		Slots:        model.SlotLedger{"2026-09-01": {"10:00"}},
	}
	require.NoError(t, repo.Create(context.Background(), doctor))
	return doctor
}

func TestListStripsPrivateFields(t *testing.T) {
	svc, repo := newTestService()
	seedDoctor(t, repo)

	doctors, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, doctors, 1)

	assert.Empty(t, doctors[0].PasswordHash)
	assert.Empty(t, doctors[0].Email)
	assert.Nil(t, doctors[0].Slots)
	assert.Equal(t, "Dr. Mehta", doctors[0].Name)
}

func TestListCaches(t *testing.T) {
	svc, repo := newTestService()
	seedDoctor(t, repo)

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	_, err = svc.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listCalls)
}

func TestToggleAvailabilityInvalidatesCache(t *testing.T) {
	svc, repo := newTestService()
	doctor := seedDoctor(t, repo)

	_, err := svc.List(context.Background())
	require.NoError(t, err)

	available, err := svc.ToggleAvailability(context.Background(), doctor.ID)
	require.NoError(t, err)
	assert.False(t, available)

	doctors, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.False(t, doctors[0].Available)
	assert.Equal(t, 2, repo.listCalls)

	available, err = svc.ToggleAvailability(context.Background(), doctor.ID)
	require.NoError(t, err)
	assert.True(t, available)
}

func TestGetProfileKeepsLedger(t *testing.T) {
	svc, repo := newTestService()
	doctor := seedDoctor(t, repo)

	profile, err := svc.GetProfile(context.Background(), doctor.ID)
	require.NoError(t, err)

	assert.Empty(t, profile.PasswordHash)
	assert.True(t, profile.Slots.Has("2026-09-01", "10:00"))
}

func TestUpdateProfile(t *testing.T) {
	svc, repo := newTestService()
	doctor := seedDoctor(t, repo)

	err := svc.UpdateProfile(context.Background(), doctor.ID, &model.UpdateDoctorProfileRequest{
		Fee:       75,
		Address:   model.Address{Line1: "12 Lake Road"},
		Available: false,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(75), doctor.Fee)
	assert.Equal(t, "12 Lake Road", doctor.Address.Line1)
	assert.False(t, doctor.Available)
}

func TestUpdateProfileRejectsZeroFee(t *testing.T) {
	svc, repo := newTestService()
	doctor := seedDoctor(t, repo)

	err := svc.UpdateProfile(context.Background(), doctor.ID, &model.UpdateDoctorProfileRequest{Fee: 0})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestAddDoctor(t *testing.T) {
	svc, repo := newTestService()

	created, err := svc.AddDoctor(context.Background(), &model.AddDoctorRequest{
		Name:       "Dr. Rao",
		Email:      "rao@clinic.test",
		Password:   "longenough",
		Speciality: "Dermatology",
		Degree:     "MBBS",
		Fee:        60,
	}, strings.NewReader("img"))
	require.NoError(t, err)

	assert.Empty(t, created.PasswordHash)
	assert.True(t, created.Available)
	assert.Equal(t, "https://cdn.test/doc.png", created.Image)

	stored, err := repo.GetByEmail(context.Background(), "rao@clinic.test")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "longenough", stored.PasswordHash)
	assert.NotNil(t, stored.Slots)
}

func TestAddDoctorValidation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AddDoctor(context.Background(), &model.AddDoctorRequest{
		Name:  "Dr. Rao",
		Email: "rao@clinic.test",
	}, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}
