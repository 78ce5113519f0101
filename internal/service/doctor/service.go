package doctor

import (
	"context"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	gocache "github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	"github.com/medibook/booking-api/internal/upload"
	apperrors "github.com/medibook/booking-api/pkg/errors"
	"github.com/medibook/booking-api/pkg/security"
)

const (
	listCacheKey = "doctors:list"
	listCacheTTL = 30 * time.Second
)

type Service struct {
	repo     repository.DoctorRepository
	hasher   security.PasswordHasher
	uploader upload.Uploader
	cache    *gocache.Cache
	validate *validator.Validate
}

func NewService(repo repository.DoctorRepository, hasher security.PasswordHasher, uploader upload.Uploader) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		uploader: uploader,
		cache:    gocache.New(listCacheTTL, 2*listCacheTTL),
		validate: validator.New(),
	}
}

// List returns every doctor's public profile (no credentials, no ledger).
// Results are cached briefly since this backs the public browse page.
func (s *Service) List(ctx context.Context) ([]model.Doctor, error) {
	if cached, found := s.cache.Get(listCacheKey); found {
		return cached.([]model.Doctor), nil
	}

	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	public := make([]model.Doctor, 0, len(doctors))
	for _, d := range doctors {
		p := d.PublicProfile()
		p.Email = ""
		public = append(public, p)
	}

	s.cache.Set(listCacheKey, public, listCacheTTL)
	return public, nil
}

func (s *Service) GetProfile(ctx context.Context, doctorID primitive.ObjectID) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	profile := doctor.PublicProfile()
	profile.Slots = doctor.Slots
	return &profile, nil
}

func (s *Service) UpdateProfile(ctx context.Context, doctorID primitive.ObjectID, req *model.UpdateDoctorProfileRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return apperrors.Validation("missing details")
	}
	if err := s.repo.UpdateProfile(ctx, doctorID, req); err != nil {
		return err
	}
	s.cache.Delete(listCacheKey)
	return nil
}

// ToggleAvailability flips the availability flag.
func (s *Service) ToggleAvailability(ctx context.Context, doctorID primitive.ObjectID) (bool, error) {
	doctor, err := s.repo.Get(ctx, doctorID)
	if err != nil {
		return false, err
	}
	next := !doctor.Available
	if err := s.repo.SetAvailability(ctx, doctorID, next); err != nil {
		return false, err
	}
	s.cache.Delete(listCacheKey)
	return next, nil
}

// AddDoctor provisions a new provider. Only reachable through the admin
// API; doctors have no self-registration.
func (s *Service) AddDoctor(ctx context.Context, req *model.AddDoctorRequest, image io.Reader) (*model.Doctor, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Validation("missing details")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	doctor := &model.Doctor{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Speciality:   req.Speciality,
		Degree:       req.Degree,
		Experience:   req.Experience,
		About:        req.About,
		Fee:          req.Fee,
		Address:      req.Address,
		Available:    true,
		Slots:        model.SlotLedger{},
	}

	if image != nil {
		url, err := s.uploader.Upload(ctx, image, "doctor-"+req.Email)
		if err != nil {
			return nil, err
		}
		doctor.Image = url
	}

	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, err
	}
	s.cache.Delete(listCacheKey)

	profile := doctor.PublicProfile()
	return &profile, nil
}
