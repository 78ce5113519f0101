package patient

import (
	"context"
	"io"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	"github.com/medibook/booking-api/internal/upload"
	apperrors "github.com/medibook/booking-api/pkg/errors"
	"github.com/medibook/booking-api/pkg/logger"
)

type Service struct {
	repo     repository.PatientRepository
	uploader upload.Uploader
	logger   *logger.Logger
	validate *validator.Validate
}

func NewService(repo repository.PatientRepository, uploader upload.Uploader, logger *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		uploader: uploader,
		logger:   logger,
		validate: validator.New(),
	}
}

func (s *Service) GetProfile(ctx context.Context, patientID primitive.ObjectID) (*model.Patient, error) {
	return s.repo.Get(ctx, patientID)
}

// UpdateProfile writes the text fields and then, when an avatar is
// supplied, uploads it and persists the returned URL as a second
// independent write. An upload failure after a successful text update is
// logged and the update still reports success with the avatar unchanged.
func (s *Service) UpdateProfile(ctx context.Context, patientID primitive.ObjectID, req *model.UpdateProfileRequest, avatar io.Reader) error {
	if err := s.validate.Struct(req); err != nil {
		return apperrors.Validation("missing details")
	}

	if err := s.repo.UpdateProfile(ctx, patientID, req); err != nil {
		return err
	}

	if avatar == nil {
		return nil
	}

	url, err := s.uploader.Upload(ctx, avatar, patientID.Hex())
	if err != nil {
		s.logger.Error(err, "avatar upload failed, profile text fields already updated", "patient_id", patientID.Hex())
		return nil
	}
	if err := s.repo.UpdateImage(ctx, patientID, url); err != nil {
		s.logger.Error(err, "failed to persist avatar URL", "patient_id", patientID.Hex())
	}
	return nil
}
