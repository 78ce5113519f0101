package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	apperrors "github.com/medibook/booking-api/pkg/errors"
)

type patientRepository struct {
	col *mongo.Collection
}

func NewPatientRepository(db *DB) repository.PatientRepository {
	return &patientRepository{col: db.db.Collection("patients")}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	patient.ID = primitive.NewObjectID()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = patient.CreatedAt

	if _, err := r.col.InsertOne(ctx, patient); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Validation("email already registered")
		}
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id primitive.ObjectID) (*model.Patient, error) {
	var patient model.Patient
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&patient)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("patient")
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	var patient model.Patient
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&patient)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("patient")
		}
		return nil, fmt.Errorf("failed to get patient by email: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, req *model.UpdateProfileRequest) error {
	update := bson.M{"$set": bson.M{
		"name":      req.Name,
		"phone":     req.Phone,
		"dob":       req.DOB,
		"gender":    req.Gender,
		"address":   req.Address,
		"updatedAt": time.Now(),
	}}
	result, err := r.col.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to update patient profile: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("patient")
	}
	return nil
}

func (r *patientRepository) UpdateImage(ctx context.Context, id primitive.ObjectID, imageURL string) error {
	update := bson.M{"$set": bson.M{"image": imageURL, "updatedAt": time.Now()}}
	result, err := r.col.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to update patient image: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("patient")
	}
	return nil
}

func (r *patientRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return count, nil
}
