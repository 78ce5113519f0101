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

type doctorRepository struct {
	col *mongo.Collection
}

func NewDoctorRepository(db *DB) repository.DoctorRepository {
	return &doctorRepository{col: db.db.Collection("doctors")}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	doctor.ID = primitive.NewObjectID()
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = doctor.CreatedAt
	if doctor.Slots == nil {
		doctor.Slots = model.SlotLedger{}
	}

	if _, err := r.col.InsertOne(ctx, doctor); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Validation("email already registered")
		}
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id primitive.ObjectID) (*model.Doctor, error) {
	var doctor model.Doctor
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doctor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("doctor")
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	var doctor model.Doctor
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&doctor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("doctor")
		}
		return nil, fmt.Errorf("failed to get doctor by email: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	defer cursor.Close(ctx)

	var doctors []*model.Doctor
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("failed to decode doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, req *model.UpdateDoctorProfileRequest) error {
	update := bson.M{"$set": bson.M{
		"fee":       req.Fee,
		"address":   req.Address,
		"available": req.Available,
		"updatedAt": time.Now(),
	}}
	result, err := r.col.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to update doctor profile: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("doctor")
	}
	return nil
}

func (r *doctorRepository) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	update := bson.M{"$set": bson.M{"available": available, "updatedAt": time.Now()}}
	result, err := r.col.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to set availability: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("doctor")
	}
	return nil
}

// ReserveSlot is a single conditional update: the filter only matches when
// the doctor is available and the time is absent from the date's ledger
// entry, so two concurrent reservations for the same slot cannot both
// succeed. $push creates the date entry when it does not exist yet.
func (r *doctorRepository) ReserveSlot(ctx context.Context, id primitive.ObjectID, date, slot string) (bool, error) {
	ledgerKey := "slots." + date
	filter := bson.M{
		"_id":       id,
		"available": true,
		ledgerKey:   bson.M{"$ne": slot},
	}
	update := bson.M{
		"$push": bson.M{ledgerKey: slot},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	result, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to reserve slot: %w", err)
	}
	return result.MatchedCount == 1, nil
}

func (r *doctorRepository) ReleaseSlot(ctx context.Context, id primitive.ObjectID, date, slot string) error {
	ledgerKey := "slots." + date
	update := bson.M{
		"$pull": bson.M{ledgerKey: slot},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := r.col.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to release slot: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("doctor")
	}
	return nil
}

func (r *doctorRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count doctors: %w", err)
	}
	return count, nil
}
