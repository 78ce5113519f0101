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

type appointmentRepository struct {
	col *mongo.Collection
}

func NewAppointmentRepository(db *DB) repository.AppointmentRepository {
	return &appointmentRepository{col: db.db.Collection("appointments")}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	appointment.ID = primitive.NewObjectID()
	appointment.BookedAt = time.Now()

	if _, err := r.col.InsertOne(ctx, appointment); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id primitive.ObjectID) (*model.Appointment, error) {
	var appointment model.Appointment
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&appointment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("appointment")
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID primitive.ObjectID) ([]*model.Appointment, error) {
	return r.list(ctx, bson.M{"patientId": patientID})
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]*model.Appointment, error) {
	return r.list(ctx, bson.M{"doctorId": doctorID})
}

func (r *appointmentRepository) List(ctx context.Context) ([]*model.Appointment, error) {
	return r.list(ctx, bson.M{})
}

func (r *appointmentRepository) list(ctx context.Context, filter bson.M) ([]*model.Appointment, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appointments []*model.Appointment
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) SetCancelled(ctx context.Context, id primitive.ObjectID) error {
	return r.setFlag(ctx, id, "cancelled")
}

func (r *appointmentRepository) SetCompleted(ctx context.Context, id primitive.ObjectID) error {
	return r.setFlag(ctx, id, "completed")
}

func (r *appointmentRepository) SetPaid(ctx context.Context, id primitive.ObjectID) error {
	return r.setFlag(ctx, id, "paid")
}

func (r *appointmentRepository) setFlag(ctx context.Context, id primitive.ObjectID, field string) error {
	result, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{field: true}})
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", field, err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("appointment")
	}
	return nil
}

func (r *appointmentRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}
