package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medibook/booking-api/internal/model"
)

// PatientRepository persists account holders.
type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id primitive.ObjectID) (*model.Patient, error)
	GetByEmail(ctx context.Context, email string) (*model.Patient, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, req *model.UpdateProfileRequest) error
	UpdateImage(ctx context.Context, id primitive.ObjectID, imageURL string) error
	Count(ctx context.Context) (int64, error)
}

// DoctorRepository persists providers and their slot ledgers.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	Get(ctx context.Context, id primitive.ObjectID) (*model.Doctor, error)
	GetByEmail(ctx context.Context, email string) (*model.Doctor, error)
	List(ctx context.Context) ([]*model.Doctor, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, req *model.UpdateDoctorProfileRequest) error
	SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error

	// ReserveSlot atomically inserts a time into the ledger entry for the
	// date, provided the doctor is available and the time is not already
	// present. Returns false when the condition did not match, which is
	// how a lost booking race surfaces.
	ReserveSlot(ctx context.Context, id primitive.ObjectID, date, slot string) (bool, error)

	// ReleaseSlot removes the matching time from the ledger entry for the
	// date, leaving other times untouched.
	ReleaseSlot(ctx context.Context, id primitive.ObjectID, date, slot string) error

	Count(ctx context.Context) (int64, error)
}

// AppointmentRepository is append-only except for the three status flags.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, id primitive.ObjectID) (*model.Appointment, error)
	ListByPatient(ctx context.Context, patientID primitive.ObjectID) ([]*model.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]*model.Appointment, error)
	List(ctx context.Context) ([]*model.Appointment, error)
	SetCancelled(ctx context.Context, id primitive.ObjectID) error
	SetCompleted(ctx context.Context, id primitive.ObjectID) error
	SetPaid(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

// OutboxRepository stores lifecycle events for the relay worker.
type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	FetchPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id primitive.ObjectID) error
	MarkFailed(ctx context.Context, id primitive.ObjectID) error
}
