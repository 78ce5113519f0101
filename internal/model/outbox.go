package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusProcessed OutboxStatus = "processed"
	OutboxStatusFailed    OutboxStatus = "failed"
)

// Appointment lifecycle event types.
const (
	EventAppointmentBooked    = "appointment.booked"
	EventAppointmentCancelled = "appointment.cancelled"
	EventAppointmentCompleted = "appointment.completed"
	EventAppointmentPaid      = "appointment.paid"
)

// OutboxEvent is written in the same flow as the state change it describes
// and relayed to the message broker by the outbox worker.
type OutboxEvent struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	EventType   string             `bson:"eventType"`
	Payload     []byte             `bson:"payload"`
	Status      OutboxStatus       `bson:"status"`
	Attempts    int                `bson:"attempts"`
	CreatedAt   time.Time          `bson:"createdAt"`
	ProcessedAt *time.Time         `bson:"processedAt,omitempty"`
}
