package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment references one patient and one doctor and snapshots both at
// booking time (credentials and ledger excluded). Created only by booking,
// never deleted; state changes flip the three independent flags.
type Appointment struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PatientID primitive.ObjectID `json:"patient_id" bson:"patientId"`
	DoctorID  primitive.ObjectID `json:"doctor_id" bson:"doctorId"`
	Patient   Patient            `json:"patient" bson:"patient"`
	Doctor    Doctor             `json:"doctor" bson:"doctor"`
	Amount    int64              `json:"amount" bson:"amount"`
	SlotDate  string             `json:"slot_date" bson:"slotDate"`
	SlotTime  string             `json:"slot_time" bson:"slotTime"`
	Cancelled bool               `json:"cancelled" bson:"cancelled"`
	Completed bool               `json:"completed" bson:"completed"`
	Paid      bool               `json:"paid" bson:"paid"`
	BookedAt  time.Time          `json:"booked_at" bson:"bookedAt"`
}

type BookAppointmentRequest struct {
	DoctorID string `json:"doctor_id" validate:"required"`
	SlotDate string `json:"slot_date" validate:"required"`
	SlotTime string `json:"slot_time" validate:"required"`
}

type AppointmentIDRequest struct {
	AppointmentID string `json:"appointment_id" validate:"required"`
}

// DoctorDashboard aggregates a doctor's appointment history. Earnings sum
// amounts over appointments that are completed or paid.
type DoctorDashboard struct {
	Earnings           int64          `json:"earnings"`
	Appointments       int            `json:"appointments"`
	Patients           int            `json:"patients"`
	LatestAppointments []*Appointment `json:"latest_appointments"`
}

// AdminDashboard summarizes the whole system for the admin panel.
type AdminDashboard struct {
	Doctors            int            `json:"doctors"`
	Patients           int            `json:"patients"`
	Appointments       int            `json:"appointments"`
	LatestAppointments []*Appointment `json:"latest_appointments"`
}
