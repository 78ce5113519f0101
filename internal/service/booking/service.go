package booking

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	apperrors "github.com/medibook/booking-api/pkg/errors"
	"github.com/medibook/booking-api/pkg/logger"
)

// EventEmitter records a lifecycle event; emission never fails the flow.
type EventEmitter interface {
	Emit(ctx context.Context, eventType string, payload interface{})
}

// Notifier delivers best-effort appointment emails.
type Notifier interface {
	NotifyBooked(ctx context.Context, apt *model.Appointment)
	NotifyCancelled(ctx context.Context, apt *model.Appointment)
}

type Service struct {
	doctors      repository.DoctorRepository
	patients     repository.PatientRepository
	appointments repository.AppointmentRepository
	events       EventEmitter
	notifier     Notifier
	logger       *logger.Logger
}

func NewService(
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	appointments repository.AppointmentRepository,
	events EventEmitter,
	notifier Notifier,
	logger *logger.Logger,
) *Service {
	return &Service{
		doctors:      doctors,
		patients:     patients,
		appointments: appointments,
		events:       events,
		notifier:     notifier,
		logger:       logger,
	}
}

// Book reserves a slot and creates the appointment. The reservation is a
// conditional ledger update, so of two concurrent bookings for the same
// free slot exactly one wins; the other gets SlotTaken. If the appointment
// insert fails after the reservation, the slot is released again.
func (s *Service) Book(ctx context.Context, patientID primitive.ObjectID, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	doctorID, err := primitive.ObjectIDFromHex(req.DoctorID)
	if err != nil {
		return nil, apperrors.Validation("invalid doctor id")
	}
	if req.SlotDate == "" || req.SlotTime == "" {
		return nil, apperrors.Validation("missing details")
	}

	doctor, err := s.doctors.Get(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.Available {
		return nil, apperrors.Unavailable("doctor not available")
	}
	if doctor.Slots.Has(req.SlotDate, req.SlotTime) {
		return nil, apperrors.SlotTaken()
	}

	patient, err := s.patients.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}

	reserved, err := s.doctors.ReserveSlot(ctx, doctorID, req.SlotDate, req.SlotTime)
	if err != nil {
		return nil, err
	}
	if !reserved {
		return nil, apperrors.SlotTaken()
	}

	patientSnap := *patient
	patientSnap.PasswordHash = ""

	apt := &model.Appointment{
		PatientID: patientID,
		DoctorID:  doctorID,
		Patient:   patientSnap,
		Doctor:    doctor.PublicProfile(),
		Amount:    doctor.Fee,
		SlotDate:  req.SlotDate,
		SlotTime:  req.SlotTime,
	}
	if err := s.appointments.Create(ctx, apt); err != nil {
		if relErr := s.doctors.ReleaseSlot(ctx, doctorID, req.SlotDate, req.SlotTime); relErr != nil {
			s.logger.Error(relErr, "failed to release slot after appointment insert failure",
				"doctor_id", doctorID.Hex(), "slot_date", req.SlotDate, "slot_time", req.SlotTime)
		}
		return nil, fmt.Errorf("failed to book appointment: %w", err)
	}

	s.events.Emit(ctx, model.EventAppointmentBooked, apt)
	s.notifier.NotifyBooked(ctx, apt)

	return apt, nil
}

// CancelByPatient cancels an appointment on behalf of the booking account.
func (s *Service) CancelByPatient(ctx context.Context, patientID, appointmentID primitive.ObjectID) error {
	apt, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		return err
	}
	if apt.PatientID != patientID {
		return apperrors.Unauthorized("not your appointment")
	}
	return s.cancel(ctx, apt)
}

// CancelByDoctor cancels an appointment on behalf of the owning provider.
func (s *Service) CancelByDoctor(ctx context.Context, doctorID, appointmentID primitive.ObjectID) error {
	apt, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		return err
	}
	if apt.DoctorID != doctorID {
		return apperrors.Unauthorized("not your appointment")
	}
	return s.cancel(ctx, apt)
}

// CancelByAdmin cancels any appointment.
func (s *Service) CancelByAdmin(ctx context.Context, appointmentID primitive.ObjectID) error {
	apt, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		return err
	}
	return s.cancel(ctx, apt)
}

func (s *Service) cancel(ctx context.Context, apt *model.Appointment) error {
	if apt.Cancelled {
		return apperrors.Validation("appointment already cancelled")
	}

	if err := s.appointments.SetCancelled(ctx, apt.ID); err != nil {
		return err
	}
	if err := s.doctors.ReleaseSlot(ctx, apt.DoctorID, apt.SlotDate, apt.SlotTime); err != nil {
		// The flag is already set; the reservation leaks until the next
		// booking attempt surfaces it. Logged, not rolled back.
		s.logger.Error(err, "failed to release slot after cancellation",
			"appointment_id", apt.ID.Hex(), "doctor_id", apt.DoctorID.Hex())
	}

	apt.Cancelled = true
	s.events.Emit(ctx, model.EventAppointmentCancelled, apt)
	s.notifier.NotifyCancelled(ctx, apt)
	return nil
}

// Complete marks an appointment completed. Only the owning provider may
// complete it, and a cancelled appointment stays cancelled.
func (s *Service) Complete(ctx context.Context, doctorID, appointmentID primitive.ObjectID) error {
	apt, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		return err
	}
	if apt.DoctorID != doctorID {
		return apperrors.Unauthorized("not your appointment")
	}
	if apt.Cancelled {
		return apperrors.Validation("cannot complete a cancelled appointment")
	}

	if err := s.appointments.SetCompleted(ctx, appointmentID); err != nil {
		return err
	}

	apt.Completed = true
	s.events.Emit(ctx, model.EventAppointmentCompleted, apt)
	return nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID primitive.ObjectID) ([]*model.Appointment, error) {
	return s.appointments.ListByPatient(ctx, patientID)
}

func (s *Service) ListForDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]*model.Appointment, error) {
	return s.appointments.ListByDoctor(ctx, doctorID)
}

func (s *Service) ListAll(ctx context.Context) ([]*model.Appointment, error) {
	return s.appointments.List(ctx)
}

// DoctorDashboard aggregates the provider's history: earnings over
// completed-or-paid appointments, distinct patient count and the five most
// recently booked appointments, newest first.
func (s *Service) DoctorDashboard(ctx context.Context, doctorID primitive.ObjectID) (*model.DoctorDashboard, error) {
	appointments, err := s.appointments.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	var earnings int64
	patients := make(map[primitive.ObjectID]struct{})
	for _, apt := range appointments {
		if apt.Completed || apt.Paid {
			earnings += apt.Amount
		}
		patients[apt.PatientID] = struct{}{}
	}

	return &model.DoctorDashboard{
		Earnings:           earnings,
		Appointments:       len(appointments),
		Patients:           len(patients),
		LatestAppointments: latestFirst(appointments, 5),
	}, nil
}

// AdminDashboard summarizes the system for the admin panel.
func (s *Service) AdminDashboard(ctx context.Context) (*model.AdminDashboard, error) {
	appointments, err := s.appointments.List(ctx)
	if err != nil {
		return nil, err
	}
	doctorCount, err := s.doctors.Count(ctx)
	if err != nil {
		return nil, err
	}
	patientCount, err := s.patients.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &model.AdminDashboard{
		Doctors:            int(doctorCount),
		Patients:           int(patientCount),
		Appointments:       len(appointments),
		LatestAppointments: latestFirst(appointments, 5),
	}, nil
}

// latestFirst returns up to n appointments in reverse insertion order.
func latestFirst(appointments []*model.Appointment, n int) []*model.Appointment {
	latest := make([]*model.Appointment, 0, n)
	for i := len(appointments) - 1; i >= 0 && len(latest) < n; i-- {
		latest = append(latest, appointments[i])
	}
	return latest
}
