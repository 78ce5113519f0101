package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
	apperrors "github.com/medibook/booking-api/pkg/errors"
)

// Gateway is the slice of the payment provider's API this service needs.
// Orders and fetch results are the provider's raw JSON objects.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (map[string]interface{}, error)
	FetchOrder(ctx context.Context, orderID string) (map[string]interface{}, error)
}

type EventEmitter interface {
	Emit(ctx context.Context, eventType string, payload interface{})
}

type Service struct {
	gateway      Gateway
	appointments repository.AppointmentRepository
	events       EventEmitter
	keySecret    string
	currency     string
}

func NewService(gateway Gateway, appointments repository.AppointmentRepository, events EventEmitter, keySecret, currency string) *Service {
	if currency == "" {
		currency = "INR"
	}
	return &Service{
		gateway:      gateway,
		appointments: appointments,
		events:       events,
		keySecret:    keySecret,
		currency:     currency,
	}
}

// CreateOrder opens a gateway order for an appointment's fee. The amount
// is converted to the gateway's minor-unit convention and the appointment
// ID rides along as the order receipt so verification can find its way
// back.
func (s *Service) CreateOrder(ctx context.Context, appointmentID string) (map[string]interface{}, error) {
	id, err := primitive.ObjectIDFromHex(appointmentID)
	if err != nil {
		return nil, apperrors.Validation("invalid appointment id")
	}

	apt, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, apperrors.Validation("appointment cancelled or not found")
	}
	if apt.Cancelled {
		return nil, apperrors.Validation("appointment cancelled or not found")
	}

	return s.gateway.CreateOrder(ctx, apt.Amount*100, s.currency, appointmentID)
}

// VerifyPayment recomputes the checkout signature and, when it matches,
// resolves the order's receipt back to the appointment and marks it paid.
// A mismatch writes nothing. Marking an already-paid appointment is a
// no-op, so re-verification is idempotent.
func (s *Service) VerifyPayment(ctx context.Context, req *model.VerifyPaymentRequest) error {
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return apperrors.Validation("missing details")
	}

	expected := s.signature(req.OrderID, req.PaymentID)
	if !hmac.Equal([]byte(expected), []byte(req.Signature)) {
		return apperrors.InvalidSignature()
	}

	order, err := s.gateway.FetchOrder(ctx, req.OrderID)
	if err != nil {
		return err
	}
	receipt, ok := order["receipt"].(string)
	if !ok || receipt == "" {
		return apperrors.Validation("order has no receipt")
	}
	appointmentID, err := primitive.ObjectIDFromHex(receipt)
	if err != nil {
		return apperrors.Validation("order receipt is not an appointment id")
	}

	if err := s.appointments.SetPaid(ctx, appointmentID); err != nil {
		return err
	}

	s.events.Emit(ctx, model.EventAppointmentPaid, map[string]string{
		"appointment_id": receipt,
		"order_id":       req.OrderID,
		"payment_id":     req.PaymentID,
	})
	return nil
}

// signature is hex(HMAC-SHA256(orderID|paymentID)) keyed with the gateway
// secret, the gateway's documented checkout signature scheme.
func (s *Service) signature(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(s.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
