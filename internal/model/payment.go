package model

// CreateOrderRequest asks the gateway for a payment order tied to an
// appointment.
type CreateOrderRequest struct {
	AppointmentID string `json:"appointment_id" validate:"required"`
}

// VerifyPaymentRequest carries the gateway callback fields. Field names
// follow the gateway's checkout payload.
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}
