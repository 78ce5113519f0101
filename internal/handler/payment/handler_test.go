package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medibook/booking-api/internal/middleware"
	"github.com/medibook/booking-api/internal/model"
	paymentservice "github.com/medibook/booking-api/internal/service/payment"
	"github.com/medibook/booking-api/pkg/auth"
	apperrors "github.com/medibook/booking-api/pkg/errors"
)

const testSecret = "handler-test-secret"

type fakeGateway struct {
	orders map[string]map[string]interface{}
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (map[string]interface{}, error) {
	orderID := "order_" + receipt
	order := map[string]interface{}{"id": orderID, "amount": amountMinor, "currency": currency, "receipt": receipt}
	g.orders[orderID] = order
	return order, nil
}

func (g *fakeGateway) FetchOrder(ctx context.Context, orderID string) (map[string]interface{}, error) {
	order, ok := g.orders[orderID]
	if !ok {
		return nil, apperrors.NotFound("order")
	}
	return order, nil
}

type fakeAppointments struct {
	appointments map[primitive.ObjectID]*model.Appointment
}

func (r *fakeAppointments) Create(ctx context.Context, apt *model.Appointment) error { return nil }

func (r *fakeAppointments) Get(ctx context.Context, id primitive.ObjectID) (*model.Appointment, error) {
	apt, ok := r.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment")
	}
	return apt, nil
}

func (r *fakeAppointments) ListByPatient(ctx context.Context, id primitive.ObjectID) ([]*model.Appointment, error) {
	return nil, nil
}

func (r *fakeAppointments) ListByDoctor(ctx context.Context, id primitive.ObjectID) ([]*model.Appointment, error) {
	return nil, nil
}

func (r *fakeAppointments) List(ctx context.Context) ([]*model.Appointment, error) { return nil, nil }

func (r *fakeAppointments) SetCancelled(ctx context.Context, id primitive.ObjectID) error { return nil }

func (r *fakeAppointments) SetCompleted(ctx context.Context, id primitive.ObjectID) error { return nil }

func (r *fakeAppointments) SetPaid(ctx context.Context, id primitive.ObjectID) error {
	apt, ok := r.appointments[id]
	if !ok {
		return apperrors.NotFound("appointment")
	}
	apt.Paid = true
	return nil
}

func (r *fakeAppointments) Count(ctx context.Context) (int64, error) { return 0, nil }

type noopEmitter struct{}

func (noopEmitter) Emit(ctx context.Context, eventType string, payload interface{}) {}

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

type testEnv struct {
	router       *gin.Engine
	token        string
	appointments *fakeAppointments
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtSvc := auth.NewJWTService("auth-secret")
	token, err := jwtSvc.GenerateToken(primitive.NewObjectID().Hex(), auth.RolePatient)
	require.NoError(t, err)

	appointments := &fakeAppointments{appointments: make(map[primitive.ObjectID]*model.Appointment)}
	gateway := &fakeGateway{orders: make(map[string]map[string]interface{})}
	svc := paymentservice.NewService(gateway, appointments, noopEmitter{}, testSecret, "INR")

	r := gin.New()
	api := r.Group("/api")
	NewHandler(svc).RegisterRoutes(api, middleware.NewAuthMiddleware(jwtSvc, "admin@clinic.test"))

	return &testEnv{router: r, token: token, appointments: appointments}
}

func (e *testEnv) post(t *testing.T, path string, body interface{}, withToken bool) (int, envelope) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if withToken {
		req.Header.Set(middleware.HeaderPatientToken, e.token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateOrderEndpoint(t *testing.T) {
	env := newTestEnv(t)
	apt := &model.Appointment{ID: primitive.NewObjectID(), Amount: 50}
	env.appointments.appointments[apt.ID] = apt

	code, resp := env.post(t, "/api/patient/payments/order", gin.H{"appointment_id": apt.ID.Hex()}, true)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)
	assert.Equal(t, "order_"+apt.ID.Hex(), resp.Data["id"])
	assert.Equal(t, float64(5000), resp.Data["amount"])
}

func TestCreateOrderEndpointUnknownAppointment(t *testing.T) {
	env := newTestEnv(t)

	code, resp := env.post(t, "/api/patient/payments/order", gin.H{"appointment_id": primitive.NewObjectID().Hex()}, true)

	assert.Equal(t, http.StatusOK, code)
	assert.False(t, resp.Success)
	assert.Equal(t, "appointment cancelled or not found", resp.Message)
}

func TestCreateOrderEndpointRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	code, resp := env.post(t, "/api/patient/payments/order", gin.H{"appointment_id": "x"}, false)

	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, resp.Success)
}

func TestVerifyPaymentEndpoint(t *testing.T) {
	env := newTestEnv(t)
	apt := &model.Appointment{ID: primitive.NewObjectID(), Amount: 50}
	env.appointments.appointments[apt.ID] = apt

	_, resp := env.post(t, "/api/patient/payments/order", gin.H{"appointment_id": apt.ID.Hex()}, true)
	orderID := resp.Data["id"].(string)

	code, resp := env.post(t, "/api/patient/payments/verify", gin.H{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  sign(orderID, "pay_1"),
	}, true)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)
	assert.True(t, apt.Paid)
}

func TestVerifyPaymentEndpointBadSignature(t *testing.T) {
	env := newTestEnv(t)
	apt := &model.Appointment{ID: primitive.NewObjectID(), Amount: 50}
	env.appointments.appointments[apt.ID] = apt

	_, resp := env.post(t, "/api/patient/payments/order", gin.H{"appointment_id": apt.ID.Hex()}, true)
	orderID := resp.Data["id"].(string)

	code, resp := env.post(t, "/api/patient/payments/verify", gin.H{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "forged",
	}, true)

	assert.Equal(t, http.StatusOK, code)
	assert.False(t, resp.Success)
	assert.Equal(t, "invalid payment signature", resp.Message)
	assert.False(t, apt.Paid)
}
