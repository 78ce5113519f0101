package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medibook/booking-api/pkg/auth"
)

const adminEmail = "admin@clinic.test"

func setupRouter(t *testing.T) (*gin.Engine, auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtSvc := auth.NewJWTService("test-secret")
	m := NewAuthMiddleware(jwtSvc, adminEmail)

	r := gin.New()
	r.GET("/patient", m.Patient(), func(c *gin.Context) {
		c.String(http.StatusOK, PatientID(c).Hex())
	})
	r.GET("/doctor", m.Doctor(), func(c *gin.Context) {
		c.String(http.StatusOK, DoctorID(c).Hex())
	})
	r.GET("/admin", m.Admin(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r, jwtSvc
}

func request(r *gin.Engine, path, header, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(header, token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPatientAuth(t *testing.T) {
	r, jwtSvc := setupRouter(t)

	id := primitive.NewObjectID()
	token, err := jwtSvc.GenerateToken(id.Hex(), auth.RolePatient)
	require.NoError(t, err)

	w := request(r, "/patient", HeaderPatientToken, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.Hex(), w.Body.String())
}

func TestPatientAuthMissingToken(t *testing.T) {
	r, _ := setupRouter(t)

	w := request(r, "/patient", HeaderPatientToken, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "not authorized, login again")
}

func TestPatientAuthBadToken(t *testing.T) {
	r, _ := setupRouter(t)

	w := request(r, "/patient", HeaderPatientToken, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired token")
}

func TestPatientAuthRejectsDoctorToken(t *testing.T) {
	r, jwtSvc := setupRouter(t)

	token, err := jwtSvc.GenerateToken(primitive.NewObjectID().Hex(), auth.RoleDoctor)
	require.NoError(t, err)

	w := request(r, "/patient", HeaderPatientToken, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDoctorAuth(t *testing.T) {
	r, jwtSvc := setupRouter(t)

	id := primitive.NewObjectID()
	token, err := jwtSvc.GenerateToken(id.Hex(), auth.RoleDoctor)
	require.NoError(t, err)

	w := request(r, "/doctor", HeaderDoctorToken, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.Hex(), w.Body.String())
}

func TestAdminAuth(t *testing.T) {
	r, jwtSvc := setupRouter(t)

	token, err := jwtSvc.GenerateAdminToken(adminEmail)
	require.NoError(t, err)

	w := request(r, "/admin", HeaderAdminToken, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminAuthWrongEmail(t *testing.T) {
	r, jwtSvc := setupRouter(t)

	token, err := jwtSvc.GenerateAdminToken("impostor@clinic.test")
	require.NoError(t, err)

	w := request(r, "/admin", HeaderAdminToken, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "not authorized, invalid admin")
}

func TestAdminAuthRejectsPatientToken(t *testing.T) {
	r, jwtSvc := setupRouter(t)

	token, err := jwtSvc.GenerateToken(primitive.NewObjectID().Hex(), auth.RolePatient)
	require.NoError(t, err)

	w := request(r, "/admin", HeaderAdminToken, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
