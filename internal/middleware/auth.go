package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medibook/booking-api/internal/handler"
	"github.com/medibook/booking-api/pkg/auth"
)

// Context keys set by the auth middlewares.
const (
	ContextPatientID = "patientID"
	ContextDoctorID  = "doctorID"
)

// Role-specific token headers, part of the wire contract with the
// existing frontends.
const (
	HeaderPatientToken = "token"
	HeaderDoctorToken  = "dtoken"
	HeaderAdminToken   = "atoken"
)

// AuthMiddleware resolves role-tagged bearer tokens. One implementation
// serves all three roles; only the header name and the claim checks vary.
type AuthMiddleware struct {
	jwtSvc     auth.JWTService
	adminEmail string
}

func NewAuthMiddleware(jwtSvc auth.JWTService, adminEmail string) *AuthMiddleware {
	return &AuthMiddleware{jwtSvc: jwtSvc, adminEmail: adminEmail}
}

// Patient authenticates the account token and stores the account ID in
// the request context.
func (m *AuthMiddleware) Patient() gin.HandlerFunc {
	return m.identity(HeaderPatientToken, auth.RolePatient, ContextPatientID)
}

// Doctor authenticates the provider token.
func (m *AuthMiddleware) Doctor() gin.HandlerFunc {
	return m.identity(HeaderDoctorToken, auth.RoleDoctor, ContextDoctorID)
}

func (m *AuthMiddleware) identity(header string, role auth.Role, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(header)
		if token == "" {
			abortUnauthorized(c, "not authorized, login again")
			return
		}

		claims, err := m.jwtSvc.ValidateToken(token)
		if err != nil || claims.Role != role {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		id, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(contextKey, id)
		c.Next()
	}
}

// Admin requires the admin token whose email claim equals the configured
// admin email.
func (m *AuthMiddleware) Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(HeaderAdminToken)
		if token == "" {
			abortUnauthorized(c, "not authorized, login again")
			return
		}

		claims, err := m.jwtSvc.ValidateToken(token)
		if err != nil || claims.Role != auth.RoleAdmin || claims.Email != m.adminEmail {
			abortUnauthorized(c, "not authorized, invalid admin")
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse(message))
}

// PatientID reads the authenticated account ID from the context.
func PatientID(c *gin.Context) primitive.ObjectID {
	id, _ := c.Get(ContextPatientID)
	oid, _ := id.(primitive.ObjectID)
	return oid
}

// DoctorID reads the authenticated provider ID from the context.
func DoctorID(c *gin.Context) primitive.ObjectID {
	id, _ := c.Get(ContextDoctorID)
	oid, _ := id.(primitive.ObjectID)
	return oid
}
