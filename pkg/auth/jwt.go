package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Role tags the identity a token was issued for.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// Claims is the decoded content of a signed token. Subject carries the
// identity document ID for patients and doctors; Email is set only on
// admin tokens.
type Claims struct {
	Subject string
	Email   string
	Role    Role
}

// JWTService issues and verifies signed bearer tokens.
type JWTService interface {
	GenerateToken(subject string, role Role) (string, error)
	GenerateAdminToken(email string) (string, error)
	ValidateToken(token string) (*Claims, error)
}

type jwtService struct {
	secret []byte
}

func NewJWTService(secret string) JWTService {
	return &jwtService{secret: []byte(secret)}
}

// GenerateToken signs a token carrying a single identifier claim. Tokens
// carry no expiry; sessions last until the signing secret rotates.
func (s *jwtService) GenerateToken(subject string, role Role) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   subject,
		"role": string(role),
	})
	return token.SignedString(s.secret)
}

func (s *jwtService) GenerateAdminToken(email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"role":  string(RoleAdmin),
	})
	return token.SignedString(s.secret)
}

func (s *jwtService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	if id, ok := mapClaims["id"].(string); ok {
		claims.Subject = id
	}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = Role(role)
	}
	if claims.Subject == "" && claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
