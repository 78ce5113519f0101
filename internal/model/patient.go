package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is transmitted by clients as a JSON-encoded string inside the
// multipart profile form and decoded server-side.
type Address struct {
	Line1 string `json:"line1" bson:"line1"`
	Line2 string `json:"line2" bson:"line2"`
}

// Patient is an account holder. The password hash never leaves the
// repository layer in API responses (bson-only field).
type Patient struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password"`
	Image        string             `json:"image,omitempty" bson:"image,omitempty"`
	Phone        string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Address      Address            `json:"address" bson:"address"`
	Gender       string             `json:"gender,omitempty" bson:"gender,omitempty"`
	DOB          string             `json:"dob,omitempty" bson:"dob,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updatedAt"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries the text fields of a profile update. The
// avatar file travels separately in the multipart body.
type UpdateProfileRequest struct {
	Name    string  `json:"name" validate:"required"`
	Phone   string  `json:"phone" validate:"required"`
	DOB     string  `json:"dob" validate:"required"`
	Gender  string  `json:"gender" validate:"required"`
	Address Address `json:"address"`
}
