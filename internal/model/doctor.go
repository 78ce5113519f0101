package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SlotLedger maps a date key ("2006-01-02") to the ordered set of booked
// time strings for that date. A time value appears at most once per date.
type SlotLedger map[string][]string

// Has reports whether a time is already booked for the date.
func (l SlotLedger) Has(date, slot string) bool {
	for _, t := range l[date] {
		if t == slot {
			return true
		}
	}
	return false
}

// Doctor is a care provider. Provisioned through the admin API, never by
// self-registration.
type Doctor struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password"`
	Image        string             `json:"image,omitempty" bson:"image,omitempty"`
	Speciality   string             `json:"speciality" bson:"speciality"`
	Degree       string             `json:"degree" bson:"degree"`
	Experience   string             `json:"experience" bson:"experience"`
	About        string             `json:"about" bson:"about"`
	Fee          int64              `json:"fee" bson:"fee"`
	Address      Address            `json:"address" bson:"address"`
	Available    bool               `json:"available" bson:"available"`
	Slots        SlotLedger         `json:"slots_booked,omitempty" bson:"slots"`
	CreatedAt    time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updatedAt"`
}

// PublicProfile strips credentials and the slot ledger for listing and
// appointment snapshots.
func (d *Doctor) PublicProfile() Doctor {
	out := *d
	out.PasswordHash = ""
	out.Slots = nil
	return out
}

type AddDoctorRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Speciality string `json:"speciality" validate:"required"`
	Degree     string `json:"degree" validate:"required"`
	Experience string `json:"experience"`
	About      string `json:"about"`
	Fee        int64  `json:"fee" validate:"required,gt=0"`
	Address    Address
}

type UpdateDoctorProfileRequest struct {
	Fee       int64   `json:"fee" validate:"required,gt=0"`
	Address   Address `json:"address"`
	Available bool    `json:"available"`
}
