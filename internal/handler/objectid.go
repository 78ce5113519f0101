package handler

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/medibook/booking-api/pkg/errors"
)

// ParseObjectID converts a hex string from a request body into an ObjectID.
func ParseObjectID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperrors.Validation("invalid appointment id")
	}
	return id, nil
}
