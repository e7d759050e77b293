package booking

import (
	"context"
	"errors"
	"time"

	"wanderstay/internal/domain/catalog"
)

var ErrVerificationNotFound = errors.New("booking: vehicle verification not found")

type VerificationID string

// Verification is a completed document check for one vehicle of one destination.
// Quotes reference it by id instead of re-uploading documents.
type Verification struct {
	ID            VerificationID
	DestinationID catalog.DestinationID
	Selection     VehicleSelection
	CreatedAt     time.Time
}

// Covers reports whether the verification unlocks the given vehicle.
func (v Verification) Covers(destinationID catalog.DestinationID, vehicleID string) bool {
	return v.DestinationID == destinationID &&
		vehicleID != "" &&
		v.Selection.SelectedVehicleID() == vehicleID
}

type VerificationRepository interface {
	Save(ctx context.Context, v Verification) error
	ByID(ctx context.Context, id VerificationID) (Verification, error)
}
