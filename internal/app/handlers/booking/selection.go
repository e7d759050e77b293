package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	domainbooking "wanderstay/internal/domain/booking"
	domaincatalog "wanderstay/internal/domain/catalog"
)

var ErrCatalogUnavailable = errors.New("booking: catalog not loaded")

// SelectionInput is the guest's draft as submitted from the destination page.
// A vehicle only counts once VerificationID refers to a completed check for it.
type SelectionInput struct {
	DestinationID  int
	RoomID         string
	IncludeHall    bool
	VehicleID      string
	VerificationID string
	CheckIn        time.Time
	CheckOut       time.Time
	Adults         int
	Children       int
}

func loadDestination(catalog domaincatalog.Repository, id int) (domaincatalog.Destination, error) {
	if catalog == nil {
		return domaincatalog.Destination{}, ErrCatalogUnavailable
	}
	return catalog.ByID(domaincatalog.DestinationID(id))
}

// resolveSelection turns raw input into a domain selection. Unknown or unrelated
// verifications leave the vehicle unselected rather than failing the quote.
func resolveSelection(ctx context.Context, verifications domainbooking.VerificationRepository, dest domaincatalog.Destination, in SelectionInput) (domainbooking.Selection, error) {
	sel := domainbooking.Selection{
		DestinationID: dest.ID,
		RoomID:        strings.TrimSpace(in.RoomID),
		IncludeHall:   in.IncludeHall,
		CheckIn:       in.CheckIn,
		CheckOut:      in.CheckOut,
		Adults:        in.Adults,
		Children:      in.Children,
	}
	vehicleID := strings.TrimSpace(in.VehicleID)
	verificationID := strings.TrimSpace(in.VerificationID)
	if vehicleID == "" || verificationID == "" || verifications == nil {
		return sel, nil
	}
	ver, err := verifications.ByID(ctx, domainbooking.VerificationID(verificationID))
	if errors.Is(err, domainbooking.ErrVerificationNotFound) {
		return sel, nil
	}
	if err != nil {
		return domainbooking.Selection{}, err
	}
	if ver.Covers(dest.ID, vehicleID) {
		sel.Vehicle = ver.Selection
	}
	return sel, nil
}
