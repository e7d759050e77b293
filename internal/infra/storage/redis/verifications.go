package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	domainbooking "wanderstay/internal/domain/booking"
	"wanderstay/internal/domain/catalog"
)

const verificationPrefix = "wanderstay:verification:"

// VerificationRepository keeps completed vehicle verifications for ttl.
type VerificationRepository struct {
	client goredis.Cmdable
	ttl    time.Duration
}

func NewVerificationRepository(client goredis.Cmdable, ttl time.Duration) *VerificationRepository {
	return &VerificationRepository{client: client, ttl: ttl}
}

type verificationEntry struct {
	DestinationID catalog.DestinationID      `json:"destination_id"`
	VehicleID     string                     `json:"vehicle_id"`
	LicenceNumber string                     `json:"licence_number,omitempty"`
	LicenceImage  *domainbooking.DocumentRef `json:"licence_image"`
	AadhaarImage  *domainbooking.DocumentRef `json:"aadhaar_image"`
	CreatedAt     time.Time                  `json:"created_at"`
}

func (r *VerificationRepository) Save(ctx context.Context, v domainbooking.Verification) error {
	docs := v.Selection.Documents()
	raw, err := json.Marshal(verificationEntry{
		DestinationID: v.DestinationID,
		VehicleID:     v.Selection.SelectedVehicleID(),
		LicenceNumber: docs.LicenceNumber,
		LicenceImage:  docs.LicenceImage,
		AadhaarImage:  docs.AadhaarImage,
		CreatedAt:     v.CreatedAt,
	})
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, verificationPrefix+string(v.ID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis: save verification %s: %w", v.ID, err)
	}
	return nil
}

func (r *VerificationRepository) ByID(ctx context.Context, id domainbooking.VerificationID) (domainbooking.Verification, error) {
	raw, err := r.client.Get(ctx, verificationPrefix+string(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domainbooking.Verification{}, domainbooking.ErrVerificationNotFound
	}
	if err != nil {
		return domainbooking.Verification{}, fmt.Errorf("redis: get verification %s: %w", id, err)
	}
	var entry verificationEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return domainbooking.Verification{}, fmt.Errorf("redis: decode verification %s: %w", id, err)
	}
	selection, err := domainbooking.RestoreVehicleSelection(entry.VehicleID, domainbooking.Documents{
		LicenceNumber: entry.LicenceNumber,
		LicenceImage:  entry.LicenceImage,
		AadhaarImage:  entry.AadhaarImage,
	})
	if err != nil {
		return domainbooking.Verification{}, fmt.Errorf("redis: restore verification %s: %w", id, err)
	}
	return domainbooking.Verification{
		ID:            id,
		DestinationID: entry.DestinationID,
		Selection:     selection,
		CreatedAt:     entry.CreatedAt,
	}, nil
}

var _ domainbooking.VerificationRepository = (*VerificationRepository)(nil)
