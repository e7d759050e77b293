package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"wanderstay/internal/app/commands"
	"wanderstay/internal/app/dto"
	domainbooking "wanderstay/internal/domain/booking"
	domaincatalog "wanderstay/internal/domain/catalog"
	"wanderstay/internal/infra/storage/s3"
)

const verifyVehicleKey = "booking.vehicle.verify"

// DocumentUpload is one image captured by the verification modal.
type DocumentUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

func (d *DocumentUpload) present() bool {
	return d != nil && d.Reader != nil
}

type VerifyVehicleCommand struct {
	DestinationID int
	VehicleID     string
	LicenceNumber string
	LicenceImage  *DocumentUpload
	AadhaarImage  *DocumentUpload
}

func (c VerifyVehicleCommand) Key() string { return verifyVehicleKey }

// VerifyVehicleHandler stores identity documents and unlocks the vehicle for pricing.
type VerifyVehicleHandler struct {
	Catalog       domaincatalog.Repository
	Verifications domainbooking.VerificationRepository
	Uploader      s3.Uploader
	Logger        *slog.Logger
	IDGenerator   func() string
	Now           func() time.Time
}

func (h *VerifyVehicleHandler) Handle(ctx context.Context, cmd VerifyVehicleCommand) (*dto.VehicleVerification, error) {
	if h.Uploader == nil || h.Verifications == nil {
		return nil, errors.New("booking: vehicle verification unavailable")
	}
	dest, err := loadDestination(h.Catalog, cmd.DestinationID)
	if err != nil {
		return nil, err
	}
	vehicle, ok := dest.Vehicle(strings.TrimSpace(cmd.VehicleID))
	if !ok {
		return nil, domaincatalog.ErrVehicleNotFound
	}
	// Both images gate the upload; nothing is stored for an incomplete submission.
	if !cmd.LicenceImage.present() || !cmd.AadhaarImage.present() {
		return nil, domainbooking.ErrDocumentsMissing
	}

	var selection domainbooking.VehicleSelection
	selection.Click(vehicle.ID)

	id := h.newID()
	prefix := path.Join("verifications", id)
	licence, err := h.store(ctx, path.Join(prefix, "driving-licence"), cmd.LicenceImage)
	if err != nil {
		return nil, err
	}
	aadhaar, err := h.store(ctx, path.Join(prefix, "aadhaar"), cmd.AadhaarImage)
	if err != nil {
		return nil, err
	}
	if err := selection.Confirm(domainbooking.Documents{
		LicenceNumber: strings.TrimSpace(cmd.LicenceNumber),
		LicenceImage:  licence,
		AadhaarImage:  aadhaar,
	}); err != nil {
		return nil, err
	}

	ver := domainbooking.Verification{
		ID:            domainbooking.VerificationID(id),
		DestinationID: dest.ID,
		Selection:     selection,
		CreatedAt:     h.now(),
	}
	if err := h.Verifications.Save(ctx, ver); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.InfoContext(ctx, "vehicle verified", "verification_id", id, "destination_id", dest.ID, "vehicle_id", vehicle.ID)
	}
	return &dto.VehicleVerification{
		VerificationID: id,
		DestinationID:  int(dest.ID),
		VehicleID:      vehicle.ID,
		State:          string(selection.State()),
	}, nil
}

func (h *VerifyVehicleHandler) store(ctx context.Context, key string, doc *DocumentUpload) (*domainbooking.DocumentRef, error) {
	if ext := path.Ext(doc.Filename); ext != "" {
		key += strings.ToLower(ext)
	}
	url, err := h.Uploader.Upload(ctx, key, doc.Reader, doc.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}
	return &domainbooking.DocumentRef{
		Key:         key,
		URL:         url,
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
		Size:        doc.Size,
	}, nil
}

func (h *VerifyVehicleHandler) newID() string {
	if h.IDGenerator != nil {
		return h.IDGenerator()
	}
	return uuid.NewString()
}

func (h *VerifyVehicleHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[VerifyVehicleCommand, *dto.VehicleVerification] = (*VerifyVehicleHandler)(nil)
