package booking

import (
	"errors"
	"strings"
)

var (
	ErrDocumentsMissing  = errors.New("booking: please upload both Driving License and Aadhaar Card images")
	ErrInvalidTransition = errors.New("booking: invalid vehicle selection transition")
)

type VehicleState string

const (
	VehicleUnselected          VehicleState = "UNSELECTED"
	VehiclePendingVerification VehicleState = "PENDING_VERIFICATION"
	VehicleSelected            VehicleState = "SELECTED"
)

// DocumentRef points at a captured identity document.
type DocumentRef struct {
	Key         string `json:"key"`
	URL         string `json:"url,omitempty"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size"`
}

func (d *DocumentRef) present() bool {
	return d != nil && (d.Key != "" || d.Filename != "")
}

// Documents is the identity proof required to rent a vehicle.
// The licence number is optional; both images are not.
type Documents struct {
	LicenceNumber string
	LicenceImage  *DocumentRef
	AadhaarImage  *DocumentRef
}

func (d Documents) Validate() error {
	if !d.LicenceImage.present() || !d.AadhaarImage.present() {
		return ErrDocumentsMissing
	}
	return nil
}

// VehicleSelection tracks the click → verify → confirm flow for a single vehicle.
// The zero value is Unselected.
type VehicleSelection struct {
	state     VehicleState
	vehicleID string
	documents Documents
}

func (v VehicleSelection) State() VehicleState {
	if v.state == "" {
		return VehicleUnselected
	}
	return v.state
}

// VehicleID is the vehicle being verified or already selected.
func (v VehicleSelection) VehicleID() string {
	return v.vehicleID
}

// SelectedVehicleID is empty until verification has succeeded.
func (v VehicleSelection) SelectedVehicleID() string {
	if v.State() != VehicleSelected {
		return ""
	}
	return v.vehicleID
}

func (v VehicleSelection) Documents() Documents {
	return v.documents
}

// Click toggles a vehicle. Clicking the selected or pending vehicle again clears it
// without re-verification; clicking another vehicle starts its verification.
func (v *VehicleSelection) Click(vehicleID string) {
	vehicleID = strings.TrimSpace(vehicleID)
	if vehicleID == "" {
		return
	}
	switch v.State() {
	case VehicleSelected, VehiclePendingVerification:
		if v.vehicleID == vehicleID {
			*v = VehicleSelection{}
			return
		}
	}
	*v = VehicleSelection{state: VehiclePendingVerification, vehicleID: vehicleID}
}

// Confirm completes verification. Missing documents keep the selection pending.
func (v *VehicleSelection) Confirm(docs Documents) error {
	if v.State() != VehiclePendingVerification {
		return ErrInvalidTransition
	}
	if err := docs.Validate(); err != nil {
		return err
	}
	v.state = VehicleSelected
	v.documents = docs
	return nil
}

// Cancel abandons a pending verification.
func (v *VehicleSelection) Cancel() {
	if v.State() == VehiclePendingVerification {
		*v = VehicleSelection{}
	}
}

// RestoreVehicleSelection rebuilds a selection read back from storage.
// Only a confirmed selection with complete documents can be restored.
func RestoreVehicleSelection(vehicleID string, docs Documents) (VehicleSelection, error) {
	vehicleID = strings.TrimSpace(vehicleID)
	if vehicleID == "" {
		return VehicleSelection{}, ErrInvalidTransition
	}
	if err := docs.Validate(); err != nil {
		return VehicleSelection{}, err
	}
	return VehicleSelection{state: VehicleSelected, vehicleID: vehicleID, documents: docs}, nil
}
