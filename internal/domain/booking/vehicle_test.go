package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehicleSelection_HappyPath(t *testing.T) {
	var v VehicleSelection
	assert.Equal(t, VehicleUnselected, v.State())

	v.Click("car-1")
	assert.Equal(t, VehiclePendingVerification, v.State())
	assert.Equal(t, "car-1", v.VehicleID())
	assert.Empty(t, v.SelectedVehicleID())

	docs := validDocs()
	docs.LicenceNumber = "DL-0420110149646"
	require.NoError(t, v.Confirm(docs))
	assert.Equal(t, VehicleSelected, v.State())
	assert.Equal(t, "car-1", v.SelectedVehicleID())
	assert.Equal(t, "DL-0420110149646", v.Documents().LicenceNumber)
}

func TestVehicleSelection_MissingDocumentsStayPending(t *testing.T) {
	cases := map[string]Documents{
		"nothing":      {},
		"licence only": {LicenceImage: &DocumentRef{Key: "dl"}},
		"aadhaar only": {AadhaarImage: &DocumentRef{Key: "aadhaar"}},
		"number only":  {LicenceNumber: "DL-1"},
		"empty refs":   {LicenceImage: &DocumentRef{}, AadhaarImage: &DocumentRef{}},
	}
	for name, docs := range cases {
		t.Run(name, func(t *testing.T) {
			var v VehicleSelection
			v.Click("car-1")
			err := v.Confirm(docs)
			assert.ErrorIs(t, err, ErrDocumentsMissing)
			assert.Equal(t, VehiclePendingVerification, v.State())
			assert.Empty(t, v.SelectedVehicleID())
		})
	}
}

func TestVehicleSelection_ToggleOffWithoutReverification(t *testing.T) {
	v := verified(t, "car-1")

	v.Click("car-1")
	assert.Equal(t, VehicleUnselected, v.State())
	assert.Empty(t, v.VehicleID())
}

func TestVehicleSelection_SwitchingVehicleNeedsVerification(t *testing.T) {
	v := verified(t, "car-1")

	v.Click("car-2")
	assert.Equal(t, VehiclePendingVerification, v.State())
	assert.Equal(t, "car-2", v.VehicleID())
	assert.Empty(t, v.SelectedVehicleID())
}

func TestVehicleSelection_InvalidTransitions(t *testing.T) {
	var v VehicleSelection
	assert.ErrorIs(t, v.Confirm(validDocs()), ErrInvalidTransition)

	selected := verified(t, "car-1")
	assert.ErrorIs(t, selected.Confirm(validDocs()), ErrInvalidTransition)

	v.Click("   ")
	assert.Equal(t, VehicleUnselected, v.State())
}

func TestVehicleSelection_Cancel(t *testing.T) {
	var v VehicleSelection
	v.Click("car-1")
	v.Cancel()
	assert.Equal(t, VehicleUnselected, v.State())

	selected := verified(t, "car-1")
	selected.Cancel()
	assert.Equal(t, VehicleSelected, selected.State())

	var pending VehicleSelection
	pending.Click("car-1")
	pending.Click("car-1")
	assert.Equal(t, VehicleUnselected, pending.State())
}

func TestVerification_Covers(t *testing.T) {
	var sel VehicleSelection
	sel.Click("th-scooter")
	require.NoError(t, sel.Confirm(Documents{
		LicenceImage: &DocumentRef{Filename: "dl.png"},
		AadhaarImage: &DocumentRef{Filename: "aadhaar.png"},
	}))
	v := Verification{ID: "v-1", DestinationID: 1, Selection: sel}

	assert.True(t, v.Covers(1, "th-scooter"))
	assert.False(t, v.Covers(2, "th-scooter"))
	assert.False(t, v.Covers(1, "th-jeep"))
	assert.False(t, v.Covers(1, ""))

	var pending VehicleSelection
	pending.Click("th-scooter")
	assert.False(t, Verification{DestinationID: 1, Selection: pending}.Covers(1, "th-scooter"))
}

func TestRestoreVehicleSelection(t *testing.T) {
	v, err := RestoreVehicleSelection(" bike-2 ", validDocs())
	require.NoError(t, err)
	assert.Equal(t, VehicleSelected, v.State())
	assert.Equal(t, "bike-2", v.SelectedVehicleID())

	_, err = RestoreVehicleSelection("bike-2", Documents{})
	assert.ErrorIs(t, err, ErrDocumentsMissing)

	_, err = RestoreVehicleSelection("", validDocs())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
