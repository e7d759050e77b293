package dto

import (
	domainbooking "wanderstay/internal/domain/booking"
	"wanderstay/internal/domain/shared/money"
)

// Quote is the price breakdown rendered next to the reserve button.
type Quote struct {
	DestinationID   int         `json:"destination_id"`
	RoomID          string      `json:"room_id,omitempty"`
	RoomName        string      `json:"room_name,omitempty"`
	VehicleID       string      `json:"vehicle_id,omitempty"`
	VehicleName     string      `json:"vehicle_name,omitempty"`
	Nights          int         `json:"nights"`
	Guests          int         `json:"guests"`
	RoomUnitsNeeded int         `json:"room_units_needed"`
	NightlyRate     money.Money `json:"nightly_rate"`
	BaseLodgingCost money.Money `json:"base_lodging_cost"`
	HallFee         money.Money `json:"hall_fee"`
	VehicleFee      money.Money `json:"vehicle_fee"`
	GrandTotal      money.Money `json:"grand_total"`
	IsBookable      bool        `json:"is_bookable"`
	Lines           []QuoteLine `json:"lines"`
}

type QuoteLine struct {
	Kind     string      `json:"kind"`
	Label    string      `json:"label"`
	Unit     money.Money `json:"unit"`
	Quantity int         `json:"quantity"`
	Nights   int         `json:"nights,omitempty"`
	Amount   money.Money `json:"amount"`
}

func MapQuote(q domainbooking.Quote) Quote {
	out := Quote{
		DestinationID:   int(q.DestinationID),
		RoomID:          q.RoomID,
		RoomName:        q.RoomName,
		VehicleID:       q.VehicleID,
		VehicleName:     q.VehicleName,
		Nights:          q.Nights,
		Guests:          q.Guests,
		RoomUnitsNeeded: q.RoomUnitsNeeded,
		NightlyRate:     q.NightlyRate,
		BaseLodgingCost: q.BaseLodgingCost,
		HallFee:         q.HallFee,
		VehicleFee:      q.VehicleFee,
		GrandTotal:      q.GrandTotal,
		IsBookable:      q.IsBookable,
		Lines:           make([]QuoteLine, 0, len(q.Lines)),
	}
	for _, line := range q.Lines {
		out.Lines = append(out.Lines, QuoteLine{
			Kind:     string(line.Kind),
			Label:    line.Label,
			Unit:     line.Unit,
			Quantity: line.Quantity,
			Nights:   line.Nights,
			Amount:   line.Amount,
		})
	}
	return out
}

// VehicleVerification reports the state of a document check.
type VehicleVerification struct {
	VerificationID string `json:"verification_id"`
	DestinationID  int    `json:"destination_id"`
	VehicleID      string `json:"vehicle_id"`
	State          string `json:"state"`
}

// Reservation is returned by the mocked checkout.
type Reservation struct {
	ReservationID string `json:"reservation_id"`
	Quote         Quote  `json:"quote"`
}
