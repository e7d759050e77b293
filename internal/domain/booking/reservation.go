package booking

import (
	"errors"
	"time"

	"wanderstay/internal/domain/catalog"
	"wanderstay/internal/domain/shared/events"
	"wanderstay/internal/domain/shared/money"
)

var ErrReservationIDRequired = errors.New("booking: reservation id is required")

type ReservationID string

// Reservation is the mock checkout outcome. It is announced, not stored.
type Reservation struct {
	ID            ReservationID
	DestinationID catalog.DestinationID
	Quote         Quote
	CheckIn       time.Time
	CheckOut      time.Time
	Adults        int
	Children      int
	CreatedAt     time.Time
	events.EventRecorder
}

// Reserve confirms a bookable quote and records ReservationConfirmed.
func Reserve(id ReservationID, sel Selection, quote Quote, now time.Time) (*Reservation, error) {
	if id == "" {
		return nil, ErrReservationIDRequired
	}
	if err := quote.RequireBookable(); err != nil {
		return nil, err
	}
	adults, children := ClampGuests(sel.Adults, sel.Children)
	r := &Reservation{
		ID:            id,
		DestinationID: quote.DestinationID,
		Quote:         quote,
		CheckIn:       sel.CheckIn,
		CheckOut:      sel.CheckOut,
		Adults:        adults,
		Children:      children,
		CreatedAt:     now.UTC(),
	}
	r.Record(ReservationConfirmed{
		ReservationID: id,
		DestinationID: quote.DestinationID,
		RoomID:        quote.RoomID,
		RoomUnits:     quote.RoomUnitsNeeded,
		VehicleID:     quote.VehicleID,
		IncludeHall:   !quote.HallFee.IsZero(),
		Nights:        quote.Nights,
		Guests:        adults + children,
		CheckIn:       sel.CheckIn,
		CheckOut:      sel.CheckOut,
		Total:         quote.GrandTotal,
		At:            r.CreatedAt,
	})
	return r, nil
}

type ReservationConfirmed struct {
	ReservationID ReservationID         `json:"reservation_id"`
	DestinationID catalog.DestinationID `json:"destination_id"`
	RoomID        string                `json:"room_id"`
	RoomUnits     int                   `json:"room_units"`
	VehicleID     string                `json:"vehicle_id,omitempty"`
	IncludeHall   bool                  `json:"include_hall"`
	Nights        int                   `json:"nights"`
	Guests        int                   `json:"guests"`
	CheckIn       time.Time             `json:"check_in"`
	CheckOut      time.Time             `json:"check_out"`
	Total         money.Money           `json:"total"`
	At            time.Time             `json:"at"`
}

func (e ReservationConfirmed) EventName() string     { return "reservation.confirmed" }
func (e ReservationConfirmed) AggregateID() string   { return string(e.ReservationID) }
func (e ReservationConfirmed) OccurredAt() time.Time { return e.At }
