package booking

import (
	"errors"
	"time"

	"wanderstay/internal/domain/catalog"
	"wanderstay/internal/domain/shared/daterange"
	"wanderstay/internal/domain/shared/money"
)

var ErrNotBookable = errors.New("booking: select a room before reserving")

const DefaultCurrency = "USD"

// Selection is the guest's draft for one destination.
type Selection struct {
	DestinationID catalog.DestinationID
	RoomID        string
	IncludeHall   bool
	Vehicle       VehicleSelection
	CheckIn       time.Time
	CheckOut      time.Time
	Adults        int
	Children      int
}

// TotalGuests counts children as full occupants.
func (s Selection) TotalGuests() int {
	adults, children := ClampGuests(s.Adults, s.Children)
	return adults + children
}

func (s Selection) Range() daterange.DateRange {
	return daterange.Loose(s.CheckIn, s.CheckOut)
}

// ClampGuests floors counters at their minimum: one adult, zero children.
func ClampGuests(adults, children int) (int, int) {
	if adults < 1 {
		adults = 1
	}
	if children < 0 {
		children = 0
	}
	return adults, children
}

type LineKind string

const (
	LineLodging LineKind = "lodging"
	LineHall    LineKind = "banquet_hall"
	LineVehicle LineKind = "vehicle"
)

// LineItem is one row of the price breakdown.
type LineItem struct {
	Kind     LineKind
	Label    string
	Unit     money.Money
	Quantity int
	Nights   int
	Amount   money.Money
}

// Quote is derived from a Selection and never stored on its own.
type Quote struct {
	DestinationID   catalog.DestinationID
	RoomID          string
	RoomName        string
	VehicleID       string
	VehicleName     string
	Nights          int
	Guests          int
	RoomUnitsNeeded int
	NightlyRate     money.Money
	BaseLodgingCost money.Money
	HallFee         money.Money
	VehicleFee      money.Money
	GrandTotal      money.Money
	IsBookable      bool
	Lines           []LineItem
}

// Policy holds the tunable pricing inputs.
type Policy struct {
	Currency string
	HallFee  int64
}

func DefaultPolicy() Policy {
	return Policy{Currency: DefaultCurrency, HallFee: DefaultHallFee}
}

// Assemble prices a selection with the default policy.
func Assemble(sel Selection, dest catalog.Destination) Quote {
	return DefaultPolicy().Quote(sel, dest)
}

// Quote composes duration, allocation and add-ons. It never fails: a missing room
// yields a priced but unbookable quote, and unknown room or vehicle ids count as not selected.
func (p Policy) Quote(sel Selection, dest catalog.Destination) Quote {
	currency := DefaultCurrency
	if p.Currency != "" {
		currency = money.Zero(p.Currency).Currency
	}
	nights := sel.Range().Nights()
	guests := sel.TotalGuests()

	var room *catalog.Room
	if found, ok := dest.Room(sel.RoomID); ok && sel.RoomID != "" {
		room = &found
	}
	var vehicle *catalog.Vehicle
	if id := sel.Vehicle.SelectedVehicleID(); id != "" {
		if found, ok := dest.Vehicle(id); ok {
			vehicle = &found
		}
	}

	alloc := Allocate(room, dest.Price, guests, nights)
	fees := Addons(sel.IncludeHall && dest.HasBanquetHall, p.HallFee, vehicle, nights)

	amount := func(v int64) money.Money { return money.Money{Amount: v, Currency: currency} }
	q := Quote{
		DestinationID:   dest.ID,
		Nights:          nights,
		Guests:          guests,
		RoomUnitsNeeded: alloc.UnitsNeeded,
		NightlyRate:     amount(alloc.NightlyRate),
		BaseLodgingCost: amount(alloc.BaseLodgingCost),
		HallFee:         amount(fees.HallFee),
		VehicleFee:      amount(fees.VehicleFee),
		IsBookable:      room != nil,
	}
	lodgingLabel := "Standard"
	if room != nil {
		q.RoomID = room.ID
		q.RoomName = room.Name
		lodgingLabel = room.Name
	}
	q.Lines = append(q.Lines, LineItem{
		Kind:     LineLodging,
		Label:    lodgingLabel,
		Unit:     q.NightlyRate,
		Quantity: alloc.UnitsNeeded,
		Nights:   nights,
		Amount:   q.BaseLodgingCost,
	})
	if fees.HallFee > 0 {
		q.Lines = append(q.Lines, LineItem{Kind: LineHall, Label: "Banquet Hall Fee", Unit: q.HallFee, Quantity: 1, Amount: q.HallFee})
	}
	if vehicle != nil {
		q.VehicleID = vehicle.ID
		q.VehicleName = vehicle.Name
		q.Lines = append(q.Lines, LineItem{
			Kind:     LineVehicle,
			Label:    vehicle.Name,
			Unit:     amount(vehicle.Price),
			Quantity: 1,
			Nights:   nights,
			Amount:   q.VehicleFee,
		})
	}

	// All parts are built in currency above, so Sum cannot mismatch.
	q.GrandTotal, _ = money.Sum(currency, q.BaseLodgingCost, q.HallFee, q.VehicleFee)
	return q
}

// RequireBookable gates the checkout action.
func (q Quote) RequireBookable() error {
	if !q.IsBookable {
		return ErrNotBookable
	}
	return nil
}
