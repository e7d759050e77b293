package daterange

import (
	"errors"
	"time"
)

const day = 24 * time.Hour

// DefaultNights is used whenever a stay length cannot be derived from the dates.
const DefaultNights = 1

var (
	ErrInvalidRange = errors.New("daterange: checkout must be after checkin")
)

// DateRange represents a half-open interval [checkIn, checkOut). Either end may be unset.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// New builds a strict range; both ends must be set and ordered.
func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: checkIn.UTC(), CheckOut: checkOut.UTC()}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Loose builds a range without validation, as entered by a guest.
func Loose(checkIn, checkOut time.Time) DateRange {
	return DateRange{CheckIn: checkIn, CheckOut: checkOut}
}

func (dr DateRange) Validate() error {
	if dr.CheckOut.IsZero() || dr.CheckIn.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// IsSet reports whether both ends are present.
func (dr DateRange) IsSet() bool {
	return !dr.CheckIn.IsZero() && !dr.CheckOut.IsZero()
}

// Nights returns the billable night count, never less than DefaultNights.
func (dr DateRange) Nights() int {
	return Nights(dr.CheckIn, dr.CheckOut)
}

// Nights derives a night count from a check-in/check-out pair. Partial days round up.
// Unset dates or a non-positive difference fall back to DefaultNights.
func Nights(checkIn, checkOut time.Time) int {
	if checkIn.IsZero() || checkOut.IsZero() {
		return DefaultNights
	}
	diff := checkOut.Sub(checkIn)
	if diff <= 0 {
		return DefaultNights
	}
	nights := int(diff / day)
	if diff%day != 0 {
		nights++
	}
	if nights < DefaultNights {
		return DefaultNights
	}
	return nights
}

// TruncateToDay drops the clock part and pins the value to UTC midnight.
func TruncateToDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
