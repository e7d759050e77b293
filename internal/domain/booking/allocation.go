package booking

import "wanderstay/internal/domain/catalog"

// fallbackCapacity applies to rooms that carry no usable capacity.
const fallbackCapacity = 2

// Allocation is the room-unit split and lodging cost for a stay.
type Allocation struct {
	UnitsNeeded     int
	NightlyRate     int64
	BaseLodgingCost int64
}

// Allocate spills guests beyond one unit's capacity into additional units of the
// same room type. Without a room it prices one unit at the destination base rate.
func Allocate(room *catalog.Room, baseRate int64, totalGuests, nights int) Allocation {
	if nights < 1 {
		nights = 1
	}
	if room == nil {
		return Allocation{
			UnitsNeeded:     1,
			NightlyRate:     baseRate,
			BaseLodgingCost: baseRate * int64(nights),
		}
	}
	units := UnitsNeeded(totalGuests, room.Capacity)
	return Allocation{
		UnitsNeeded:     units,
		NightlyRate:     room.Price,
		BaseLodgingCost: room.Price * int64(nights) * int64(units),
	}
}

// UnitsNeeded is ceil(guests/capacity), never below one.
func UnitsNeeded(totalGuests, capacity int) int {
	if capacity < 1 {
		capacity = fallbackCapacity
	}
	if totalGuests < 1 {
		return 1
	}
	return (totalGuests + capacity - 1) / capacity
}
