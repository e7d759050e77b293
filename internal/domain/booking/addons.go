package booking

import "wanderstay/internal/domain/catalog"

// DefaultHallFee is charged once per booking regardless of nights or party size.
const DefaultHallFee int64 = 500

// AddonFees holds the optional extras of a booking.
type AddonFees struct {
	HallFee    int64
	VehicleFee int64
}

// Addons prices the banquet hall as a flat fee and the vehicle at its day-rate times nights.
// At most one vehicle is attached and it is never multiplied by room units.
func Addons(includeHall bool, hallFee int64, vehicle *catalog.Vehicle, nights int) AddonFees {
	if nights < 1 {
		nights = 1
	}
	var fees AddonFees
	if includeHall {
		fees.HallFee = hallFee
	}
	if vehicle != nil {
		fees.VehicleFee = vehicle.Price * int64(nights)
	}
	return fees
}
