package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDestinationNotFound = errors.New("catalog: destination not found")
	ErrRoomNotFound        = errors.New("catalog: room not found")
	ErrVehicleNotFound     = errors.New("catalog: vehicle not found")
	ErrInvalidDestination  = errors.New("catalog: invalid destination")
	ErrDuplicateID         = errors.New("catalog: duplicate id")
)

type DestinationID int

type RoomType string

const (
	RoomAC    RoomType = "AC"
	RoomNonAC RoomType = "Non-AC"
)

// ParseRoomType accepts the labels used by the storefront ("AC", "Non-AC", "nonac").
func ParseRoomType(raw string) (RoomType, bool) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), "-", "")) {
	case "ac":
		return RoomAC, true
	case "nonac":
		return RoomNonAC, true
	default:
		return "", false
	}
}

// Room is one bookable room type; a booking may take several units of it.
type Room struct {
	ID       string
	Name     string
	Type     RoomType
	Price    int64
	Capacity int
	Image    string
}

// Vehicle is a rentable vehicle charged per day of the stay.
type Vehicle struct {
	ID    string
	Name  string
	Price int64
	Seats int
	Image string
}

type Destination struct {
	ID             DestinationID
	Title          string
	Location       string
	Rating         float64
	Description    string
	Image          string
	Price          int64
	Amenities      []string
	Rooms          []Room
	Vehicles       []Vehicle
	HasBanquetHall bool
	HallCapacity   int
}

// Room finds a room by id.
func (d Destination) Room(id string) (Room, bool) {
	for _, room := range d.Rooms {
		if room.ID == id {
			return room, true
		}
	}
	return Room{}, false
}

// Vehicle finds a vehicle by id.
func (d Destination) Vehicle(id string) (Vehicle, bool) {
	for _, vehicle := range d.Vehicles {
		if vehicle.ID == id {
			return vehicle, true
		}
	}
	return Vehicle{}, false
}

// HasAmenity matches case-insensitively.
func (d Destination) HasAmenity(name string) bool {
	name = strings.TrimSpace(name)
	for _, amenity := range d.Amenities {
		if strings.EqualFold(strings.TrimSpace(amenity), name) {
			return true
		}
	}
	return false
}

// Validate checks the invariants of a destination and its sub-catalogs.
func (d Destination) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w %d: title is required", ErrInvalidDestination, d.ID)
	}
	if d.Price < 0 {
		return fmt.Errorf("%w %d: price must be non-negative", ErrInvalidDestination, d.ID)
	}
	if d.HallCapacity < 0 {
		return fmt.Errorf("%w %d: hall capacity must be non-negative", ErrInvalidDestination, d.ID)
	}
	rooms := make(map[string]struct{}, len(d.Rooms))
	for _, room := range d.Rooms {
		if room.ID == "" {
			return fmt.Errorf("%w %d: room id is required", ErrInvalidDestination, d.ID)
		}
		if _, ok := rooms[room.ID]; ok {
			return fmt.Errorf("%w: room %q in destination %d", ErrDuplicateID, room.ID, d.ID)
		}
		rooms[room.ID] = struct{}{}
		if room.Capacity < 1 {
			return fmt.Errorf("%w %d: room %q capacity must be at least 1", ErrInvalidDestination, d.ID, room.ID)
		}
		if room.Price < 0 {
			return fmt.Errorf("%w %d: room %q price must be non-negative", ErrInvalidDestination, d.ID, room.ID)
		}
	}
	vehicles := make(map[string]struct{}, len(d.Vehicles))
	for _, vehicle := range d.Vehicles {
		if vehicle.ID == "" {
			return fmt.Errorf("%w %d: vehicle id is required", ErrInvalidDestination, d.ID)
		}
		if _, ok := vehicles[vehicle.ID]; ok {
			return fmt.Errorf("%w: vehicle %q in destination %d", ErrDuplicateID, vehicle.ID, d.ID)
		}
		vehicles[vehicle.ID] = struct{}{}
		if vehicle.Seats < 1 {
			return fmt.Errorf("%w %d: vehicle %q needs at least one seat", ErrInvalidDestination, d.ID, vehicle.ID)
		}
		if vehicle.Price < 0 {
			return fmt.Errorf("%w %d: vehicle %q price must be non-negative", ErrInvalidDestination, d.ID, vehicle.ID)
		}
	}
	return nil
}

// clone returns a deep copy so callers can never reach catalog internals.
func (d Destination) clone() Destination {
	out := d
	out.Amenities = append([]string(nil), d.Amenities...)
	out.Rooms = append([]Room(nil), d.Rooms...)
	out.Vehicles = append([]Vehicle(nil), d.Vehicles...)
	return out
}
