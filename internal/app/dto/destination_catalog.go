package dto

import (
	domaincatalog "wanderstay/internal/domain/catalog"
)

// DestinationCatalog is the filtered/sorted collection rendered as result cards.
type DestinationCatalog struct {
	Items   []DestinationCard `json:"items"`
	Filters CatalogFilters    `json:"filters"`
	Meta    CatalogMetadata   `json:"meta"`
}

// DestinationCard is a lightweight representation for catalog cards.
type DestinationCard struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Location       string   `json:"location"`
	Rating         float64  `json:"rating"`
	Description    string   `json:"description"`
	Image          string   `json:"image"`
	Price          int64    `json:"price"`
	Amenities      []string `json:"amenities"`
	HasBanquetHall bool     `json:"has_banquet_hall"`
}

// CatalogFilters echoes back the applied search and filters.
type CatalogFilters struct {
	Query     string   `json:"query"`
	Guests    int      `json:"guests"`
	PriceMin  int64    `json:"price_min"`
	PriceMax  int64    `json:"price_max"`
	Amenities []string `json:"amenities"`
	Sort      string   `json:"sort"`
}

// CatalogMetadata lets the client tell "no search yet" apart from "no matches".
type CatalogMetadata struct {
	Searched bool `json:"searched"`
	Total    int  `json:"total"`
	Count    int  `json:"count"`
	Empty    bool `json:"empty"`
}

// DestinationDetail is the full page model with room and vehicle sub-catalogs.
type DestinationDetail struct {
	DestinationCard
	HallCapacity int           `json:"hall_capacity,omitempty"`
	Rooms        []RoomView    `json:"rooms"`
	Vehicles     []VehicleView `json:"vehicles"`
}

type RoomView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Price    int64  `json:"price"`
	Capacity int    `json:"capacity"`
	Image    string `json:"image"`
}

type VehicleView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Seats int    `json:"seats"`
	Image string `json:"image"`
}

// Suggestions is the type-ahead payload.
type Suggestions struct {
	Query string            `json:"query"`
	Items []DestinationCard `json:"items"`
}

// MapCatalog builds a DTO collection based on a result view.
func MapCatalog(view domaincatalog.ResultView) DestinationCatalog {
	return DestinationCatalog{
		Items: MapCards(view.Items),
		Filters: CatalogFilters{
			Query:     view.Criteria.Query,
			Guests:    view.Criteria.Guests,
			PriceMin:  view.Filters.PriceRange.Min,
			PriceMax:  view.Filters.PriceRange.Max,
			Amenities: append([]string{}, view.Filters.Amenities...),
			Sort:      string(view.Filters.Sort),
		},
		Meta: CatalogMetadata{
			Searched: view.Searched,
			Total:    view.Matched,
			Count:    len(view.Items),
			Empty:    view.Empty(),
		},
	}
}

func MapCards(items []domaincatalog.Destination) []DestinationCard {
	out := make([]DestinationCard, 0, len(items))
	for _, d := range items {
		out = append(out, MapCard(d))
	}
	return out
}

// MapCard copies domain data for frontend consumption.
func MapCard(d domaincatalog.Destination) DestinationCard {
	return DestinationCard{
		ID:             int(d.ID),
		Title:          d.Title,
		Location:       d.Location,
		Rating:         d.Rating,
		Description:    d.Description,
		Image:          d.Image,
		Price:          d.Price,
		Amenities:      append([]string{}, d.Amenities...),
		HasBanquetHall: d.HasBanquetHall,
	}
}

func MapDetail(d domaincatalog.Destination) DestinationDetail {
	detail := DestinationDetail{
		DestinationCard: MapCard(d),
		HallCapacity:    d.HallCapacity,
		Rooms:           make([]RoomView, 0, len(d.Rooms)),
		Vehicles:        make([]VehicleView, 0, len(d.Vehicles)),
	}
	for _, r := range d.Rooms {
		detail.Rooms = append(detail.Rooms, RoomView{
			ID: r.ID, Name: r.Name, Type: string(r.Type), Price: r.Price, Capacity: r.Capacity, Image: r.Image,
		})
	}
	for _, v := range d.Vehicles {
		detail.Vehicles = append(detail.Vehicles, VehicleView{
			ID: v.ID, Name: v.Name, Price: v.Price, Seats: v.Seats, Image: v.Image,
		})
	}
	return detail
}
