package seed

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	domaincatalog "wanderstay/internal/domain/catalog"
)

//go:embed data/destinations.json
var defaultFixtures []byte

var ErrInvalidFixtures = errors.New("seed: invalid fixtures")

type fixtureFile struct {
	Destinations []destinationFixture `json:"destinations" validate:"required,min=1,unique=ID,dive"`
}

type destinationFixture struct {
	ID             int              `json:"id" validate:"gt=0"`
	Title          string           `json:"title" validate:"required"`
	Location       string           `json:"location" validate:"required"`
	Rating         float64          `json:"rating" validate:"gte=0,lte=5"`
	Description    string           `json:"description"`
	Image          string           `json:"image" validate:"omitempty,url"`
	Price          int64            `json:"price" validate:"gte=0"`
	Amenities      []string         `json:"amenities" validate:"dive,required"`
	Rooms          []roomFixture    `json:"rooms" validate:"unique=ID,dive"`
	Vehicles       []vehicleFixture `json:"vehicles" validate:"unique=ID,dive"`
	HasBanquetHall bool             `json:"has_banquet_hall"`
	HallCapacity   int              `json:"hall_capacity" validate:"gte=0"`
}

type roomFixture struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Type     string `json:"type" validate:"required,roomtype"`
	Price    int64  `json:"price" validate:"gte=0"`
	Capacity int    `json:"capacity" validate:"gte=1"`
	Image    string `json:"image" validate:"omitempty,url"`
}

type vehicleFixture struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Price int64  `json:"price" validate:"gte=0"`
	Seats int    `json:"seats" validate:"gte=1"`
	Image string `json:"image" validate:"omitempty,url"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("roomtype", func(fl validator.FieldLevel) bool {
		_, ok := domaincatalog.ParseRoomType(fl.Field().String())
		return ok
	})
	return v
}

// Default builds the catalog shipped with the binary.
func Default() (*domaincatalog.Catalog, error) {
	return Load(bytes.NewReader(defaultFixtures))
}

// LoadFile reads fixtures from disk; an empty path means the embedded set.
func LoadFile(path string) (*domaincatalog.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("seed: open fixtures: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes, validates and indexes a fixture document.
func Load(r io.Reader) (*domaincatalog.Catalog, error) {
	var file fixtureFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("seed: decode fixtures: %w", err)
	}
	if err := validate.Struct(file); err != nil {
		return nil, describe(err)
	}
	destinations := make([]domaincatalog.Destination, 0, len(file.Destinations))
	for _, fx := range file.Destinations {
		destinations = append(destinations, fx.toDomain())
	}
	return domaincatalog.New(destinations)
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidFixtures, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.TrimPrefix(fe.Namespace(), "fixtureFile."), fe.Tag()))
	}
	sort.Strings(msgs)
	return fmt.Errorf("%w: %s", ErrInvalidFixtures, strings.Join(msgs, "; "))
}

func (fx destinationFixture) toDomain() domaincatalog.Destination {
	d := domaincatalog.Destination{
		ID:             domaincatalog.DestinationID(fx.ID),
		Title:          strings.TrimSpace(fx.Title),
		Location:       strings.TrimSpace(fx.Location),
		Rating:         fx.Rating,
		Description:    fx.Description,
		Image:          fx.Image,
		Price:          fx.Price,
		Amenities:      append([]string(nil), fx.Amenities...),
		HasBanquetHall: fx.HasBanquetHall,
		HallCapacity:   fx.HallCapacity,
	}
	for _, r := range fx.Rooms {
		roomType, _ := domaincatalog.ParseRoomType(r.Type)
		d.Rooms = append(d.Rooms, domaincatalog.Room{
			ID:       r.ID,
			Name:     r.Name,
			Type:     roomType,
			Price:    r.Price,
			Capacity: r.Capacity,
			Image:    r.Image,
		})
	}
	for _, v := range fx.Vehicles {
		d.Vehicles = append(d.Vehicles, domaincatalog.Vehicle{
			ID:    v.ID,
			Name:  v.Name,
			Price: v.Price,
			Seats: v.Seats,
			Image: v.Image,
		})
	}
	return d
}
