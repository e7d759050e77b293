package catalog

import (
	"fmt"
	"strings"
)

// Repository is the read surface consumed by the application layer.
type Repository interface {
	ByID(id DestinationID) (Destination, error)
	All() []Destination
	Amenities() []string
}

var _ Repository = (*Catalog)(nil)

// Catalog is the read-only destination set loaded once at startup.
// It exposes no mutation path; every accessor hands out copies.
type Catalog struct {
	items []Destination
	index map[DestinationID]int
}

// New validates and copies the provided destinations.
func New(destinations []Destination) (*Catalog, error) {
	c := &Catalog{
		items: make([]Destination, 0, len(destinations)),
		index: make(map[DestinationID]int, len(destinations)),
	}
	for _, d := range destinations {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.index[d.ID]; ok {
			return nil, fmt.Errorf("%w: destination %d", ErrDuplicateID, d.ID)
		}
		c.index[d.ID] = len(c.items)
		c.items = append(c.items, d.clone())
	}
	return c, nil
}

// ByID returns ErrDestinationNotFound for unknown ids.
func (c *Catalog) ByID(id DestinationID) (Destination, error) {
	if c == nil {
		return Destination{}, ErrDestinationNotFound
	}
	pos, ok := c.index[id]
	if !ok {
		return Destination{}, ErrDestinationNotFound
	}
	return c.items[pos].clone(), nil
}

// All returns every destination in catalog order.
func (c *Catalog) All() []Destination {
	if c == nil {
		return nil
	}
	out := make([]Destination, 0, len(c.items))
	for _, d := range c.items {
		out = append(out, d.clone())
	}
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Amenities lists every amenity offered anywhere, in first-seen order.
func (c *Catalog) Amenities() []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, d := range c.items {
		for _, amenity := range d.Amenities {
			key := strings.ToLower(strings.TrimSpace(amenity))
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, strings.TrimSpace(amenity))
		}
	}
	return out
}
