package catalog

import (
	"context"
	"errors"

	"wanderstay/internal/app/dto"
	"wanderstay/internal/app/queries"
	domaincatalog "wanderstay/internal/domain/catalog"
)

const getDestinationKey = "catalog.destination"

var ErrCatalogUnavailable = errors.New("catalog: not loaded")

type GetDestinationQuery struct {
	ID int
}

func (q GetDestinationQuery) Key() string { return getDestinationKey }

type GetDestinationHandler struct {
	Catalog domaincatalog.Repository
}

func (h *GetDestinationHandler) Handle(_ context.Context, q GetDestinationQuery) (dto.DestinationDetail, error) {
	if h.Catalog == nil {
		return dto.DestinationDetail{}, ErrCatalogUnavailable
	}
	dest, err := h.Catalog.ByID(domaincatalog.DestinationID(q.ID))
	if err != nil {
		return dto.DestinationDetail{}, err
	}
	return dto.MapDetail(dest), nil
}

const listAmenitiesKey = "catalog.amenities"

// ListAmenitiesQuery returns the options shown in the amenity filter.
type ListAmenitiesQuery struct{}

func (q ListAmenitiesQuery) Key() string { return listAmenitiesKey }

type ListAmenitiesHandler struct {
	Catalog domaincatalog.Repository
}

func (h *ListAmenitiesHandler) Handle(_ context.Context, _ ListAmenitiesQuery) ([]string, error) {
	if h.Catalog == nil {
		return nil, ErrCatalogUnavailable
	}
	items := h.Catalog.Amenities()
	if items == nil {
		items = []string{}
	}
	return items, nil
}

var (
	_ queries.Handler[GetDestinationQuery, dto.DestinationDetail] = (*GetDestinationHandler)(nil)
	_ queries.Handler[ListAmenitiesQuery, []string]               = (*ListAmenitiesHandler)(nil)
)
