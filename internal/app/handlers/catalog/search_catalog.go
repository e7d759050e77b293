package catalog

import (
	"context"
	"strings"

	"wanderstay/internal/app/dto"
	"wanderstay/internal/app/queries"
	domaincatalog "wanderstay/internal/domain/catalog"
)

const searchCatalogKey = "catalog.search"

// SearchCatalogQuery describes the search bar plus the filter panel.
// Nil price bounds fall back to the default range.
type SearchCatalogQuery struct {
	Query     string
	Guests    int
	PriceMin  *int64
	PriceMax  *int64
	Amenities []string
	Sort      string
}

func (q SearchCatalogQuery) Key() string { return searchCatalogKey }

// Searched is false when no search text was given, which shows the full catalog.
func (q SearchCatalogQuery) Searched() bool {
	return strings.TrimSpace(q.Query) != ""
}

func (q SearchCatalogQuery) filterState() domaincatalog.FilterState {
	state := domaincatalog.DefaultFilterState()
	if q.PriceMin != nil {
		state.PriceRange.Min = *q.PriceMin
	}
	if q.PriceMax != nil {
		state.PriceRange.Max = *q.PriceMax
	}
	state.Amenities = append([]string(nil), q.Amenities...)
	state.Sort = domaincatalog.ParseSortMode(q.Sort)
	return state
}

// SearchCatalogHandler runs search, filter and sort against the loaded catalog.
type SearchCatalogHandler struct {
	Catalog domaincatalog.Repository
}

func (h *SearchCatalogHandler) Handle(ctx context.Context, q SearchCatalogQuery) (dto.DestinationCatalog, error) {
	if err := ctx.Err(); err != nil {
		return dto.DestinationCatalog{}, err
	}
	if h.Catalog == nil {
		return dto.DestinationCatalog{}, ErrCatalogUnavailable
	}
	criteria := domaincatalog.SearchCriteria{Query: q.Query, Guests: q.Guests}
	view := domaincatalog.Browse(h.Catalog, criteria, q.filterState(), q.Searched())
	return dto.MapCatalog(view), nil
}

var _ queries.Handler[SearchCatalogQuery, dto.DestinationCatalog] = (*SearchCatalogHandler)(nil)
