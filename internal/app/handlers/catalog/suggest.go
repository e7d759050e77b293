package catalog

import (
	"context"

	"wanderstay/internal/app/dto"
	"wanderstay/internal/app/queries"
	domaincatalog "wanderstay/internal/domain/catalog"
)

const suggestKey = "catalog.suggest"

type SuggestQuery struct {
	Query string
}

func (q SuggestQuery) Key() string { return suggestKey }

// SuggestHandler answers type-ahead lookups. Queries shorter than MinChars yield no items.
type SuggestHandler struct {
	Catalog  domaincatalog.Repository
	MinChars int
}

func (h *SuggestHandler) Handle(ctx context.Context, q SuggestQuery) (dto.Suggestions, error) {
	if err := ctx.Err(); err != nil {
		return dto.Suggestions{}, err
	}
	if h.Catalog == nil {
		return dto.Suggestions{}, ErrCatalogUnavailable
	}
	matches := domaincatalog.Suggest(h.Catalog.All(), q.Query, h.MinChars)
	return dto.Suggestions{Query: q.Query, Items: dto.MapCards(matches)}, nil
}

var _ queries.Handler[SuggestQuery, dto.Suggestions] = (*SuggestHandler)(nil)
