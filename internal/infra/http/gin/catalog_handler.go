package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"wanderstay/internal/app/dto"
	catalogapp "wanderstay/internal/app/handlers/catalog"
	"wanderstay/internal/app/queries"
)

// CatalogHandler wires catalog queries to HTTP.
type CatalogHandler struct {
	Queries queries.Bus
}

// Search responds with the searched, filtered and sorted destinations.
func (h CatalogHandler) Search(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c, "catalog")
		return
	}
	query := catalogapp.SearchCatalogQuery{
		Query:     c.Query("q"),
		Guests:    parseInt(c.Query("guests")),
		PriceMin:  parseOptionalInt64(c.Query("price_min")),
		PriceMax:  parseOptionalInt64(c.Query("price_max")),
		Amenities: splitCSV(c.Query("amenities")),
		Sort:      c.Query("sort"),
	}
	result, err := queries.Ask[catalogapp.SearchCatalogQuery, dto.DestinationCatalog](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CatalogHandler) Destination(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c, "catalog")
		return
	}
	id, ok := destinationID(c)
	if !ok {
		return
	}
	result, err := queries.Ask[catalogapp.GetDestinationQuery, dto.DestinationDetail](c.Request.Context(), h.Queries, catalogapp.GetDestinationQuery{ID: id})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CatalogHandler) Amenities(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c, "catalog")
		return
	}
	items, err := queries.Ask[catalogapp.ListAmenitiesQuery, []string](c.Request.Context(), h.Queries, catalogapp.ListAmenitiesQuery{})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Suggestions is the plain request/response variant of the live suggestion stream.
func (h CatalogHandler) Suggestions(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c, "catalog")
		return
	}
	result, err := queries.Ask[catalogapp.SuggestQuery, dto.Suggestions](c.Request.Context(), h.Queries, catalogapp.SuggestQuery{Query: c.Query("q")})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func destinationID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		badRequest(c, "destination id must be a positive integer")
		return 0, false
	}
	return id, true
}

var _ CatalogHTTP = CatalogHandler{}
