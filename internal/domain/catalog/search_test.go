package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func titles(ds []Destination) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Title)
	}
	return out
}

func prices(ds []Destination) []int64 {
	out := make([]int64, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Price)
	}
	return out
}

func TestSearch(t *testing.T) {
	all := fixtureDestinations()

	assert.Equal(t, []string{"Dubai"}, titles(Search(all, SearchCriteria{Query: "dub"})))
	assert.Equal(t, []string{"Europe"}, titles(Search(all, SearchCriteria{Query: "FRANCE"})))
	assert.Equal(t, titles(all), titles(Search(all, SearchCriteria{Query: ""})))
	assert.Equal(t, titles(all), titles(Search(all, SearchCriteria{Query: "   "})))
	assert.Empty(t, Search(all, SearchCriteria{Query: "atlantis"}))
	assert.NotNil(t, Search(all, SearchCriteria{Query: "atlantis"}))
}

func TestSuggest(t *testing.T) {
	all := fixtureDestinations()

	assert.Nil(t, Suggest(all, "d", 2))
	assert.Nil(t, Suggest(all, " b ", 0))
	assert.Equal(t, []string{"Dubai"}, titles(Suggest(all, "du", 2)))
	assert.Equal(t, []string{"Bali"}, titles(Suggest(all, "Indo", 2)))
}

func TestFilterAndSort_AmenitiesAreConjunctive(t *testing.T) {
	results := []Destination{
		{ID: 1, Title: "WifiPool", Price: 100, Amenities: []string{"Wifi", "Pool"}},
		{ID: 2, Title: "WifiGym", Price: 100, Amenities: []string{"Wifi", "Gym"}},
	}
	state := DefaultFilterState()
	state.Amenities = []string{"Wifi", "Gym"}

	assert.Equal(t, []string{"WifiGym"}, titles(FilterAndSort(results, state)))
}

func TestFilterAndSort_PriceRangeInclusive(t *testing.T) {
	all := fixtureDestinations()
	state := DefaultFilterState()
	state.PriceRange = PriceRange{Min: 90, Max: 250}

	assert.Equal(t, []string{"Thailand", "Europe", "Bali"}, titles(FilterAndSort(all, state)))
}

func TestFilterAndSort_WideningRestoresItems(t *testing.T) {
	base := Search(fixtureDestinations(), SearchCriteria{})
	state := DefaultFilterState()

	state.PriceRange.Max = 150
	narrowed := FilterAndSort(base, state)
	assert.Equal(t, []string{"Thailand", "Bali"}, titles(narrowed))

	state.PriceRange.Max = 1000
	widened := FilterAndSort(base, state)
	assert.Equal(t, titles(base), titles(widened))
	assert.Len(t, base, 5)
}

func TestFilterAndSort_Sorting(t *testing.T) {
	three := []Destination{
		{ID: 3, Title: "NYC", Price: 300, Rating: 4.9},
		{ID: 5, Title: "Bali", Price: 90, Rating: 4.7},
		{ID: 4, Title: "Dubai", Price: 450, Rating: 5.0},
	}
	state := DefaultFilterState()

	state.Sort = SortLowestPrice
	assert.Equal(t, []int64{90, 300, 450}, prices(FilterAndSort(three, state)))

	state.Sort = SortRecommended
	assert.Equal(t, []int64{300, 90, 450}, prices(FilterAndSort(three, state)))

	state.Sort = SortTopRated
	assert.Equal(t, []string{"Dubai", "NYC", "Bali"}, titles(FilterAndSort(three, state)))

	assert.Equal(t, []int64{300, 90, 450}, prices(three))
}

func TestFilterAndSort_StableTies(t *testing.T) {
	all := fixtureDestinations()
	state := DefaultFilterState()
	state.Sort = SortTopRated

	// Thailand and Dubai share 5.0; catalog order must survive.
	assert.Equal(t, []string{"Thailand", "Dubai", "New York City", "Europe", "Bali"}, titles(FilterAndSort(all, state)))

	tied := []Destination{{Title: "a", Price: 100}, {Title: "b", Price: 50}, {Title: "c", Price: 100}}
	state.Sort = SortLowestPrice
	assert.Equal(t, []string{"b", "a", "c"}, titles(FilterAndSort(tied, state)))
}

func TestFilterState_Helpers(t *testing.T) {
	state := FilterState{PriceRange: PriceRange{Min: 500, Max: 100}, Amenities: []string{" Wifi", "wifi", "", "Pool"}, Sort: "Top Rated"}
	norm := state.Normalized()
	assert.Equal(t, PriceRange{Min: 100, Max: 500}, norm.PriceRange)
	assert.Equal(t, []string{"Wifi", "Pool"}, norm.Amenities)
	assert.Equal(t, SortTopRated, norm.Sort)

	toggled := DefaultFilterState().WithAmenityToggled("Gym")
	assert.Equal(t, []string{"Gym"}, toggled.Amenities)
	assert.Empty(t, toggled.WithAmenityToggled("gym").Amenities)

	reset := FilterState{PriceRange: PriceRange{Max: 10}, Amenities: []string{"Pool"}, Sort: SortLowestPrice}.Reset()
	assert.Equal(t, PriceRange{Min: 0, Max: 1000}, reset.PriceRange)
	assert.Empty(t, reset.Amenities)
	assert.Equal(t, SortLowestPrice, reset.Sort)
}

func TestParseSortMode(t *testing.T) {
	assert.Equal(t, SortLowestPrice, ParseSortMode("Lowest Price"))
	assert.Equal(t, SortLowestPrice, ParseSortMode("lowest_price"))
	assert.Equal(t, SortTopRated, ParseSortMode("top-rated"))
	assert.Equal(t, SortRecommended, ParseSortMode(""))
	assert.Equal(t, SortRecommended, ParseSortMode("cheapest"))
}

func TestBrowse(t *testing.T) {
	c := mustCatalog(t)

	initial := Browse(c, SearchCriteria{}, DefaultFilterState(), false)
	assert.False(t, initial.Searched)
	assert.False(t, initial.Empty())
	assert.Len(t, initial.Items, 5)

	none := Browse(c, SearchCriteria{Query: "atlantis", Guests: 2}, DefaultFilterState(), true)
	assert.True(t, none.Searched)
	assert.True(t, none.Empty())
	assert.Equal(t, 0, none.Matched)
	assert.Equal(t, 2, none.Criteria.Guests)

	filteredOut := DefaultFilterState()
	filteredOut.Amenities = []string{"Heating"}
	pool := Browse(c, SearchCriteria{Query: "dubai"}, filteredOut, true)
	assert.Equal(t, 1, pool.Matched)
	assert.True(t, pool.Empty())

	unsearched := Browse(c, SearchCriteria{}, FilterState{PriceRange: PriceRange{Min: 5000, Max: 9000}}, false)
	assert.False(t, unsearched.Searched)
	assert.Equal(t, 5, unsearched.Matched)
	assert.True(t, unsearched.Empty())

	guests := Browse(c, SearchCriteria{Query: "bali", Guests: 0}, DefaultFilterState(), true)
	assert.Equal(t, 1, guests.Criteria.Guests)
}
