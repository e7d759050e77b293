package catalog

import (
	"sort"
	"strings"
)

// SortMode defines a supported ordering of results.
type SortMode string

const (
	SortRecommended SortMode = "recommended"
	SortTopRated    SortMode = "top_rated"
	SortLowestPrice SortMode = "lowest_price"

	DefaultPriceMin int64 = 0
	DefaultPriceMax int64 = 1000

	DefaultSuggestMinChars = 2
)

// ParseSortMode accepts API values and storefront labels; anything else is Recommended.
func ParseSortMode(raw string) SortMode {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	switch SortMode(key) {
	case SortTopRated:
		return SortTopRated
	case SortLowestPrice:
		return SortLowestPrice
	default:
		return SortRecommended
	}
}

// SearchCriteria is the free-text query submitted from the hero search box.
type SearchCriteria struct {
	Query  string
	Guests int
}

// Normalized returns a sanitized copy of criteria.
func (c SearchCriteria) Normalized() SearchCriteria {
	out := c
	out.Query = strings.TrimSpace(c.Query)
	if out.Guests < 1 {
		out.Guests = 1
	}
	return out
}

// PriceRange is an inclusive [Min, Max] bound on nightly price.
type PriceRange struct {
	Min int64
	Max int64
}

func (r PriceRange) Contains(price int64) bool {
	return price >= r.Min && price <= r.Max
}

// FilterState is the results-view refinement applied on top of a search.
type FilterState struct {
	PriceRange PriceRange
	Amenities  []string
	Sort       SortMode
}

// DefaultFilterState mirrors a freshly opened results view.
func DefaultFilterState() FilterState {
	return FilterState{
		PriceRange: PriceRange{Min: DefaultPriceMin, Max: DefaultPriceMax},
		Sort:       SortRecommended,
	}
}

// Reset clears price and amenity refinements but keeps the chosen sort.
func (f FilterState) Reset() FilterState {
	out := DefaultFilterState()
	out.Sort = f.Sort
	return out
}

// Normalized returns a sanitized copy of the filter state.
func (f FilterState) Normalized() FilterState {
	out := f
	if out.PriceRange.Min > out.PriceRange.Max {
		out.PriceRange.Min, out.PriceRange.Max = out.PriceRange.Max, out.PriceRange.Min
	}
	out.Amenities = normalizeTokens(f.Amenities)
	out.Sort = ParseSortMode(string(f.Sort))
	return out
}

// WithAmenityToggled adds the amenity when absent and removes it when present.
func (f FilterState) WithAmenityToggled(amenity string) FilterState {
	out := f
	out.Amenities = make([]string, 0, len(f.Amenities)+1)
	removed := false
	for _, existing := range f.Amenities {
		if strings.EqualFold(existing, amenity) {
			removed = true
			continue
		}
		out.Amenities = append(out.Amenities, existing)
	}
	if !removed {
		out.Amenities = append(out.Amenities, amenity)
	}
	return out
}

// Search narrows destinations by case-insensitive substring match against
// title or location. An empty query matches everything in input order.
func Search(destinations []Destination, criteria SearchCriteria) []Destination {
	needle := strings.ToLower(criteria.Normalized().Query)
	out := make([]Destination, 0, len(destinations))
	for _, d := range destinations {
		if needle == "" || matchesText(d, needle) {
			out = append(out, d)
		}
	}
	return out
}

// Suggest runs the same match as Search, but only once the query has at least minChars characters.
func Suggest(destinations []Destination, query string, minChars int) []Destination {
	if minChars < 1 {
		minChars = DefaultSuggestMinChars
	}
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minChars {
		return nil
	}
	return Search(destinations, SearchCriteria{Query: query})
}

// FilterAndSort applies price and amenity filters to the search results and then orders them.
// It always works from the given set, so callers pass the original search results every time.
func FilterAndSort(results []Destination, state FilterState) []Destination {
	opts := state.Normalized()
	out := make([]Destination, 0, len(results))
	for _, d := range results {
		if !opts.PriceRange.Contains(d.Price) {
			continue
		}
		if !hasAllAmenities(d, opts.Amenities) {
			continue
		}
		out = append(out, d)
	}
	switch opts.Sort {
	case SortLowestPrice:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortTopRated:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}
	return out
}

// ResultView separates "nothing searched yet" from "search found nothing".
type ResultView struct {
	Searched bool
	Criteria SearchCriteria
	Filters  FilterState
	Matched  int
	Items    []Destination
}

// Empty reports that the search or the filters left nothing to show.
// An unsearched view over a non-empty catalog is never empty unless filtered out.
func (v ResultView) Empty() bool {
	return len(v.Items) == 0
}

// Browse runs the search then the filters. With searched false it shows the full catalog.
func Browse(repo Repository, criteria SearchCriteria, state FilterState, searched bool) ResultView {
	var all []Destination
	if repo != nil {
		all = repo.All()
	}
	base := all
	if searched {
		base = Search(all, criteria)
	}
	return ResultView{
		Searched: searched,
		Criteria: criteria.Normalized(),
		Filters:  state.Normalized(),
		Matched:  len(base),
		Items:    FilterAndSort(base, state),
	}
}

func matchesText(d Destination, needle string) bool {
	return strings.Contains(strings.ToLower(d.Title), needle) ||
		strings.Contains(strings.ToLower(d.Location), needle)
}

func hasAllAmenities(d Destination, required []string) bool {
	for _, amenity := range required {
		if !d.HasAmenity(amenity) {
			return false
		}
	}
	return true
}

func normalizeTokens(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		key := strings.ToLower(token)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, token)
	}
	return out
}
