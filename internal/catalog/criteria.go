package catalog

import "strings"

// CategoryAll is the pseudo category matching every meal.
const CategoryAll = "ALL"

type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortCalories  SortKey = "calories"
	SortProtein   SortKey = "protein"
)

// ParseSortKey maps a raw string to a known sort key, defaulting to name.
func ParseSortKey(raw string) SortKey {
	switch SortKey(strings.TrimSpace(raw)) {
	case SortPriceAsc, SortPriceDesc, SortCalories, SortProtein:
		return SortKey(strings.TrimSpace(raw))
	default:
		return SortName
	}
}

// Range is an inclusive [Min,Max] bound on one nutrition facet.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Default macro ranges. A range left at its default does not count as an
// active filter.
var (
	DefaultCalorieRange = Range{Min: 0, Max: 1000}
	DefaultProteinRange = Range{Min: 0, Max: 100}
	DefaultCarbRange    = Range{Min: 0, Max: 150}
	DefaultFatRange     = Range{Min: 0, Max: 50}
)

// Criteria is the complete set of catalog narrowing and sorting parameters.
// It is a plain value: mutate it through the methods below and hand it to
// Apply. It is never persisted.
type Criteria struct {
	Category     string
	ProteinTypes []string
	DietTypes    []string
	CalorieRange Range
	ProteinRange Range
	CarbRange    Range
	FatRange     Range
	PortionSizes []string
	Allergens    []string
	Search       string
	SortBy       SortKey
}

// DefaultCriteria returns the session-start state: every meal visible,
// sorted by name.
func DefaultCriteria() Criteria {
	return Criteria{
		Category:     CategoryAll,
		CalorieRange: DefaultCalorieRange,
		ProteinRange: DefaultProteinRange,
		CarbRange:    DefaultCarbRange,
		FatRange:     DefaultFatRange,
		SortBy:       SortName,
	}
}

func (c *Criteria) SetCategory(category string) { c.Category = category }

func (c *Criteria) ToggleProteinType(value string) {
	c.ProteinTypes = toggle(c.ProteinTypes, value)
}

func (c *Criteria) ToggleDietType(value string) {
	c.DietTypes = toggle(c.DietTypes, value)
}

func (c *Criteria) SetCalorieRange(r Range) { c.CalorieRange = r }
func (c *Criteria) SetProteinRange(r Range) { c.ProteinRange = r }
func (c *Criteria) SetCarbRange(r Range)    { c.CarbRange = r }
func (c *Criteria) SetFatRange(r Range)     { c.FatRange = r }

func (c *Criteria) TogglePortionSize(size string) {
	c.PortionSizes = toggle(c.PortionSizes, size)
}

func (c *Criteria) ToggleAllergen(allergen string) {
	c.Allergens = toggle(c.Allergens, allergen)
}

func (c *Criteria) SetSearch(query string) { c.Search = query }
func (c *Criteria) SetSortBy(sort SortKey) { c.SortBy = sort }

// Reset restores every criterion to its default. The sort key is part of the
// reset as well.
func (c *Criteria) Reset() {
	*c = DefaultCriteria()
}

// ActiveFilterCount reports how many criteria differ from defaults. Each
// selected tag counts individually; each adjusted range counts once; a
// non-empty search counts once. Sort order never counts.
func (c Criteria) ActiveFilterCount() int {
	count := 0
	if c.Category != CategoryAll && c.Category != "" {
		count++
	}
	count += len(c.ProteinTypes)
	count += len(c.DietTypes)
	count += len(c.PortionSizes)
	count += len(c.Allergens)
	if c.CalorieRange != DefaultCalorieRange {
		count++
	}
	if c.ProteinRange != DefaultProteinRange {
		count++
	}
	if c.CarbRange != DefaultCarbRange {
		count++
	}
	if c.FatRange != DefaultFatRange {
		count++
	}
	if strings.TrimSpace(c.Search) != "" {
		count++
	}
	return count
}

// toggle removes value when present, appends it otherwise.
func toggle(list []string, value string) []string {
	for i, v := range list {
		if v == value {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return append(list, value)
}
