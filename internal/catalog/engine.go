package catalog

import (
	"sort"
	"strings"

	"freshprep/internal/domain"
)

// Apply filters and sorts meals according to the criteria. It is pure: the
// input slice is never mutated and the result is always a freshly allocated
// slice, possibly empty. Filtering never reorders; the sort runs last.
//
// An inverted range (min > max) simply matches nothing.
func Apply(meals []domain.Meal, c Criteria) []domain.Meal {
	result := make([]domain.Meal, 0, len(meals))
	for _, m := range meals {
		if matches(m, c) {
			result = append(result, m)
		}
	}
	sortMeals(result, c.SortBy)
	return result
}

func matches(m domain.Meal, c Criteria) bool {
	if !m.IsActive {
		return false
	}

	if c.Category != CategoryAll && c.Category != "" && string(m.Category) != c.Category {
		return false
	}

	if q := strings.ToLower(strings.TrimSpace(c.Search)); q != "" {
		if !strings.Contains(strings.ToLower(m.Name), q) &&
			!strings.Contains(strings.ToLower(m.ShortDescription), q) &&
			!anyTagContains(m.Tags, q) {
			return false
		}
	}

	// Protein type is an any-match facet, diet type an all-match one. The
	// asymmetry is intentional: "chicken or beef" vs "gluten-free and dairy-free".
	if len(c.ProteinTypes) > 0 {
		found := false
		for _, pt := range c.ProteinTypes {
			if anyTagContains(m.Tags, strings.ToLower(pt)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(c.DietTypes) > 0 {
		for _, dt := range c.DietTypes {
			if !anyTagContains(m.Tags, strings.ToLower(dt)) {
				return false
			}
		}
	}

	// When both portion sizes are selected, bulk wins.
	if len(c.PortionSizes) > 0 {
		switch {
		case contains(c.PortionSizes, "bulk"):
			if m.Category != domain.CategoryBulk {
				return false
			}
		case contains(c.PortionSizes, "standard"):
			if m.Category == domain.CategoryBulk {
				return false
			}
		}
	}

	if len(c.Allergens) > 0 && anyAllergenMatches(m.Allergens, c.Allergens) {
		return false
	}

	// Meals without a nutrition record pass every macro range. Leniency is
	// deliberate: missing data must not hide a meal.
	if m.Nutrition != nil {
		n := m.Nutrition
		if !c.CalorieRange.contains(float64(n.Calories)) ||
			!c.ProteinRange.contains(n.Protein) ||
			!c.CarbRange.contains(n.Carbs) ||
			!c.FatRange.contains(n.Fat) {
			return false
		}
	}

	return true
}

func sortMeals(meals []domain.Meal, key SortKey) {
	sort.SliceStable(meals, func(i, j int) bool {
		a, b := meals[i], meals[j]
		switch key {
		case SortPriceAsc:
			return a.PriceCents < b.PriceCents
		case SortPriceDesc:
			return a.PriceCents > b.PriceCents
		case SortCalories:
			return calories(a) < calories(b)
		case SortProtein:
			return protein(a) > protein(b)
		default:
			return a.Name < b.Name
		}
	})
}

func calories(m domain.Meal) int {
	if m.Nutrition == nil {
		return 0
	}
	return m.Nutrition.Calories
}

func protein(m domain.Meal) float64 {
	if m.Nutrition == nil {
		return 0
	}
	return m.Nutrition.Protein
}

func anyTagContains(tags []string, q string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

func anyAllergenMatches(allergens, excluded []string) bool {
	for _, ex := range excluded {
		for _, a := range allergens {
			if strings.EqualFold(a, ex) {
				return true
			}
		}
	}
	return false
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
