package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"freshprep/internal/catalog"
	"freshprep/internal/domain"
	mealrepo "freshprep/internal/repository/meal"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// criteriaFromQuery maps URL query parameters onto catalog criteria.
// Unknown or malformed values fall back to defaults instead of erroring;
// the catalog never rejects a request over a bad filter.
func criteriaFromQuery(c *gin.Context) catalog.Criteria {
	crit := catalog.DefaultCriteria()

	if v := strings.TrimSpace(c.Query("category")); v != "" {
		crit.SetCategory(v)
	}
	if v := c.Query("search"); v != "" {
		crit.SetSearch(v)
	}
	crit.ProteinTypes = queryList(c, "proteinTypes")
	crit.DietTypes = queryList(c, "dietTypes")
	crit.PortionSizes = queryList(c, "portionSizes")
	crit.Allergens = queryList(c, "allergens")

	crit.SetCalorieRange(queryRange(c, "caloriesMin", "caloriesMax", catalog.DefaultCalorieRange))
	crit.SetProteinRange(queryRange(c, "proteinMin", "proteinMax", catalog.DefaultProteinRange))
	crit.SetCarbRange(queryRange(c, "carbsMin", "carbsMax", catalog.DefaultCarbRange))
	crit.SetFatRange(queryRange(c, "fatMin", "fatMax", catalog.DefaultFatRange))

	crit.SetSortBy(catalog.ParseSortKey(c.Query("sort")))
	return crit
}

func queryList(c *gin.Context, key string) []string {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func queryRange(c *gin.Context, minKey, maxKey string, def catalog.Range) catalog.Range {
	r := def
	if v, err := strconv.ParseFloat(c.Query(minKey), 64); err == nil {
		r.Min = v
	}
	if v, err := strconv.ParseFloat(c.Query(maxKey), 64); err == nil {
		r.Max = v
	}
	return r
}

func pageParams(c *gin.Context) (pageNum, limit int) {
	pageNum, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if pageNum < 1 {
		pageNum = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return pageNum, limit
}

// listMealsHandler serves the filtered, sorted, paginated catalog. Filtering
// runs in memory over the active set so one handler backs every storefront
// facet combination.
func listMealsHandler(meals mealrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := meals.ListActive(c.Request.Context())
		if err != nil {
			respondError(c, http.StatusInternalServerError, codeInternal, "failed to list meals", nil)
			return
		}

		crit := criteriaFromQuery(c)
		filtered := catalog.Apply(all, crit)

		pageNum, limit := pageParams(c)
		total := len(filtered)
		start := (pageNum - 1) * limit
		if start > total {
			start = total
		}
		end := start + limit
		if end > total {
			end = total
		}

		respondOK(c, http.StatusOK, newPage(filtered[start:end], total, pageNum, limit))
	}
}

func getMealHandler(meals mealrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		meal, err := meals.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				respondError(c, http.StatusNotFound, codeNotFound, "meal not found", nil)
				return
			}
			respondError(c, http.StatusInternalServerError, codeInternal, "failed to load meal", nil)
			return
		}
		// Deactivated meals disappear from the storefront entirely.
		if !meal.IsActive {
			respondError(c, http.StatusNotFound, codeNotFound, "meal not found", nil)
			return
		}
		respondOK(c, http.StatusOK, meal)
	}
}
