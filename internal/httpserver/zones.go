package httpserver

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"freshprep/internal/domain"
	zonerepo "freshprep/internal/repository/zone"

	"github.com/gin-gonic/gin"
)

// Australian postcodes are exactly four digits.
var postcodePattern = regexp.MustCompile(`^\d{4}$`)

func listZonesHandler(zones zonerepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := zones.ListActive(c.Request.Context())
		if err != nil {
			respondError(c, http.StatusInternalServerError, codeInternal, "failed to list delivery zones", nil)
			return
		}
		if list == nil {
			list = []domain.DeliveryZone{}
		}
		respondOK(c, http.StatusOK, list)
	}
}

// checkPostcodeHandler answers "do you deliver to me". An unknown postcode
// is a negative answer, not an error.
func checkPostcodeHandler(zones zonerepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		postcode := strings.TrimSpace(c.Query("postcode"))
		if !postcodePattern.MatchString(postcode) {
			respondError(c, http.StatusBadRequest, codeValidation, "postcode must be four digits", nil)
			return
		}

		zone, err := zones.GetByPostcode(c.Request.Context(), postcode)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				respondOK(c, http.StatusOK, gin.H{"deliverable": false, "postcode": postcode})
				return
			}
			respondError(c, http.StatusInternalServerError, codeInternal, "failed to check postcode", nil)
			return
		}
		respondOK(c, http.StatusOK, gin.H{"deliverable": true, "postcode": postcode, "zone": zone})
	}
}
