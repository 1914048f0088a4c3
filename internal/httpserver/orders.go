package httpserver

import (
	"errors"
	"net/http"

	"freshprep/internal/domain"
	orderrepo "freshprep/internal/repository/order"

	"github.com/gin-gonic/gin"
)

func listOrdersHandler(orders orderrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)
		if userID == "" {
			respondError(c, http.StatusUnauthorized, codeAuthRequired, "sign in to view orders", nil)
			return
		}

		pageNum, limit := pageParams(c)
		list, total, err := orders.ListByUser(c.Request.Context(), userID, limit, (pageNum-1)*limit)
		if err != nil {
			respondError(c, http.StatusInternalServerError, codeInternal, "failed to list orders", nil)
			return
		}
		if list == nil {
			list = []domain.Order{}
		}
		respondOK(c, http.StatusOK, newPage(list, total, pageNum, limit))
	}
}

func getOrderHandler(orders orderrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)
		if userID == "" {
			respondError(c, http.StatusUnauthorized, codeAuthRequired, "sign in to view orders", nil)
			return
		}

		// GetForUser scopes by owner, so another user's order id is
		// indistinguishable from a missing one.
		order, err := orders.GetForUser(c.Request.Context(), userID, c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				respondError(c, http.StatusNotFound, codeNotFound, "order not found", nil)
				return
			}
			respondError(c, http.StatusInternalServerError, codeInternal, "failed to load order", nil)
			return
		}
		respondOK(c, http.StatusOK, order)
	}
}
