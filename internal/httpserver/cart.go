package httpserver

import (
	"context"
	"errors"
	"net/http"

	"freshprep/internal/domain"
	cartsvc "freshprep/internal/service/cart"

	"github.com/gin-gonic/gin"
)

type cartService interface {
	Get(ctx context.Context, id cartsvc.Identity) (*domain.Cart, error)
	AddItem(ctx context.Context, id cartsvc.Identity, mealID string, quantity int) (*cartsvc.AddResult, error)
	UpdateQuantity(ctx context.Context, id cartsvc.Identity, mealID string, quantity int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, id cartsvc.Identity, mealID string) error
	Sync(ctx context.Context, id cartsvc.Identity, entries []cartsvc.SyncEntry) (*domain.Cart, string, error)
	Summarize(ctx context.Context, id cartsvc.Identity) (*cartsvc.Summary, error)
}

type cartView struct {
	ID                string            `json:"id,omitempty"`
	Items             []domain.CartItem `json:"items"`
	ItemCount         int               `json:"itemCount"`
	SubtotalCents     int64             `json:"subtotalCents"`
	MinOrderCents     int64             `json:"minOrderCents"`
	MeetsMinimumOrder bool              `json:"meetsMinimumOrder"`
}

func emptyCartView() cartView {
	return cartView{Items: []domain.CartItem{}, MinOrderCents: domain.MinOrderCents}
}

func toCartView(cart *domain.Cart, sum *cartsvc.Summary) cartView {
	view := cartView{
		ID:            cart.ID,
		Items:         cart.Items,
		MinOrderCents: domain.MinOrderCents,
	}
	if view.Items == nil {
		view.Items = []domain.CartItem{}
	}
	if sum != nil {
		view.ItemCount = sum.ItemCount
		view.SubtotalCents = sum.SubtotalCents
		view.MeetsMinimumOrder = sum.MeetsMinimumOrder
	}
	return view
}

func requestIdentity(c *gin.Context) cartsvc.Identity {
	return cartsvc.ResolveIdentity(currentUserID(c), currentCartSessionID(c))
}

type cartItemRequest struct {
	MealID   string `json:"mealId"`
	Quantity int    `json:"quantity"`
}

type syncCartRequest struct {
	Items []cartsvc.SyncEntry `json:"items"`
}

// getCartHandler returns the caller's cart. A caller with no cart gets an
// empty cart rather than an error, so the storefront needs no special case.
func getCartHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := requestIdentity(c)
		cart, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				respondOK(c, http.StatusOK, emptyCartView())
				return
			}
			respondError(c, http.StatusInternalServerError, codeInternal, "failed to load cart", nil)
			return
		}
		sum, err := svc.Summarize(c.Request.Context(), id)
		if err != nil {
			respondError(c, http.StatusInternalServerError, codeInternal, "failed to load cart", nil)
			return
		}
		respondOK(c, http.StatusOK, toCartView(cart, sum))
	}
}

// addCartItemHandler adds a meal to the cart, provisioning a cart and a
// session cookie for first-time anonymous callers.
func addCartItemHandler(svc cartService, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, codeValidation, "invalid request body", nil)
			return
		}

		res, err := svc.AddItem(c.Request.Context(), requestIdentity(c), req.MealID, req.Quantity)
		if err != nil {
			if errors.Is(err, domain.ErrValidation) {
				respondError(c, http.StatusBadRequest, codeValidation, err.Error(), nil)
				return
			}
			respondError(c, http.StatusInternalServerError, codeInternal, "failed to add item", nil)
			return
		}

		if res.NewSessionID != "" {
			setCartSessionCookie(c, res.NewSessionID, secureCookie)
		}
		respondOK(c, http.StatusCreated, res.Item)
	}
}

func updateCartItemHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, codeValidation, "invalid request body", nil)
			return
		}

		item, err := svc.UpdateQuantity(c.Request.Context(), requestIdentity(c), req.MealID, req.Quantity)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrValidation):
				respondError(c, http.StatusBadRequest, codeValidation, err.Error(), nil)
			case errors.Is(err, domain.ErrNotFound):
				respondError(c, http.StatusNotFound, codeNotFound, "cart item not found", nil)
			default:
				respondError(c, http.StatusInternalServerError, codeInternal, "failed to update item", nil)
			}
			return
		}

		// Quantity zero removed the row.
		if item == nil {
			respondOK(c, http.StatusOK, gin.H{"removed": true, "mealId": req.MealID})
			return
		}
		respondOK(c, http.StatusOK, item)
	}
}

func removeCartItemHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		mealID := c.Param("mealID")
		err := svc.RemoveItem(c.Request.Context(), requestIdentity(c), mealID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrValidation):
				respondError(c, http.StatusBadRequest, codeValidation, err.Error(), nil)
			case errors.Is(err, domain.ErrNotFound):
				respondError(c, http.StatusNotFound, codeNotFound, "cart item not found", nil)
			default:
				respondError(c, http.StatusInternalServerError, codeInternal, "failed to remove item", nil)
			}
			return
		}
		respondOK(c, http.StatusOK, gin.H{"removed": true, "mealId": mealID})
	}
}

// syncCartHandler reconciles a client-held cart in one request, used after
// page load and after login.
func syncCartHandler(svc cartService, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req syncCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, codeValidation, "invalid request body", nil)
			return
		}

		id := requestIdentity(c)
		cart, newSessionID, err := svc.Sync(c.Request.Context(), id, req.Items)
		if err != nil {
			if errors.Is(err, domain.ErrValidation) {
				respondError(c, http.StatusBadRequest, codeValidation, err.Error(), nil)
				return
			}
			respondError(c, http.StatusInternalServerError, codeInternal, "failed to sync cart", nil)
			return
		}

		if newSessionID != "" {
			setCartSessionCookie(c, newSessionID, secureCookie)
			id = cartsvc.Identity{SessionID: newSessionID}
		}
		sum, err := svc.Summarize(c.Request.Context(), id)
		if err != nil {
			respondError(c, http.StatusInternalServerError, codeInternal, "failed to sync cart", nil)
			return
		}
		respondOK(c, http.StatusOK, toCartView(cart, sum))
	}
}
