package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"freshprep/internal/domain"
	cartrepo "freshprep/internal/repository/cart"
	"github.com/google/uuid"
)

type Service struct {
	repo         cartRepo
	newSessionID func() string
}

type cartRepo interface {
	Create(ctx context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error)
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	GetBySession(ctx context.Context, sessionID string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID, mealID string, quantity int) (*domain.CartItem, error)
	UpsertItem(ctx context.Context, cartID, mealID string, quantity int) (*domain.CartItem, error)
	SetItemQuantity(ctx context.Context, cartID, mealID string, quantity int) (*domain.CartItem, error)
	DeleteItem(ctx context.Context, cartID, mealID string) error
	ItemCount(ctx context.Context, cartID string) (int, error)
	Subtotal(ctx context.Context, cartID string) (int64, error)
	AssignUserToSession(ctx context.Context, sessionID, userID string) (*domain.Cart, error)
	Delete(ctx context.Context, cartID string) error
}

func New(repo cartrepo.Repository) *Service {
	return &Service{
		repo:         repo,
		newSessionID: uuid.NewString,
	}
}

// SyncEntry is one client-held cart line to reconcile against the server.
type SyncEntry struct {
	MealID   string `json:"mealId"`
	Quantity int    `json:"quantity"`
}

// AddResult carries the written item plus the minted session id when this
// write provisioned a new anonymous cart. NewSessionID is empty otherwise.
type AddResult struct {
	Item         *domain.CartItem
	NewSessionID string
}

// Summary is the derived cart read model.
type Summary struct {
	ItemCount         int   `json:"itemCount"`
	SubtotalCents     int64 `json:"subtotalCents"`
	MinOrderCents     int64 `json:"minOrderCents"`
	MeetsMinimumOrder bool  `json:"meetsMinimumOrder"`
}

// Get returns the cart for the identity, or ErrNotFound when none exists.
func (s *Service) Get(ctx context.Context, id Identity) (*domain.Cart, error) {
	return s.resolve(ctx, id)
}

// AddItem adds quantity of a meal to the identity's cart, creating the cart
// first when needed. Repeated adds increment the existing row, clamped to
// domain.MaxItemQuantity rather than rejected.
func (s *Service) AddItem(ctx context.Context, id Identity, mealID string, quantity int) (*AddResult, error) {
	if err := validateItem(mealID, quantity); err != nil {
		return nil, err
	}

	cart, sessionID, err := s.resolveOrProvision(ctx, id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.AddItem(ctx, cart.ID, mealID, quantity)
	if err != nil {
		return nil, err
	}
	return &AddResult{Item: item, NewSessionID: sessionID}, nil
}

// UpdateQuantity overwrites an item's quantity, clamped to the maximum. A
// quantity of zero or less removes the row instead; that is not an error.
// Unlike AddItem this never provisions a cart.
func (s *Service) UpdateQuantity(ctx context.Context, id Identity, mealID string, quantity int) (*domain.CartItem, error) {
	if strings.TrimSpace(mealID) == "" {
		return nil, fmt.Errorf("mealId is required: %w", domain.ErrValidation)
	}

	cart, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if err := s.repo.DeleteItem(ctx, cart.ID, mealID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return s.repo.SetItemQuantity(ctx, cart.ID, mealID, quantity)
}

// RemoveItem deletes the row for the meal, failing with ErrNotFound when the
// cart or row is absent.
func (s *Service) RemoveItem(ctx context.Context, id Identity, mealID string) error {
	if strings.TrimSpace(mealID) == "" {
		return fmt.Errorf("mealId is required: %w", domain.ErrValidation)
	}

	cart, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.DeleteItem(ctx, cart.ID, mealID)
}

// Sync reconciles a client-held cart against the server in one logical
// operation: every entry is upserted with its quantity overwritten (clamped),
// entries at zero or less are skipped. Provisions a cart like AddItem.
// Returns the updated cart and the minted session id, if any.
func (s *Service) Sync(ctx context.Context, id Identity, entries []SyncEntry) (*domain.Cart, string, error) {
	for _, e := range entries {
		if strings.TrimSpace(e.MealID) == "" {
			return nil, "", fmt.Errorf("mealId is required: %w", domain.ErrValidation)
		}
	}

	cart, sessionID, err := s.resolveOrProvision(ctx, id)
	if err != nil {
		return nil, "", err
	}

	for _, e := range entries {
		if e.Quantity <= 0 {
			continue
		}
		if _, err := s.repo.UpsertItem(ctx, cart.ID, e.MealID, e.Quantity); err != nil {
			return nil, "", err
		}
	}

	updated, err := s.refetch(ctx, id, sessionID)
	if err != nil {
		return nil, "", err
	}
	return updated, sessionID, nil
}

// Summarize computes item count, live-priced subtotal, and whether the
// minimum order threshold is met.
func (s *Service) Summarize(ctx context.Context, id Identity) (*Summary, error) {
	cart, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.ItemCount(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	subtotal, err := s.repo.Subtotal(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	return &Summary{
		ItemCount:         count,
		SubtotalCents:     subtotal,
		MinOrderCents:     domain.MinOrderCents,
		MeetsMinimumOrder: subtotal >= domain.MinOrderCents,
	}, nil
}

// MergeOnLogin folds an anonymous cart into the user's cart after
// authentication. When the user has no cart yet the anonymous cart is
// re-keyed wholesale; otherwise item quantities are summed (clamped) and the
// anonymous cart is deleted. Returns the user's cart, or nil when neither
// side had one.
func (s *Service) MergeOnLogin(ctx context.Context, sessionID, userID string) (*domain.Cart, error) {
	if sessionID == "" || userID == "" {
		return nil, fmt.Errorf("sessionId and userId are required: %w", domain.ErrValidation)
	}

	anon, err := s.repo.GetBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			cart, err := s.repo.GetByUser(ctx, userID)
			if errors.Is(err, domain.ErrNotFound) {
				return nil, nil
			}
			return cart, err
		}
		return nil, err
	}

	userCart, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.repo.AssignUserToSession(ctx, sessionID, userID)
		}
		return nil, err
	}

	for _, item := range anon.Items {
		if _, err := s.repo.AddItem(ctx, userCart.ID, item.MealID, item.Quantity); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Delete(ctx, anon.ID); err != nil {
		return nil, err
	}
	return s.repo.GetByUser(ctx, userID)
}

func (s *Service) resolve(ctx context.Context, id Identity) (*domain.Cart, error) {
	switch {
	case id.IsUser():
		return s.repo.GetByUser(ctx, id.UserID)
	case id.IsAnonymous():
		return s.repo.GetBySession(ctx, id.SessionID)
	default:
		return nil, domain.ErrNotFound
	}
}

// resolveOrProvision returns the identity's cart, creating one when absent.
// Anonymous provisioning always mints a fresh session id, even when a stale
// cookie value was presented; the caller must emit it as a new cookie.
func (s *Service) resolveOrProvision(ctx context.Context, id Identity) (*domain.Cart, string, error) {
	cart, err := s.resolve(ctx, id)
	if err == nil {
		return cart, "", nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}

	if id.IsUser() {
		cart, err = s.repo.Create(ctx, cartrepo.CreateCartInput{UserID: &id.UserID})
		return cart, "", err
	}

	sessionID := s.newSessionID()
	cart, err = s.repo.Create(ctx, cartrepo.CreateCartInput{SessionID: &sessionID})
	if err != nil {
		return nil, "", err
	}
	return cart, sessionID, nil
}

func (s *Service) refetch(ctx context.Context, id Identity, mintedSessionID string) (*domain.Cart, error) {
	if mintedSessionID != "" {
		return s.repo.GetBySession(ctx, mintedSessionID)
	}
	return s.resolve(ctx, id)
}

func validateItem(mealID string, quantity int) error {
	if strings.TrimSpace(mealID) == "" {
		return fmt.Errorf("mealId is required: %w", domain.ErrValidation)
	}
	if quantity < 1 || quantity > domain.MaxItemQuantity {
		return fmt.Errorf("quantity must be between 1 and %d: %w", domain.MaxItemQuantity, domain.ErrValidation)
	}
	return nil
}
