package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"freshprep/internal/domain"
	cartrepo "freshprep/internal/repository/cart"
)

// stubRepo is an in-memory cart store whose AddItem mirrors the atomic
// increment-or-insert of the postgres implementation.
type stubRepo struct {
	mu        sync.Mutex
	carts     map[string]*domain.Cart
	byUser    map[string]string
	bySession map[string]string
	items     map[string][]*domain.CartItem
	prices    map[string]int64
	nextID    int

	createErr error
	addErr    error
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		carts:     make(map[string]*domain.Cart),
		byUser:    make(map[string]string),
		bySession: make(map[string]string),
		items:     make(map[string][]*domain.CartItem),
		prices:    make(map[string]int64),
	}
}

func (s *stubRepo) Create(_ context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.nextID++
	cart := &domain.Cart{ID: fmt.Sprintf("cart-%d", s.nextID), UserID: in.UserID, SessionID: in.SessionID}
	s.carts[cart.ID] = cart
	if in.UserID != nil {
		s.byUser[*in.UserID] = cart.ID
	}
	if in.SessionID != nil {
		s.bySession[*in.SessionID] = cart.ID
	}
	return s.snapshot(cart.ID), nil
}

func (s *stubRepo) GetByUser(_ context.Context, userID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.snapshot(id), nil
}

func (s *stubRepo) GetBySession(_ context.Context, sessionID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.bySession[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.snapshot(id), nil
}

func (s *stubRepo) AddItem(_ context.Context, cartID, mealID string, quantity int) (*domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addErr != nil {
		return nil, s.addErr
	}
	for _, item := range s.items[cartID] {
		if item.MealID == mealID {
			item.Quantity = clamp(item.Quantity + quantity)
			cp := *item
			return &cp, nil
		}
	}
	item := &domain.CartItem{ID: fmt.Sprintf("item-%s-%s", cartID, mealID), CartID: cartID, MealID: mealID, Quantity: clamp(quantity)}
	s.items[cartID] = append(s.items[cartID], item)
	cp := *item
	return &cp, nil
}

func (s *stubRepo) UpsertItem(_ context.Context, cartID, mealID string, quantity int) (*domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items[cartID] {
		if item.MealID == mealID {
			item.Quantity = clamp(quantity)
			cp := *item
			return &cp, nil
		}
	}
	item := &domain.CartItem{ID: fmt.Sprintf("item-%s-%s", cartID, mealID), CartID: cartID, MealID: mealID, Quantity: clamp(quantity)}
	s.items[cartID] = append(s.items[cartID], item)
	cp := *item
	return &cp, nil
}

func (s *stubRepo) SetItemQuantity(_ context.Context, cartID, mealID string, quantity int) (*domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items[cartID] {
		if item.MealID == mealID {
			item.Quantity = clamp(quantity)
			cp := *item
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubRepo) DeleteItem(_ context.Context, cartID, mealID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.items[cartID]
	for i, item := range list {
		if item.MealID == mealID {
			s.items[cartID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *stubRepo) ItemCount(_ context.Context, cartID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items[cartID] {
		count += item.Quantity
	}
	return count, nil
}

func (s *stubRepo) Subtotal(_ context.Context, cartID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var subtotal int64
	for _, item := range s.items[cartID] {
		subtotal += s.prices[item.MealID] * int64(item.Quantity)
	}
	return subtotal, nil
}

func (s *stubRepo) AssignUserToSession(_ context.Context, sessionID, userID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.bySession[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cart := s.carts[id]
	delete(s.bySession, sessionID)
	cart.SessionID = nil
	cart.UserID = &userID
	s.byUser[userID] = id
	return s.snapshot(id), nil
}

func (s *stubRepo) Delete(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[cartID]
	if !ok {
		return domain.ErrNotFound
	}
	if cart.UserID != nil {
		delete(s.byUser, *cart.UserID)
	}
	if cart.SessionID != nil {
		delete(s.bySession, *cart.SessionID)
	}
	delete(s.carts, cartID)
	delete(s.items, cartID)
	return nil
}

// snapshot copies the cart with its items; callers must hold s.mu.
func (s *stubRepo) snapshot(cartID string) *domain.Cart {
	cart := *s.carts[cartID]
	cart.Items = make([]domain.CartItem, 0, len(s.items[cartID]))
	for _, item := range s.items[cartID] {
		cart.Items = append(cart.Items, *item)
	}
	return &cart
}

func clamp(q int) int {
	if q > domain.MaxItemQuantity {
		return domain.MaxItemQuantity
	}
	return q
}

func newTestService(repo *stubRepo) *Service {
	counter := 0
	return &Service{
		repo: repo,
		newSessionID: func() string {
			counter++
			return fmt.Sprintf("minted-%d", counter)
		},
	}
}

func TestAddItemValidation(t *testing.T) {
	svc := newTestService(newStubRepo())
	ctx := context.Background()

	for _, quantity := range []int{0, -1, 21} {
		if _, err := svc.AddItem(ctx, Identity{UserID: "u1"}, "m1", quantity); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("quantity %d: expected validation error, got %v", quantity, err)
		}
	}
	if _, err := svc.AddItem(ctx, Identity{UserID: "u1"}, "  ", 1); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for blank mealId, got %v", err)
	}
}

func TestAddItemProvisionsAnonymousCartOnce(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	res, err := svc.AddItem(ctx, Identity{}, "m1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NewSessionID == "" {
		t.Fatalf("expected a minted session id on first anonymous write")
	}
	if res.Item.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", res.Item.Quantity)
	}

	// Same cookie again: no re-mint, quantity increments.
	res2, err := svc.AddItem(ctx, Identity{SessionID: res.NewSessionID}, "m1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res2.NewSessionID != "" {
		t.Fatalf("expected no session re-mint, got %q", res2.NewSessionID)
	}
	if res2.Item.Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", res2.Item.Quantity)
	}
}

func TestAddItemStaleCookieMintsFreshSession(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)

	res, err := svc.AddItem(context.Background(), Identity{SessionID: "gone"}, "m1", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NewSessionID == "" || res.NewSessionID == "gone" {
		t.Fatalf("expected fresh session id, got %q", res.NewSessionID)
	}
}

func TestAddItemClampsNotRejects(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	id := Identity{UserID: "u1"}

	if _, err := svc.AddItem(ctx, id, "m1", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := svc.AddItem(ctx, id, "m1", 20)
	if err != nil {
		t.Fatalf("expected clamp, not error: %v", err)
	}
	if res.Item.Quantity != domain.MaxItemQuantity {
		t.Fatalf("expected quantity clamped to %d, got %d", domain.MaxItemQuantity, res.Item.Quantity)
	}
}

func TestConcurrentAddsConverge(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	id := Identity{UserID: "u1"}

	// Provision the cart first so goroutines race only on the increment.
	if _, err := svc.AddItem(ctx, id, "m0", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AddItem(ctx, id, "m1", 1); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent add failed: %v", err)
	}

	cart, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, item := range cart.Items {
		if item.MealID == "m1" {
			found = true
			if item.Quantity != n {
				t.Fatalf("expected quantity %d after %d concurrent adds, got %d", n, n, item.Quantity)
			}
		}
	}
	if !found {
		t.Fatalf("expected a single row for the contested meal, got %+v", cart.Items)
	}
}

func TestUpdateQuantityZeroDeletesRow(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	id := Identity{UserID: "u1"}

	if _, err := svc.AddItem(ctx, id, "m1", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	item, err := svc.UpdateQuantity(ctx, id, "m1", 0)
	if err != nil {
		t.Fatalf("expected delete, not error: %v", err)
	}
	if item != nil {
		t.Fatalf("expected nil item after delete, got %+v", item)
	}
	if err := svc.RemoveItem(ctx, id, "m1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestUpdateQuantityClampsAndRequiresRow(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	id := Identity{UserID: "u1"}

	if _, err := svc.UpdateQuantity(ctx, id, "m1", 5); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found with no cart, got %v", err)
	}

	if _, err := svc.AddItem(ctx, id, "m1", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.UpdateQuantity(ctx, id, "m2", 5); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for missing row, got %v", err)
	}

	item, err := svc.UpdateQuantity(ctx, id, "m1", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Quantity != domain.MaxItemQuantity {
		t.Fatalf("expected clamp to %d, got %d", domain.MaxItemQuantity, item.Quantity)
	}
}

func TestRemoveItemWithoutCartIsNotFound(t *testing.T) {
	svc := newTestService(newStubRepo())
	if err := svc.RemoveItem(context.Background(), Identity{}, "m1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSyncUpsertsAndProvisions(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	cart, sessionID, err := svc.Sync(ctx, Identity{}, []SyncEntry{
		{MealID: "m1", Quantity: 3},
		{MealID: "m2", Quantity: 25},
		{MealID: "m3", Quantity: 0},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessionID == "" {
		t.Fatalf("expected minted session id")
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 items (zero-quantity entry skipped), got %d", len(cart.Items))
	}
	for _, item := range cart.Items {
		if item.MealID == "m2" && item.Quantity != domain.MaxItemQuantity {
			t.Fatalf("expected clamped quantity, got %d", item.Quantity)
		}
	}

	// Sync again with the same identity overwrites, not increments.
	cart, sessionID, err = svc.Sync(ctx, Identity{SessionID: sessionID}, []SyncEntry{{MealID: "m1", Quantity: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessionID != "" {
		t.Fatalf("expected no re-mint on sync with existing cart")
	}
	for _, item := range cart.Items {
		if item.MealID == "m1" && item.Quantity != 1 {
			t.Fatalf("expected overwrite to 1, got %d", item.Quantity)
		}
	}
}

func TestSummarize(t *testing.T) {
	repo := newStubRepo()
	repo.prices["m1"] = 1500
	repo.prices["m2"] = 2000
	svc := newTestService(repo)
	ctx := context.Background()
	id := Identity{UserID: "u1"}

	if _, err := svc.AddItem(ctx, id, "m1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.AddItem(ctx, id, "m2", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum, err := svc.Summarize(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.ItemCount != 3 {
		t.Fatalf("expected item count 3, got %d", sum.ItemCount)
	}
	if sum.SubtotalCents != 5000 {
		t.Fatalf("expected subtotal 5000, got %d", sum.SubtotalCents)
	}
	if sum.MeetsMinimumOrder {
		t.Fatalf("subtotal below %d must not meet minimum", domain.MinOrderCents)
	}

	if _, err := svc.AddItem(ctx, id, "m2", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum, err = svc.Summarize(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sum.MeetsMinimumOrder {
		t.Fatalf("expected minimum met at subtotal %d", sum.SubtotalCents)
	}
}

func TestMergeOnLoginRekeysWhenUserHasNoCart(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	res, err := svc.AddItem(ctx, Identity{}, "m1", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	merged, err := svc.MergeOnLogin(ctx, res.NewSessionID, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged == nil || merged.UserID == nil || *merged.UserID != "u1" {
		t.Fatalf("expected cart re-keyed to user, got %+v", merged)
	}
	if merged.SessionID != nil {
		t.Fatalf("expected session id cleared, got %+v", merged)
	}
	if len(merged.Items) != 1 || merged.Items[0].Quantity != 4 {
		t.Fatalf("expected items preserved, got %+v", merged.Items)
	}
}

func TestMergeOnLoginSumsIntoExistingUserCart(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, Identity{UserID: "u1"}, "m1", 18); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := svc.AddItem(ctx, Identity{}, "m1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	merged, err := svc.MergeOnLogin(ctx, res.NewSessionID, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(merged.Items) != 1 {
		t.Fatalf("expected single merged row, got %+v", merged.Items)
	}
	if merged.Items[0].Quantity != domain.MaxItemQuantity {
		t.Fatalf("expected merge clamped to %d, got %d", domain.MaxItemQuantity, merged.Items[0].Quantity)
	}
	if _, err := svc.Get(ctx, Identity{SessionID: res.NewSessionID}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected anonymous cart deleted after merge, got %v", err)
	}
}

func TestMergeOnLoginWithNoCartsIsNil(t *testing.T) {
	svc := newTestService(newStubRepo())
	cart, err := svc.MergeOnLogin(context.Background(), "s-none", "u-none")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart != nil {
		t.Fatalf("expected nil cart, got %+v", cart)
	}
}
