package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"freshprep/internal/domain"
)

type stubOrderRepo struct {
	orders []domain.Order
	order  *domain.Order
	total  int
	err    error
}

func (s *stubOrderRepo) ListByUser(_ context.Context, _ string, _, _ int) ([]domain.Order, int, error) {
	return s.orders, s.total, s.err
}

func (s *stubOrderRepo) GetForUser(_ context.Context, _, _ string) (*domain.Order, error) {
	return s.order, s.err
}

func TestListOrders_RequiresAuth(t *testing.T) {
	router := testRouter(Deps{Orders: &stubOrderRepo{}, Cart: &stubCartService{}})

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body)
	if env.Error == nil || env.Error.Code != codeAuthRequired {
		t.Fatalf("expected auth required error, got %+v", env)
	}
}

func TestListOrders_PaginatesForUser(t *testing.T) {
	repo := &stubOrderRepo{
		orders: []domain.Order{{ID: "o1", OrderNumber: "FP-1001"}},
		total:  5,
	}
	router := testRouter(Deps{Orders: repo, Cart: &stubCartService{}, Sessions: &stubSessionRepo{userID: "u1"}})

	req := httptest.NewRequest(http.MethodGet, "/api/orders?page=1&limit=1", nil)
	req.AddCookie(&http.Cookie{Name: authTokenCookie, Value: "tok"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body)
	data := env.Data.(map[string]interface{})
	if data["totalPages"].(float64) != 5 || data["hasNextPage"].(bool) != true {
		t.Fatalf("unexpected pagination: %v", data)
	}
}

func TestGetOrder_ScopedToOwner(t *testing.T) {
	router := testRouter(Deps{Orders: &stubOrderRepo{err: domain.ErrNotFound}, Cart: &stubCartService{}, Sessions: &stubSessionRepo{userID: "u1"}})

	req := httptest.NewRequest(http.MethodGet, "/api/orders/o-other", nil)
	req.AddCookie(&http.Cookie{Name: authTokenCookie, Value: "tok"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}
