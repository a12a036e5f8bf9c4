package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brijmohangurjar/kishan/internal/apperr"
	"github.com/brijmohangurjar/kishan/internal/auth"
	"github.com/brijmohangurjar/kishan/internal/orders"
)

var testTokens = auth.NewTokens("test-secret", 1)

func userRequest(t *testing.T, userID int64, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	token, err := testTokens.Issue(auth.Identity{UserID: userID})
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func adminRequest(t *testing.T, adminID int64, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	token, err := testTokens.Issue(auth.Identity{AdminID: adminID})
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func decodeBody(t *testing.T, r io.Reader, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r).Decode(v))
}

type stubOrderStore struct {
	placeOrder func(ctx context.Context, userID int64, in orders.PlaceInput) (orders.Order, error)
	getByID    func(ctx context.Context, orderID int64) (orders.Order, error)
	listByUser func(ctx context.Context, userID int64) ([]orders.Order, error)
	setStatus  func(ctx context.Context, orderID int64, status orders.Status, shippedAt, deliveredAt *time.Time) (orders.Order, error)
	deleteFn   func(ctx context.Context, orderID int64) (bool, error)
	total      func(ctx context.Context, orderID int64) (decimal.Decimal, error)
}

func (s *stubOrderStore) PlaceOrder(ctx context.Context, userID int64, in orders.PlaceInput) (orders.Order, error) {
	return s.placeOrder(ctx, userID, in)
}

func (s *stubOrderStore) GetByID(ctx context.Context, orderID int64) (orders.Order, error) {
	return s.getByID(ctx, orderID)
}

func (s *stubOrderStore) ListByUser(ctx context.Context, userID int64) ([]orders.Order, error) {
	return s.listByUser(ctx, userID)
}

func (s *stubOrderStore) ListAll(ctx context.Context) ([]orders.Order, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubOrderStore) SetStatus(ctx context.Context, orderID int64, status orders.Status, shippedAt, deliveredAt *time.Time) (orders.Order, error) {
	return s.setStatus(ctx, orderID, status, shippedAt, deliveredAt)
}

func (s *stubOrderStore) Delete(ctx context.Context, orderID int64) (bool, error) {
	return s.deleteFn(ctx, orderID)
}

func (s *stubOrderStore) Total(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	return s.total(ctx, orderID)
}

func (s *stubOrderStore) GetStats(ctx context.Context, recentN int) (orders.Stats, error) {
	return orders.Stats{}, fmt.Errorf("not implemented")
}

func newOrdersRouter(store OrderStore) *chi.Mux {
	h := &OrdersHandler{Store: store}
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(testTokens.RequireUser)
		h.Register(r)
	})
	r.Route("/admin", func(r chi.Router) {
		r.Use(testTokens.RequireAdmin)
		h.RegisterAdmin(r)
	})
	return r
}

func TestCreateOrder(t *testing.T) {
	prices := map[int64]decimal.Decimal{
		1: decimal.NewFromInt(100),
		3: decimal.NewFromInt(50),
	}
	store := &stubOrderStore{
		placeOrder: func(_ context.Context, userID int64, in orders.PlaceInput) (orders.Order, error) {
			assert.Equal(t, int64(7), userID)
			assert.Equal(t, "COD", in.PaymentMethod)
			o := orders.Order{
				ID:            10,
				UserID:        userID,
				OrderNumber:   "ORD-20250901-DEADBEEF",
				Status:        orders.StatusProcessing,
				PaymentMethod: in.PaymentMethod,
			}
			for _, it := range in.Items {
				price, ok := prices[it.ProductID]
				require.True(t, ok)
				line := price.Mul(decimal.NewFromInt(int64(it.Quantity)))
				o.Items = append(o.Items, orders.Item{
					ProductID: it.ProductID, UnitPrice: price,
					Quantity: it.Quantity, TotalPrice: line,
				})
				o.TotalAmount = o.TotalAmount.Add(line)
			}
			return o, nil
		},
	}
	r := newOrdersRouter(store)

	// 2 x 100 + 1 x 50
	body := orders.PlaceInput{
		PaymentMethod: "COD",
		Items: []orders.ItemInput{
			{ProductID: 1, Quantity: 2},
			{ProductID: 3, Quantity: 1},
		},
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, userRequest(t, 7, http.MethodPost, "/orders", body))

	require.Equal(t, http.StatusCreated, rec.Code)
	var got orders.Order
	decodeBody(t, rec.Body, &got)
	assert.Equal(t, "ORD-20250901-DEADBEEF", got.OrderNumber)
	assert.Equal(t, orders.StatusProcessing, got.Status)
	require.Len(t, got.Items, 2)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(250)))
	assert.True(t, got.Items[0].TotalPrice.Equal(decimal.NewFromInt(200)))
	assert.True(t, got.Items[1].TotalPrice.Equal(decimal.NewFromInt(50)))
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	store := &stubOrderStore{
		placeOrder: func(context.Context, int64, orders.PlaceInput) (orders.Order, error) {
			return orders.Order{}, &apperr.InvalidReferenceError{ProductID: 99}
		},
	}
	r := newOrdersRouter(store)

	body := orders.PlaceInput{PaymentMethod: "UPI", Items: []orders.ItemInput{{ProductID: 99, Quantity: 1}}}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, userRequest(t, 7, http.MethodPost, "/orders", body))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var got map[string]string
	decodeBody(t, rec.Body, &got)
	assert.Contains(t, got["error"], "99")
}

func TestCreateOrderRequiresToken(t *testing.T) {
	r := newOrdersRouter(&stubOrderStore{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString("{}")))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetOrderOwnership(t *testing.T) {
	store := &stubOrderStore{
		getByID: func(_ context.Context, orderID int64) (orders.Order, error) {
			if orderID != 10 {
				return orders.Order{}, apperr.ErrNotFound
			}
			return orders.Order{ID: 10, UserID: 7, OrderNumber: "ORD-20250901-AAAAAAAA"}, nil
		},
	}
	r := newOrdersRouter(store)

	// owner
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, userRequest(t, 7, http.MethodGet, "/orders/10", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// another user
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, userRequest(t, 8, http.MethodGet, "/orders/10", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// missing order
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, userRequest(t, 7, http.MethodGet, "/orders/11", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStatus(t *testing.T) {
	now := time.Now().UTC()
	store := &stubOrderStore{
		getByID: func(context.Context, int64) (orders.Order, error) {
			return orders.Order{ID: 10, UserID: 7, Status: orders.StatusProcessing}, nil
		},
		setStatus: func(_ context.Context, orderID int64, status orders.Status, shippedAt, deliveredAt *time.Time) (orders.Order, error) {
			assert.Equal(t, orders.StatusShipped, status)
			return orders.Order{ID: orderID, UserID: 7, Status: status, ShippedDate: &now}, nil
		},
	}
	r := newOrdersRouter(store)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, userRequest(t, 7, http.MethodPut, "/orders/10/status", map[string]string{"status": "Shipped"}))

	require.Equal(t, http.StatusOK, rec.Code)
	var got orders.Order
	decodeBody(t, rec.Body, &got)
	assert.Equal(t, orders.StatusShipped, got.Status)
	require.NotNil(t, got.ShippedDate)
}

func TestUpdateStatusRejectsBackwardMove(t *testing.T) {
	store := &stubOrderStore{
		getByID: func(context.Context, int64) (orders.Order, error) {
			return orders.Order{ID: 10, UserID: 7, Status: orders.StatusDelivered}, nil
		},
		setStatus: func(context.Context, int64, orders.Status, *time.Time, *time.Time) (orders.Order, error) {
			return orders.Order{}, fmt.Errorf("Delivered -> Processing: %w", orders.ErrBadTransition)
		},
	}
	r := newOrdersRouter(store)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, userRequest(t, 7, http.MethodPut, "/orders/10/status", map[string]string{"status": "Processing"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusUnknownValue(t *testing.T) {
	called := false
	store := &stubOrderStore{
		getByID: func(context.Context, int64) (orders.Order, error) {
			return orders.Order{ID: 10, UserID: 7}, nil
		},
		setStatus: func(context.Context, int64, orders.Status, *time.Time, *time.Time) (orders.Order, error) {
			called = true
			return orders.Order{}, nil
		},
	}
	r := newOrdersRouter(store)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, userRequest(t, 7, http.MethodPut, "/orders/10/status", map[string]string{"status": "Refunded"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called, "invalid status must not reach the store")
}

func TestGetOrderTotal(t *testing.T) {
	store := &stubOrderStore{
		getByID: func(context.Context, int64) (orders.Order, error) {
			return orders.Order{ID: 10, UserID: 7}, nil
		},
		total: func(_ context.Context, orderID int64) (decimal.Decimal, error) {
			return decimal.RequireFromString("250.50"), nil
		},
	}
	r := newOrdersRouter(store)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, userRequest(t, 7, http.MethodGet, "/orders/10/total", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		OrderID int64           `json:"orderId"`
		Total   decimal.Decimal `json:"total"`
	}
	decodeBody(t, rec.Body, &got)
	assert.Equal(t, int64(10), got.OrderID)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("250.50")))
}

func TestAdminDeleteOrder(t *testing.T) {
	store := &stubOrderStore{
		deleteFn: func(_ context.Context, orderID int64) (bool, error) {
			return orderID == 10, nil
		},
	}
	r := newOrdersRouter(store)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, adminRequest(t, 1, http.MethodDelete, "/admin/orders/10", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, adminRequest(t, 1, http.MethodDelete, "/admin/orders/11", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// user tokens cannot hit admin routes
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, userRequest(t, 7, http.MethodDelete, "/admin/orders/10", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
