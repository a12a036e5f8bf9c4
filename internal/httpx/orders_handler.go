package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/brijmohangurjar/kishan/internal/apperr"
	"github.com/brijmohangurjar/kishan/internal/auth"
	"github.com/brijmohangurjar/kishan/internal/orders"
)

// OrderStore is what the handlers need from the orders repo.
type OrderStore interface {
	PlaceOrder(ctx context.Context, userID int64, in orders.PlaceInput) (orders.Order, error)
	GetByID(ctx context.Context, orderID int64) (orders.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]orders.Order, error)
	ListAll(ctx context.Context) ([]orders.Order, error)
	SetStatus(ctx context.Context, orderID int64, status orders.Status, shippedAt, deliveredAt *time.Time) (orders.Order, error)
	Delete(ctx context.Context, orderID int64) (bool, error)
	Total(ctx context.Context, orderID int64) (decimal.Decimal, error)
	GetStats(ctx context.Context, recentN int) (orders.Stats, error)
}

type OrdersHandler struct {
	Store OrderStore
}

// Register mounts the user-facing order routes on an authenticated router.
func (h *OrdersHandler) Register(r chi.Router) {
	r.Get("/orders", h.listOrders)
	r.Post("/orders", h.createOrder)
	r.Get("/orders/{orderId}", h.getOrder)
	r.Get("/orders/{orderId}/total", h.getOrderTotal)
	r.Put("/orders/{orderId}/status", h.updateStatus)
}

// RegisterAdmin mounts the admin order routes.
func (h *OrdersHandler) RegisterAdmin(r chi.Router) {
	r.Get("/orders", h.adminListOrders)
	r.Get("/orders/{orderId}", h.adminGetOrder)
	r.Put("/orders/{orderId}/status", h.adminUpdateStatus)
	r.Delete("/orders/{orderId}", h.adminDeleteOrder)
}

type updateStatusReq struct {
	Status        string     `json:"status"`
	ShippedDate   *time.Time `json:"shippedDate"`
	DeliveredDate *time.Time `json:"deliveredDate"`
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var req orders.PlaceInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Store.PlaceOrder(ctx, id.UserID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Store.ListByUser(ctx, id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// loadOwned fetches an order and enforces ownership. A non-owner gets
// 403 rather than 404; existence is not hidden once authenticated users
// can guess sequential ids anyway, but the body reveals nothing.
func (h *OrdersHandler) loadOwned(ctx context.Context, r *http.Request) (orders.Order, error) {
	id, _ := auth.FromContext(ctx)
	orderID, err := pathID(r, "orderId")
	if err != nil {
		return orders.Order{}, err
	}
	o, err := h.Store.GetByID(ctx, orderID)
	if err != nil {
		return orders.Order{}, err
	}
	if o.UserID != id.UserID {
		return orders.Order{}, apperr.ErrForbidden
	}
	return o, nil
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.loadOwned(ctx, r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) getOrderTotal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.loadOwned(ctx, r)
	if err != nil {
		writeError(w, err)
		return
	}
	total, err := h.Store.Total(ctx, o.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orderId": o.ID, "total": total})
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.loadOwned(ctx, r)
	if err != nil {
		writeError(w, err)
		return
	}
	h.applyStatus(ctx, w, r, o.ID)
}

func (h *OrdersHandler) applyStatus(ctx context.Context, w http.ResponseWriter, r *http.Request, orderID int64) {
	var req updateStatusReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	status, err := orders.ParseStatus(req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.Store.SetStatus(ctx, orderID, status, req.ShippedDate, req.DeliveredDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *OrdersHandler) adminListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Store.ListAll(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) adminGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderId")
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Store.GetByID(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) adminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderId")
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	h.applyStatus(ctx, w, r, orderID)
}

func (h *OrdersHandler) adminDeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderId")
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Store.Delete(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, apperr.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}
