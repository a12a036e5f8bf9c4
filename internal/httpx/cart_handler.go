package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/brijmohangurjar/kishan/internal/apperr"
	"github.com/brijmohangurjar/kishan/internal/auth"
	"github.com/brijmohangurjar/kishan/internal/cart"
)

type CartStore interface {
	ListForUser(ctx context.Context, userID int64) ([]cart.Line, error)
	AddOrIncrement(ctx context.Context, userID, productID int64, quantity int) (cart.Line, error)
	UpdateQuantity(ctx context.Context, cartID int64, quantity int) (cart.Line, error)
	Remove(ctx context.Context, cartID, userID int64) (bool, error)
	ClearAll(ctx context.Context, userID int64) error
	Total(ctx context.Context, userID int64) (decimal.Decimal, error)
}

type CartHandler struct {
	Store CartStore
}

func (h *CartHandler) Register(r chi.Router) {
	r.Get("/cart", h.getCart)
	r.Post("/cart", h.addToCart)
	r.Put("/cart/{cartId}", h.updateItem)
	r.Delete("/cart/clear", h.clearCart)
	r.Delete("/cart/{cartId}", h.removeItem)
	r.Get("/cart/total", h.getTotal)
}

type addToCartReq struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type updateCartReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	lines, err := h.Store.ListForUser(ctx, id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

func (h *CartHandler) addToCart(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var req addToCartReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	line, err := h.Store.AddOrIncrement(ctx, id.UserID, req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, line)
}

func (h *CartHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	cartID, err := pathID(r, "cartId")
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateCartReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	line, err := h.Store.UpdateQuantity(ctx, cartID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, line)
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	cartID, err := pathID(r, "cartId")
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Store.Remove(ctx, cartID, id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, apperr.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "item removed"})
}

func (h *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.ClearAll(ctx, id.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}

func (h *CartHandler) getTotal(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	total, err := h.Store.Total(ctx, id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"total": total})
}
