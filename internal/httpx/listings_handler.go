package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brijmohangurjar/kishan/internal/auth"
	"github.com/brijmohangurjar/kishan/internal/listings"
)

type ListingStore interface {
	List(ctx context.Context) ([]listings.Listing, error)
	ByCategory(ctx context.Context, categoryID int64) ([]listings.Listing, error)
	Get(ctx context.Context, listingID int64) (listings.Listing, error)
	Create(ctx context.Context, userID int64, in listings.ListingInput) (listings.Listing, error)
	Update(ctx context.Context, listingID, userID int64, admin bool, in listings.ListingInput) (listings.Listing, error)
	Delete(ctx context.Context, listingID, userID int64, admin bool) error

	Categories(ctx context.Context, onlyActive bool) ([]listings.Category, error)
	GetCategory(ctx context.Context, categoryID int64) (listings.Category, error)
	CreateCategory(ctx context.Context, in listings.CategoryInput) (listings.Category, error)
	UpdateCategory(ctx context.Context, categoryID int64, in listings.CategoryInput) (listings.Category, error)
	DeleteCategory(ctx context.Context, categoryID int64) error
}

// ListingsHandler serves the peer-to-peer sale/buy marketplace.
type ListingsHandler struct {
	Store ListingStore
}

// Register mounts the public browse routes.
func (h *ListingsHandler) Register(r chi.Router) {
	r.Get("/salebuy/products", h.list)
	r.Get("/salebuy/products/{listingId}", h.get)
	r.Get("/salebuy/categories", h.listCategories)
	r.Get("/salebuy/categories/active", h.listActiveCategories)
	r.Get("/salebuy/categories/{categoryId}", h.getCategory)
	r.Get("/salebuy/categories/{categoryId}/products", h.byCategory)
}

// RegisterUser mounts the routes needing a logged-in user.
func (h *ListingsHandler) RegisterUser(r chi.Router) {
	r.Post("/salebuy/products", h.create)
	r.Put("/salebuy/products/{listingId}", h.update)
	r.Delete("/salebuy/products/{listingId}", h.delete)
}

// RegisterAdmin mounts category management and admin overrides.
func (h *ListingsHandler) RegisterAdmin(r chi.Router) {
	r.Post("/salebuy/categories", h.createCategory)
	r.Put("/salebuy/categories/{categoryId}", h.updateCategory)
	r.Delete("/salebuy/categories/{categoryId}", h.deleteCategory)
	r.Put("/salebuy/products/{listingId}", h.adminUpdate)
	r.Delete("/salebuy/products/{listingId}", h.adminDelete)
}

func (h *ListingsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ls, err := h.Store.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ls)
}

func (h *ListingsHandler) get(w http.ResponseWriter, r *http.Request) {
	listingID, err := pathID(r, "listingId")
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	l, err := h.Store.Get(ctx, listingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *ListingsHandler) byCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryId")
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ls, err := h.Store.ByCategory(ctx, categoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ls)
}

func (h *ListingsHandler) create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var in listings.ListingInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	l, err := h.Store.Create(ctx, id.UserID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *ListingsHandler) mutate(w http.ResponseWriter, r *http.Request, asAdmin bool) {
	id, _ := auth.FromContext(r.Context())
	listingID, err := pathID(r, "listingId")
	if err != nil {
		writeError(w, err)
		return
	}
	var in listings.ListingInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	l, err := h.Store.Update(ctx, listingID, id.UserID, asAdmin, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *ListingsHandler) update(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, false)
}

func (h *ListingsHandler) adminUpdate(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, true)
}

func (h *ListingsHandler) remove(w http.ResponseWriter, r *http.Request, asAdmin bool) {
	id, _ := auth.FromContext(r.Context())
	listingID, err := pathID(r, "listingId")
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.Delete(ctx, listingID, id.UserID, asAdmin); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "listing deleted"})
}

func (h *ListingsHandler) delete(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, false)
}

func (h *ListingsHandler) adminDelete(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, true)
}

func (h *ListingsHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	cs, err := h.Store.Categories(ctx, false)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *ListingsHandler) listActiveCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	cs, err := h.Store.Categories(ctx, true)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *ListingsHandler) getCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryId")
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Store.GetCategory(ctx, categoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ListingsHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var in listings.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Store.CreateCategory(ctx, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *ListingsHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryId")
	if err != nil {
		writeError(w, err)
		return
	}
	var in listings.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Store.UpdateCategory(ctx, categoryID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ListingsHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryId")
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.DeleteCategory(ctx, categoryID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}
