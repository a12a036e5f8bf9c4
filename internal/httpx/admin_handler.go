package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brijmohangurjar/kishan/internal/admin"
	"github.com/brijmohangurjar/kishan/internal/apperr"
	"github.com/brijmohangurjar/kishan/internal/users"
)

type AdminService interface {
	Login(ctx context.Context, email, password string) (string, admin.Admin, error)
	CreateAdmin(ctx context.Context, in admin.CreateInput) (admin.Admin, error)
}

type AdminStore interface {
	ListActive(ctx context.Context) ([]admin.Admin, error)
	Deactivate(ctx context.Context, adminID int64) error
}

// UserAdminStore is the user management surface exposed to admins.
type UserAdminStore interface {
	List(ctx context.Context) ([]users.User, error)
	ByID(ctx context.Context, userID int64) (users.User, error)
	Create(ctx context.Context, in users.RegisterInput) (users.User, error)
	Update(ctx context.Context, userID int64, in users.UpdateInput) (users.User, error)
	SetActive(ctx context.Context, userID int64, active bool) error
	Delete(ctx context.Context, userID int64) (bool, error)
	Count(ctx context.Context) (int, error)
}

type AdminHandler struct {
	Service AdminService
	Admins  AdminStore
	Users   UserAdminStore
	Orders  OrderStore
}

// RegisterPublic mounts the unauthenticated admin login route.
func (h *AdminHandler) RegisterPublic(r chi.Router) {
	r.Post("/admin/login", h.login)
}

// Register mounts the admin-token-protected management routes.
func (h *AdminHandler) Register(r chi.Router) {
	r.Post("/create", h.createAdmin)
	r.Get("/list", h.listAdmins)
	r.Delete("/{adminId}", h.deactivateAdmin)

	r.Get("/users", h.listUsers)
	r.Get("/users/{userId}", h.getUser)
	r.Post("/users", h.createUser)
	r.Put("/users/{userId}", h.updateUser)
	r.Put("/users/{userId}/status", h.setUserStatus)
	r.Delete("/users/{userId}", h.deleteUser)

	r.Get("/stats", h.stats)
}

type adminLoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AdminHandler) login(w http.ResponseWriter, r *http.Request) {
	var req adminLoginReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	token, a, err := h.Service.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "admin": a})
}

func (h *AdminHandler) createAdmin(w http.ResponseWriter, r *http.Request) {
	var in admin.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	a, err := h.Service.CreateAdmin(ctx, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AdminHandler) listAdmins(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Admins.ListActive(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) deactivateAdmin(w http.ResponseWriter, r *http.Request) {
	adminID, err := pathID(r, "adminId")
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Admins.Deactivate(ctx, adminID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "admin deactivated"})
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Users.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) getUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Users.ByID(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *AdminHandler) createUser(w http.ResponseWriter, r *http.Request) {
	var in users.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *AdminHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}
	var in users.UpdateInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Update(ctx, userID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type setUserStatusReq struct {
	IsActive bool `json:"isActive"`
}

func (h *AdminHandler) setUserStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}
	var req setUserStatusReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.SetActive(ctx, userID, req.IsActive); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user status updated"})
}

func (h *AdminHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Users.Delete(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, apperr.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

func (h *AdminHandler) stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orderStats, err := h.Orders.GetStats(ctx, 5)
	if err != nil {
		writeError(w, err)
		return
	}
	userCount, err := h.Users.Count(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"totalOrders":   orderStats.OrderCount,
		"pendingOrders": orderStats.PendingCount,
		"totalRevenue":  orderStats.TotalRevenue,
		"recentOrders":  orderStats.Recent,
		"totalUsers":    userCount,
	})
}
