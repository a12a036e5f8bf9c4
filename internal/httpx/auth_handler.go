package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brijmohangurjar/kishan/internal/users"
)

// LoginService is the OTP login flow plus registration.
type LoginService interface {
	RequestOTP(ctx context.Context, mobile string) error
	VerifyOTP(ctx context.Context, mobile, code string) (string, users.User, error)
	Register(ctx context.Context, in users.RegisterInput) (users.User, error)
}

type UserReader interface {
	ByID(ctx context.Context, userID int64) (users.User, error)
}

type AuthHandler struct {
	Login LoginService
	Users UserReader
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/auth/send-otp", h.sendOTP)
	r.Post("/auth/verify-otp", h.verifyOTP)
	r.Post("/auth/register", h.register)
	r.Get("/auth/profile/{userId}", h.profile)
}

type otpRequestReq struct {
	Mobile string `json:"mobile"`
}

type verifyOTPReq struct {
	Mobile string `json:"mobile"`
	OTP    string `json:"otp"`
}

func (h *AuthHandler) sendOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequestReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Login.RequestOTP(ctx, req.Mobile); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "otp sent"})
}

func (h *AuthHandler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	token, u, err := h.Login.VerifyOTP(ctx, req.Mobile, req.OTP)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": u})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var in users.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Login.Register(ctx, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *AuthHandler) profile(w http.ResponseWriter, r *http.Request) {
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
