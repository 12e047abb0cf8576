package http

import (
	"errors"
	"net/http"

	"github.com/srihealth/srihealth/internal/api/service"
	"github.com/srihealth/srihealth/pkg/httpx"
	"github.com/srihealth/srihealth/pkg/slogx"
)

type RegisterHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP creates a new account from a JSON body of name, email and
// password. Duplicate emails are a 400, not a 409, to keep the wire contract
// stable for existing clients.
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	_, err := h.AuthService.Register(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			writeError(w, http.StatusBadRequest, "User already exists")
			return
		}
		log.Error("registration failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, RegisterResponse{
		Message: "User registered successfully",
	})
}
