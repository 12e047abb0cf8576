package http

import (
	"errors"
	"net/http"

	"github.com/srihealth/srihealth/internal/api/service"
	"github.com/srihealth/srihealth/pkg/httpx"
	"github.com/srihealth/srihealth/pkg/slogx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP verifies credentials and returns a bearer token. Unknown email
// and wrong password share one response body.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	grant, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Error("login failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{
		AccessToken: grant.Token,
		TokenType:   "bearer",
		User: UserSummary{
			Name:  grant.User.Name,
			Email: grant.User.Email,
		},
	})
}
