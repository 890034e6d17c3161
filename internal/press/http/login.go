package http

import (
	"net/http"

	"github.com/pressroomhq/pressroom/internal/press/service"
	"github.com/pressroomhq/pressroom/pkg/httpx"
	"github.com/pressroomhq/pressroom/pkg/slogx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles username/password login.
//
//	@Summary		Log in
//	@Description	Authenticates a username/password pair and returns an opaque session token.
//	@Description	The token is shown exactly once; store it client-side and send it as "Bearer {token}".
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	LoginResponse	"Session token and user profile"
//	@Failure		400		{object}	ErrorResponse	"Malformed request"
//	@Failure		401		{object}	ErrorResponse	"Invalid credentials"
//	@Failure		429		{object}	ErrorResponse	"Rate limit exceeded"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.AuthService.Login(ctx, req.Username, req.Password)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.Session.ExpiresAt,
		User:      toUserResponse(res.User),
	})
}
