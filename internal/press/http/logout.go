package http

import (
	"net/http"

	"github.com/pressroomhq/pressroom/internal/press/service"
	"github.com/pressroomhq/pressroom/pkg/httpx"
	"github.com/pressroomhq/pressroom/pkg/slogx"
)

type LogoutHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP revokes the caller's session.
//
//	@Summary		Log out
//	@Description	Revokes the presented session token. Logging out an already-dead token still succeeds.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		204	"Session revoked"
//	@Failure		500	{object}	ErrorResponse	"Internal server error"
//	@Router			/v1/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if token := bearerToken(r); token != "" {
		if err := h.AuthService.Logout(ctx, token); err != nil {
			writeServiceError(w, slogx.FromContext(ctx), err)
			return
		}
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
