package http

import (
	"net/http"

	"github.com/pressroomhq/pressroom/internal/press/service"
	"github.com/pressroomhq/pressroom/pkg/httpx"
	"github.com/pressroomhq/pressroom/pkg/slogx"
)

type MeHandler struct {
	UserService *service.UserService
}

// HandleGet returns the authenticated user's profile.
//
//	@Summary		Current user
//	@Description	Returns the profile of the authenticated user.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	UserResponse
//	@Failure		401	{object}	ErrorResponse	"Missing or invalid session"
//	@Router			/v1/me [get].
func (h *MeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	ident := IdentityFrom(ctx)
	user, err := h.UserService.Get(ctx, ident.UserID)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandlePassword changes the authenticated user's password.
//
//	@Summary		Change password
//	@Description	Changes the caller's password. The new password must be 8-20 characters with an
//	@Description	uppercase letter, a lowercase letter, a digit and a special character. Success
//	@Description	revokes every session of the user, including the current one.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	ChangePasswordRequest	true	"Password change"
//	@Success		204		"Password changed; log in again"
//	@Failure		400		{object}	ErrorResponse	"Malformed request or wrong current password"
//	@Failure		401		{object}	ErrorResponse	"Missing or invalid session"
//	@Failure		422		{object}	ErrorResponse	"Weak password or confirmation mismatch"
//	@Router			/v1/me/password [put].
func (h *MeHandler) HandlePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ident := IdentityFrom(ctx)
	err := h.UserService.ChangePassword(ctx, ident.UserID, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
