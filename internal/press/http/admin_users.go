package http

import (
	"net/http"

	"github.com/pressroomhq/pressroom/internal/press/domain"
	"github.com/pressroomhq/pressroom/internal/press/service"
	"github.com/pressroomhq/pressroom/pkg/httpx"
	"github.com/pressroomhq/pressroom/pkg/slogx"
)

type AdminUsersHandler struct {
	UserService *service.UserService
}

// HandleList returns every account.
//
//	@Summary		List users
//	@Description	Returns every account with its article count, newest first. Admin only.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		UserListingResponse
//	@Failure		403	{object}	ErrorResponse	"Admin access required"
//	@Router			/v1/admin/users [get].
func (h *AdminUsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	listings, err := h.UserService.List(ctx)
	if err != nil {
		writeServiceError(w, slogx.FromContext(ctx), err)
		return
	}

	out := make([]UserListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toUserListingResponse(l))
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate provisions an account with a generated password.
//
//	@Summary		Create a user
//	@Description	Creates an account with a generated strong password. The password is returned
//	@Description	once in the response and, when SMTP is configured, mailed to the new user.
//	@Description	"mailed" reports whether that delivery succeeded.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateUserRequest	true	"New account"
//	@Success		201		{object}	CredentialsResponse
//	@Failure		403		{object}	ErrorResponse	"Admin access required"
//	@Failure		409		{object}	ErrorResponse	"Username or email taken"
//	@Router			/v1/admin/users [post].
func (h *AdminUsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.UserService.Create(ctx, service.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, CredentialsResponse{
		User:     toUserResponse(res.User),
		Password: res.Password,
		Mailed:   res.Mailed,
	})
}

// HandleUpdate mutates an account.
//
//	@Summary		Update a user
//	@Description	Updates username, email, admin flag and active flag. Setting reset_password
//	@Description	regenerates the password and revokes the user's sessions; deactivating the
//	@Description	account revokes them too.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"User ID"
//	@Param			request	body		UpdateUserRequest	true	"Account changes"
//	@Success		200		{object}	CredentialsResponse	"Password is empty unless it was reset"
//	@Failure		403		{object}	ErrorResponse		"Admin access required"
//	@Failure		404		{object}	ErrorResponse		"Unknown user"
//	@Failure		409		{object}	ErrorResponse		"Username or email taken"
//	@Router			/v1/admin/users/{id} [put].
func (h *AdminUsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.UserService.Update(ctx, id, service.UpdateUserInput{
		Username:      req.Username,
		Email:         req.Email,
		IsAdmin:       req.IsAdmin,
		Active:        req.Active,
		ResetPassword: req.ResetPassword,
	})
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, CredentialsResponse{
		User:     toUserResponse(res.User),
		Password: res.Password,
		Mailed:   res.Mailed,
	})
}

// HandleDelete removes an account.
//
//	@Summary		Delete a user
//	@Description	Deletes an account and its sessions. Admins cannot delete themselves, and
//	@Description	accounts that still own articles are protected.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path	int	true	"User ID"
//	@Success		204	"User deleted"
//	@Failure		403	{object}	ErrorResponse	"Admin access required"
//	@Failure		404	{object}	ErrorResponse	"Unknown user"
//	@Failure		409	{object}	ErrorResponse	"Self-delete or user still owns articles"
//	@Router			/v1/admin/users/{id} [delete].
func (h *AdminUsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ident := IdentityFrom(ctx)
	if err := h.UserService.Delete(ctx, ident.UserID, id); err != nil {
		writeServiceError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toUserListingResponse(l domain.UserListing) UserListingResponse {
	return UserListingResponse{
		UserResponse: UserResponse{
			ID:        l.ID,
			Username:  l.Username,
			Email:     l.Email,
			IsAdmin:   l.IsAdmin,
			Active:    l.Active,
			CreatedAt: l.CreatedAt,
			LastLogin: l.LastLoginAt,
		},
		ArticleCount: l.ArticleCount,
	}
}
