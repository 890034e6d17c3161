package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every handler. The validator keeps struct metadata
// cached, so a single instance is the intended usage.
var validate = validator.New()

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email"    validate:"required,email,max=254"`
	IsAdmin  bool   `json:"is_admin"`
}

type UpdateUserRequest struct {
	Username      string `json:"username" validate:"required,min=3,max=64"`
	Email         string `json:"email"    validate:"required,email,max=254"`
	IsAdmin       bool   `json:"is_admin"`
	Active        bool   `json:"active"`
	ResetPassword bool   `json:"reset_password"`
}

// decodeJSON parses and validates a JSON request body. On failure it writes
// the error response itself and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return false
	}
	return true
}
