package service

import "errors"

var (
	// ErrInvalidCredentials is returned for every login failure. Unknown
	// username, inactive account and wrong password are indistinguishable
	// to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidSession is returned when a session token does not resolve
	// to a live session.
	ErrInvalidSession = errors.New("invalid session")

	// ErrForbidden is returned when the actor is authenticated but not
	// allowed to perform the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when the target record does not exist, or
	// when its existence must be hidden from the actor.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a username or email is already taken.
	ErrDuplicate = errors.New("username or email already taken")

	// ErrInvalidInput is returned when a required field is blank. The HTTP
	// layer validates request shapes before the service runs; this keeps
	// the same guarantee for direct callers.
	ErrInvalidInput = errors.New("username and email are required")

	// ErrSelfDelete guards an admin against deleting their own account.
	ErrSelfDelete = errors.New("cannot delete your own account")

	// ErrUserHasArticles blocks deleting an account that still owns
	// articles.
	ErrUserHasArticles = errors.New("user still owns articles")

	// ErrWeakPassword is returned when a new password fails the strength
	// policy.
	ErrWeakPassword = errors.New("password does not meet strength requirements")

	// ErrPasswordMismatch is returned when the confirmation does not match
	// the new password.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrWrongPassword is returned when the current password check fails
	// during a password change.
	ErrWrongPassword = errors.New("current password is incorrect")

	// ErrUnsupportedImage is returned when an uploaded image has a
	// disallowed extension.
	ErrUnsupportedImage = errors.New("unsupported image type")
)
