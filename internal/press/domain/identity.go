package domain

// Identity is the resolved "who is making this request" value derived from a
// session token. A nil *Identity means the request is anonymous.
type Identity struct {
	UserID   int64
	Username string
	IsAdmin  bool
}
