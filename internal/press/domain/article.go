package domain

import "time"

type Article struct {
	ID         int64
	Title      string
	Content    string
	ImagePath  string // stored asset name, empty when the article has no image
	AuthorID   int64
	AuthorName string // joined author username, populated on reads
	Published  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ViewableBy reports whether the given identity may see the article.
// Published articles are public; drafts are visible only to their author
// and to admins.
func (a Article) ViewableBy(id *Identity) bool {
	if a.Published {
		return true
	}
	if id == nil {
		return false
	}
	return id.IsAdmin || id.UserID == a.AuthorID
}

// MutableBy reports whether the given identity may edit or delete the
// article. Mutation always requires an identity; published state is
// irrelevant.
func (a Article) MutableBy(id *Identity) bool {
	if id == nil {
		return false
	}
	return id.IsAdmin || id.UserID == a.AuthorID
}
