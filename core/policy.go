package core

import "errors"

var ErrForbidden = errors.New("you don't have permission to do that")

// RequireArticleWrite decides whether a user may modify or delete an article:
// the owner may, a superuser may, everybody else gets ErrForbidden.
//
// Developer records are deliberately not covered here. Their write lookups are
// owner-scoped, so a stranger sees not-found and can't probe which ids exist.
func RequireArticleWrite(u DBUser, a DBArticle) error {
	if u != nil && (u.Superuser() || u.ID() == a.UserID()) {
		return nil
	}
	return ErrForbidden
}
