// internal/api/handler/user.go
package handler

import (
	"net/http"

	"tradein-settlement/internal/auth"
	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/util"
)

// currentUser returns the authenticated user or writes a 401.
func (b base) currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		b.respondWithError(w, util.ErrUnauthorized)
		return nil, false
	}
	return user, true
}
