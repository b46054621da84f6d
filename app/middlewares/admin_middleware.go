package middlewares

import (
	"context"
	"log"
	"net/http"

	"github.com/Rakhulsr/go-storeadmin/app/helpers"
	"github.com/Rakhulsr/go-storeadmin/app/services"
	"github.com/Rakhulsr/go-storeadmin/app/utils/sessions"
)

const adminLoginPath = "/admin/login"

// AdminAuthMiddleware guards the admin UI with the cookie session. Users whose
// role or active flag changed since login are signed out on their next request.
func AdminAuthMiddleware(store sessions.SessionStore, auth *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := store.GetUserID(r)
			if userID == 0 {
				http.Redirect(w, r, adminLoginPath, http.StatusFound)
				return
			}

			user, err := auth.UserByID(r.Context(), userID)
			if err != nil {
				log.Printf("AdminAuthMiddleware: error finding user %d: %v. Redirecting to login.", userID, err)
				signOut(w, r, store)
				return
			}
			if !user.IsAdmin() || !user.IsActive {
				log.Printf("AdminAuthMiddleware: user %d (%s) is no longer allowed into the admin panel.", user.ID, user.Email)
				signOut(w, r, store)
				return
			}

			ctx := context.WithValue(r.Context(), helpers.ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func signOut(w http.ResponseWriter, r *http.Request, store sessions.SessionStore) {
	if err := store.ClearSession(w, r); err != nil {
		log.Printf("AdminAuthMiddleware: failed to clear session: %v", err)
	}
	http.Redirect(w, r, adminLoginPath, http.StatusFound)
}
