package middlewares

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/Rakhulsr/go-storeadmin/app/handlers"
	"github.com/Rakhulsr/go-storeadmin/app/helpers"
	"github.com/Rakhulsr/go-storeadmin/app/services"
	"github.com/unrolled/render"
)

// BearerAuth admits requests carrying a valid access token of an active staff
// user. Missing or bad tokens get 401, authenticated non-staff or disabled
// accounts get 403.
func BearerAuth(rnd *render.Render, auth *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				handlers.WriteError(rnd, w, services.ErrInvalidToken)
				return
			}

			user, claims, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if !errors.Is(err, services.ErrInvalidToken) {
					log.Printf("BearerAuth: rejected %s %s: %v", r.Method, r.URL.Path, err)
				}
				handlers.WriteError(rnd, w, err)
				return
			}

			ctx := context.WithValue(r.Context(), helpers.ContextKeyUser, user)
			ctx = context.WithValue(ctx, helpers.ContextKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
