package middlewares

import (
	"context"
	"log"
	"net/http"

	"github.com/poslugy/marketplace/app/helpers"
	"github.com/poslugy/marketplace/app/repositories"
	"github.com/poslugy/marketplace/app/utils/sessions"
	"github.com/unrolled/render"
)

// SessionUserMiddleware resolves the session's user and stashes both the
// id and the loaded user in the request context. Requests without a
// valid session pass through anonymous.
func SessionUserMiddleware(sessionStore sessions.SessionStore, userRepo repositories.UserRepositoryImpl) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sessionStore.GetUserID(r)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				log.Printf("SessionUserMiddleware: failed to load user %s: %v", userID, err)
				next.ServeHTTP(w, r)
				return
			}
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), helpers.ContextKeyUserID, user.ID)
			ctx = context.WithValue(ctx, helpers.ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth(rnd *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if helpers.GetUserIDFromContext(r.Context()) == "" {
				_ = rnd.JSON(w, http.StatusUnauthorized, map[string]string{"error": "потрібна авторизація"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
