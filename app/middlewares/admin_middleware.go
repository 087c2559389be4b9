package middlewares

import (
	"net/http"

	"github.com/poslugy/marketplace/app/helpers"
	"github.com/poslugy/marketplace/app/models"
	"github.com/unrolled/render"
)

// RequireAdmin guards moderation endpoints.
func RequireAdmin(rnd *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := helpers.GetUserFromContext(r.Context())
			if user == nil {
				_ = rnd.JSON(w, http.StatusUnauthorized, map[string]string{"error": "потрібна авторизація"})
				return
			}
			if user.Role != models.RoleAdmin {
				_ = rnd.JSON(w, http.StatusForbidden, map[string]string{"error": "доступ лише для модераторів"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
