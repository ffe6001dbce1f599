package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/avdmitr/salon-booking-service/internal/api/handlers"
)

// AdminTokenHeader заголовок с административным токеном
const AdminTokenHeader = "X-Admin-Token"

// AdminAuth проверяет административный токен в заголовке X-Admin-Token
// Пустой настроенный токен закрывает административные маршруты полностью
func AdminAuth(apiToken string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(AdminTokenHeader)

			if apiToken == "" || provided == "" ||
				subtle.ConstantTimeCompare([]byte(provided), []byte(apiToken)) != 1 {
				handlers.RespondUnauthorized(w, "требуется административный токен")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
