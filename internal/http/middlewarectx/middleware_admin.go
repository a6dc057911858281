package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/response"
)

// AdminMiddleware пропускает только администраторов. Флаг читается из
// учётной записи, загруженной AccountMiddleware на этот же запрос, поэтому
// отзыв прав действует сразу.
func AdminMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AdminMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			user, ok := AccountFromContext(r.Context())
			if !ok {
				log.Error("missing account in context")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.ErrorWithCode(response.CodeUnauthenticated, "authentication required"))
				return
			}
			if !user.IsAdmin {
				log.Warn("non-admin attempted admin operation", slog.String("user_uid", user.UID))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.ErrorWithCode(response.CodeForbidden, "admin privileges required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
