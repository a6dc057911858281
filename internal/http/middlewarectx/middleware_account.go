package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/response"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/lib/sl"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
)

// AccountLoader описывает загрузку учётной записи по UID.
type AccountLoader interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

// AccountMiddleware загружает учётную запись из базы на каждый запрос.
// Заблокированные пользователи получают 403 независимо от валидности токена:
// блокировка действует немедленно, не дожидаясь истечения срока токена.
func AccountMiddleware(loader AccountLoader, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AccountMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			uid, ok := r.Context().Value(UserUID).(string)
			if !ok || uid == "" {
				log.Error("missing user uid in context")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.ErrorWithCode(response.CodeUnauthenticated, "authentication required"))
				return
			}

			user, err := loader.GetUser(r.Context(), uid)
			if err != nil {
				log.Error("failed to load account", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.ErrorWithCode(response.CodeUnauthenticated, "account not found"))
				return
			}
			if user.IsBlocked {
				log.Warn("blocked account attempted access", slog.String("user_uid", uid))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.ErrorWithCode(response.CodeForbidden, "account is blocked"))
				return
			}

			ctx := context.WithValue(r.Context(), Account, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountFromContext достаёт загруженную учётную запись из контекста запроса.
func AccountFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(Account).(*models.User)
	return user, ok
}
