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

// SubscriptionResolver описывает поиск последней подписки пользователя.
type SubscriptionResolver interface {
	GetLatestSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
}

// EntitlementResolver вычисляет, действует ли доступ прямо сейчас.
type EntitlementResolver func(user *models.User, latest *models.Subscription) models.Entitlement

// EntitlementMiddleware закрывает платный контент: запросы пользователей
// с истёкшим доступом получают 402 Payment Required. Статус вычисляется
// заново на каждый запрос, без кэширования между запросами.
func EntitlementMiddleware(subs SubscriptionResolver, resolve EntitlementResolver, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.EntitlementMiddleware"
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

			latest, err := subs.GetLatestSubscription(r.Context(), user.UID)
			if err != nil {
				log.Error("failed to resolve subscription", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to resolve access"))
				return
			}

			ent := resolve(user, latest)
			if !ent.HasActivePass {
				log.Info("access denied, no active pass", slog.String("user_uid", user.UID))
				w.WriteHeader(http.StatusPaymentRequired)
				render.JSON(w, r, response.ErrorWithCode(response.CodeSubscriptionRequired, "active subscription or trial required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
