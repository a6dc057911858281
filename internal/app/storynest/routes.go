// Package storynest предоставляет маршруты для основного приложения.
package storynest

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/handlers/admin/packagecreate"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/handlers/admin/plancost"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/handlers/admin/plancreate"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/handlers/admin/rewardget"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/handlers/admin/rewardset"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/handlers/admin/storyapprove"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/handlers/admin/storyreject"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/handlers/admin/useradmin"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/handlers/admin/userblock"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/handlers/auth/login"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/handlers/auth/register"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/handlers/catalog/packages"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/handlers/catalog/plans"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/handlers/health"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/handlers/payment/ordercreate"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/handlers/payment/verify"
	settingsupdate "github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/handlers/settings/update"
	storysubmit "github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/handlers/story/submit"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/handlers/subscription/redeem"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/handlers/subscription/status"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/handlers/subscription/trial"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/middlewarectx"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/services/entitlement"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	resolveNow := func(user *models.User, latest *models.Subscription) models.Entitlement {
		return entitlement.Resolve(user, latest, time.Now().UTC())
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)
		r.Get("/catalog/plans", plans.New(logger, s.Catalog).ServeHTTP)
		r.Get("/catalog/packages", packages.New(logger, s.Catalog).ServeHTTP)
		r.Get("/health", health.New(logger, s.Storage).ServeHTTP)

		// Группа с JWT аутентификацией и свежей загрузкой учётной записи
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.JWTMaker, logger))
			r.Use(middlewarectx.AccountMiddleware(s.Storage, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/subscriptions/status", status.New(logger, s.Subscription).ServeHTTP)
			r.Post("/subscriptions/trial", trial.New(logger, s.Subscription).ServeHTTP)
			r.Post("/subscriptions/redeem", redeem.New(logger, s.Coins).ServeHTTP)
			r.Post("/payments/order", ordercreate.New(logger, s.Payment).ServeHTTP)
			r.Post("/payments/verify", verify.New(logger, s.Payment).ServeHTTP)
			r.Put("/settings", settingsupdate.New(logger, s.Auth).ServeHTTP)

			// Платный контент: требуется действующий доступ
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.EntitlementMiddleware(s.Storage, resolveNow, logger))
				r.Post("/stories", storysubmit.New(logger, s.Story).ServeHTTP)
			})

			// Административные маршруты
			r.Route("/admin", func(r chi.Router) {
				r.Use(middlewarectx.AdminMiddleware(logger))

				r.Post("/plans", plancreate.New(logger, s.Catalog).ServeHTTP)
				r.Put("/plans/{id}/coin-cost", plancost.New(logger, s.Catalog).ServeHTTP)
				r.Post("/coin-packages", packagecreate.New(logger, s.Catalog).ServeHTTP)
				r.Post("/stories/{id}/approve", storyapprove.New(logger, s.Story).ServeHTTP)
				r.Post("/stories/{id}/reject", storyreject.New(logger, s.Story).ServeHTTP)
				r.Patch("/users/{uid}/admin", useradmin.New(logger, s.Admin).ServeHTTP)
				r.Patch("/users/{uid}/block", userblock.New(logger, s.Admin).ServeHTTP)
				r.Get("/settings/coins-per-story", rewardget.New(logger, s.Admin).ServeHTTP)
				r.Put("/settings/coins-per-story", rewardset.New(logger, s.Admin).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
