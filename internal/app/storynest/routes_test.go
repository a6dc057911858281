package storynest

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRoutes_MethodsAndPatterns(t *testing.T) {
	router := chi.NewRouter()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	RegisterRoutes(router, logger, &Services{})

	registered := map[string]bool{}
	err := chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+route] = true
		return nil
	})
	require.NoError(t, err)

	want := []string{
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"GET /api/v1/catalog/plans",
		"GET /api/v1/catalog/packages",
		"GET /api/v1/health",
		"GET /api/v1/subscriptions/status",
		"POST /api/v1/subscriptions/trial",
		"POST /api/v1/subscriptions/redeem",
		"POST /api/v1/payments/order",
		"POST /api/v1/payments/verify",
		"PUT /api/v1/settings",
		"POST /api/v1/stories",
		"POST /api/v1/admin/plans",
		"PUT /api/v1/admin/plans/{id}/coin-cost",
		"POST /api/v1/admin/coin-packages",
		"POST /api/v1/admin/stories/{id}/approve",
		"POST /api/v1/admin/stories/{id}/reject",
		"PATCH /api/v1/admin/users/{uid}/admin",
		"PATCH /api/v1/admin/users/{uid}/block",
		"GET /api/v1/admin/settings/coins-per-story",
		"PUT /api/v1/admin/settings/coins-per-story",
	}
	for _, route := range want {
		assert.True(t, registered[route], route)
	}
}
