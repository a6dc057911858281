package middlewarectx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/middlewarectx"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
)

type AccountLoaderMock struct {
	mock.Mock
}

func (m *AccountLoaderMock) GetUser(ctx context.Context, uid string) (*models.User, error) {
	args := m.Called(ctx, uid)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func withUID(req *http.Request, uid string) *http.Request {
	ctx := context.WithValue(req.Context(), middlewarectx.UserUID, uid)
	return req.WithContext(ctx)
}

func TestAccountMiddleware(t *testing.T) {
	logger := newNoopLogger()

	t.Run("loads account into context", func(t *testing.T) {
		loader := new(AccountLoaderMock)
		user := &models.User{UID: "uid-1", Username: "parent1"}
		loader.On("GetUser", mock.Anything, "uid-1").Return(user, nil).Once()

		handlerCalled := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
			got, ok := middlewarectx.AccountFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, "uid-1", got.UID)
			w.WriteHeader(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := withUID(httptest.NewRequest(http.MethodGet, "/test", nil), "uid-1")
		middlewarectx.AccountMiddleware(loader, logger)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, handlerCalled)
	})

	t.Run("blocked account gets 403 even with a valid token", func(t *testing.T) {
		loader := new(AccountLoaderMock)
		loader.On("GetUser", mock.Anything, "uid-1").
			Return(&models.User{UID: "uid-1", IsBlocked: true}, nil).Once()

		handlerCalled := false
		next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			handlerCalled = true
		})

		w := httptest.NewRecorder()
		req := withUID(httptest.NewRequest(http.MethodGet, "/test", nil), "uid-1")
		middlewarectx.AccountMiddleware(loader, logger)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, handlerCalled)
	})

	t.Run("missing uid in context gives 401", func(t *testing.T) {
		loader := new(AccountLoaderMock)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		middlewarectx.AccountMiddleware(loader, logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		loader.AssertNotCalled(t, "GetUser")
	})

	t.Run("account load failure gives 401", func(t *testing.T) {
		loader := new(AccountLoaderMock)
		loader.On("GetUser", mock.Anything, "uid-1").Return(nil, errors.New("no rows")).Once()

		w := httptest.NewRecorder()
		req := withUID(httptest.NewRequest(http.MethodGet, "/test", nil), "uid-1")
		middlewarectx.AccountMiddleware(loader, logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func withAccount(req *http.Request, user *models.User) *http.Request {
	ctx := context.WithValue(req.Context(), middlewarectx.Account, user)
	return req.WithContext(ctx)
}

func TestAdminMiddleware(t *testing.T) {
	logger := newNoopLogger()

	t.Run("admin passes", func(t *testing.T) {
		handlerCalled := false
		next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			handlerCalled = true
			w.WriteHeader(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := withAccount(httptest.NewRequest(http.MethodGet, "/admin", nil), &models.User{UID: "uid-1", IsAdmin: true})
		middlewarectx.AdminMiddleware(logger)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, handlerCalled)
	})

	t.Run("non-admin gets 403", func(t *testing.T) {
		handlerCalled := false
		next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { handlerCalled = true })

		w := httptest.NewRecorder()
		req := withAccount(httptest.NewRequest(http.MethodGet, "/admin", nil), &models.User{UID: "uid-1"})
		middlewarectx.AdminMiddleware(logger)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, handlerCalled)
	})

	t.Run("missing account gives 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		middlewarectx.AdminMiddleware(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

type SubscriptionResolverMock struct {
	mock.Mock
}

func (m *SubscriptionResolverMock) GetLatestSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	sub, _ := args.Get(0).(*models.Subscription)
	return sub, args.Error(1)
}

func TestEntitlementMiddleware(t *testing.T) {
	logger := newNoopLogger()

	allow := func(*models.User, *models.Subscription) models.Entitlement {
		return models.Entitlement{Status: "active", HasActivePass: true}
	}
	deny := func(*models.User, *models.Subscription) models.Entitlement {
		return models.Entitlement{Status: "expired"}
	}

	t.Run("active pass reaches the handler", func(t *testing.T) {
		subs := new(SubscriptionResolverMock)
		subs.On("GetLatestSubscription", mock.Anything, "uid-1").Return(nil, nil).Once()

		handlerCalled := false
		next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			handlerCalled = true
			w.WriteHeader(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := withAccount(httptest.NewRequest(http.MethodPost, "/stories", nil), &models.User{UID: "uid-1"})
		middlewarectx.EntitlementMiddleware(subs, allow, logger)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, handlerCalled)
	})

	t.Run("expired access gets 402", func(t *testing.T) {
		subs := new(SubscriptionResolverMock)
		subs.On("GetLatestSubscription", mock.Anything, "uid-1").Return(nil, nil).Once()

		handlerCalled := false
		next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { handlerCalled = true })

		w := httptest.NewRecorder()
		req := withAccount(httptest.NewRequest(http.MethodPost, "/stories", nil), &models.User{UID: "uid-1"})
		middlewarectx.EntitlementMiddleware(subs, deny, logger)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusPaymentRequired, w.Code)
		assert.False(t, handlerCalled)
	})

	t.Run("status is resolved fresh for every request", func(t *testing.T) {
		subs := new(SubscriptionResolverMock)
		subs.On("GetLatestSubscription", mock.Anything, "uid-1").Return(nil, nil).Times(3)

		calls := 0
		resolve := func(*models.User, *models.Subscription) models.Entitlement {
			calls++
			return models.Entitlement{HasActivePass: true}
		}

		next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
		mw := middlewarectx.EntitlementMiddleware(subs, resolve, logger)(next)

		for range 3 {
			w := httptest.NewRecorder()
			req := withAccount(httptest.NewRequest(http.MethodPost, "/stories", nil), &models.User{UID: "uid-1"})
			mw.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
		assert.Equal(t, 3, calls)
		subs.AssertExpectations(t)
	})
}
