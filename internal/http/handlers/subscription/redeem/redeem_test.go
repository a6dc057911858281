package redeem

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/middlewarectx"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/services/coins"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) SpendOnRedeem(ctx context.Context, userUID, planID string) (*coins.RedeemResult, error) {
	args := m.Called(ctx, userUID, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coins.RedeemResult), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRedeemHandler_ServeHTTP(t *testing.T) {
	const (
		userUID = "uid-1"
		planID  = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	)

	tests := []struct {
		name           string
		requestBody    any
		withUID        bool
		mockResult     *coins.RedeemResult
		mockErr        error
		wantStatusCode int
		wantCode       string
	}{
		{
			name:        "successful redeem",
			requestBody: Request{PlanID: planID},
			withUID:     true,
			mockResult: &coins.RedeemResult{
				Subscription: models.Subscription{PlanID: planID, Status: models.SubStatusActive},
				CoinsSpent:   200,
				Coins:        50,
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid json body",
			requestBody:    "{broken",
			withUID:        true,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "plan id is not a uuid",
			requestBody:    Request{PlanID: "premium"},
			withUID:        true,
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "missing user uid in context",
			requestBody:    Request{PlanID: planID},
			withUID:        false,
			wantStatusCode: http.StatusUnauthorized,
			wantCode:       "unauthenticated",
		},
		{
			name:           "not enough coins",
			requestBody:    Request{PlanID: planID},
			withUID:        true,
			mockErr:        &coins.InsufficientCoinsError{Required: 200, Available: 50},
			wantStatusCode: http.StatusBadRequest,
			wantCode:       "insufficient_coins",
		},
		{
			name:           "plan has no coin price",
			requestBody:    Request{PlanID: planID},
			withUID:        true,
			mockErr:        coins.ErrPlanNotPurchasable,
			wantStatusCode: http.StatusBadRequest,
			wantCode:       "plan_not_purchasable",
		},
		{
			name:           "plan not found",
			requestBody:    Request{PlanID: planID},
			withUID:        true,
			mockErr:        repository.ErrNotFound,
			wantStatusCode: http.StatusNotFound,
			wantCode:       "not_found",
		},
		{
			name:           "internal error",
			requestBody:    Request{PlanID: planID},
			withUID:        true,
			mockErr:        errors.New("tx failed"),
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock := new(ServiceMock)
			handler := New(newNoopLogger(), svcMock)

			if tt.mockResult != nil || tt.mockErr != nil {
				svcMock.On("SpendOnRedeem", mock.Anything, userUID, planID).
					Return(tt.mockResult, tt.mockErr).Once()
			}

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/subscriptions/redeem", bytes.NewReader(bodyBytes))
			if tt.withUID {
				ctx := context.WithValue(req.Context(), middlewarectx.UserUID, userUID)
				req = req.WithContext(ctx)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatusCode, w.Code)

			var resp map[string]any
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, resp["code"])
			}
			if tt.wantCode == "insufficient_coins" {
				data := resp["data"].(map[string]any)
				assert.Equal(t, float64(200), data["required"])
				assert.Equal(t, float64(50), data["available"])
			}
			if tt.wantStatusCode == http.StatusOK {
				data := resp["data"].(map[string]any)
				assert.Equal(t, float64(200), data["coins_spent"])
				assert.Equal(t, float64(50), data["coins"])
			}

			svcMock.AssertExpectations(t)
		})
	}
}
