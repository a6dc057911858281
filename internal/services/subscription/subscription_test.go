package subscription

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/services/entitlement"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockRepository) GetLatestSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	sub, _ := args.Get(0).(*models.Subscription)
	return sub, args.Error(1)
}

func (m *MockRepository) StartTrial(ctx context.Context, userUID string, startedAt, endsAt time.Time) (bool, error) {
	args := m.Called(ctx, userUID, startedAt, endsAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) CreateSubscription(ctx context.Context, sub models.Subscription) (string, error) {
	args := m.Called(ctx, sub)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) UpdateSubscriptionStatusCache(ctx context.Context, userUID, status string) error {
	args := m.Called(ctx, userUID, status)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestEndDateFor(t *testing.T) {
	start := time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		period string
		want   *time.Time
	}{
		{"weekly adds seven days", models.PeriodWeekly, ptr(start.AddDate(0, 0, 7))},
		{"monthly adds calendar month", models.PeriodMonthly, ptr(start.AddDate(0, 1, 0))},
		{"yearly adds calendar year", models.PeriodYearly, ptr(start.AddDate(1, 0, 0))},
		{"lifetime has no end date", models.PeriodLifetime, nil},
		{"unknown period does not grant unlimited access", "fortnightly", ptr(start)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EndDateFor(tt.period, start)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func ptr(t time.Time) *time.Time { return &t }

func TestService_GetStatus(t *testing.T) {
	repo := new(MockRepository)
	svc := New(repo, newNoopLogger(), 7)

	t.Run("returns entitlement with coin balance", func(t *testing.T) {
		repo.ExpectedCalls = nil
		repo.Calls = nil

		user := &models.User{UID: "u1", IsAdmin: true, Coins: 42}
		repo.On("GetUser", mock.Anything, "u1").Return(user, nil).Once()
		repo.On("GetLatestSubscription", mock.Anything, "u1").Return(nil, nil).Once()

		res, err := svc.GetStatus(context.Background(), "u1")
		assert.NoError(t, err)
		assert.Equal(t, entitlement.StatusActive, res.Status)
		assert.Equal(t, 42, res.Coins)
		repo.AssertExpectations(t)
	})

	t.Run("propagates repository error", func(t *testing.T) {
		repo.ExpectedCalls = nil
		repo.Calls = nil

		repo.On("GetUser", mock.Anything, "u2").Return(nil, errors.New("db down")).Once()

		res, err := svc.GetStatus(context.Background(), "u2")
		assert.Error(t, err)
		assert.Nil(t, res)
	})
}

func TestService_ActivateTrial(t *testing.T) {
	repo := new(MockRepository)
	svc := New(repo, newNoopLogger(), 7)

	trialEnd := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

	t.Run("first activation starts the trial", func(t *testing.T) {
		repo.ExpectedCalls = nil
		repo.Calls = nil

		repo.On("StartTrial", mock.Anything, "u1", mock.Anything, mock.Anything).Return(true, nil).Once()
		repo.On("GetUser", mock.Anything, "u1").Return(&models.User{
			UID:         "u1",
			TrialEndsAt: &trialEnd,
		}, nil).Once()

		endsAt, started, err := svc.ActivateTrial(context.Background(), "u1")
		assert.NoError(t, err)
		assert.True(t, started)
		assert.Equal(t, trialEnd, endsAt)
		repo.AssertExpectations(t)
	})

	t.Run("repeated activation keeps original end date", func(t *testing.T) {
		repo.ExpectedCalls = nil
		repo.Calls = nil

		repo.On("StartTrial", mock.Anything, "u1", mock.Anything, mock.Anything).Return(false, nil).Once()
		repo.On("GetUser", mock.Anything, "u1").Return(&models.User{
			UID:         "u1",
			TrialEndsAt: &trialEnd,
		}, nil).Once()

		endsAt, started, err := svc.ActivateTrial(context.Background(), "u1")
		assert.NoError(t, err)
		assert.False(t, started)
		assert.Equal(t, trialEnd, endsAt)
	})
}

func TestService_Activate(t *testing.T) {
	repo := new(MockRepository)
	svc := New(repo, newNoopLogger(), 7)

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	plan := &models.Plan{ID: "plan-1", BillingPeriod: models.PeriodMonthly}

	t.Run("creates subscription with computed end date", func(t *testing.T) {
		repo.ExpectedCalls = nil
		repo.Calls = nil

		repo.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(sub models.Subscription) bool {
			return sub.UserUID == "u1" && sub.PlanID == "plan-1" &&
				sub.Status == models.SubStatusActive &&
				sub.EndDate != nil && sub.EndDate.Equal(now.AddDate(0, 1, 0))
		})).Return("sub-1", nil).Once()
		repo.On("UpdateSubscriptionStatusCache", mock.Anything, "u1", models.SubStatusActive).Return(nil).Once()

		sub, err := svc.Activate(context.Background(), "u1", plan, now)
		assert.NoError(t, err)
		assert.Equal(t, "sub-1", sub.ID)
		repo.AssertExpectations(t)
	})

	t.Run("status cache failure is not fatal", func(t *testing.T) {
		repo.ExpectedCalls = nil
		repo.Calls = nil

		repo.On("CreateSubscription", mock.Anything, mock.Anything).Return("sub-2", nil).Once()
		repo.On("UpdateSubscriptionStatusCache", mock.Anything, "u1", models.SubStatusActive).
			Return(errors.New("cache down")).Once()

		sub, err := svc.Activate(context.Background(), "u1", plan, now)
		assert.NoError(t, err)
		assert.Equal(t, "sub-2", sub.ID)
	})
}
