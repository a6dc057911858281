package coins

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
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/storage/repository"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetPlan(ctx context.Context, planID string) (*models.Plan, error) {
	args := m.Called(ctx, planID)
	plan, _ := args.Get(0).(*models.Plan)
	return plan, args.Error(1)
}

func (m *MockRepository) GetPlanCoinCost(ctx context.Context, planID string) (int, bool, error) {
	args := m.Called(ctx, planID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockRepository) RedeemPlanWithCoins(ctx context.Context, sub models.Subscription, cost int) (string, int, error) {
	args := m.Called(ctx, sub, cost)
	return args.String(0), args.Int(1), args.Error(2)
}

func (m *MockRepository) GetCoinsPerStory(ctx context.Context) (int, bool, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockRepository) PublishStoryAndReward(ctx context.Context, storyID string, reward int) (string, int, error) {
	args := m.Called(ctx, storyID, reward)
	return args.String(0), args.Int(1), args.Error(2)
}

func (m *MockRepository) SavePaymentAndCredit(ctx context.Context, payment models.ProcessedPayment) (int, error) {
	args := m.Called(ctx, payment)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) UpdateSubscriptionStatusCache(ctx context.Context, userUID, status string) error {
	args := m.Called(ctx, userUID, status)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, payload any) error {
	args := m.Called(routingKey, payload)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newService(repo *MockRepository, events *MockPublisher) *Service {
	events.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	return New(repo, events, newNoopLogger(), 10)
}

func TestService_EarnOnApproval(t *testing.T) {
	t.Run("uses configured reward", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo, new(MockPublisher))

		repo.On("GetCoinsPerStory", mock.Anything).Return(25, true, nil).Once()
		repo.On("PublishStoryAndReward", mock.Anything, "story-1", 25).Return("author-1", 125, nil).Once()

		authorUID, reward, balance, err := svc.EarnOnApproval(context.Background(), "story-1")
		assert.NoError(t, err)
		assert.Equal(t, "author-1", authorUID)
		assert.Equal(t, 25, reward)
		assert.Equal(t, 125, balance)
		repo.AssertExpectations(t)
	})

	t.Run("falls back to default reward when setting is absent", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo, new(MockPublisher))

		repo.On("GetCoinsPerStory", mock.Anything).Return(0, false, nil).Once()
		repo.On("PublishStoryAndReward", mock.Anything, "story-1", 10).Return("author-1", 10, nil).Once()

		_, reward, _, err := svc.EarnOnApproval(context.Background(), "story-1")
		assert.NoError(t, err)
		assert.Equal(t, 10, reward)
	})

	t.Run("already reviewed story propagates not found", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo, new(MockPublisher))

		repo.On("GetCoinsPerStory", mock.Anything).Return(10, true, nil).Once()
		repo.On("PublishStoryAndReward", mock.Anything, "story-1", 10).
			Return("", 0, repository.ErrNotFound).Once()

		_, _, _, err := svc.EarnOnApproval(context.Background(), "story-1")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestService_SpendOnRedeem(t *testing.T) {
	plan := &models.Plan{ID: "plan-1", BillingPeriod: models.PeriodMonthly}

	t.Run("plan without coin cost is not purchasable", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo, new(MockPublisher))

		repo.On("GetPlan", mock.Anything, "plan-1").Return(plan, nil).Once()
		repo.On("GetPlanCoinCost", mock.Anything, "plan-1").Return(0, false, nil).Once()

		res, err := svc.SpendOnRedeem(context.Background(), "u1", "plan-1")
		assert.ErrorIs(t, err, ErrPlanNotPurchasable)
		assert.Nil(t, res)
		repo.AssertNotCalled(t, "RedeemPlanWithCoins")
	})

	t.Run("zero coin cost is not purchasable", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo, new(MockPublisher))

		repo.On("GetPlan", mock.Anything, "plan-1").Return(plan, nil).Once()
		repo.On("GetPlanCoinCost", mock.Anything, "plan-1").Return(0, true, nil).Once()

		res, err := svc.SpendOnRedeem(context.Background(), "u1", "plan-1")
		assert.ErrorIs(t, err, ErrPlanNotPurchasable)
		assert.Nil(t, res)
	})

	t.Run("insufficient balance leaves coins untouched", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo, new(MockPublisher))

		repo.On("GetPlan", mock.Anything, "plan-1").Return(plan, nil).Once()
		repo.On("GetPlanCoinCost", mock.Anything, "plan-1").Return(50, true, nil).Once()
		repo.On("RedeemPlanWithCoins", mock.Anything, mock.Anything, 50).
			Return("", 20, repository.ErrNotEnoughCoins).Once()

		res, err := svc.SpendOnRedeem(context.Background(), "u1", "plan-1")
		assert.ErrorIs(t, err, ErrInsufficientCoins)
		assert.Nil(t, res)

		var insufficient *InsufficientCoinsError
		assert.ErrorAs(t, err, &insufficient)
		assert.Equal(t, 50, insufficient.Required)
		assert.Equal(t, 20, insufficient.Available)
	})

	t.Run("successful redeem returns subscription and new balance", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo, new(MockPublisher))

		repo.On("GetPlan", mock.Anything, "plan-1").Return(plan, nil).Once()
		repo.On("GetPlanCoinCost", mock.Anything, "plan-1").Return(50, true, nil).Once()
		repo.On("RedeemPlanWithCoins", mock.Anything, mock.MatchedBy(func(sub models.Subscription) bool {
			return sub.UserUID == "u1" && sub.PlanID == "plan-1" &&
				sub.Status == models.SubStatusActive &&
				sub.EndDate != nil && sub.EndDate.After(time.Now().UTC())
		}), 50).Return("sub-1", 30, nil).Once()

		res, err := svc.SpendOnRedeem(context.Background(), "u1", "plan-1")
		assert.NoError(t, err)
		assert.Equal(t, "sub-1", res.Subscription.ID)
		assert.Equal(t, 50, res.CoinsSpent)
		assert.Equal(t, 30, res.Coins)
		repo.AssertExpectations(t)
	})
}

func TestService_CreditFromPurchase(t *testing.T) {
	t.Run("publishes audit event on credit", func(t *testing.T) {
		repo := new(MockRepository)
		events := new(MockPublisher)
		events.On("Publish", "coins.credit_from_purchase", mock.Anything).Return(nil).Once()
		svc := New(repo, events, newNoopLogger(), 10)

		payment := models.ProcessedPayment{
			PaymentID:  "pay-1",
			UserUID:    "u1",
			CoinsAdded: 100,
		}
		repo.On("SavePaymentAndCredit", mock.Anything, payment).Return(150, nil).Once()

		balance, err := svc.CreditFromPurchase(context.Background(), payment)
		assert.NoError(t, err)
		assert.Equal(t, 150, balance)
		events.AssertExpectations(t)
	})

	t.Run("replay at storage level propagates sentinel", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newService(repo, new(MockPublisher))

		repo.On("SavePaymentAndCredit", mock.Anything, mock.Anything).
			Return(0, repository.ErrAlreadyProcessed).Once()

		_, err := svc.CreditFromPurchase(context.Background(), models.ProcessedPayment{PaymentID: "pay-1"})
		assert.ErrorIs(t, err, repository.ErrAlreadyProcessed)
	})

	t.Run("publish failure does not fail the credit", func(t *testing.T) {
		repo := new(MockRepository)
		events := new(MockPublisher)
		events.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
		svc := New(repo, events, newNoopLogger(), 10)

		repo.On("SavePaymentAndCredit", mock.Anything, mock.Anything).Return(100, nil).Once()

		balance, err := svc.CreditFromPurchase(context.Background(), models.ProcessedPayment{PaymentID: "pay-1"})
		assert.NoError(t, err)
		assert.Equal(t, 100, balance)
	})
}
