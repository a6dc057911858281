// Package coins реализует операции монетного реестра: начисление за
// одобренную историю, списание при покупке плана за монеты и зачисление
// после подтверждённого платежа. Все мутации относительные и атомарные,
// баланс не может уйти в минус даже при конкурентных списаниях.
package coins

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/metrics"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
	subservice "github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/services/subscription"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/storage/repository"
)

// Ошибки монетного реестра.
var (
	// ErrInsufficientCoins возвращается, когда баланс меньше стоимости плана.
	ErrInsufficientCoins = errors.New("insufficient coins")
	// ErrPlanNotPurchasable возвращается для плана без цены в монетах или с ценой 0.
	ErrPlanNotPurchasable = errors.New("plan is not purchasable with coins")
)

// InsufficientCoinsError сообщает стоимость плана и текущий баланс на момент
// отказа. Раскрывается через errors.As; errors.Is(err, ErrInsufficientCoins)
// продолжает работать через Unwrap.
type InsufficientCoinsError struct {
	Required  int
	Available int
}

func (e *InsufficientCoinsError) Error() string {
	return fmt.Sprintf("insufficient coins: required %d, available %d", e.Required, e.Available)
}

func (e *InsufficientCoinsError) Unwrap() error { return ErrInsufficientCoins }

// Repository определяет методы хранилища, используемые монетным реестром.
type Repository interface {
	// GetPlan возвращает тарифный план по ID.
	GetPlan(ctx context.Context, planID string) (*models.Plan, error)
	// GetPlanCoinCost возвращает цену плана в монетах, false — записи нет.
	GetPlanCoinCost(ctx context.Context, planID string) (int, bool, error)
	// RedeemPlanWithCoins атомарно списывает монеты и создаёт подписку.
	RedeemPlanWithCoins(ctx context.Context, sub models.Subscription, cost int) (string, int, error)
	// GetCoinsPerStory возвращает текущую награду за одобрение истории.
	GetCoinsPerStory(ctx context.Context) (int, bool, error)
	// PublishStoryAndReward публикует историю и начисляет награду автору.
	PublishStoryAndReward(ctx context.Context, storyID string, reward int) (string, int, error)
	// SavePaymentAndCredit записывает платёж в реестр и начисляет монеты.
	SavePaymentAndCredit(ctx context.Context, payment models.ProcessedPayment) (int, error)
	// UpdateSubscriptionStatusCache обновляет денормализованный статус.
	UpdateSubscriptionStatusCache(ctx context.Context, userUID, status string) error
}

// Publisher публикует события аудита биллинга.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

// Service реализует операции монетного реестра.
type Service struct {
	repo          Repository
	events        Publisher
	log           *slog.Logger
	defaultReward int // Награда за историю, если глобальная настройка не задана
}

// New создает новый экземпляр Service.
func New(repo Repository, events Publisher, log *slog.Logger, defaultReward int) *Service {
	return &Service{
		repo:          repo,
		events:        events,
		log:           log,
		defaultReward: defaultReward,
	}
}

// auditEvent — запись аудита мутации баланса.
type auditEvent struct {
	UserUID string    `json:"user_uid"`
	Kind    string    `json:"kind"`
	Delta   int       `json:"delta"`
	Balance int       `json:"balance"`
	Ref     string    `json:"ref,omitempty"`
	At      time.Time `json:"at"`
}

func (s *Service) audit(kind, userUID string, delta, balance int, ref string) {
	metrics.CoinMutations.WithLabelValues(kind).Inc()
	s.log.Info("coin ledger mutation",
		slog.String("kind", kind),
		slog.String("user_uid", userUID),
		slog.Int("delta", delta),
		slog.Int("balance", balance),
		slog.String("ref", ref))
	if err := s.events.Publish("coins."+kind, auditEvent{
		UserUID: userUID,
		Kind:    kind,
		Delta:   delta,
		Balance: balance,
		Ref:     ref,
		At:      time.Now().UTC(),
	}); err != nil {
		s.log.Warn("failed to publish audit event", slog.String("kind", kind))
	}
}

// EarnOnApproval начисляет автору награду за историю, переведённую из
// pending_review в published. Размер награды берётся из глобальной настройки
// coins_per_story; начисление происходит ровно один раз на историю.
func (s *Service) EarnOnApproval(ctx context.Context, storyID string) (authorUID string, reward, balance int, err error) {
	reward, found, err := s.repo.GetCoinsPerStory(ctx)
	if err != nil {
		return "", 0, 0, err
	}
	if !found {
		reward = s.defaultReward
	}

	authorUID, balance, err = s.repo.PublishStoryAndReward(ctx, storyID, reward)
	if err != nil {
		return "", 0, 0, err
	}

	s.audit("earn_on_approval", authorUID, reward, balance, storyID)
	return authorUID, reward, balance, nil
}

// RedeemResult — результат покупки плана за монеты.
type RedeemResult struct {
	Subscription models.Subscription `json:"subscription"`
	CoinsSpent   int                 `json:"coins_spent"`
	Coins        int                 `json:"coins"`
}

// SpendOnRedeem покупает тарифный план за монеты. План без цены в монетах
// (или с ценой 0) недоступен для покупки. Списание и создание подписки
// выполняются в одной транзакции хранилища.
func (s *Service) SpendOnRedeem(ctx context.Context, userUID, planID string) (*RedeemResult, error) {
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	cost, found, err := s.repo.GetPlanCoinCost(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !found || cost <= 0 {
		return nil, fmt.Errorf("plan %s: %w", planID, ErrPlanNotPurchasable)
	}

	now := time.Now().UTC()
	sub := models.Subscription{
		UserUID:   userUID,
		PlanID:    plan.ID,
		Status:    models.SubStatusActive,
		StartDate: now,
		EndDate:   subservice.EndDateFor(plan.BillingPeriod, now),
	}

	subID, balance, err := s.repo.RedeemPlanWithCoins(ctx, sub, cost)
	if err != nil {
		if errors.Is(err, repository.ErrNotEnoughCoins) {
			return nil, fmt.Errorf("plan %s: %w", planID, &InsufficientCoinsError{Required: cost, Available: balance})
		}
		return nil, err
	}
	sub.ID = subID

	s.audit("spend_on_redeem", userUID, -cost, balance, planID)
	return &RedeemResult{Subscription: sub, CoinsSpent: cost, Coins: balance}, nil
}

// CreditFromPurchase зачисляет монеты после полностью пройденной верификации
// платежа. Вызывается только конвейером верификации; запись в идемпотентный
// реестр и зачисление выполняются в одной транзакции, реестр — первым.
func (s *Service) CreditFromPurchase(ctx context.Context, payment models.ProcessedPayment) (int, error) {
	balance, err := s.repo.SavePaymentAndCredit(ctx, payment)
	if err != nil {
		return 0, err
	}

	s.audit("credit_from_purchase", payment.UserUID, payment.CoinsAdded, balance, payment.PaymentID)
	return balance, nil
}
