// Package subscription содержит бизнес-логику жизненного цикла подписок:
// пробный период, активацию планов и вычисление статуса доступа.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/services/entitlement"
)

// Repository определяет методы хранилища, используемые жизненным циклом подписок.
type Repository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// GetLatestSubscription возвращает последнюю подписку пользователя или nil.
	GetLatestSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
	// StartTrial выставляет даты пробного периода, только если они не заданы.
	StartTrial(ctx context.Context, userUID string, startedAt, endsAt time.Time) (bool, error)
	// CreateSubscription вставляет новую запись подписки.
	CreateSubscription(ctx context.Context, sub models.Subscription) (string, error)
	// UpdateSubscriptionStatusCache обновляет денормализованный статус.
	UpdateSubscriptionStatusCache(ctx context.Context, userUID, status string) error
}

// Service реализует бизнес-логику жизненного цикла подписок.
type Service struct {
	repo      Repository
	log       *slog.Logger
	trialDays int
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger, trialDays int) *Service {
	return &Service{
		repo:      repo,
		log:       log,
		trialDays: trialDays,
	}
}

// Status — результат вычисления статуса для отображения клиенту.
type Status struct {
	models.Entitlement
	Coins int `json:"coins"`
}

// GetStatus вычисляет актуальный статус доступа пользователя.
// Никогда не завершается "отказом в доступе": истёкший статус — это
// валидный ответ для отображения.
func (s *Service) GetStatus(ctx context.Context, userUID string) (*Status, error) {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	latest, err := s.repo.GetLatestSubscription(ctx, userUID)
	if err != nil {
		return nil, err
	}
	ent := entitlement.Resolve(user, latest, time.Now().UTC())
	return &Status{Entitlement: ent, Coins: user.Coins}, nil
}

// ActivateTrial запускает пробный период. Операция идемпотентна: повторный
// вызов не сдвигает даты и возвращает дату окончания, выставленную первым
// вызовом.
func (s *Service) ActivateTrial(ctx context.Context, userUID string) (endsAt time.Time, started bool, err error) {
	now := time.Now().UTC()
	started, err = s.repo.StartTrial(ctx, userUID, now, now.AddDate(0, 0, s.trialDays))
	if err != nil {
		return time.Time{}, false, err
	}

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return time.Time{}, false, err
	}
	if user.TrialEndsAt == nil {
		return time.Time{}, false, fmt.Errorf("trial dates missing after activation for user %s", userUID)
	}

	if started {
		s.log.Info("trial activated",
			slog.String("user_uid", userUID),
			slog.Time("ends_at", *user.TrialEndsAt))
	}
	return *user.TrialEndsAt, started, nil
}

// Activate создаёт новую подписку пользователя по тарифному плану.
// Всегда вставляет новую строку: история подписок append-only.
func (s *Service) Activate(ctx context.Context, userUID string, plan *models.Plan, now time.Time) (*models.Subscription, error) {
	sub := models.Subscription{
		UserUID:   userUID,
		PlanID:    plan.ID,
		Status:    models.SubStatusActive,
		StartDate: now,
		EndDate:   EndDateFor(plan.BillingPeriod, now),
	}
	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, err
	}
	sub.ID = id

	// Кэш статуса обновляется по возможности, ошибки не фатальны:
	// решения о доступе на него не опираются.
	if err := s.repo.UpdateSubscriptionStatusCache(ctx, userUID, models.SubStatusActive); err != nil {
		s.log.Warn("failed to refresh status cache", slog.String("user_uid", userUID))
	}

	s.log.Info("subscription activated",
		slog.String("user_uid", userUID),
		slog.String("plan_id", plan.ID),
		slog.String("subscription_id", id))
	return &sub, nil
}

// EndDateFor вычисляет дату окончания подписки по периоду тарификации.
// Для пожизненного плана возвращает nil — подписка без даты окончания.
func EndDateFor(billingPeriod string, start time.Time) *time.Time {
	var end time.Time
	switch billingPeriod {
	case models.PeriodWeekly:
		end = start.AddDate(0, 0, 7)
	case models.PeriodMonthly:
		end = start.AddDate(0, 1, 0)
	case models.PeriodYearly:
		end = start.AddDate(1, 0, 0)
	case models.PeriodLifetime:
		return nil
	default:
		// Неизвестный период не должен давать бессрочный доступ.
		end = start
	}
	return &end
}
