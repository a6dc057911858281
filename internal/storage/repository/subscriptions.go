package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
)

// CreateSubscription вставляет новую запись подписки и возвращает её ID.
// История подписок append-only, существующие строки не изменяются.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (string, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_subscriptions (user_uid, plan_id, status, start_date, end_date)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		sub.UserUID, sub.PlanID, sub.Status, sub.StartDate, sub.EndDate).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetLatestSubscription возвращает последнюю созданную подписку пользователя.
// Отсутствие подписок не является ошибкой: возвращается (nil, nil).
func (s *Storage) GetLatestSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.GetLatestSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, plan_id, status, start_date, end_date, canceled_at, created_at
			  FROM user_subscriptions
			  WHERE user_uid = $1
			  ORDER BY created_at DESC
			  LIMIT 1`
	var sub models.Subscription
	var endDate, canceledAt sql.NullTime
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&sub.ID, &sub.UserUID,
		&sub.PlanID, &sub.Status, &sub.StartDate, &endDate, &canceledAt, &sub.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if endDate.Valid {
		sub.EndDate = &endDate.Time
	}
	if canceledAt.Valid {
		sub.CanceledAt = &canceledAt.Time
	}
	return &sub, nil
}

// RedeemPlanWithCoins атомарно списывает стоимость плана с баланса и создаёт
// новую подписку. Списание выполняется условным UPDATE: если баланс меньше
// стоимости, ни монеты, ни подписка не затрагиваются и возвращается
// ErrNotEnoughCoins вместе с текущим балансом. Обе записи выполняются в одной
// транзакции, поэтому состояние "монеты списаны, подписка не создана" невозможно.
func (s *Storage) RedeemPlanWithCoins(ctx context.Context, sub models.Subscription, cost int) (subID string, balance int, err error) {
	const op = "storage.RedeemPlanWithCoins"
	select {
	case <-ctx.Done():
		return "", 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	debit := `UPDATE users SET coins = coins - $1
			  WHERE uid = $2 AND coins >= $1
			  RETURNING coins`
	if err = tx.QueryRowContext(ctx, debit, cost, sub.UserUID).Scan(&balance); err != nil {
		if err == sql.ErrNoRows {
			current := `SELECT coins FROM users WHERE uid = $1`
			if scanErr := tx.QueryRowContext(ctx, current, sub.UserUID).Scan(&balance); scanErr != nil {
				balance = 0
			}
			return "", balance, fmt.Errorf("%s: %w", op, ErrNotEnoughCoins)
		}
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	insert := `INSERT INTO user_subscriptions (user_uid, plan_id, status, start_date, end_date)
			   VALUES ($1, $2, $3, $4, $5)
			   RETURNING id`
	if err = tx.QueryRowContext(ctx, insert,
		sub.UserUID, sub.PlanID, sub.Status, sub.StartDate, sub.EndDate).Scan(&subID); err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	cache := `UPDATE users SET subscription_status = 'active' WHERE uid = $1`
	if _, err = tx.ExecContext(ctx, cache, sub.UserUID); err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}
	return subID, balance, nil
}
