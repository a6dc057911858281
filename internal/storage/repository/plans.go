package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
)

// CreatePlan вставляет новый тарифный план и возвращает его ID.
func (s *Storage) CreatePlan(ctx context.Context, plan models.Plan) (string, error) {
	const op = "storage.CreatePlan"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscription_plans (name, description, price_cents, currency,
			      billing_period, max_stories, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, true)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query, plan.Name, plan.Description,
		plan.PriceCents, plan.Currency, plan.BillingPeriod, plan.MaxStories).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPlan возвращает тарифный план по его ID.
func (s *Storage) GetPlan(ctx context.Context, planID string) (*models.Plan, error) {
	const op = "storage.GetPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, price_cents, currency, billing_period,
			      max_stories, is_active, created_at
			  FROM subscription_plans
			  WHERE id = $1`
	var plan models.Plan
	var maxStories sql.NullInt64
	err := s.DB.QueryRowContext(ctx, query, planID).Scan(&plan.ID, &plan.Name,
		&plan.Description, &plan.PriceCents, &plan.Currency, &plan.BillingPeriod,
		&maxStories, &plan.IsActive, &plan.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if maxStories.Valid {
		v := int(maxStories.Int64)
		plan.MaxStories = &v
	}
	return &plan, nil
}

// ListActivePlans возвращает список активных тарифных планов.
func (s *Storage) ListActivePlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "storage.ListActivePlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, price_cents, currency, billing_period,
			      max_stories, is_active, created_at
			  FROM subscription_plans
			  WHERE is_active = true
			  ORDER BY price_cents`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Plan
	for rows.Next() {
		var plan models.Plan
		var maxStories sql.NullInt64
		if err := rows.Scan(&plan.ID, &plan.Name, &plan.Description, &plan.PriceCents,
			&plan.Currency, &plan.BillingPeriod, &maxStories, &plan.IsActive,
			&plan.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if maxStories.Valid {
			v := int(maxStories.Int64)
			plan.MaxStories = &v
		}
		result = append(result, &plan)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpsertPlanCoinCost задаёт или обновляет цену плана в монетах.
func (s *Storage) UpsertPlanCoinCost(ctx context.Context, planID string, coinCost int) error {
	const op = "storage.UpsertPlanCoinCost"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO plan_coin_costs (plan_id, coin_cost)
			  VALUES ($1, $2)
			  ON CONFLICT (plan_id) DO UPDATE SET coin_cost = EXCLUDED.coin_cost`
	if _, err := s.DB.ExecContext(ctx, query, planID, coinCost); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetPlanCoinCost возвращает цену плана в монетах.
// Отсутствие записи не является ошибкой: возвращается (0, false, nil).
func (s *Storage) GetPlanCoinCost(ctx context.Context, planID string) (int, bool, error) {
	const op = "storage.GetPlanCoinCost"
	select {
	case <-ctx.Done():
		return 0, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT coin_cost FROM plan_coin_costs WHERE plan_id = $1`
	var cost int
	err := s.DB.QueryRowContext(ctx, query, planID).Scan(&cost)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return cost, true, nil
}

// CreateCoinPackage вставляет новый пакет монет и возвращает его ID.
func (s *Storage) CreateCoinPackage(ctx context.Context, pkg models.CoinPackage) (string, error) {
	const op = "storage.CreateCoinPackage"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO coin_packages (name, coins, price_cents, currency, is_active)
			  VALUES ($1, $2, $3, $4, true)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query, pkg.Name, pkg.Coins, pkg.PriceCents,
		pkg.Currency).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetCoinPackage возвращает пакет монет по его ID.
func (s *Storage) GetCoinPackage(ctx context.Context, packageID string) (*models.CoinPackage, error) {
	const op = "storage.GetCoinPackage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, coins, price_cents, currency, is_active, created_at
			  FROM coin_packages
			  WHERE id = $1`
	var pkg models.CoinPackage
	err := s.DB.QueryRowContext(ctx, query, packageID).Scan(&pkg.ID, &pkg.Name,
		&pkg.Coins, &pkg.PriceCents, &pkg.Currency, &pkg.IsActive, &pkg.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &pkg, nil
}

// ListActiveCoinPackages возвращает список активных пакетов монет.
func (s *Storage) ListActiveCoinPackages(ctx context.Context) ([]*models.CoinPackage, error) {
	const op = "storage.ListActiveCoinPackages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, coins, price_cents, currency, is_active, created_at
			  FROM coin_packages
			  WHERE is_active = true
			  ORDER BY price_cents`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.CoinPackage
	for rows.Next() {
		var pkg models.CoinPackage
		if err := rows.Scan(&pkg.ID, &pkg.Name, &pkg.Coins, &pkg.PriceCents,
			&pkg.Currency, &pkg.IsActive, &pkg.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &pkg)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
