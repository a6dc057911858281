// Package catalog содержит бизнес-логику каталога: тарифные планы и пакеты
// монет, включая кеширование списков. Каталог меняется редко, поэтому списки
// кешируются; мутации инвалидируют кеш.
package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
)

// Ключи кеша каталога.
const (
	plansCacheKey    = "catalog:plans"
	packagesCacheKey = "catalog:packages"
	cacheTTL         = time.Hour
)

// Repository определяет методы хранилища для каталога.
type Repository interface {
	// ListActivePlans возвращает активные тарифные планы.
	ListActivePlans(ctx context.Context) ([]*models.Plan, error)
	// ListActiveCoinPackages возвращает активные пакеты монет.
	ListActiveCoinPackages(ctx context.Context) ([]*models.CoinPackage, error)
	// CreatePlan вставляет новый тарифный план.
	CreatePlan(ctx context.Context, plan models.Plan) (string, error)
	// CreateCoinPackage вставляет новый пакет монет.
	CreateCoinPackage(ctx context.Context, pkg models.CoinPackage) (string, error)
	// GetPlan возвращает план по ID.
	GetPlan(ctx context.Context, planID string) (*models.Plan, error)
	// UpsertPlanCoinCost задаёт цену плана в монетах.
	UpsertPlanCoinCost(ctx context.Context, planID string, coinCost int) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Service реализует бизнес-логику каталога с кешированием.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// ListPlans возвращает активные планы, используя кеш или репозиторий.
func (s *Service) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	var result []*models.Plan
	found, err := s.cache.Get(plansCacheKey, &result)
	if err == nil && found {
		return result, nil
	}

	result, err = s.repo.ListActivePlans(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(plansCacheKey, result, cacheTTL); err != nil {
		s.log.Warn("failed to cache plans", slog.String("key", plansCacheKey))
	}
	return result, nil
}

// ListCoinPackages возвращает активные пакеты монет, используя кеш или репозиторий.
func (s *Service) ListCoinPackages(ctx context.Context) ([]*models.CoinPackage, error) {
	var result []*models.CoinPackage
	found, err := s.cache.Get(packagesCacheKey, &result)
	if err == nil && found {
		return result, nil
	}

	result, err = s.repo.ListActiveCoinPackages(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(packagesCacheKey, result, cacheTTL); err != nil {
		s.log.Warn("failed to cache coin packages", slog.String("key", packagesCacheKey))
	}
	return result, nil
}

// CreatePlan создаёт новый тарифный план и инвалидирует кеш каталога.
func (s *Service) CreatePlan(ctx context.Context, req models.CreatePlanRequest) (string, error) {
	id, err := s.repo.CreatePlan(ctx, models.Plan{
		Name:          req.Name,
		Description:   req.Description,
		PriceCents:    req.PriceCents,
		Currency:      req.Currency,
		BillingPeriod: req.BillingPeriod,
		MaxStories:    req.MaxStories,
	})
	if err != nil {
		return "", err
	}
	if err := s.cache.Invalidate(plansCacheKey); err != nil {
		s.log.Warn("failed to invalidate plans cache", slog.String("key", plansCacheKey))
	}
	s.log.Info("plan created", slog.String("plan_id", id))
	return id, nil
}

// CreateCoinPackage создаёт новый пакет монет и инвалидирует кеш каталога.
func (s *Service) CreateCoinPackage(ctx context.Context, req models.CreateCoinPackageRequest) (string, error) {
	id, err := s.repo.CreateCoinPackage(ctx, models.CoinPackage{
		Name:       req.Name,
		Coins:      req.Coins,
		PriceCents: req.PriceCents,
		Currency:   req.Currency,
	})
	if err != nil {
		return "", err
	}
	if err := s.cache.Invalidate(packagesCacheKey); err != nil {
		s.log.Warn("failed to invalidate packages cache", slog.String("key", packagesCacheKey))
	}
	s.log.Info("coin package created", slog.String("package_id", id))
	return id, nil
}

// SetPlanCoinCost задаёт или обновляет цену плана в монетах.
// План должен существовать; стоимость 0 делает план недоступным для
// покупки за монеты.
func (s *Service) SetPlanCoinCost(ctx context.Context, planID string, coinCost int) error {
	if _, err := s.repo.GetPlan(ctx, planID); err != nil {
		return err
	}
	return s.repo.UpsertPlanCoinCost(ctx, planID, coinCost)
}
