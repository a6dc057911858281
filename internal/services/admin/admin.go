// Package admin содержит административные операции над учётными записями
// и глобальными настройками экономики. Право вызова проверяется на уровне
// HTTP по свежим данным из базы; клиентские флаги не учитываются никогда.
package admin

import (
	"context"
	"errors"
	"log/slog"
)

// ErrInvalidReward возвращается при попытке задать отрицательную награду.
var ErrInvalidReward = errors.New("reward must not be negative")

// Repository определяет методы хранилища для административных операций.
type Repository interface {
	// SetAdmin выставляет признак администратора.
	SetAdmin(ctx context.Context, userUID string, isAdmin bool) error
	// SetBlocked выставляет признак блокировки.
	SetBlocked(ctx context.Context, userUID string, isBlocked bool) error
	// GetCoinsPerStory возвращает награду за одобрение истории.
	GetCoinsPerStory(ctx context.Context) (int, bool, error)
	// SetCoinsPerStory задаёт награду за одобрение истории.
	SetCoinsPerStory(ctx context.Context, value int) error
}

// Service реализует административные операции.
type Service struct {
	repo          Repository
	log           *slog.Logger
	defaultReward int
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger, defaultReward int) *Service {
	return &Service{
		repo:          repo,
		log:           log,
		defaultReward: defaultReward,
	}
}

// SetAdmin выставляет признак администратора целевой учётной записи.
// callerUID пишется в журнал: изменение прав всегда атрибутируемо.
func (s *Service) SetAdmin(ctx context.Context, callerUID, targetUID string, isAdmin bool) error {
	if err := s.repo.SetAdmin(ctx, targetUID, isAdmin); err != nil {
		return err
	}
	s.log.Info("admin flag changed",
		slog.String("caller_uid", callerUID),
		slog.String("target_uid", targetUID),
		slog.Bool("is_admin", isAdmin))
	return nil
}

// SetBlocked выставляет признак блокировки целевой учётной записи.
func (s *Service) SetBlocked(ctx context.Context, callerUID, targetUID string, isBlocked bool) error {
	if err := s.repo.SetBlocked(ctx, targetUID, isBlocked); err != nil {
		return err
	}
	s.log.Info("blocked flag changed",
		slog.String("caller_uid", callerUID),
		slog.String("target_uid", targetUID),
		slog.Bool("is_blocked", isBlocked))
	return nil
}

// GetCoinsPerStory возвращает текущую награду за одобрение истории,
// подставляя значение по умолчанию при отсутствии настройки.
func (s *Service) GetCoinsPerStory(ctx context.Context) (int, error) {
	value, found, err := s.repo.GetCoinsPerStory(ctx)
	if err != nil {
		return 0, err
	}
	if !found {
		return s.defaultReward, nil
	}
	return value, nil
}

// SetCoinsPerStory задаёт награду за одобрение истории.
func (s *Service) SetCoinsPerStory(ctx context.Context, callerUID string, value int) error {
	if value < 0 {
		return ErrInvalidReward
	}
	if err := s.repo.SetCoinsPerStory(ctx, value); err != nil {
		return err
	}
	s.log.Info("coins per story changed",
		slog.String("caller_uid", callerUID),
		slog.Int("value", value))
	return nil
}
