// Package story содержит бизнес-логику модерации историй: отправку
// на проверку, одобрение с начислением награды и отклонение.
package story

import (
	"context"
	"log/slog"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
)

// Repository определяет методы хранилища для работы с историями.
type Repository interface {
	// CreateStory вставляет новую историю в статусе pending_review.
	CreateStory(ctx context.Context, story models.Story) (string, error)
	// GetStory возвращает историю по ID.
	GetStory(ctx context.Context, storyID string) (*models.Story, error)
	// RejectStory отклоняет историю без начисления награды.
	RejectStory(ctx context.Context, storyID string) error
}

// Ledger — операция начисления награды за одобренную историю.
type Ledger interface {
	// EarnOnApproval публикует историю и начисляет награду автору.
	EarnOnApproval(ctx context.Context, storyID string) (authorUID string, reward, balance int, err error)
}

// Service реализует бизнес-логику модерации историй.
type Service struct {
	repo   Repository
	ledger Ledger
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, ledger Ledger, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		ledger: ledger,
		log:    log,
	}
}

// Submit принимает новую историю на модерацию и возвращает её ID.
func (s *Service) Submit(ctx context.Context, authorUID, title string) (string, error) {
	id, err := s.repo.CreateStory(ctx, models.Story{
		AuthorUID: authorUID,
		Title:     title,
	})
	if err != nil {
		return "", err
	}
	s.log.Info("story submitted for review",
		slog.String("story_id", id),
		slog.String("author_uid", authorUID))
	return id, nil
}

// ApproveResult — результат одобрения истории.
type ApproveResult struct {
	StoryID    string `json:"story_id"`
	AuthorUID  string `json:"author_uid"`
	CoinsAdded int    `json:"coins_added"`
	Coins      int    `json:"coins"`
}

// Approve публикует историю и начисляет автору награду. Повторное одобрение
// той же истории завершается ошибкой: переход выполняется только из
// pending_review, поэтому награда начисляется ровно один раз.
func (s *Service) Approve(ctx context.Context, storyID string) (*ApproveResult, error) {
	authorUID, reward, balance, err := s.ledger.EarnOnApproval(ctx, storyID)
	if err != nil {
		return nil, err
	}
	s.log.Info("story approved",
		slog.String("story_id", storyID),
		slog.String("author_uid", authorUID),
		slog.Int("reward", reward))
	return &ApproveResult{
		StoryID:    storyID,
		AuthorUID:  authorUID,
		CoinsAdded: reward,
		Coins:      balance,
	}, nil
}

// Reject отклоняет историю без начисления награды.
func (s *Service) Reject(ctx context.Context, storyID string) error {
	if err := s.repo.RejectStory(ctx, storyID); err != nil {
		return err
	}
	s.log.Info("story rejected", slog.String("story_id", storyID))
	return nil
}
