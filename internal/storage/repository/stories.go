package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
)

// CreateStory вставляет новую историю в статусе pending_review и возвращает её ID.
func (s *Storage) CreateStory(ctx context.Context, story models.Story) (string, error) {
	const op = "storage.CreateStory"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO stories (author_uid, title, status)
			  VALUES ($1, $2, 'pending_review')
			  RETURNING id`
	var newID string
	if err := s.DB.QueryRowContext(ctx, query, story.AuthorUID, story.Title).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetStory возвращает историю по её ID.
func (s *Storage) GetStory(ctx context.Context, storyID string) (*models.Story, error) {
	const op = "storage.GetStory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, author_uid, title, status, reward_granted, created_at, reviewed_at
			  FROM stories
			  WHERE id = $1`
	var story models.Story
	var reviewedAt sql.NullTime
	err := s.DB.QueryRowContext(ctx, query, storyID).Scan(&story.ID, &story.AuthorUID,
		&story.Title, &story.Status, &story.RewardGranted, &story.CreatedAt, &reviewedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if reviewedAt.Valid {
		story.ReviewedAt = &reviewedAt.Time
	}
	return &story, nil
}

// PublishStoryAndReward переводит историю из pending_review в published и
// начисляет автору награду в одной транзакции. Переход выполняется условным
// UPDATE: если история уже опубликована или отклонена, ни одна строка не
// затрагивается и возвращается ErrNotFound — тем самым награда за одну
// историю начисляется не более одного раза даже при конкурентных одобрениях.
func (s *Storage) PublishStoryAndReward(ctx context.Context, storyID string, reward int) (authorUID string, balance int, err error) {
	const op = "storage.PublishStoryAndReward"
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

	publish := `UPDATE stories
			    SET status = 'published', reward_granted = true, reviewed_at = now()
			    WHERE id = $1 AND status = 'pending_review'
			    RETURNING author_uid`
	if err = tx.QueryRowContext(ctx, publish, storyID).Scan(&authorUID); err != nil {
		if err == sql.ErrNoRows {
			return "", 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	credit := `UPDATE users SET coins = coins + $1 WHERE uid = $2 RETURNING coins`
	if err = tx.QueryRowContext(ctx, credit, reward, authorUID).Scan(&balance); err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}
	return authorUID, balance, nil
}

// RejectStory переводит историю из pending_review в rejected без начисления награды.
func (s *Storage) RejectStory(ctx context.Context, storyID string) error {
	const op = "storage.RejectStory"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE stories
			  SET status = 'rejected', reviewed_at = now()
			  WHERE id = $1 AND status = 'pending_review'`
	res, err := s.DB.ExecContext(ctx, query, storyID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	} else if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
