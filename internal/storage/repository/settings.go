package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// Ключ глобальной настройки награды за одобренную историю.
const coinsPerStoryKey = "coins_per_story"

// GetCoinsPerStory возвращает текущую награду за одобрение истории.
// Отсутствие записи не является ошибкой: возвращается (0, false, nil),
// значение по умолчанию подставляет бизнес-логика.
func (s *Storage) GetCoinsPerStory(ctx context.Context) (int, bool, error) {
	const op = "storage.GetCoinsPerStory"
	select {
	case <-ctx.Done():
		return 0, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT value FROM app_settings WHERE key = $1`
	var raw string
	err := s.DB.QueryRowContext(ctx, query, coinsPerStoryKey).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return value, true, nil
}

// SetCoinsPerStory задаёт награду за одобрение истории.
func (s *Storage) SetCoinsPerStory(ctx context.Context, value int) error {
	const op = "storage.SetCoinsPerStory"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO app_settings (key, value)
			  VALUES ($1, $2)
			  ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	if _, err := s.DB.ExecContext(ctx, query, coinsPerStoryKey, strconv.Itoa(value)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
