package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
)

// CreateUser сохраняет нового пользователя и возвращает его UID.
// Признак администратора вычисляется внутри того же INSERT: первым
// администратором становится пользователь, созданный в пустой таблице.
// Даты пробного периода выставляются здесь один раз и последующими
// обновлениями настроек не перезаписываются.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (username, email, password_hash, pin_hash, is_admin,
			      coins, trial_started_at, trial_ends_at, subscription_status)
			  SELECT $1, $2, $3, $4, (SELECT count(*) = 0 FROM users),
			      0, $5, $6, 'trial'
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.PINHash,
		user.TrialStartedAt, user.TrialEndsAt).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var trialStartedAt, trialEndsAt sql.NullTime
	var pinHash sql.NullString
	if err := row.Scan(&u.UID, &u.Username, &u.Email, &u.PasswordHash, &pinHash,
		&u.IsAdmin, &u.IsBlocked, &u.Coins, &trialStartedAt, &trialEndsAt,
		&u.SubscriptionStatus, &u.CreatedAt); err != nil {
		return nil, err
	}
	if pinHash.Valid {
		u.PINHash = pinHash.String
	}
	if trialStartedAt.Valid {
		u.TrialStartedAt = &trialStartedAt.Time
	}
	if trialEndsAt.Valid {
		u.TrialEndsAt = &trialEndsAt.Time
	}
	return u, nil
}

const userColumns = `uid, username, email, password_hash, pin_hash, is_admin,
			      is_blocked, coins, trial_started_at, trial_ends_at,
			      subscription_status, created_at`

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdatePINHash обновляет хэш PIN-кода пользователя.
// Единственное поле настроек, изменяемое владельцем учётной записи напрямую.
func (s *Storage) UpdatePINHash(ctx context.Context, userUID, pinHash string) error {
	const op = "storage.UpdatePINHash"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET pin_hash = $1 WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, pinHash, userUID)
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

// SetAdmin выставляет признак администратора для пользователя.
func (s *Storage) SetAdmin(ctx context.Context, userUID string, isAdmin bool) error {
	const op = "storage.SetAdmin"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET is_admin = $1 WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, isAdmin, userUID)
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

// SetBlocked выставляет признак блокировки для пользователя.
func (s *Storage) SetBlocked(ctx context.Context, userUID string, isBlocked bool) error {
	const op = "storage.SetBlocked"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET is_blocked = $1 WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, isBlocked, userUID)
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

// StartTrial выставляет даты пробного периода, только если они ещё не заданы.
// Возвращает актуальную дату окончания пробного периода: при повторном вызове
// это дата, выставленная первым вызовом.
func (s *Storage) StartTrial(ctx context.Context, userUID string, startedAt, endsAt time.Time) (started bool, err error) {
	const op = "storage.StartTrial"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET trial_started_at = $1, trial_ends_at = $2, subscription_status = 'trial'
			  WHERE uid = $3 AND trial_started_at IS NULL`
	res, err := s.DB.ExecContext(ctx, query, startedAt, endsAt, userUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n == 1, nil
}

// CreditCoins безусловно начисляет монеты и возвращает новый баланс.
func (s *Storage) CreditCoins(ctx context.Context, userUID string, amount int) (int, error) {
	const op = "storage.CreditCoins"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET coins = coins + $1 WHERE uid = $2 RETURNING coins`
	var balance int
	if err := s.DB.QueryRowContext(ctx, query, amount, userUID).Scan(&balance); err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return balance, nil
}

// UpdateSubscriptionStatusCache обновляет денормализованный статус подписки.
// Поле используется только для отображения, решения о доступе всегда
// принимаются повторным вычислением из первичных данных.
func (s *Storage) UpdateSubscriptionStatusCache(ctx context.Context, userUID, status string) error {
	const op = "storage.UpdateSubscriptionStatusCache"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET subscription_status = $1 WHERE uid = $2`
	if _, err := s.DB.ExecContext(ctx, query, status, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
