package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
)

// Код PostgreSQL для нарушения уникального ограничения.
const uniqueViolation = "23505"

// FindProcessedPayment проверяет, есть ли платёж в идемпотентном реестре.
func (s *Storage) FindProcessedPayment(ctx context.Context, paymentID string) (bool, error) {
	const op = "storage.FindProcessedPayment"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT payment_id FROM processed_payments WHERE payment_id = $1`
	var id string
	err := s.DB.QueryRowContext(ctx, query, paymentID).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// SavePaymentAndCredit записывает платёж в реестр и начисляет монеты в одной
// транзакции. Запись в реестр выполняется первой: при сбое между шагами
// платёж окажется записанным, но не зачисленным — такое состояние
// восстанавливается ручной сверкой, тогда как зачисление без записи открыло
// бы возможность повторного зачисления. Гонка двух одновременных верификаций
// одного платежа разрешается уникальным ограничением на payment_id:
// проигравшая транзакция получает ErrAlreadyProcessed.
func (s *Storage) SavePaymentAndCredit(ctx context.Context, payment models.ProcessedPayment) (int, error) {
	const op = "storage.SavePaymentAndCredit"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insert := `INSERT INTO processed_payments (payment_id, order_id, user_uid, package_id,
			       coins_added, amount_cents)
			   VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err = tx.ExecContext(ctx, insert, payment.PaymentID, payment.OrderID,
		payment.UserUID, payment.PackageID, payment.CoinsAdded, payment.AmountCents); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, fmt.Errorf("%s: %w", op, ErrAlreadyProcessed)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	credit := `UPDATE users SET coins = coins + $1 WHERE uid = $2 RETURNING coins`
	var balance int
	if err = tx.QueryRowContext(ctx, credit, payment.CoinsAdded, payment.UserUID).Scan(&balance); err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return balance, nil
}
