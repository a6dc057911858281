// Package payment реализует конвейер верификации платежей.
// Подтверждение от клиента проходит строгую последовательность проверок:
// подпись, авторитетная запись шлюза, статус captured, совпадение заказа,
// идемпотентность, совпадение суммы — и только затем фиксация. Любой сбой
// прерывает конвейер без частичных записей.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/metrics"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/paymentprovider"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/storage/repository"
)

// Ошибки стадий конвейера. Каждая отображается обработчиком в свой
// машиночитаемый код ответа.
var (
	// ErrGatewayNotConfigured означает, что учётные данные шлюза не заданы.
	ErrGatewayNotConfigured = errors.New("payment gateway is not configured")
	// ErrInvalidSignature — подпись подтверждения не сходится с ожидаемой.
	ErrInvalidSignature = errors.New("invalid payment signature")
	// ErrVerificationUnavailable — шлюз недоступен; клиент может повторить запрос.
	ErrVerificationUnavailable = errors.New("payment verification unavailable")
	// ErrPaymentNotCaptured — средства не списаны; авторизация не даёт права на зачисление.
	ErrPaymentNotCaptured = errors.New("payment is not captured")
	// ErrOrderMismatch — заказ в записи шлюза не совпадает с заявленным.
	ErrOrderMismatch = errors.New("order id mismatch")
	// ErrAlreadyProcessed — платёж уже есть в идемпотентном реестре.
	ErrAlreadyProcessed = errors.New("payment already processed")
	// ErrAmountMismatch — сумма платежа не равна цене пакета.
	ErrAmountMismatch = errors.New("payment amount mismatch")
)

// Gateway — узкий интерфейс платёжного шлюза; в тестах подменяется фейком.
type Gateway interface {
	// CreateOrder создаёт заказ в шлюзе.
	CreateOrder(ctx context.Context, req paymentprovider.CreateOrderRequest) (*paymentprovider.Order, error)
	// FetchPayment возвращает авторитетную запись о платеже.
	FetchPayment(ctx context.Context, paymentID string) (*paymentprovider.Payment, error)
}

// Repository определяет методы хранилища, используемые конвейером.
type Repository interface {
	// GetCoinPackage возвращает пакет монет по ID.
	GetCoinPackage(ctx context.Context, packageID string) (*models.CoinPackage, error)
	// FindProcessedPayment проверяет наличие платежа в реестре.
	FindProcessedPayment(ctx context.Context, paymentID string) (bool, error)
}

// Ledger — операция зачисления монетного реестра.
type Ledger interface {
	// CreditFromPurchase фиксирует платёж и зачисляет монеты атомарно.
	CreditFromPurchase(ctx context.Context, payment models.ProcessedPayment) (int, error)
}

// Service реализует создание заказов и конвейер верификации платежей.
type Service struct {
	gateway   Gateway
	repo      Repository
	ledger    Ledger
	keySecret string
	log       *slog.Logger
}

// New создает новый экземпляр Service. При gateway == nil все операции
// отвечают ErrGatewayNotConfigured.
func New(gateway Gateway, repo Repository, ledger Ledger, keySecret string, log *slog.Logger) *Service {
	return &Service{
		gateway:   gateway,
		repo:      repo,
		ledger:    ledger,
		keySecret: keySecret,
		log:       log,
	}
}

// CreateOrder создаёт заказ в шлюзе на покупку пакета монет.
func (s *Service) CreateOrder(ctx context.Context, userUID, packageID string) (*paymentprovider.Order, error) {
	const op = "payment.CreateOrder"
	if s.gateway == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrGatewayNotConfigured)
	}

	pkg, err := s.repo.GetCoinPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if !pkg.IsActive {
		return nil, fmt.Errorf("%s: package %s: %w", op, packageID, repository.ErrNotFound)
	}

	order, err := s.gateway.CreateOrder(ctx, paymentprovider.CreateOrderRequest{
		Amount:   int64(pkg.PriceCents),
		Currency: pkg.Currency,
		Receipt:  "coins-" + uuid.NewString(),
		Notes: map[string]string{
			"user_uid":   userUID,
			"package_id": packageID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrVerificationUnavailable)
	}

	s.log.Info("payment order created",
		slog.String("user_uid", userUID),
		slog.String("package_id", packageID),
		slog.String("order_id", order.ID))
	return order, nil
}

// VerifyResult — результат успешной верификации платежа.
type VerifyResult struct {
	CoinsAdded int `json:"coins_added"`
	TotalCoins int `json:"total_coins"`
}

// VerifyAndCredit проводит подтверждение платежа через все стадии конвейера
// и при успехе зачисляет монеты. Стадии выполняются строго по порядку,
// любая ошибка прерывает обработку без побочных эффектов.
func (s *Service) VerifyAndCredit(ctx context.Context, userUID string, req models.VerifyPaymentRequest) (*VerifyResult, error) {
	const op = "payment.VerifyAndCredit"
	log := s.log.With(
		slog.String("user_uid", userUID),
		slog.String("payment_id", req.RazorpayPaymentID),
		slog.String("order_id", req.RazorpayOrderID),
		slog.String("package_id", req.CoinPackageID),
	)

	if s.gateway == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrGatewayNotConfigured)
	}

	pkg, err := s.repo.GetCoinPackage(ctx, req.CoinPackageID)
	if err != nil {
		return nil, err
	}

	// Стадия 1: подпись. Считается от orderId|paymentId ключом шлюза,
	// сравнение через hmac.Equal.
	if !s.verifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		log.Error("stage signature: mismatch")
		metrics.PaymentVerifications.WithLabelValues("invalid_signature").Inc()
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSignature)
	}

	// Стадия 2: авторитетная запись шлюза. Статусу из клиентского запроса
	// не доверяем ни при каких условиях.
	remote, err := s.gateway.FetchPayment(ctx, req.RazorpayPaymentID)
	if err != nil {
		log.Error("stage fetch: gateway unavailable")
		metrics.PaymentVerifications.WithLabelValues("unavailable").Inc()
		return nil, fmt.Errorf("%s: %w", op, ErrVerificationUnavailable)
	}

	// Стадия 3: средства должны быть списаны.
	if remote.Status != paymentprovider.StatusCaptured {
		log.Error("stage capture: payment not captured", slog.String("status", remote.Status))
		metrics.PaymentVerifications.WithLabelValues("not_captured").Inc()
		return nil, fmt.Errorf("%s: status %s: %w", op, remote.Status, ErrPaymentNotCaptured)
	}

	// Стадия 4: заказ в записи шлюза должен совпасть с заявленным.
	if remote.OrderID != req.RazorpayOrderID {
		log.Error("stage order: order id mismatch", slog.String("remote_order_id", remote.OrderID))
		metrics.PaymentVerifications.WithLabelValues("order_mismatch").Inc()
		return nil, fmt.Errorf("%s: %w", op, ErrOrderMismatch)
	}

	// Стадия 5: защита от повтора. Сам по себе этот запрос — best effort,
	// гонку окончательно разрешает уникальное ограничение при фиксации.
	processed, err := s.repo.FindProcessedPayment(ctx, req.RazorpayPaymentID)
	if err != nil {
		return nil, err
	}
	if processed {
		log.Error("stage idempotency: payment already processed")
		metrics.PaymentVerifications.WithLabelValues("already_processed").Inc()
		return nil, fmt.Errorf("%s: %w", op, ErrAlreadyProcessed)
	}

	// Стадия 6: сумма платежа должна равняться цене пакета.
	if remote.Amount != int64(pkg.PriceCents) {
		log.Error("stage amount: amount mismatch",
			slog.Int64("remote_amount", remote.Amount),
			slog.Int("expected_amount", pkg.PriceCents))
		metrics.PaymentVerifications.WithLabelValues("amount_mismatch").Inc()
		return nil, fmt.Errorf("%s: %w", op, ErrAmountMismatch)
	}

	// Стадия 7: фиксация. Реестр и зачисление в одной транзакции.
	total, err := s.ledger.CreditFromPurchase(ctx, models.ProcessedPayment{
		PaymentID:   req.RazorpayPaymentID,
		OrderID:     req.RazorpayOrderID,
		UserUID:     userUID,
		PackageID:   pkg.ID,
		CoinsAdded:  pkg.Coins,
		AmountCents: remote.Amount,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyProcessed) {
			log.Error("stage commit: lost idempotency race")
			metrics.PaymentVerifications.WithLabelValues("already_processed").Inc()
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyProcessed)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.PaymentVerifications.WithLabelValues("ok").Inc()
	log.Info("payment verified and credited",
		slog.Int("coins_added", pkg.Coins),
		slog.Int("total_coins", total))
	return &VerifyResult{CoinsAdded: pkg.Coins, TotalCoins: total}, nil
}

// verifySignature сверяет подпись подтверждения: HMAC-SHA256 от
// "orderID|paymentID" ключом шлюза, hex-представление, сравнение
// постоянного времени.
func (s *Service) verifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
