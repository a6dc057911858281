// Package verify реализует HTTP-обработчик подтверждения платежа.
//
// Запрос проходит полный конвейер проверки: подпись HMAC, независимый
// запрос статуса платежа у шлюза, сверка заказа и суммы, защита от
// повторной обработки. Монеты зачисляются только при успехе всех стадий.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/middlewarectx"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/response"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/lib/sl"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/services/payment"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/storage/repository"
)

// Handler обрабатывает HTTP-запросы подтверждения платежа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс конвейера подтверждения платежа.
type Service interface {
	VerifyAndCredit(ctx context.Context, userUID string, req models.VerifyPaymentRequest) (*payment.VerifyResult, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подтвердить платеж и зачислить монеты
// @Description Проверяет подпись платежа, статус у шлюза, сумму и зачисляет монеты ровно один раз.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.VerifyPaymentRequest true "Данные платежа из шлюза"
// @Success 200 {object} map[string]any "Зачисленные монеты и новый баланс"
// @Failure 400 {object} response.ErrorResponse "Платеж отклонен одной из проверок конвейера"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пакет монет не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Failure 503 {object} response.ErrorResponse "Шлюз недоступен для проверки"
// @Security BearerAuth
// @Router /payments/verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("payment_id", req.RazorpayPaymentID))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.ErrorWithCode(response.CodeUnauthenticated, "unauthorized"))
		return
	}

	res, err := h.service.VerifyAndCredit(r.Context(), userUID, req)
	if err != nil {
		h.writeVerifyError(w, r, log, err, req)
		return
	}

	log.Info("payment verified and credited",
		slog.String("payment_id", req.RazorpayPaymentID),
		slog.Int("coins_added", res.CoinsAdded))
	render.JSON(w, r, response.OKWithData(res))
}

// writeVerifyError отображает ошибки конвейера проверки в HTTP-ответы
// с машиночитаемыми кодами.
func (h *Handler) writeVerifyError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, req models.VerifyPaymentRequest) {
	switch {
	case errors.Is(err, payment.ErrGatewayNotConfigured):
		log.Warn("payment gateway is not configured")
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.ErrorWithCode(response.CodeGatewayNotConfigured, "payment gateway is not configured"))
	case errors.Is(err, payment.ErrInvalidSignature):
		log.Warn("invalid payment signature", slog.String("payment_id", req.RazorpayPaymentID))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ErrorWithCode(response.CodeInvalidSignature, "invalid payment signature"))
	case errors.Is(err, payment.ErrVerificationUnavailable):
		log.Error("payment verification unavailable", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.ErrorWithCode(response.CodeVerificationUnavailable, "payment verification unavailable, try again later"))
	case errors.Is(err, payment.ErrPaymentNotCaptured):
		log.Warn("payment is not captured", slog.String("payment_id", req.RazorpayPaymentID))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ErrorWithCode(response.CodePaymentNotCaptured, "payment is not captured"))
	case errors.Is(err, payment.ErrOrderMismatch):
		log.Warn("order id mismatch", slog.String("payment_id", req.RazorpayPaymentID))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ErrorWithCode(response.CodeOrderMismatch, "payment does not belong to the given order"))
	case errors.Is(err, payment.ErrAmountMismatch):
		log.Warn("payment amount mismatch", slog.String("payment_id", req.RazorpayPaymentID))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ErrorWithCode(response.CodeAmountMismatch, "payment amount does not match the package price"))
	case errors.Is(err, payment.ErrAlreadyProcessed):
		log.Info("payment already processed", slog.String("payment_id", req.RazorpayPaymentID))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ErrorWithCode(response.CodeAlreadyProcessed, "payment already processed"))
	case errors.Is(err, repository.ErrNotFound):
		log.Info("coin package not found", slog.String("coin_package_id", req.CoinPackageID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.ErrorWithCode(response.CodeNotFound, "coin package not found"))
	default:
		log.Error("failed to verify payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not verify payment"))
	}
}
