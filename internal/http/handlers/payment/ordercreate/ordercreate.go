// Package ordercreate реализует HTTP-обработчик создания заказа на покупку
// пакета монет в платёжном шлюзе.
//
// Сумма заказа берётся из каталога пакетов на сервере, клиентские суммы
// не принимаются. Без настроенных ключей шлюза операция недоступна.
package ordercreate

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
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/paymentprovider"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/services/payment"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/storage/repository"
)

// Handler обрабатывает HTTP-запросы создания заказа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания заказа.
type Service interface {
	CreateOrder(ctx context.Context, userUID, packageID string) (*paymentprovider.Order, error)
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
// @Summary Создать заказ на покупку монет
// @Description Создает заказ в платежном шлюзе на сумму выбранного пакета монет. Сумма определяется сервером.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.CreateOrderRequest true "Идентификатор пакета монет"
// @Success 200 {object} map[string]any "Созданный заказ"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пакет монет не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Failure 503 {object} response.ErrorResponse "Платежный шлюз не настроен"
// @Security BearerAuth
// @Router /payments/order [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.ordercreate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("coin_package_id", req.CoinPackageID))

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

	order, err := h.service.CreateOrder(r.Context(), userUID, req.CoinPackageID)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrGatewayNotConfigured):
			log.Warn("payment gateway is not configured")
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.ErrorWithCode(response.CodeGatewayNotConfigured, "payment gateway is not configured"))
		case errors.Is(err, repository.ErrNotFound):
			log.Info("coin package not found", slog.String("coin_package_id", req.CoinPackageID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.ErrorWithCode(response.CodeNotFound, "coin package not found"))
		default:
			log.Error("failed to create order", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create order"))
		}
		return
	}

	log.Info("order created", slog.String("order_id", order.ID))
	render.JSON(w, r, response.OKWithData(order))
}
