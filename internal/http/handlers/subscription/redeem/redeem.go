// Package redeem реализует HTTP-обработчик покупки тарифного плана за монеты.
//
// Списание монет и создание подписки выполняются атомарно на уровне
// хранилища: при нехватке монет баланс не меняется, при ошибке вставки
// подписки списание откатывается.
package redeem

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
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/services/coins"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/storage/repository"
)

// Request — структура входных данных покупки плана за монеты.
type Request struct {
	PlanID string `json:"plan_id" validate:"required,uuid"`
}

// Handler обрабатывает HTTP-запросы покупки плана за монеты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики списания монет.
type Service interface {
	SpendOnRedeem(ctx context.Context, userUID, planID string) (*coins.RedeemResult, error)
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
// @Summary Купить план за монеты
// @Description Списывает стоимость плана с баланса монет и активирует подписку. Обе операции атомарны.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param request body Request true "Идентификатор тарифного плана"
// @Success 200 {object} map[string]any "Активированная подписка и остаток монет"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 400 {object} response.ErrorResponse "Недостаточно монет (в data — required и available) или план недоступен для покупки"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "План не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /subscriptions/redeem [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.redeem"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("plan_id", req.PlanID))

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

	res, err := h.service.SpendOnRedeem(r.Context(), userUID, req.PlanID)
	if err != nil {
		var insufficient *coins.InsufficientCoinsError
		switch {
		case errors.As(err, &insufficient):
			log.Info("not enough coins",
				slog.String("plan_id", req.PlanID),
				slog.Int("required", insufficient.Required),
				slog.Int("available", insufficient.Available))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ErrorWithCodeData(response.CodeInsufficientCoins, "not enough coins",
				map[string]int{
					"required":  insufficient.Required,
					"available": insufficient.Available,
				}))
		case errors.Is(err, coins.ErrInsufficientCoins):
			log.Info("not enough coins", slog.String("plan_id", req.PlanID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ErrorWithCode(response.CodeInsufficientCoins, "not enough coins"))
		case errors.Is(err, coins.ErrPlanNotPurchasable):
			log.Info("plan is not purchasable with coins", slog.String("plan_id", req.PlanID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ErrorWithCode(response.CodePlanNotPurchasable, "plan is not purchasable with coins"))
		case errors.Is(err, repository.ErrNotFound):
			log.Info("plan not found", slog.String("plan_id", req.PlanID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.ErrorWithCode(response.CodeNotFound, "plan not found"))
		default:
			log.Error("failed to redeem plan", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not redeem plan"))
		}
		return
	}

	log.Info("plan redeemed with coins",
		slog.String("plan_id", req.PlanID),
		slog.Int("coins_spent", res.CoinsSpent))
	render.JSON(w, r, response.OKWithData(res))
}
