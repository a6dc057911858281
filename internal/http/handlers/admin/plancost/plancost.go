// Package plancost реализует HTTP-обработчик назначения стоимости
// тарифного плана в монетах.
//
// План без назначенной стоимости недоступен для покупки за монеты.
package plancost

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/response"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/lib/sl"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/storage/repository"
)

// Request — структура входных данных назначения стоимости плана.
type Request struct {
	CoinCost int `json:"coin_cost" validate:"required,gt=0"`
}

// Handler обрабатывает HTTP-запросы назначения стоимости плана в монетах.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс управления стоимостью планов.
type Service interface {
	SetPlanCoinCost(ctx context.Context, planID string, coinCost int) error
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
// @Summary Назначить стоимость плана в монетах
// @Description Устанавливает или обновляет цену тарифного плана в монетах.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param id path string true "Идентификатор плана"
// @Param request body Request true "Стоимость в монетах"
// @Success 200 {object} map[string]any "Стоимость назначена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "План не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/plans/{id}/coin-cost [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.plancost"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	planID := chi.URLParam(r, "id")
	if planID == "" {
		log.Error("missing plan id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid plan id"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.SetPlanCoinCost(r.Context(), planID, req.CoinCost); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("plan not found", slog.String("plan_id", planID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.ErrorWithCode(response.CodeNotFound, "plan not found"))
			return
		}
		log.Error("failed to set plan coin cost", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not set plan coin cost"))
		return
	}

	log.Info("plan coin cost set",
		slog.String("plan_id", planID),
		slog.Int("coin_cost", req.CoinCost))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"plan_id":   planID,
		"coin_cost": req.CoinCost,
	}))
}
