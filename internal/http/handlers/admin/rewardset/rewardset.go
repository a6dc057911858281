// Package rewardset реализует HTTP-обработчик изменения награды
// за одобренную историю.
//
// Новое значение действует только для последующих одобрений: уже
// начисленные награды не пересчитываются.
package rewardset

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
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/services/admin"
)

// Request — структура входных данных изменения награды.
type Request struct {
	CoinsPerStory int `json:"coins_per_story" validate:"min=0"`
}

// Handler обрабатывает HTTP-запросы изменения награды за историю.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс настроек начисления монет.
type Service interface {
	SetCoinsPerStory(ctx context.Context, callerUID string, value int) error
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
// @Summary Изменить награду за историю
// @Description Устанавливает количество монет за одобренную историю. Действует для будущих одобрений.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body Request true "Новое значение награды"
// @Success 200 {object} map[string]any "Награда обновлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или отрицательное значение"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/settings/coins-per-story [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.rewardset"

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

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	caller, ok := middlewarectx.AccountFromContext(r.Context())
	if !ok {
		log.Error("account not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.ErrorWithCode(response.CodeUnauthenticated, "unauthorized"))
		return
	}

	if err := h.service.SetCoinsPerStory(r.Context(), caller.UID, req.CoinsPerStory); err != nil {
		if errors.Is(err, admin.ErrInvalidReward) {
			log.Warn("invalid reward value", slog.Int("value", req.CoinsPerStory))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("reward must not be negative"))
			return
		}
		log.Error("failed to update reward setting", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update reward setting"))
		return
	}

	log.Info("reward setting updated", slog.Int("coins_per_story", req.CoinsPerStory))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"coins_per_story": req.CoinsPerStory,
	}))
}
