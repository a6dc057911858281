// Package rewardget реализует HTTP-обработчик чтения текущей награды
// за одобренную историю.
package rewardget

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/response"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы чтения награды за историю.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс настроек начисления монет.
type Service interface {
	GetCoinsPerStory(ctx context.Context) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Текущая награда за историю
// @Description Возвращает количество монет, начисляемых автору за одобренную историю.
// @Tags Admin
// @Produce  json
// @Success 200 {object} map[string]any "Текущее значение награды"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/settings/coins-per-story [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.rewardget"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	value, err := h.service.GetCoinsPerStory(r.Context())
	if err != nil {
		log.Error("failed to read reward setting", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read reward setting"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"coins_per_story": value,
	}))
}
