// Package trial реализует HTTP-обработчик запуска пробного периода.
//
// Операция идемпотентна: повторный запрос не сдвигает даты и возвращает
// дату окончания, выставленную первым вызовом.
package trial

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/middlewarectx"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/response"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы запуска пробного периода.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики пробного периода.
type Service interface {
	ActivateTrial(ctx context.Context, userUID string) (endsAt time.Time, started bool, err error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Запустить пробный период
// @Description Запускает пробный период для текущего пользователя. Повторный вызов не продлевает срок.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} map[string]any "Дата окончания пробного периода"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /subscriptions/trial [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.trial"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.ErrorWithCode(response.CodeUnauthenticated, "unauthorized"))
		return
	}

	endsAt, started, err := h.service.ActivateTrial(r.Context(), userUID)
	if err != nil {
		log.Error("failed to activate trial", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not activate trial"))
		return
	}

	log.Info("trial request handled",
		slog.Bool("started", started),
		slog.Time("ends_at", endsAt))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"started":       started,
		"trial_ends_at": endsAt,
	}))
}
