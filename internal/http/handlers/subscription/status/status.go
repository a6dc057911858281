// Package status реализует HTTP-обработчик получения статуса доступа.
//
// Статус вычисляется заново на каждый запрос по данным из базы: пробный
// период, последняя подписка и баланс монет. Истёкший доступ — валидный
// ответ со статусом 200, а не ошибка.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/middlewarectx"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/response"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/lib/sl"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/services/subscription"
)

// Handler обрабатывает HTTP-запросы получения статуса доступа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс вычисления статуса доступа.
type Service interface {
	GetStatus(ctx context.Context, userUID string) (*subscription.Status, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статус подписки и баланс
// @Description Возвращает актуальный статус доступа (trial/active/expired), оставшиеся дни и баланс монет.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} map[string]any "Текущий статус доступа"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /subscriptions/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.status"

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

	res, err := h.service.GetStatus(r.Context(), userUID)
	if err != nil {
		log.Error("failed to resolve status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not resolve subscription status"))
		return
	}

	log.Info("status resolved", slog.String("status", res.Status))
	render.JSON(w, r, response.OKWithData(res))
}
