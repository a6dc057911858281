// Package userblock реализует HTTP-обработчик блокировки и разблокировки
// учётных записей.
//
// Блокировка действует немедленно: заблокированный пользователь получает
// отказ на следующем же запросе, даже если его токен ещё действителен.
package userblock

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/middlewarectx"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/response"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/lib/sl"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/storage/repository"
)

// Request — структура входных данных блокировки пользователя.
type Request struct {
	IsBlocked bool `json:"is_blocked"`
}

// Handler обрабатывает HTTP-запросы блокировки пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс управления блокировками пользователей.
type Service interface {
	SetBlocked(ctx context.Context, callerUID, targetUID string, isBlocked bool) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Заблокировать или разблокировать пользователя
// @Description Изменяет флаг блокировки учетной записи. Блокировка действует немедленно.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Param request body Request true "Новое значение флага"
// @Success 200 {object} map[string]any "Флаг обновлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/users/{uid}/block [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.userblock"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	targetUID := chi.URLParam(r, "uid")
	if targetUID == "" {
		log.Error("missing user uid")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user uid"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	caller, ok := middlewarectx.AccountFromContext(r.Context())
	if !ok {
		log.Error("account not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.ErrorWithCode(response.CodeUnauthenticated, "unauthorized"))
		return
	}

	if err := h.service.SetBlocked(r.Context(), caller.UID, targetUID, req.IsBlocked); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("user not found", slog.String("target_uid", targetUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.ErrorWithCode(response.CodeNotFound, "user not found"))
			return
		}
		log.Error("failed to update block flag", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update block flag"))
		return
	}

	log.Info("block flag updated",
		slog.String("target_uid", targetUID),
		slog.Bool("is_blocked", req.IsBlocked))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user_uid":   targetUID,
		"is_blocked": req.IsBlocked,
	}))
}
