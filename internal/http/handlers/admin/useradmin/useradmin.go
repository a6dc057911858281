// Package useradmin реализует HTTP-обработчик выдачи и отзыва прав
// администратора.
//
// Изменение действует со следующего запроса целевого пользователя:
// флаг читается из базы на каждый запрос, повторный вход не требуется.
package useradmin

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

// Request — структура входных данных изменения прав администратора.
type Request struct {
	IsAdmin bool `json:"is_admin"`
}

// Handler обрабатывает HTTP-запросы изменения прав администратора.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс управления привилегиями пользователей.
type Service interface {
	SetAdmin(ctx context.Context, callerUID, targetUID string, isAdmin bool) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выдать или отозвать права администратора
// @Description Изменяет флаг администратора пользователя. Действует со следующего запроса без повторного входа.
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
// @Router /admin/users/{uid}/admin [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.useradmin"

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

	if err := h.service.SetAdmin(r.Context(), caller.UID, targetUID, req.IsAdmin); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("user not found", slog.String("target_uid", targetUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.ErrorWithCode(response.CodeNotFound, "user not found"))
			return
		}
		log.Error("failed to update admin flag", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update admin flag"))
		return
	}

	log.Info("admin flag updated",
		slog.String("target_uid", targetUID),
		slog.Bool("is_admin", req.IsAdmin))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user_uid": targetUID,
		"is_admin": req.IsAdmin,
	}))
}
