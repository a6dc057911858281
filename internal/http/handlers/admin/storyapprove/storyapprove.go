// Package storyapprove реализует HTTP-обработчик одобрения истории.
//
// Одобрение публикует историю и начисляет автору награду ровно один раз:
// повторный запрос по той же истории получает 404, потому что история
// уже не находится на модерации.
package storyapprove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/response"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/lib/sl"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/services/story"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/storage/repository"
)

// Handler обрабатывает HTTP-запросы одобрения историй.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс модерации историй.
type Service interface {
	Approve(ctx context.Context, storyID string) (*story.ApproveResult, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Одобрить историю
// @Description Публикует историю и начисляет автору монеты. Повторное одобрение невозможно.
// @Tags Admin
// @Produce  json
// @Param id path string true "Идентификатор истории"
// @Success 200 {object} map[string]any "Результат одобрения с начисленными монетами"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "История не найдена или уже обработана"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/stories/{id}/approve [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.storyapprove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	storyID := chi.URLParam(r, "id")
	if storyID == "" {
		log.Error("missing story id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid story id"))
		return
	}

	res, err := h.service.Approve(r.Context(), storyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("story not found or already reviewed", slog.String("story_id", storyID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.ErrorWithCode(response.CodeNotFound, "story not found or already reviewed"))
			return
		}
		log.Error("failed to approve story", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not approve story"))
		return
	}

	log.Info("story approved",
		slog.String("story_id", storyID),
		slog.String("author_uid", res.AuthorUID),
		slog.Int("coins_added", res.CoinsAdded))
	render.JSON(w, r, response.OKWithData(res))
}
