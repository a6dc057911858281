// Package storyreject реализует HTTP-обработчик отклонения истории.
// Отклонение не начисляет монет и снимает историю с модерации.
package storyreject

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
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/storage/repository"
)

// Handler обрабатывает HTTP-запросы отклонения историй.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс модерации историй.
type Service interface {
	Reject(ctx context.Context, storyID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отклонить историю
// @Description Отклоняет историю без начисления монет автору.
// @Tags Admin
// @Produce  json
// @Param id path string true "Идентификатор истории"
// @Success 200 {object} map[string]any "История отклонена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "История не найдена или уже обработана"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/stories/{id}/reject [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.storyreject"

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

	if err := h.service.Reject(r.Context(), storyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("story not found or already reviewed", slog.String("story_id", storyID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.ErrorWithCode(response.CodeNotFound, "story not found or already reviewed"))
			return
		}
		log.Error("failed to reject story", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not reject story"))
		return
	}

	log.Info("story rejected", slog.String("story_id", storyID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"story_id": storyID,
		"status":   models.StoryStatusRejected,
	}))
}
