// Package packages реализует HTTP-обработчик списка активных пакетов монет.
package packages

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/response"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/lib/sl"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
)

// Handler обрабатывает HTTP-запросы списка пакетов монет.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс каталога пакетов монет.
type Service interface {
	ListCoinPackages(ctx context.Context) ([]*models.CoinPackage, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список пакетов монет
// @Description Возвращает активные пакеты монет с количеством монет и ценой.
// @Tags Catalog
// @Produce  json
// @Success 200 {object} map[string]any "Список пакетов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /catalog/packages [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.packages"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.ListCoinPackages(r.Context())
	if err != nil {
		log.Error("failed to list coin packages", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list coin packages"))
		return
	}

	log.Info("coin packages listed", slog.Int("count", len(res)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"packages": res,
	}))
}
