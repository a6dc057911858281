// Package packagecreate реализует HTTP-обработчик создания пакета монет.
package packagecreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/http/response"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/lib/sl"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
)

// Handler обрабатывает HTTP-запросы создания пакетов монет.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс управления каталогом пакетов монет.
type Service interface {
	CreateCoinPackage(ctx context.Context, req models.CreateCoinPackageRequest) (string, error)
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
// @Summary Создать пакет монет
// @Description Создает новый пакет монет для продажи и сбрасывает кэш каталога.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body models.CreateCoinPackageRequest true "Данные нового пакета"
// @Success 200 {object} map[string]any "Идентификатор созданного пакета"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/coin-packages [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.packagecreate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CreateCoinPackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("name", req.Name))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	id, err := h.service.CreateCoinPackage(r.Context(), req)
	if err != nil {
		log.Error("failed to create coin package", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create coin package"))
		return
	}

	log.Info("coin package created", slog.String("package_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"package_id": id,
	}))
}
