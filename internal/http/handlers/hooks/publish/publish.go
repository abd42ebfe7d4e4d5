// Package publish принимает от хоста события создания и редактирования контента
// и запускает рассылку уведомлений участникам.
//
// Рассылка выполняется синхронно, в ответе возвращается notification.Report.
// Обрыв соединения хостом рассылку не прерывает. WriteTimeout сервера
// с хуков снимает middlewarectx.NoWriteDeadline.
package publish

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/member-gate/internal/http/response"
	"github.com/magabrotheeeer/member-gate/internal/lib/sl"
	"github.com/magabrotheeeer/member-gate/internal/models"
	"github.com/magabrotheeeer/member-gate/internal/services/notification"
)

// Event — вид события хоста.
type Event string

const (
	Created Event = "created"
	Edited  Event = "edited"
)

// Service описывает рассылку уведомлений о контенте.
type Service interface {
	ContentCreated(ctx context.Context, item models.ContentItem) (notification.Report, error)
	ContentEdited(ctx context.Context, item models.ContentItem) (notification.Report, error)
}

// Handler обрабатывает один вид события.
type Handler struct {
	log      *slog.Logger
	service  Service
	event    Event
	validate *validator.Validate
}

// New создает новый экземпляр Handler для события event.
func New(log *slog.Logger, service Service, event Event) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		event:    event,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Событие публикации контента
// @Description Хост сообщает о создании или редактировании страницы. Для опубликованной страницы
// @Description всем участникам уходит письмо, в ответе итог рассылки.
// @Tags Hooks
// @Accept  json
// @Produce  json
// @Param X-Hook-Token header string true "Общий секрет хоста"
// @Param event path string true "Вид события" Enums(created, edited)
// @Param request body models.ContentItem true "Страница"
// @Success 200 {object} response.Response{data=notification.Report} "Итог рассылки"
// @Failure 400 {object} response.Response "Некорректный JSON"
// @Failure 401 {object} response.Response "Неверный X-Hook-Token"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.Response "Не удалось получить список участников"
// @Router /hooks/content/{event} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.hooks.publish"
	log := h.log.With(
		slog.String("op", op),
		slog.String("event", string(h.event)),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var item models.ContentItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(item); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	ctx := context.WithoutCancel(r.Context())
	var (
		report notification.Report
		err    error
	)
	switch h.event {
	case Created:
		report, err = h.service.ContentCreated(ctx, item)
	case Edited:
		report, err = h.service.ContentEdited(ctx, item)
	default:
		log.Error("unknown event")
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("unknown event"))
		return
	}
	if err != nil {
		log.Error("failed to notify members", slog.String("slug", item.Slug), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not notify members"))
		return
	}

	log.Info("content event processed",
		slog.String("slug", item.Slug),
		slog.Int("sent", report.Sent),
		slog.Int("failed", report.Failed),
	)
	render.JSON(w, r, response.OKWithData(report))
}
