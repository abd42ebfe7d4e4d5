// Package listing убирает служебные страницы шлюза из списка контента хоста.
package listing

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/member-gate/internal/content"
	"github.com/magabrotheeeer/member-gate/internal/http/response"
	"github.com/magabrotheeeer/member-gate/internal/lib/sl"
	"github.com/magabrotheeeer/member-gate/internal/models"
)

type Handler struct {
	log *slog.Logger
	cfg models.GateConfig
}

func New(log *slog.Logger, cfg models.GateConfig) *Handler {
	return &Handler{log: log, cfg: cfg}
}

// ServeHTTP godoc
// @Summary Фильтр списка контента
// @Description Убирает из списка страницы входа, регистрации и выхода.
// @Tags Hooks
// @Accept  json
// @Produce  json
// @Param X-Hook-Token header string true "Общий секрет хоста"
// @Param request body []models.ContentItem true "Список страниц"
// @Success 200 {object} response.Response{data=[]models.ContentItem} "Отфильтрованный список"
// @Failure 400 {object} response.Response "Некорректный JSON"
// @Failure 401 {object} response.Response "Неверный X-Hook-Token"
// @Router /hooks/content/listing [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.hooks.listing"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var items []models.ContentItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	filtered := content.FilterReserved(h.cfg, items)
	log.Debug("listing filtered", slog.Int("in", len(items)), slog.Int("out", len(filtered)))
	render.JSON(w, r, response.OKWithData(filtered))
}
