// Package content фильтрует списки контента хоста.
package content

import "github.com/magabrotheeeer/member-gate/internal/models"

// FilterReserved убирает из списка служебные страницы шлюза.
// Порядок остальных элементов сохраняется, исходный срез не изменяется.
func FilterReserved(cfg models.GateConfig, items []models.ContentItem) []models.ContentItem {
	out := make([]models.ContentItem, 0, len(items))
	for _, item := range items {
		if cfg.IsReserved(models.SlugFromPath(item.Slug)) {
			continue
		}
		out = append(out, item)
	}
	return out
}
