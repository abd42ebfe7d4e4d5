package models

// StatusPublished — статус опубликованного элемента контента.
const StatusPublished = "published"

// ContentItem описывает страницу сайта, о которой хост сообщает в событиях
// создания и редактирования, а также в списках контента.
type ContentItem struct {
	Slug           string `json:"slug" validate:"required"`
	Title          string `json:"title" validate:"required"`
	Permalink      string `json:"permalink" validate:"omitempty,url"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status,omitempty"` // Статус до редактирования, если хост его передаёт
}

// Published сообщает, опубликован ли элемент.
func (c ContentItem) Published() bool {
	return c.Status == StatusPublished
}

// WasPublished сообщает, был ли элемент опубликован до редактирования.
func (c ContentItem) WasPublished() bool {
	return c.PreviousStatus == StatusPublished
}
