package models

import "strings"

// GateConfig — неизменяемый снимок настроек шлюза на время одного запроса.
type GateConfig struct {
	Enable            bool
	AllowRegistration bool
	LoginSlug         string
	RegisterSlug      string
	LogoutSlug        string
	RequiredDomain    string // Домен, которым должна оканчиваться почта при регистрации; пустой — без ограничений
}

// ReservedSlugs возвращает служебные маршруты шлюза.
func (c GateConfig) ReservedSlugs() []string {
	return []string{c.LoginSlug, c.RegisterSlug, c.LogoutSlug}
}

// IsReserved сообщает, является ли slug служебным маршрутом шлюза.
func (c GateConfig) IsReserved(slug string) bool {
	for _, s := range c.ReservedSlugs() {
		if s == slug {
			return true
		}
	}
	return false
}

// LoginPath возвращает путь страницы входа.
func (c GateConfig) LoginPath() string { return "/" + c.LoginSlug }

// RegisterPath возвращает путь страницы регистрации.
func (c GateConfig) RegisterPath() string { return "/" + c.RegisterSlug }

// SlugFromPath переводит путь запроса в slug: "/member-login/" -> "member-login".
func SlugFromPath(path string) string {
	return strings.Trim(path, "/")
}
