package content

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/member-gate/internal/models"
)

var cfg = models.GateConfig{
	Enable:       true,
	LoginSlug:    "member-login",
	RegisterSlug: "member-register",
	LogoutSlug:   "member-logout",
}

func TestFilterReserved(t *testing.T) {
	tests := []struct {
		name  string
		items []models.ContentItem
		want  []string
	}{
		{
			name:  "empty listing",
			items: nil,
			want:  []string{},
		},
		{
			name: "reserved pages are dropped",
			items: []models.ContentItem{
				{Slug: "about"},
				{Slug: "member-login"},
				{Slug: "news"},
				{Slug: "member-register"},
				{Slug: "member-logout"},
			},
			want: []string{"about", "news"},
		},
		{
			name: "slashes around slug are ignored",
			items: []models.ContentItem{
				{Slug: "/member-login/"},
				{Slug: "/about"},
			},
			want: []string{"/about"},
		},
		{
			name: "similar slugs are kept",
			items: []models.ContentItem{
				{Slug: "member-login-help"},
				{Slug: "Member-Login"},
			},
			want: []string{"member-login-help", "Member-Login"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterReserved(cfg, tt.items)

			slugs := make([]string, 0, len(got))
			for _, item := range got {
				slugs = append(slugs, item.Slug)
			}
			assert.Equal(t, tt.want, slugs)
		})
	}
}

func TestFilterReserved_DoesNotModifyInput(t *testing.T) {
	items := []models.ContentItem{{Slug: "member-login"}, {Slug: "about"}}

	_ = FilterReserved(cfg, items)

	assert.Equal(t, "member-login", items[0].Slug)
	assert.Equal(t, "about", items[1].Slug)
}
