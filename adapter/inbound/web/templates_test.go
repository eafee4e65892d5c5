package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func stamp(age time.Duration) string {
	return time.Now().UTC().Add(-age).Format(time.RFC3339)
}

func TestFormatDateRelative(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"just now", stamp(10 * time.Second), "just now"},
		{"minutes ago", stamp(5 * time.Minute), "5 min ago"},
		{"hours ago", stamp(3 * time.Hour), "3 h ago"},
		{"yesterday", stamp(30 * time.Hour), "yesterday"},
		{"days ago", stamp(3 * 24 * time.Hour), "3 days ago"},
		{"garbage passes through", "not-a-date", "not-a-date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDate(tt.raw))
		})
	}
}

func TestFormatDateOldTimestampsAreAbsolute(t *testing.T) {
	assert.Equal(t, "15 Mar 2020 09:05", formatDate("2020-03-15T09:05:00"))
	assert.Equal(t, "15 Mar 2020 09:05", formatDate("2020-03-15 09:05:00"))
}

func TestTemplatesParse(t *testing.T) {
	sets := loadTemplates()
	for _, page := range []string{"dashboard", "users", "logins", "user_form", "confirm_delete"} {
		assert.Contains(t, sets, page)
	}
}
