package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var templateFuncs = template.FuncMap{
	"formatDate": formatDate,
}

// loadTemplates parses one template set per page, each paired with the
// shared layout.
func loadTemplates() map[string]*template.Template {
	pages := []string{"dashboard", "users", "logins", "user_form", "confirm_delete"}

	sets := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		sets[page] = template.Must(
			template.New("layout").Funcs(templateFuncs).ParseFS(templateFS,
				"templates/layout.html",
				"templates/"+page+".html",
			),
		)
	}
	return sets
}

// timestamp layouts the remote API has been seen to emit
var apiTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// formatDate renders an API timestamp relative to now, switching to an
// absolute timestamp past a week. Unparseable values pass through verbatim
// rather than hide the row.
func formatDate(raw string) string {
	if raw == "" {
		return ""
	}

	var parsed time.Time
	var err error
	for _, layout := range apiTimeLayouts {
		parsed, err = time.Parse(layout, raw)
		if err == nil {
			break
		}
	}
	if err != nil {
		return raw
	}

	diff := time.Since(parsed)
	switch {
	case diff < 0:
		// clock skew against the remote API, show it absolute
		return parsed.Format("02 Jan 2006 15:04")
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%d min ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d h ago", int(diff.Hours()))
	case diff < 48*time.Hour:
		return "yesterday"
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	default:
		return parsed.Format("02 Jan 2006 15:04")
	}
}
