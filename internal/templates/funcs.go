package templates

import (
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var displayCaser = cases.Title(language.English)

func builtinFuncs(site Site) template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("January 2, 2006")
		},
		"absURL": func(path string) string {
			base := strings.TrimSuffix(site.BaseURL, "/")
			if path == "" {
				return base + "/"
			}
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}
			return base + path
		},
		"titlecase": func(s string) string {
			return displayCaser.String(s)
		},
		"year": func() int {
			return time.Now().Year()
		},
	}
}
