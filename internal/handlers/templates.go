package handlers

import (
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"smartedtech/internal/service"
)

// LoadTemplates parses base.tmpl and every page template under templatesPath.
// Pages are executed by file name, e.g. "dashboard.tmpl".
func LoadTemplates(templatesPath string) (*template.Template, error) {
	baseTemplate := filepath.Join(templatesPath, "base.tmpl")

	patterns := []string{
		filepath.Join(templatesPath, "components/*.tmpl"),
		filepath.Join(templatesPath, "auth/*.tmpl"),
		filepath.Join(templatesPath, "pages/*.tmpl"),
	}

	var files []string
	files = append(files, baseTemplate)

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}

	tmpl, err := template.New("").Funcs(TemplateFuncs()).ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return tmpl, nil
}

// TemplateFuncs are the helpers available to every page
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"formatScore": service.FormatScore,
		"ringColor":   service.RingColor,
		"percent": func(v float64) string {
			return fmt.Sprintf("%.0f%%", v)
		},
		"oneDecimal": func(v float64) string {
			return fmt.Sprintf("%.1f", v)
		},
		"letter": func(i int) string {
			return string(rune('A' + i))
		},
		"initial": func(name string) string {
			name = strings.TrimSpace(name)
			if name == "" {
				return "?"
			}
			return strings.ToUpper(string([]rune(name)[:1]))
		},
		"paragraphs": func(s string) []string {
			var out []string
			for _, p := range strings.Split(s, "\n") {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
			return out
		},
		"deref": func(f *float64) float64 {
			if f == nil {
				return 0
			}
			return *f
		},
	}
}
