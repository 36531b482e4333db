// Package templates holds the HTML of the admin console.
package templates

import (
	"embed"
	"html/template"
	"strings"

	"github.com/google/uuid"
)

//go:embed *.html
var files embed.FS

// Funcs are the helpers available to every console template
var Funcs = template.FuncMap{
	"upper": strings.ToUpper,
	"uuid":  func(id uuid.UUID) string { return id.String() },
	"pair": func(view, panel interface{}) map[string]interface{} {
		return map[string]interface{}{"View": view, "Panel": panel}
	},
	"initials": func(name string) string {
		var out []rune
		for _, word := range strings.Fields(name) {
			out = append(out, []rune(word)[0])
			if len(out) == 2 {
				break
			}
		}
		return strings.ToUpper(string(out))
	},
}

// Load parses the embedded templates
func Load() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(files, "*.html")
}
