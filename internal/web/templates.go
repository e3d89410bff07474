package web

import (
	"embed"
	"fmt"
	"html/template"

	"designrage/internal/game"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"signed": func(v int) string { return fmt.Sprintf("%+d", v) },
	"styleEmoji": func(t game.ResponseType) string {
		switch t {
		case game.Professional:
			return "😊"
		case game.Witty:
			return "🤖"
		case game.Sarcastic:
			return "😈"
		}
		return "💬"
	},
	"inc": func(i int) int { return i + 1 },
}

// ParseTemplates loads the embedded page and fragment templates.
func ParseTemplates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
