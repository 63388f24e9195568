package main

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html static
var assets embed.FS

var templateFuncs = template.FuncMap{
	"year": func() int { return time.Now().Year() },
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(assets, "templates/*.html")
}
