package mail

import (
	"bytes"
	"embed"
	"strings"
	"text/template"
)

const (
	confirmationTemplate = "confirmation.html.tmpl"
	notificationTemplate = "notification.html.tmpl"
)

//go:embed "templates"
var FS embed.FS

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape makes s safe for HTML text and quoted attribute values.
func Escape(s string) string { return htmlEscaper.Replace(s) }

var templates = template.Must(template.New("mail").Funcs(template.FuncMap{
	"esc":   Escape,
	"cells": func(label, value string) []string { return []string{label, value} },
	"dash": func(s string) string {
		if s == "" {
			return "-"
		}
		return Escape(s)
	},
}).ParseFS(FS, "templates/*.tmpl"))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
