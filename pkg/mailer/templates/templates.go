package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

// subjects maps template names to email subject lines.
var subjects = map[string]string{
	"verify_email":         "Verify your email address",
	"reset_password":       "Reset your password",
	"application_received": "New adoption application for your listing",
	"application_status":   "Your adoption application was updated",
}

// Render renders subject, text and HTML bodies for a named template.
// Each template name maps to <name>.html.tmpl and <name>.txt.tmpl.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	subject, ok := subjects[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}

	ht, err := htmpl.ParseFS(FS, name+".html.tmpl")
	if err != nil {
		return "", "", "", err
	}
	var hb bytes.Buffer
	if err := ht.Execute(&hb, data); err != nil {
		return "", "", "", err
	}

	tt, err := texttpl.ParseFS(FS, name+".txt.tmpl")
	if err != nil {
		return "", "", "", err
	}
	var tb bytes.Buffer
	if err := tt.Execute(&tb, data); err != nil {
		return "", "", "", err
	}

	return subject, tb.String(), hb.String(), nil
}
