package email

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"youthevents/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// Every email is three files in templates/: <name>_subject.txt, <name>.txt and <name>.html.
const faultAlertTemplate = "fault_alert"

// templateRenderer executes the embedded templates, parsed once at construction.
type templateRenderer struct {
	text *texttemplate.Template
	html *htmltemplate.Template
}

// NewTemplateRenderer parses the embedded email templates. Subjects and plain-text bodies use
// text/template; HTML bodies use html/template so request data is escaped.
func NewTemplateRenderer() (domain.AlertRenderer, error) {
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	return &templateRenderer{text: text, html: html}, nil
}

func (r *templateRenderer) RenderFaultAlert(data *domain.FaultAlertData) (*domain.RenderedEmail, error) {
	if data == nil {
		return nil, errors.New("fault alert data is nil")
	}
	return r.render(faultAlertTemplate, data)
}

func (r *templateRenderer) render(name string, data any) (*domain.RenderedEmail, error) {
	var subject, text, html bytes.Buffer
	if err := r.text.ExecuteTemplate(&subject, name+"_subject.txt", data); err != nil {
		return nil, fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := r.text.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return nil, fmt.Errorf("render %s text: %w", name, err)
	}
	if err := r.html.ExecuteTemplate(&html, name+".html", data); err != nil {
		return nil, fmt.Errorf("render %s html: %w", name, err)
	}
	return &domain.RenderedEmail{
		Subject: strings.Join(strings.Fields(subject.String()), " "),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
