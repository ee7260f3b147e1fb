package pdf

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	orderapp "github.com/bizgrow/backend/internal/application/order"
)

//go:embed templates/*.html
var templateFS embed.FS

var invoiceFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("02 Jan 2006")
	},
	"title": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
	"inc": func(i int) int { return i + 1 },
}

// InvoiceRenderer fills the invoice template and prints it
type InvoiceRenderer struct {
	html HTMLRenderer
	tmpl *template.Template
}

// NewInvoiceRenderer parses the embedded template
func NewInvoiceRenderer(html HTMLRenderer) (*InvoiceRenderer, error) {
	tmpl, err := template.New("invoice.html").Funcs(invoiceFuncs).ParseFS(templateFS, "templates/invoice.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice template: %w", err)
	}
	return &InvoiceRenderer{html: html, tmpl: tmpl}, nil
}

// BuildHTML renders the invoice document. Values are HTML-escaped.
func (r *InvoiceRenderer) BuildHTML(data orderapp.InvoiceData) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render invoice template: %w", err)
	}
	return buf.String(), nil
}

// RenderInvoice returns the invoice as PDF bytes
func (r *InvoiceRenderer) RenderInvoice(ctx context.Context, data orderapp.InvoiceData) ([]byte, error) {
	html, err := r.BuildHTML(data)
	if err != nil {
		return nil, err
	}
	return r.html.RenderHTML(ctx, html)
}

var _ orderapp.InvoiceRenderer = (*InvoiceRenderer)(nil)
