// Package ui renders the GreenParking landing page on the server.
//
// Every piece of the page is a Component. Components read request-scoped
// state, such as the ambient form status, from the context they are
// rendered with.
package ui

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("ui").ParseFS(templateFS, "templates/*.html"))

// Component is anything that renders itself as HTML.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(ctx context.Context, w io.Writer) error

func (f ComponentFunc) Render(ctx context.Context, w io.Writer) error {
	return f(ctx, w)
}

// Text renders s HTML-escaped.
func Text(s string) Component {
	return ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, template.HTMLEscapeString(s))
		return err
	})
}

// Fragment renders children one after the other.
func Fragment(children ...Component) Component {
	return ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, c := range children {
			if c == nil {
				continue
			}
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// RenderHTML renders c into a string that templates embed without
// escaping again.
func RenderHTML(ctx context.Context, c Component) (template.HTML, error) {
	if c == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func execute(w io.Writer, name string, data any) error {
	return templates.ExecuteTemplate(w, name, data)
}
