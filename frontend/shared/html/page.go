package html

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Page wraps a rendered body fragment in the app layout.
func Page(title, body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, RenderLayout(title, body))
		return err
	})
}

// Fragment returns a raw HTML fragment as a component.
func Fragment(markup string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, markup)
		return err
	})
}
