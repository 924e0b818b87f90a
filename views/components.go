// Package views holds the templ components and the html page templates.
package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/a-h/templ"
)

// HeaderPartialPath serves the header on its own; the pending placeholder polls it.
const HeaderPartialPath = "/partials/header"

// RenderString renders a component into a string for embedding into html templates.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var buf strings.Builder
	if err := c.Render(ctx, &buf); err != nil {
		return "", fmt.Errorf("render component: %w", err)
	}
	return buf.String(), nil
}
