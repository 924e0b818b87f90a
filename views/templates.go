package views

import (
	"embed"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed layouts/*.html *.html
var templates embed.FS

// Layout is the page layout every page renders into.
const Layout = "layouts/main"

// NewEngine returns the html template engine over the embedded page templates.
func NewEngine() *html.Engine {
	return html.NewFileSystem(http.FS(templates), ".html")
}
