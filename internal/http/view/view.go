// Package view holds the embedded HTML templates and stylesheet of the web UI.
package view

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

// Layout wraps every page; pages render into its {{embed}}.
const Layout = "layouts/main"

// Page template names.
const (
	PageHome     = "home"
	PageImages   = "gambar"
	PageDocument = "document"
)

//go:embed templates
var templates embed.FS

//go:embed static
var static embed.FS

// NewEngine returns a Fiber views engine over the embedded templates.
func NewEngine() *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}

// Static returns the embedded assets served under /static.
func Static() http.FileSystem {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
