package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"

	"galeri/internal/http/view"
	"galeri/internal/service"
)

// RegisterRoutes attaches the web UI, upload/delete endpoints, stored file
// routes and health probes to app. The app must be created with view.NewEngine()
// as its Views.
func RegisterRoutes(app *fiber.App, images, documents service.ItemService, checks ...Pinger) {
	app.Use("/static", filesystem.New(filesystem.Config{
		Root: view.Static(),
	}))

	app.Get("/health", HealthCheck(checks...))
	app.Get("/healthz", LivenessProbe())

	app.Get("/", Home(images, documents))
	app.Get("/gambar", Listing(images, view.PageImages, "Gambar", "Images"))
	app.Get("/document", Listing(documents, view.PageDocument, "Dokumen", "Documents"))

	app.Post("/upload", Upload(images, "image", "/gambar"))
	app.Post("/upload-pdf", Upload(documents, "document", "/"))

	// Image delete returns home while document delete returns to its listing.
	app.Post("/delete/:id", Delete(images, "/"))
	app.Post("/delete-document/:id", Delete(documents, "/document"))

	app.Get("/uploads/:filename", ServeFile(images))
	app.Get("/documents/:filename", ServeFile(documents))
}
