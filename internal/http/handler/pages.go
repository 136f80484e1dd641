package handler

import (
	"github.com/gofiber/fiber/v2"

	"galeri/internal/http/view"
	"galeri/internal/service"
)

// HomeLimit is how many of the newest items per collection the home page shows.
const HomeLimit = 5

// Home renders the latest images and documents.
//
// @Summary Home page
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router / [get]
func Home(images, documents service.ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		latestImages, err := images.List(c.UserContext(), HomeLimit)
		if err != nil {
			return respondError(c, err)
		}
		latestDocuments, err := documents.List(c.UserContext(), HomeLimit)
		if err != nil {
			return respondError(c, err)
		}
		return c.Render(view.PageHome, fiber.Map{
			"Title":     "Beranda",
			"Images":    latestImages,
			"Documents": latestDocuments,
		}, view.Layout)
	}
}

// Listing renders every item of one collection, newest first.
// key is the template field the items are bound to ("Images" or "Documents").
func Listing(svc service.ItemService, page, title, key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext(), 0)
		if err != nil {
			return respondError(c, err)
		}
		return c.Render(page, fiber.Map{
			"Title": title,
			key:     items,
		}, view.Layout)
	}
}
