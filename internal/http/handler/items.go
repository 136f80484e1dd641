package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"galeri/internal/service"
	"galeri/internal/storage"
)

// presignExpiry is how long direct download links handed out by ServeFile stay valid.
const presignExpiry = 15 * time.Minute

// Upload stores the multipart file in field together with the "description"
// form value, then redirects to redirectTo.
//
// @Summary Upload an image or a PDF document
// @Accept multipart/form-data
// @Param description formData string false "Free text description"
// @Success 302 {string} string "Redirect to the listing"
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /upload [post]
// @Router /upload-pdf [post]
func Upload(svc service.ItemService, field, redirectTo string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := formFile(c, field)
		if err != nil {
			return respondError(c, err)
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		item, err := svc.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size, c.FormValue("description"))
		if err != nil {
			return respondError(c, err)
		}
		zerolog.Ctx(c.UserContext()).Info().
			Str("collection", svc.Collection().Name).
			Int64("id", item.ID).
			Str("filename", item.Filename).
			Msg("item uploaded")
		return c.Redirect(redirectTo)
	}
}

// formFile returns the uploaded file of field, or service.ErrFileMissing when
// the request carries none.
func formFile(c *fiber.Ctx, field string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return nil, fmt.Errorf("form field %q: %w", field, service.ErrFileMissing)
	}
	return fh, nil
}

// Delete removes the item whose id is in the path and redirects to redirectTo.
// Unknown ids are not an error.
//
// @Summary Delete an image or a document
// @Param id path int true "Item id"
// @Success 302 {string} string "Redirect"
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /delete/{id} [post]
// @Router /delete-document/{id} [post]
func Delete(svc service.ItemService, redirectTo string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		log := zerolog.Ctx(c.UserContext())
		err = svc.Delete(c.UserContext(), id)
		switch {
		case errors.Is(err, service.ErrNotFound):
			log.Debug().Str("collection", svc.Collection().Name).Int64("id", id).Msg("delete of unknown item ignored")
		case err != nil:
			return respondError(c, err)
		default:
			log.Info().Str("collection", svc.Collection().Name).Int64("id", id).Msg("item deleted")
		}
		return c.Redirect(redirectTo)
	}
}

// ServeFile sends a stored file. Backends that can presign get a redirect to
// a direct link; the local backend streams the bytes.
func ServeFile(svc service.ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("filename")

		u, err := svc.Link(c.UserContext(), name, presignExpiry)
		if err == nil {
			return c.Redirect(u)
		}
		if !errors.Is(err, storage.ErrPresignUnsupported) {
			return respondError(c, err)
		}

		rc, info, err := svc.Open(c.UserContext(), name)
		if err != nil {
			return respondError(c, err)
		}
		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		return c.SendStream(rc, int(info.Size))
	}
}
