package storage

import (
	"errors"
	"fmt"
	"log"
	"net/url"

	"github.com/gofiber/fiber/v2"
)

const gpxContentType = "application/gpx+xml"

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/:filename/download", func(c *fiber.Ctx) error {
		name, err := FilenameParam(c)
		if err != nil {
			return err
		}
		f, info, err := svc.OpenFile(c.Context(), name)
		if err != nil {
			return HTTPError(err, "Failed to read GPX file")
		}

		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
		c.Set(fiber.HeaderContentType, gpxContentType)
		return c.SendStream(f, int(info.Size))
	})
}

// FilenameParam returns the decoded :filename route parameter, or a 400
// error when it is not a valid GPX file name.
func FilenameParam(c *fiber.Ctx) (string, error) {
	name, err := url.PathUnescape(c.Params("filename"))
	if err != nil || !ValidName(name) {
		return "", fiber.NewError(fiber.StatusBadRequest, "Invalid filename")
	}
	return name, nil
}

// HTTPError maps storage errors onto HTTP errors; anything else becomes a
// 500 carrying message.
func HTTPError(err error, message string) error {
	switch {
	case errors.Is(err, ErrInvalidName):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid filename")
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "File not found")
	default:
		log.Printf("%s: %v", message, err)
		return fiber.NewError(fiber.StatusInternalServerError, message)
	}
}
