package tracks

import (
	"errors"
	"log"

	"backend-lobotracks/internal/gpx"
	"backend-lobotracks/internal/storage"

	"github.com/gofiber/fiber/v2"
)

const geoJSONContentType = "application/geo+json"

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/", func(c *fiber.Ctx) error {
		summaries, err := svc.List(c.Context())
		if err != nil {
			log.Printf("list tracks: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to read GPX directory")
		}
		return c.JSON(summaries)
	})

	r.Get("/:filename/geojson", func(c *fiber.Ctx) error {
		name, err := storage.FilenameParam(c)
		if err != nil {
			return err
		}
		fc, err := svc.GeoJSON(c.Context(), name)
		if err != nil {
			return parseError(err)
		}
		body, err := fc.MarshalJSON()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		c.Set(fiber.HeaderContentType, geoJSONContentType)
		return c.Send(body)
	})

	r.Get("/:filename", func(c *fiber.Ctx) error {
		name, err := storage.FilenameParam(c)
		if err != nil {
			return err
		}
		detail, err := svc.Get(c.Context(), name)
		if err != nil {
			return parseError(err)
		}
		return c.JSON(detail)
	})
}

func parseError(err error) error {
	if errors.Is(err, gpx.ErrMalformedCoordinate) || errors.Is(err, gpx.ErrMalformedDocument) {
		log.Printf("parse track: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to parse GPX file")
	}
	return storage.HTTPError(err, "Failed to parse GPX file")
}
