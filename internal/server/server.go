package server

import (
	"errors"
	"path/filepath"

	"backend-lobotracks/internal/config"
	"backend-lobotracks/internal/storage"
	"backend-lobotracks/internal/tracks"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Server struct {
	App     *fiber.App
	Cfg     config.Config
	Library *storage.Service
}

func NewServer(cfg config.Config, library *storage.Service) *Server {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	s := &Server{
		App:     app,
		Cfg:     cfg,
		Library: library,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.App.Group("/api/tracks")
	storage.RegisterRoutes(api, s.Library)
	tracks.RegisterRoutes(api, tracks.NewService(s.Library))

	if s.Cfg.Production() {
		s.App.Static("/", s.Cfg.StaticDir)
		index := filepath.Join(s.Cfg.StaticDir, "index.html")
		s.App.Get("*", func(c *fiber.Ctx) error {
			return c.SendFile(index)
		})
	}
}

// errorHandler renders every error as {"error": message}.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
