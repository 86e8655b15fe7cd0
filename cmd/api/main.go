package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backend-lobotracks/internal/config"
	"backend-lobotracks/internal/server"
	"backend-lobotracks/internal/storage"

	"github.com/gofiber/fiber/v2"
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain

func main() {
	mainRunner(mainDepsProvider())
}

type mainDeps struct {
	loadConfig  func() config.Config
	openLibrary func(dir string) (*storage.Service, error)
	notify      func(chan<- os.Signal, ...os.Signal)
	run         func(context.Context, config.Config, *storage.Service, <-chan os.Signal, ListenFunc) error
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:  config.Load,
		openLibrary: storage.Open,
		notify:      signal.Notify,
		run:         Run,
	}
}

func realMain(deps mainDeps) {
	cfg := deps.loadConfig()

	library, err := deps.openLibrary(cfg.GPXDir)
	if err != nil {
		// Listing keeps failing with 500 until the directory appears.
		log.Printf("gpx directory unavailable: %v", err)
		library = storage.NewService(cfg.GPXDir)
	}

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	if err := deps.run(context.Background(), cfg, library, signals, nil); err != nil {
		log.Printf("server exited with error: %v", err)
	}
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, library *storage.Service, signals <-chan os.Signal, listen ListenFunc) error {
	srv := server.NewServer(cfg, library)

	if listen == nil {
		listen = defaultListen
	}

	log.Printf("LoboTracks listening on %s (gpx dir: %s, env: %s)", cfg.ServerPort, library.Dir(), cfg.AppEnv)

	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(srv.App, cfg.ServerPort)
	}()

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return shutdownFn(srv.App, shutdownCtx)
}
