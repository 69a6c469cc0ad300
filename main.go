package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "time/tzdata"

	"chimbori.dev/shrink/compress"
	"chimbori.dev/shrink/conf"
	"chimbori.dev/shrink/core"
	"chimbori.dev/shrink/embedfs"
	"chimbori.dev/shrink/storage"
	"github.com/justinas/alice"
	"github.com/lmittmann/tint"
)

func main() {
	tintHandler := tint.NewHandler(os.Stderr, &tint.Options{TimeFormat: "2006-01-02 15:04:05.000"})
	slog.SetDefault(slog.New(tintHandler))

	healthCheckFlag := flag.Bool("healthcheck", false, "verify health of running service & exit")
	configYmlFlag := flag.String("config", "shrink.yml", "path to shrink.yml")
	flag.Parse()

	config, err := conf.ReadConfig(*configYmlFlag)
	if err != nil {
		slog.Error("Failed to parse config", tint.Err(err))
		os.Exit(1)
	}
	slog.Info(conf.AppName, "build-timestamp", conf.BuildTimestamp)

	if *healthCheckFlag {
		os.Exit(core.VerifyHealthCheck("localhost", config.Web.Port))
	}

	// If debug mode was turned on in the config file, print logs at DEBUG or above.
	if config.Debug {
		tintHandler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: "2006-01-02 15:04:05.000",
		})
		slog.SetDefault(slog.New(tintHandler))
	}

	store, err := storage.Open(config.Storage.Uploads, config.Storage.Compressed)
	if err != nil {
		slog.Error("Failed to initialize storage", tint.Err(err))
		os.Exit(1)
	}
	defer store.Close()

	server := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(config.Web.Port)),
		Handler:           newHandler(config, store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Set up a graceful shutdown for when the process is terminated.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	idle := make(chan struct{})
	go func() {
		defer close(idle)
		<-ctx.Done()
		fmt.Println()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Shutdown failed", tint.Err(err))
		}
	}()

	// Not "https://", since this app does not terminate SSL.
	slog.Info("Listening", "url", "http://"+net.JoinHostPort(config.Web.Host, strconv.Itoa(config.Web.Port)))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", tint.Err(err))
		os.Exit(1)
	}
	<-idle
	slog.Info("Shutdown successfully!")
}

// newHandler sets up every route, wrapped in the middleware shared by all of them.
func newHandler(config conf.AppConfig, store *storage.Store) http.Handler {
	mux := http.NewServeMux()
	core.SetupHealthCheck(mux)
	core.ServeWebManifest(mux, conf.AppName, "/", "#0b7285")
	embedfs.ServeStaticFS(mux)
	compress.New(config, store).SetupHandlers(mux)
	return alice.New(core.AccessLog, core.SecurityHeaders).Then(mux)
}
