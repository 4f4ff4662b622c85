package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"warlock/internal/catalog"
	"warlock/internal/config"
	"warlock/internal/server"
)

const shutdownGrace = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("config")
	}
	log := newLogger(cfg)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("item catalog")
	}
	log.Info().Int("items", cat.Len()).Str("path", cfg.CatalogPath).Msg("catalog loaded")

	var (
		ws         http.Handler
		transports []server.Transport
	)
	if cfg.Transport == config.TransportENet || cfg.Transport == config.TransportBoth {
		transports = append(transports, server.NewENetTransport(cfg.UDPPort, cfg.MaxPeers, log))
	}
	if cfg.Transport == config.TransportWebsocket || cfg.Transport == config.TransportBoth {
		t := server.NewWebsocketTransport(cfg.Password, log)
		ws = t
		transports = append(transports, t)
	}

	srv, err := server.New(cfg, server.NewMulti(transports...), cat, log)
	if err != nil {
		log.Fatal().Err(err).Msg("server")
	}

	httpSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           server.NewRouter(srv, ws),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return srv.Run(ctx) })
	g.Go(func() error {
		log.Info().Str("addr", httpSrv.Addr).Bool("websocket", ws != nil).Msg("http listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("bye")
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	var log zerolog.Logger
	if cfg.LogPretty {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log = zerolog.New(os.Stdout)
	}
	return log.Level(level).With().Timestamp().Logger()
}
