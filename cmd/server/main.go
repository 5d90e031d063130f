package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	router "github.com/dkeye/WatchParty/internal/adapters/http"
	wsignal "github.com/dkeye/WatchParty/internal/adapters/signal"
	"github.com/dkeye/WatchParty/internal/app"
	"github.com/dkeye/WatchParty/internal/app/fanout"
	"github.com/dkeye/WatchParty/internal/app/orch"
	"github.com/dkeye/WatchParty/internal/config"
	"github.com/dkeye/WatchParty/internal/resolver"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	ids, err := app.NewRandomIDs(cfg.Room.CodeLength)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build id generator")
	}
	bus := fanout.NewBus()
	defer bus.Close()
	policy := app.SimplePolicy{}

	o := &orch.Orchestrator{
		Bus:        bus,
		Chat:       app.NewChatLog(),
		Policy:     policy,
		Resolver:   resolver.YouTube{},
		IDs:        ids,
		ChatMaxLen: cfg.Chat.MaxLength,
	}
	o.Registry = app.NewRegistry(ids, bus, policy, app.RegistryConfig{
		DefaultMaxUsers: cfg.Room.MaxUsers,
		MaxUsersLimit:   cfg.Room.MaxUsersLimit,
		HostLeave:       app.HostLeavePolicy(cfg.Room.HostLeave),
	})
	o.Registry.OnDestroy(o.OnRoomDestroyed)

	ws := wsignal.NewSignalWSController(o, policy, wsignal.Options{
		ReadLimit:      cfg.ReadLimit,
		PingPeriod:     cfg.PingPeriod,
		WriteWait:      cfg.WriteWait,
		SendBuffer:     cfg.SendBuffer,
		HistoryOnJoin:  cfg.Chat.HistoryOnJoin,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	r := router.SetupRouter(ctx, cfg, o, ws)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("module", "main").Str("addr", addr).Msg("WatchParty server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Str("module", "main").Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Str("module", "main").Msg("Server stopped with error")
	}
	log.Info().Str("module", "main").Msg("Server exited gracefully")
}
