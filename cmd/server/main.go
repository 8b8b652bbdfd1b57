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

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	router "github.com/dkeye/peerview/internal/adapters/http"
	"github.com/dkeye/peerview/internal/adapters/rtc"
	"github.com/dkeye/peerview/internal/app/orch"
	"github.com/dkeye/peerview/internal/config"
	"github.com/dkeye/peerview/internal/logger"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Early logger so config.Load can report what it read.
	logger.Init(logger.Options{Pretty: true})

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	base := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Mode == "debug"})

	ice := rtc.ICEServers(cfg.ICEServers)
	if err := rtc.Validate(ice); err != nil {
		return err
	}

	collab, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	o := orch.New(orch.Config{
		InvitationTTL:       cfg.InvitationTTL,
		InvitationRetention: cfg.InvitationRetention,
		RoleSwitchWindow:    cfg.RoleSwitchWindow,
		QuestionCount:       cfg.QuestionCount,
		RelayPolicy:         cfg.RelayPolicy,
	}, collab, base)
	defer o.Close()

	r := router.SetupRouter(ctx, cfg, o, ice)
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("peerview server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("Server exited gracefully")
	return nil
}
