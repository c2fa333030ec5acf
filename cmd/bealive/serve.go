package main

import (
	"bealive-agent-backend/config"
	"bealive-agent-backend/controller"
	"bealive-agent-backend/router"
	"bealive-agent-backend/service/mq"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the activity sweeper and the message consumers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, configPath(cmd), appOptions{queued: true})
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			slog.Warn("failed to close vector indexes", "err", err)
		}
	}()
	cfg := config.Cfg

	if cfg.MQ.Enabled() {
		if err := startConsumers(a, cfg.MQ.NameServer); err != nil {
			return err
		}
		defer mq.Shutdown()
	}

	sweeper, err := a.activities.StartSweeper(cfg.Sweep.Cron)
	if err != nil {
		return err
	}
	defer sweeper.Stop()

	controller.Setup(controller.Services{
		Bot:         a.bot,
		Activities:  a.activities,
		Pipeline:    a.pipeline,
		QueueIngest: cfg.MQ.Enabled(),
	})
	gin.SetMode(cfg.Server.Mode)
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router.Register(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func startConsumers(a *app, nameServer []string) error {
	if err := mq.Init(nameServer); err != nil {
		return err
	}
	if err := a.pipeline.Register(); err != nil {
		return err
	}
	if err := mq.RegisterActivityHandlers(a.syncIndex); err != nil {
		return err
	}
	return mq.Run()
}
