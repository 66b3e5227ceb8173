package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"GlobalDent/database"
	"GlobalDent/metrics"
	"GlobalDent/routes"
	"GlobalDent/utils"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.InitDB(context.Background(), cfg)
	if err != nil {
		return err
	}

	redisClient, err := database.NewRedisClient(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	handler, err := routes.SetupRoutes(routes.Dependencies{
		Config:  cfg,
		DB:      db,
		Redis:   redisClient,
		Metrics: metrics.New(),
		Mailer:  utils.NewSMTPMailer(cfg),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        handler,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
		IdleTimeout:    30 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)

	serverErr := make(chan error, 1)
	go func() {
		defer wg.Done()
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown handling
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	select {
	case <-c:
	case err := <-serverErr:
		return err
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	log.Info().Msg("Shutting down server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	wg.Wait()
	database.LogRedisPool(redisClient)
	log.Info().Msg("Server exited gracefully")
	return nil
}
