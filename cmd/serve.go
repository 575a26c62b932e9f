package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/felo/mailintel/internal/db"
	"github.com/felo/mailintel/internal/handlers"
	"github.com/felo/mailintel/internal/indexer"
	"github.com/felo/mailintel/internal/parser"
)

var serveSkipIndex bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Index the emails directory and serve the JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		if err := os.MkdirAll(filepath.Dir(cfg.DBPath()), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}

		database, err := db.Open(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()
		log.Info("database opened", zap.String("path", cfg.DBPath()))

		p := parser.New(parser.Options{
			Extract:   cfg.ExtractConfig(),
			Signature: cfg.SignatureConfig(),
			Spam:      cfg.SpamConfig(),
			Logger:    log,
		})

		if !serveSkipIndex {
			if _, err := os.Stat(cfg.EmailsPath()); os.IsNotExist(err) {
				log.Warn("emails directory not found, skipping startup indexing",
					zap.String("path", cfg.EmailsPath()))
			} else {
				idx := indexer.New(database, p, cfg.EmailsPath(), log)
				if _, err := idx.IndexAll(); err != nil {
					log.Warn("startup indexing failed", zap.Error(err))
				}
			}
		}

		h := handlers.New(database, p, log)

		r := chi.NewRouter()
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)
		r.Use(middleware.Compress(5))

		r.Get("/emails", h.ListEmails)
		r.Get("/emails/{id}", h.GetEmail)
		r.Get("/emails/{id}/html", h.GetEmailHTML)
		r.Get("/search", h.Search)
		r.Post("/parse", h.Parse)

		srv := &http.Server{
			Addr:         cfg.ServerAddr(),
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		go func() {
			log.Info("starting server", zap.String("addr", cfg.ServerAddr()))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal("server failed", zap.Error(err))
			}
		}()

		<-sigChan
		log.Info("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		log.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveSkipIndex, "skip-index", false, "Skip indexing the emails directory on startup")
	rootCmd.AddCommand(serveCmd)
}
