package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/felo/mailintel/internal/db"
	"github.com/felo/mailintel/internal/indexer"
	"github.com/felo/mailintel/internal/parser"
)

var (
	indexMbox    string
	indexWorkers int
)

var indexCmd = &cobra.Command{
	Use:   "index [directory]",
	Short: "Ingest .eml files or an mbox archive into the index",
	Long: `Parses messages and stores their intelligence records in the local
SQLite index. With a directory argument (or the configured emails path)
it ingests .eml files recursively; with --mbox it streams messages out
of an mbox archive instead. Already-ingested messages are skipped.`,
	Args: cobra.MaximumNArgs(1),
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

		p := parser.New(parser.Options{
			Extract:   cfg.ExtractConfig(),
			Signature: cfg.SignatureConfig(),
			Spam:      cfg.SpamConfig(),
			Logger:    log,
		})

		emailsPath := cfg.EmailsPath()
		if len(args) == 1 {
			emailsPath = args[0]
		}

		idx := indexer.New(database, p, emailsPath, log)
		if indexWorkers > 0 {
			idx.WithConcurrency(indexWorkers)
		}

		var result *indexer.Result
		if indexMbox != "" {
			result, err = idx.IndexMbox(indexMbox)
		} else {
			result, err = idx.IndexAll()
		}
		if err != nil {
			return err
		}

		fmt.Printf("Found %d messages: %d new, %d skipped, %d failed\n",
			result.TotalFound, result.NewIndexed, result.Skipped, result.Failed)
		for _, f := range result.FailedFiles {
			log.Warn("failed to ingest", zap.String("source", f))
		}
		return nil
	},
}

func init() {
	indexCmd.Flags().StringVar(&indexMbox, "mbox", "", "Ingest messages from an mbox archive instead of a directory")
	indexCmd.Flags().IntVar(&indexWorkers, "workers", 0, "Number of concurrent workers (default 2x CPUs)")
	rootCmd.AddCommand(indexCmd)
}
