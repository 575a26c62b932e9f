// Package indexer feeds messages through the parser and into the store:
// .eml files discovered under a directory, processed by a concurrent
// worker pool, or messages streamed out of an mbox archive. Per-message
// failures are counted, never fatal.
package indexer

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/felo/mailintel/internal/db"
	"github.com/felo/mailintel/internal/parser"
	"github.com/felo/mailintel/internal/scanner"
)

// Indexer handles ingestion into the store.
type Indexer struct {
	db          *db.DB
	parser      *parser.Parser
	scanner     *scanner.Scanner
	log         *zap.Logger
	concurrency int
}

// New creates an indexer over the given emails directory.
func New(database *db.DB, p *parser.Parser, emailsPath string, log *zap.Logger) *Indexer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Indexer{
		db:          database,
		parser:      p,
		scanner:     scanner.New(emailsPath),
		log:         log,
		concurrency: runtime.NumCPU() * 2, // 2x CPUs for I/O parallelism
	}
}

// WithConcurrency sets the number of concurrent workers.
func (idx *Indexer) WithConcurrency(workers int) *Indexer {
	if workers < 1 {
		workers = 1
	}
	idx.concurrency = workers
	return idx
}

// Result contains statistics about an ingestion run.
type Result struct {
	TotalFound  int
	NewIndexed  int
	Skipped     int
	Failed      int
	FailedFiles []string
}

type fileStatus int

const (
	statusIndexed fileStatus = iota
	statusSkipped
	statusFailed
)

type fileResult struct {
	filePath string
	status   fileStatus
}

// IndexAll scans and ingests all .eml files using a worker pool.
func (idx *Indexer) IndexAll() (*Result, error) {
	files, err := idx.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan for files: %w", err)
	}

	result := &Result{
		TotalFound:  len(files),
		FailedFiles: make([]string, 0),
	}

	idx.log.Info("indexing emails",
		zap.Int("files", result.TotalFound),
		zap.Int("workers", idx.concurrency))

	fileChan := make(chan string, len(files))
	resultChan := make(chan fileResult, len(files))

	var wg sync.WaitGroup
	for i := 0; i < idx.concurrency; i++ {
		wg.Add(1)
		go idx.worker(&wg, fileChan, resultChan)
	}

	for _, file := range files {
		fileChan <- file
	}
	close(fileChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	for res := range resultChan {
		switch res.status {
		case statusIndexed:
			result.NewIndexed++
		case statusSkipped:
			result.Skipped++
		case statusFailed:
			result.Failed++
			result.FailedFiles = append(result.FailedFiles, res.filePath)
		}
	}

	idx.log.Info("indexing complete",
		zap.Int("new", result.NewIndexed),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))

	return result, nil
}

func (idx *Indexer) worker(wg *sync.WaitGroup, fileChan <-chan string, resultChan chan<- fileResult) {
	defer wg.Done()
	for filePath := range fileChan {
		resultChan <- fileResult{
			filePath: filePath,
			status:   idx.processFile(filePath),
		}
	}
}

func (idx *Indexer) processFile(relPath string) fileStatus {
	exists, err := idx.db.EmailExists(relPath)
	if err != nil {
		idx.log.Error("failed to check email existence", zap.String("path", relPath), zap.Error(err))
		return statusFailed
	}
	if exists {
		return statusSkipped
	}

	raw, err := os.ReadFile(filepath.Join(idx.scanner.RootPath(), filepath.FromSlash(relPath)))
	if err != nil {
		idx.log.Error("failed to read file", zap.String("path", relPath), zap.Error(err))
		return statusFailed
	}

	parsed, err := idx.parser.Parse(uuid.NewString(), raw)
	if err != nil {
		idx.log.Warn("failed to parse email", zap.String("path", relPath), zap.Error(err))
		return statusFailed
	}

	rec, entities := db.NewRecord(parsed, relPath)
	if err := idx.db.InsertEmail(rec, entities); err != nil {
		idx.log.Error("failed to insert email", zap.String("path", relPath), zap.Error(err))
		return statusFailed
	}

	return statusIndexed
}
