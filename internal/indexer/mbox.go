package indexer

import (
	"fmt"
	"io"
	"os"

	"github.com/emersion/go-mbox"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/felo/mailintel/internal/db"
)

// IndexMbox streams messages out of an mbox archive and ingests them.
// Each message's source path is the archive path plus its ordinal, so
// re-running over the same archive skips what is already stored.
func (idx *Indexer) IndexMbox(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mbox file: %w", err)
	}
	defer f.Close()

	result := &Result{FailedFiles: make([]string, 0)}
	reader := mbox.NewReader(f)

	for ordinal := 0; ; ordinal++ {
		msg, err := reader.NextMessage()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, fmt.Errorf("failed to read mbox message: %w", err)
		}

		result.TotalFound++
		sourcePath := fmt.Sprintf("mbox:%s#%d", path, ordinal)

		exists, err := idx.db.EmailExists(sourcePath)
		if err != nil {
			result.Failed++
			result.FailedFiles = append(result.FailedFiles, sourcePath)
			continue
		}
		if exists {
			result.Skipped++
			continue
		}

		raw, err := io.ReadAll(msg)
		if err != nil {
			result.Failed++
			result.FailedFiles = append(result.FailedFiles, sourcePath)
			continue
		}

		parsed, err := idx.parser.Parse(uuid.NewString(), raw)
		if err != nil {
			idx.log.Warn("failed to parse mbox message", zap.String("source", sourcePath), zap.Error(err))
			result.Failed++
			result.FailedFiles = append(result.FailedFiles, sourcePath)
			continue
		}

		rec, entities := db.NewRecord(parsed, sourcePath)
		if err := idx.db.InsertEmail(rec, entities); err != nil {
			idx.log.Error("failed to insert mbox message", zap.String("source", sourcePath), zap.Error(err))
			result.Failed++
			result.FailedFiles = append(result.FailedFiles, sourcePath)
			continue
		}

		result.NewIndexed++
	}

	idx.log.Info("mbox ingestion complete",
		zap.String("path", path),
		zap.Int("new", result.NewIndexed),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))

	return result, nil
}
