// Package importer runs batch ingestion: it reads JSON-lines player records,
// resolves each through the engine, and reports summary counts. Batches are
// interruptible and safe to re-run because every per-record write path in the
// store is idempotent.
package importer

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"rosterid/internal/config"
	"rosterid/internal/identity"
	"rosterid/internal/logging"
	"rosterid/internal/resolve"
)

// ErrImportRunning is returned when another import holds the batch lock.
var ErrImportRunning = errors.New("importer: another import is already running")

// maxLineBytes bounds a single JSONL record.
const maxLineBytes = 1 << 20

// Summary counts per-record outcomes for one batch.
type Summary struct {
	Total   int
	Matched int
	Created int
	Queued  int
	Skipped int
	Failed  int
}

// Importer drives batch resolution with single-writer locking.
type Importer struct {
	engine        *resolve.Engine
	store         *identity.Store
	lockPath      string
	defaultSource string
	logger        *slog.Logger
}

// New constructs an importer. The batch lock file lives in the data directory
// so concurrent imports against the same store exclude each other.
func New(engine *resolve.Engine, store *identity.Store, cfg *config.Config, logger *slog.Logger) (*Importer, error) {
	if engine == nil || store == nil || cfg == nil {
		return nil, errors.New("importer requires engine, store, and config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	dataDir, err := config.ExpandPath(cfg.Paths.DataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	return &Importer{
		engine:   engine,
		store:    store,
		lockPath: filepath.Join(dataDir, "import.lock"),
		logger:   logging.NewComponentLogger(logger, "importer"),
	}, nil
}

// SetDefaultSource fills in the source tag for batch records that omit one.
// Records carrying their own source keep it.
func (i *Importer) SetDefaultSource(source string) {
	i.defaultSource = strings.ToLower(strings.TrimSpace(source))
}

// ImportFile runs a batch from a JSONL file.
func (i *Importer) ImportFile(ctx context.Context, path string) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch file: %w", err)
	}
	defer f.Close()
	return i.ImportReader(ctx, f)
}

// ImportReader resolves one record per JSON line. Rows that fail integrity
// checks are logged as quality_check audit events and skipped; the batch
// continues. Only store unavailability aborts the batch.
func (i *Importer) ImportReader(ctx context.Context, r io.Reader) (*Summary, error) {
	lock := flock.New(i.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire import lock: %w", err)
	}
	if !ok {
		return nil, ErrImportRunning
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			i.logger.Warn("failed to release import lock", logging.Error(err))
		}
	}()

	summary := &Summary{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		summary.Total++

		var record resolve.Record
		if err := json.Unmarshal([]byte(text), &record); err != nil {
			summary.Failed++
			i.logger.Warn("malformed batch line",
				logging.Int("line", line),
				logging.Error(err))
			continue
		}

		if strings.TrimSpace(record.Source) == "" {
			record.Source = i.defaultSource
		}

		outcome, err := i.engine.Resolve(ctx, record)
		if err != nil {
			// Per-row fail-fast: the offending record is rejected and
			// audited, the batch moves on.
			summary.Failed++
			i.logger.Warn("record rejected",
				logging.Int("line", line),
				logging.String("source", record.Source),
				logging.String("external_id", record.ExternalID),
				logging.Error(err))
			i.auditRejection(ctx, record, err)
			continue
		}

		switch {
		case outcome.Created:
			summary.Created++
		case outcome.Queued:
			summary.Queued++
		case outcome.PlayerUID != "":
			summary.Matched++
		default:
			summary.Skipped++
		}
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("read batch: %w", err)
	}

	i.logger.Info("batch finished",
		logging.Int("total", summary.Total),
		logging.Int("matched", summary.Matched),
		logging.Int("created", summary.Created),
		logging.Int("queued", summary.Queued),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed))
	return summary, nil
}

func (i *Importer) auditRejection(ctx context.Context, record resolve.Record, cause error) {
	source := strings.ToLower(strings.TrimSpace(record.Source))
	externalID := strings.TrimSpace(record.ExternalID)
	if source == "" || externalID == "" {
		return
	}
	if err := i.store.AppendAudit(ctx, identity.AuditEntry{
		Action:     identity.AuditQualityCheck,
		Source:     source,
		ExternalID: externalID,
		Context:    "rejected: " + cause.Error(),
	}); err != nil {
		i.logger.Warn("failed to audit rejected record", logging.Error(err))
	}
}
