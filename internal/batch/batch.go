// Package batch processes a directory tree of MusicXML files on a worker
// pool: each input is converted through the shared pipeline, its output is
// written atomically, the input is moved into a per-status bucket directory,
// and the outcome is recorded in the SQLite job state store.
package batch

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/musicxml-lrc/core/errors"
	"github.com/FocuswithJustin/musicxml-lrc/core/pipeline"
	"github.com/FocuswithJustin/musicxml-lrc/internal/fileutil"
	"github.com/FocuswithJustin/musicxml-lrc/internal/logging"
	"github.com/FocuswithJustin/musicxml-lrc/internal/state"
)

// Outcome batching thresholds for the DB writer goroutine.
const (
	flushBatchSize = 500
	flushInterval  = 750 * time.Millisecond
)

// Config collects everything a batch run needs. Zero-value fields fall back
// to the documented defaults relative to Root.
type Config struct {
	Root       string
	InputDir   string // default <Root>/input
	OutputDir  string // default <Root>/lrc
	BaseLRCDir string // optional; base LRC files matched by relative path
	DBPath     string // default <Root>/state.sqlite
	Workers    int    // default runtime.NumCPU()
	QueueSize  int    // default 5000
	Exts       []string
	NoMove     bool // debug: leave inputs in place
	NoOutput   bool // debug: skip writing LRC files

	Pipeline pipeline.Options
}

func (c *Config) applyDefaults() {
	if c.InputDir == "" {
		c.InputDir = filepath.Join(c.Root, "input")
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.Root, "lrc")
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.Root, "state.sqlite")
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 5000
	}
	if len(c.Exts) == 0 {
		c.Exts = []string{"musicxml", "xml"}
	}
}

// job is one input file queued for a worker.
type job struct {
	inputPath string
	relPath   string
}

// buckets are the per-status destinations inputs are moved into after
// processing. Filesystem placement is the durable record; the DB row points
// at it.
type buckets struct {
	success       string
	noLyrics      string
	unprocessable string
	failed        string
}

func newBuckets(root string) buckets {
	return buckets{
		success:       filepath.Join(root, "out_success"),
		noLyrics:      filepath.Join(root, "out_no_lyrics"),
		unprocessable: filepath.Join(root, "out_unprocessable"),
		failed:        filepath.Join(root, "out_failed"),
	}
}

func (b buckets) ensure() error {
	for _, dir := range []string{b.success, b.noLyrics, b.unprocessable, b.failed} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// forStatus returns the bucket root for a terminal status, or "" when the
// input should stay where it is.
func (b buckets) forStatus(s state.Status) string {
	switch s {
	case state.StatusDone:
		return b.success
	case state.StatusNoLyrics:
		return b.noLyrics
	case state.StatusUnprocessable:
		return b.unprocessable
	case state.StatusFailed:
		return b.failed
	default:
		return ""
	}
}

// Run executes one batch pass: scan, process, record. It returns once every
// discovered input has a recorded outcome.
func Run(cfg Config) error {
	cfg.applyDefaults()

	store, err := state.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Recover(); err != nil {
		return errors.Wrap(err, "startup recovery")
	}

	bkts := newBuckets(cfg.Root)
	if !cfg.NoMove {
		if err := bkts.ensure(); err != nil {
			return errors.Wrap(err, "creating bucket directories")
		}
	}
	if err := os.MkdirAll(cfg.InputDir, 0755); err != nil {
		return errors.Wrap(err, "creating input directory")
	}
	if !cfg.NoOutput {
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return errors.Wrap(err, "creating output directory")
		}
	}

	runID := uuid.NewString()
	logging.Info("batch run starting",
		"run_id", runID,
		"input_dir", cfg.InputDir,
		"workers", cfg.Workers,
		"driver", state.DriverName())

	jobs := make(chan job, cfg.QueueSize)
	outcomes := make(chan state.Outcome, cfg.QueueSize)

	// Outcome writer: batches DB updates so workers never block on SQLite.
	writerDone := make(chan error, 1)
	go func() {
		writerDone <- writeOutcomes(store, outcomes)
	}()

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(cfg, bkts, jobs, outcomes)
		}()
	}

	enqueued, err := scan(cfg, store, runID, jobs)
	close(jobs)
	if err != nil {
		// Workers drain whatever was enqueued before the scan failed.
		wg.Wait()
		close(outcomes)
		<-writerDone
		return err
	}

	wg.Wait()
	close(outcomes)
	if err := <-writerDone; err != nil {
		return errors.Wrap(err, "recording outcomes")
	}

	counts, err := store.CountByStatus()
	if err != nil {
		return err
	}
	logging.Info("batch run finished",
		"run_id", runID,
		"enqueued", enqueued,
		"done", counts[state.StatusDone],
		"no_lyrics", counts[state.StatusNoLyrics],
		"unprocessable", counts[state.StatusUnprocessable],
		"failed", counts[state.StatusFailed])
	return nil
}

// scan walks the input tree, registers matching files as pending, and feeds
// them to the workers. Files already done with unchanged mtime and size are
// skipped.
func scan(cfg Config, store *state.Store, runID string, jobs chan<- job) (int, error) {
	exts := make(map[string]bool, len(cfg.Exts))
	for _, e := range cfg.Exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			exts[e] = true
		}
	}

	enqueued := 0
	err := filepath.WalkDir(cfg.InputDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if !exts[ext] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		mtime := info.ModTime().Unix()
		size := info.Size()

		done, err := store.IsDone(path, mtime, size)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if err := store.UpsertPending(path, mtime, size, runID); err != nil {
			return err
		}

		rel, err := filepath.Rel(cfg.InputDir, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		jobs <- job{inputPath: path, relPath: rel}
		enqueued++
		if enqueued%5000 == 0 {
			logging.Info("scan progress", "enqueued", enqueued)
		}
		return nil
	})
	return enqueued, err
}

// writeOutcomes drains the outcome channel into the store in batches.
func writeOutcomes(store *state.Store, outcomes <-chan state.Outcome) error {
	batch := make([]state.Outcome, 0, flushBatchSize)
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case o, ok := <-outcomes:
			if !ok {
				return store.RecordOutcomes(batch)
			}
			batch = append(batch, o)
			if len(batch) >= flushBatchSize {
				if err := store.RecordOutcomes(batch); err != nil {
					return err
				}
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				if err := store.RecordOutcomes(batch); err != nil {
					return err
				}
				batch = batch[:0]
			}
		}
	}
}

// worker converts queued inputs until the job channel closes.
func worker(cfg Config, bkts buckets, jobs <-chan job, outcomes chan<- state.Outcome) {
	for j := range jobs {
		started := time.Now()
		outcome := processJob(cfg, j)

		if !cfg.NoMove {
			if bucketRoot := bkts.forStatus(outcome.Status); bucketRoot != "" {
				dest := filepath.Join(bucketRoot, j.relPath)
				if err := fileutil.Move(j.inputPath, dest); err != nil {
					outcome.Status = state.StatusFailed
					outcome.ReasonCode = "MOVE_FAILED"
					outcome.Error = err.Error()
				} else {
					outcome.DestPath = dest
				}
			}
		}

		outcome.DurationMS = time.Since(started).Milliseconds()
		outcomes <- outcome
	}
}

// processJob runs the conversion pipeline for one input and classifies the
// result into the status taxonomy.
func processJob(cfg Config, j job) state.Outcome {
	outcome := state.Outcome{InputPath: j.inputPath}

	data, err := os.ReadFile(j.inputPath)
	if err != nil {
		outcome.Status = state.StatusFailed
		outcome.ReasonCode = "READ_FAILED"
		outcome.Error = err.Error()
		return outcome
	}
	sum := blake3.Sum256(data)
	outcome.Blake3 = hex.EncodeToString(sum[:])

	var baseLRC []byte
	enhanced := false
	if cfg.BaseLRCDir != "" {
		basePath := withExt(filepath.Join(cfg.BaseLRCDir, j.relPath), ".lrc")
		if b, err := os.ReadFile(basePath); err == nil {
			baseLRC = b
			enhanced = true
		}
	}

	lines, err := pipeline.Process(data, baseLRC, cfg.Pipeline)
	if err != nil {
		switch {
		case errors.Is(err, errors.ErrNoLyrics):
			outcome.Status = state.StatusNoLyrics
			outcome.ReasonCode = "NO_LYRICS"
		case errors.Is(err, errors.ErrPartNotFound), errors.Is(err, errors.ErrInvalidInput):
			outcome.Status = state.StatusUnprocessable
			outcome.ReasonCode = "UNPROCESSABLE"
		default:
			outcome.Status = state.StatusFailed
			outcome.ReasonCode = "FAILED"
		}
		outcome.Error = err.Error()
		return outcome
	}

	if !cfg.NoOutput {
		outPath := withExt(filepath.Join(cfg.OutputDir, j.relPath), ".lrc")
		if err := fileutil.WriteLines(outPath, lines); err != nil {
			outcome.Status = state.StatusFailed
			outcome.ReasonCode = "WRITE_FAILED"
			outcome.Error = err.Error()
			return outcome
		}
		outcome.OutputPath = outPath
	}

	outcome.Status = state.StatusDone
	if enhanced {
		outcome.ReasonCode = "ENHANCED"
	} else {
		outcome.ReasonCode = "EXTRACTED"
	}
	return outcome
}

// withExt replaces path's extension with ext.
func withExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
