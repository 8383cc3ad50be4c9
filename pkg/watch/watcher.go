package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/inclint/pkg/linter"
	"github.com/platinummonkey/inclint/pkg/observability"
	"github.com/platinummonkey/inclint/pkg/scanner"
)

// Options configures a Watcher
type Options struct {
	// Roots are the directories to watch recursively
	Roots []string

	// Delay is the quiet period before a changed file is linted
	Delay time.Duration

	// Fix rewrites include blocks instead of only reporting
	Fix bool

	Logger  logrus.FieldLogger
	Metrics *observability.Metrics
}

// Watcher lints C-family sources under a set of roots whenever they change
type Watcher struct {
	engine *linter.LintEngine
	queue  *Queue
	store  *Store
	opts   Options
	log    logrus.FieldLogger
	fsw    *fsnotify.Watcher
	tick   time.Duration
}

// New creates a watcher. Call Run to start it and Close to release the
// underlying notifier.
func New(engine *linter.LintEngine, opts Options) (*Watcher, error) {
	if len(opts.Roots) == 0 {
		return nil, errors.New("no directories to watch")
	}
	if opts.Delay <= 0 {
		opts.Delay = 500 * time.Millisecond
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(os.Stderr)
		log = l
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	tick := opts.Delay / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}

	return &Watcher{
		engine: engine,
		queue:  NewQueue(opts.Delay),
		store:  NewStore(),
		opts:   opts,
		log:    log,
		fsw:    fsw,
		tick:   tick,
	}, nil
}

// Store returns the results store
func (w *Watcher) Store() *Store { return w.store }

// Queue returns the pending-file queue
func (w *Watcher) Queue() *Queue { return w.queue }

// Close stops the underlying file notifier
func (w *Watcher) Close() error { return w.fsw.Close() }

// Run watches the roots until ctx is done. Every existing source is linted
// once at startup.
func (w *Watcher) Run(ctx context.Context) error {
	for _, root := range w.opts.Roots {
		if err := w.addTree(root); err != nil {
			return fmt.Errorf("failed to watch %s: %w", root, err)
		}
	}

	initial, err := linter.ExpandPaths(w.opts.Roots, w.engine.Config())
	if err != nil {
		return fmt.Errorf("failed to find sources: %w", err)
	}
	for _, path := range initial {
		w.queue.AddWithDelay(path, w.opts.Delay)
	}
	w.log.WithField("files", len(initial)).Info("Started watching for include changes")

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.HandleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("Watcher error")
		case <-ticker.C:
			if paths := w.queue.Ready(); len(paths) > 0 {
				if _, err := w.Process(ctx, paths); err != nil && ctx.Err() == nil {
					w.log.WithError(err).Error("Lint pass failed")
				}
			}
		}
	}
}

// HandleEvent queues sources touched by event and starts watching new
// directories
func (w *Watcher) HandleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		w.queue.Remove(event.Name)
		w.store.Delete(event.Name)
		return
	}

	if event.Op&fsnotify.Create != 0 {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			if w.skipDir(event.Name) {
				return
			}
			w.log.WithField("dir", event.Name).Info("New directory")
			if err := w.addTree(event.Name); err != nil {
				w.log.WithError(err).Warn("Error watching new directory")
			}
			// Files may land before the directory is watched.
			if found, err := linter.FindSources(event.Name, w.engine.Config()); err == nil {
				for _, f := range found {
					w.queue.Add(f)
				}
			}
			return
		}
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	if !scanner.IsSource(event.Name, w.engine.Config().Lint.Extensions) || w.ignored(event.Name) {
		return
	}
	w.log.WithField("file", event.Name).Debug("Modified file")
	w.queue.Add(event.Name)
}

// Process lints paths now and records the results
func (w *Watcher) Process(ctx context.Context, paths []string) ([]linter.LintResult, error) {
	runID := uuid.NewString()
	ctx = observability.WithRunID(ctx, runID)
	log := w.log.WithField("run_id", runID)

	var (
		results []linter.LintResult
		err     error
	)
	if w.opts.Fix {
		results, err = w.engine.FixFiles(ctx, paths)
	} else {
		results, err = w.engine.LintFiles(ctx, paths)
	}

	now := time.Now()
	for _, result := range results {
		if result.Error != "" {
			w.store.Delete(result.FilePath)
			if ctx.Err() != nil {
				// Cancelled before it was checked.
				w.queue.Add(result.FilePath)
				continue
			}
			log.WithFields(logrus.Fields{
				"file":  result.FilePath,
				"error": result.Error,
			}).Warn("Failed to lint file")
			continue
		}
		if _, statErr := os.Stat(result.FilePath); statErr != nil {
			w.store.Delete(result.FilePath)
			continue
		}
		w.store.Put(runID, result, now)
		for _, v := range result.Violations {
			log.WithFields(logrus.Fields{
				"file": result.FilePath,
				"line": v.Position.Line,
				"rule": v.Rule,
			}).Warn(v.Message)
		}
		if result.Fixed {
			log.WithField("file", result.FilePath).Info("Fixed include order")
		}
	}
	w.opts.Metrics.RecordWatchRun()

	summary := w.engine.GenerateSummary(results)
	log.WithFields(logrus.Fields{
		"files":      summary.TotalFiles,
		"violations": summary.TotalViolations,
		"failed":     summary.Failed,
	}).Info("Lint pass complete")

	return results, err
}

// addTree recursively adds all directories under root to the notifier
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skipDir(path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) skipDir(path string) bool {
	name := filepath.Base(path)
	return strings.HasPrefix(name, ".") || name == "vendor" || name == "third_party" || w.ignored(path)
}

func (w *Watcher) ignored(path string) bool {
	for _, root := range w.opts.Roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if w.engine.Config().Ignored(rel) {
			return true
		}
	}
	return false
}
