package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/leadlab/lead-quality-engine/internal/adapters/sink"
	"github.com/leadlab/lead-quality-engine/internal/adapters/source"
	"github.com/leadlab/lead-quality-engine/internal/artifact"
	"github.com/leadlab/lead-quality-engine/internal/core"
	"github.com/leadlab/lead-quality-engine/internal/ports"
)

// WatchRunner scores every CSV dropped into an inbox directory and writes
// the scored copy to an outbox. It also follows the artifact store's
// latest.json so a trainer can retrain without restarting the daemon: the
// new model is swapped in atomically between batches.
type WatchRunner struct {
	service      *core.LeadScoringService
	formatter    *core.OutputFormatter
	extraSinks   []ports.ResultSink
	store        *artifact.Store
	reloader     ports.ModelReloader
	inboxDir     string
	outboxDir    string
	scoredSuffix string
	settleDelay  time.Duration
	logger       *zap.Logger

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatchRunner creates a watch runner. store and reloader may be nil,
// which disables model hot reload. extraSinks receive every batch after
// the scored CSV is written.
func NewWatchRunner(
	service *core.LeadScoringService,
	formatter *core.OutputFormatter,
	extraSinks []ports.ResultSink,
	store *artifact.Store,
	reloader ports.ModelReloader,
	inboxDir string,
	outboxDir string,
	scoredSuffix string,
	settleDelay time.Duration,
	logger *zap.Logger,
) *WatchRunner {
	if scoredSuffix == "" {
		scoredSuffix = "_scored"
	}
	if settleDelay <= 0 {
		settleDelay = 500 * time.Millisecond
	}
	return &WatchRunner{
		service:      service,
		formatter:    formatter,
		extraSinks:   extraSinks,
		store:        store,
		reloader:     reloader,
		inboxDir:     inboxDir,
		outboxDir:    outboxDir,
		scoredSuffix: scoredSuffix,
		settleDelay:  settleDelay,
		logger:       logger,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
		pending:      make(map[string]*time.Timer),
	}
}

// Start begins watching the inbox. Files already sitting in the inbox
// when the daemon starts are scored first, so a crashed run picks up
// where it left off.
func (r *WatchRunner) Start(ctx context.Context) error {
	for _, dir := range []string{r.inboxDir, r.outboxDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create inbox watcher: %w", err)
	}
	if err := watcher.Add(r.inboxDir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch inbox %s: %w", r.inboxDir, err)
	}
	if r.store != nil && r.reloader != nil {
		if err := watcher.Add(r.store.Dir()); err != nil {
			watcher.Close()
			return fmt.Errorf("failed to watch artifact directory: %w", err)
		}
	}
	r.watcher = watcher

	entries, err := os.ReadDir(r.inboxDir)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("failed to list inbox: %w", err)
	}
	backlog := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && isLeadFile(entry.Name()) {
			backlog = append(backlog, filepath.Join(r.inboxDir, entry.Name()))
		}
	}

	go r.loop(ctx, backlog)

	r.logger.Info("Watching inbox for lead files",
		zap.String("inbox", r.inboxDir),
		zap.String("outbox", r.outboxDir),
		zap.Int("backlog", len(backlog)))
	return nil
}

// Stop shuts the watcher down and waits for the event loop to drain
func (r *WatchRunner) Stop() error {
	close(r.stopCh)
	if r.watcher != nil {
		r.watcher.Close()
	}
	<-r.doneCh

	r.mu.Lock()
	for path, timer := range r.pending {
		timer.Stop()
		delete(r.pending, path)
	}
	r.mu.Unlock()
	return nil
}

func (r *WatchRunner) loop(ctx context.Context, backlog []string) {
	defer close(r.doneCh)

	for _, path := range backlog {
		r.process(ctx, path)
	}

	for {
		select {
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			r.handleEvent(ctx, event)
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.logger.Error("Inbox watcher error", zap.Error(err))
		}
	}
}

// handleEvent debounces per path: exports are often written in several
// chunks, so scoring waits until the file has been quiet for the settle
// delay.
func (r *WatchRunner) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	if r.store != nil && event.Name == r.store.LatestPath() {
		r.debounce(event.Name, func() { r.reloadModel() })
		return
	}
	if filepath.Dir(event.Name) != r.inboxDir || !isLeadFile(filepath.Base(event.Name)) {
		return
	}
	r.debounce(event.Name, func() { r.process(ctx, event.Name) })
}

func (r *WatchRunner) debounce(path string, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if timer, ok := r.pending[path]; ok {
		timer.Stop()
	}
	r.pending[path] = time.AfterFunc(r.settleDelay, func() {
		r.mu.Lock()
		delete(r.pending, path)
		r.mu.Unlock()

		select {
		case <-r.stopCh:
			return
		default:
		}
		fn()
	})
}

func (r *WatchRunner) process(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		// Already consumed or moved away
		return
	}
	if _, err := r.RunOnce(ctx, path); err != nil {
		r.logger.Error("Failed to score lead file",
			zap.String("path", path),
			zap.Error(err))
	}
}

// RunOnce scores one lead file and writes the scored copy to the outbox.
// Extra sinks are fan-out: a CRM or event-stream failure is logged, not
// fatal, since the scored CSV already landed.
func (r *WatchRunner) RunOnce(ctx context.Context, inputPath string) (*core.BatchResult, error) {
	src := source.NewCSVSource(inputPath, r.logger)
	leads, err := src.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", inputPath, err)
	}

	result, err := r.service.ScoreBatch(ctx, leads)
	if err != nil {
		return nil, fmt.Errorf("failed to score %s: %w", inputPath, err)
	}

	outPath := r.outputPath(inputPath)
	csvSink := sink.NewCSVSink(outPath, src.Header(), r.formatter, r.logger)
	if err := csvSink.Write(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to write scored copy: %w", err)
	}

	for _, s := range r.extraSinks {
		if err := s.Write(ctx, result); err != nil {
			r.logger.Error("Result sink failed", zap.Error(err))
		}
	}

	r.logger.Info("Scored lead file",
		zap.String("input", inputPath),
		zap.String("output", outPath),
		zap.Int("leads", result.Stats.Total),
		zap.Int("failed", result.Stats.Failed))
	return result, nil
}

// reloadModel installs the artifact latest.json currently points at
func (r *WatchRunner) reloadModel() {
	a, err := r.store.LoadLatest()
	if err != nil {
		r.logger.Error("Failed to load updated model artifact", zap.Error(err))
		return
	}
	if a.Version == r.service.Model().Version {
		return
	}
	if err := r.reloader.LoadArtifact(a); err != nil {
		r.logger.Error("Failed to install updated model artifact",
			zap.String("version", a.Version),
			zap.Error(err))
		return
	}
	r.logger.Info("Hot-reloaded model artifact", zap.String("version", a.Version))
}

func (r *WatchRunner) outputPath(inputPath string) string {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext) + r.scoredSuffix + ext
	return filepath.Join(r.outboxDir, name)
}

func isLeadFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv") && !strings.HasPrefix(name, ".")
}
