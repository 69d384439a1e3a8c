package inbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yanqian/docsum/internal/domain/documents"
)

const (
	processedDir = "processed"
	failedDir    = "failed"
)

// Submitter receives files dropped into the inbox.
type Submitter interface {
	Upload(ctx context.Context, req documents.UploadRequest) (documents.UploadResponse, error)
	AllowedExtensions() []string
}

// Config controls the watched directory.
type Config struct {
	Dir          string
	NumSentences int
	Debounce     time.Duration
}

// Watcher summarizes every supported file written to Dir. Handled files are
// moved to Dir/processed or Dir/failed.
type Watcher struct {
	cfg       Config
	submitter Submitter
	logger    *slog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatcher prepares the inbox directories.
func NewWatcher(cfg Config, submitter Submitter, logger *slog.Logger) (*Watcher, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, errors.New("inbox dir is required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}
	for _, dir := range []string{cfg.Dir, filepath.Join(cfg.Dir, processedDir), filepath.Join(cfg.Dir, failedDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create inbox dir: %w", err)
		}
	}
	return &Watcher{
		cfg:       cfg,
		submitter: submitter,
		logger:    logger.With("component", "inbox.watcher", "dir", cfg.Dir),
		timers:    make(map[string]*time.Timer),
	}, nil
}

// Run watches until ctx is cancelled. Files already present when Run starts
// are picked up too.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fs watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(w.cfg.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.cfg.Dir, err)
	}

	ready := make(chan string, 16)
	defer w.stopTimers()

	entries, err := os.ReadDir(w.cfg.Dir)
	if err != nil {
		return fmt.Errorf("scan inbox: %w", err)
	}
	for _, entry := range entries {
		path := filepath.Join(w.cfg.Dir, entry.Name())
		if w.accepts(path) {
			w.schedule(ctx, path, ready)
		}
	}
	w.logger.Info("inbox watcher started", "existing", len(entries))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("inbox watcher stopped")
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if path, ok := w.handleFsEvent(event); ok {
				w.schedule(ctx, path, ready)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("fs watcher error", "error", err)
		case path := <-ready:
			w.submit(ctx, path)
		}
	}
}

// handleFsEvent returns the file to submit for create and write events.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if !w.accepts(event.Name) {
		return "", false
	}
	return event.Name, true
}

func (w *Watcher) accepts(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	allowed := w.submitter.AllowedExtensions()
	if len(allowed) == 0 {
		return true
	}
	return slices.Contains(allowed, documents.Extension(base))
}

// schedule restarts the debounce timer of path so a file still being
// written is submitted once.
func (w *Watcher) schedule(ctx context.Context, path string, ready chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.cfg.Debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
}

func (w *Watcher) submit(ctx context.Context, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.logger.Warn("read inbox file failed", "path", path, "error", err)
		}
		return
	}

	req := documents.UploadRequest{
		Filename: filepath.Base(path),
		Content:  content,
		Source:   documents.DocumentSourceInbox,
	}
	if w.cfg.NumSentences > 0 {
		n := w.cfg.NumSentences
		req.NumSentences = &n
	}
	resp, err := w.submitter.Upload(ctx, req)
	if err != nil {
		w.logger.Error("inbox upload failed", "path", path, "error", err)
		w.move(path, failedDir)
		return
	}

	attrs := []any{"path", path, "document_id", resp.Document.ID, "status", resp.Document.Status, "persisted", resp.Persisted}
	if resp.Summary != nil {
		attrs = append(attrs, "strategy", resp.Summary.Strategy, "summary", resp.Summary.Summary)
	}
	w.logger.Info("inbox file summarized", attrs...)
	w.move(path, processedDir)
}

func (w *Watcher) move(path, sub string) {
	target := filepath.Join(w.cfg.Dir, sub, filepath.Base(path))
	if _, err := os.Stat(target); err == nil {
		ext := filepath.Ext(target)
		target = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(target, ext), time.Now().UnixNano(), ext)
	}
	if err := os.Rename(path, target); err != nil {
		w.logger.Warn("move inbox file failed", "path", path, "target", target, "error", err)
	}
}
