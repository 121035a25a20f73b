package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/leapdplyr/internal/cli/output"
	"github.com/spf13/cobra"
)

// debounceDelay collapses the burst of events an editor save produces.
const debounceDelay = 100 * time.Millisecond

// sourceExtensions are the file types picked up when watching a directory.
var sourceExtensions = []string{".r", ".dplyr"}

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	OutDir string
	Limit  int
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <file|dir>...",
		Short: "Re-transpile files whenever they change",
		Long: `Watch dplyr source files and print fresh SQL every time one is saved.
Directories are watched for .R and .dplyr files. With --out-dir the SQL
is written to <out-dir>/<name>.sql instead of printed.`,
		Example: `  leapdplyr watch query.R
  leapdplyr watch pipelines/ --out-dir sql/ -d snowflake`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.OutDir, "out-dir", "", "Write <name>.sql files to this directory")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Append a LIMIT clause")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string, opts *WatchOptions) error {
	cc, err := NewCommandContext(cmd, opts.Limit)
	if err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	w := newFileWatcher(cc, opts.OutDir)
	for _, arg := range args {
		if err := w.add(fw, arg); err != nil {
			return err
		}
	}
	if len(w.targets) == 0 {
		return usageError(fmt.Errorf("no dplyr source files found in %s", strings.Join(args, ", ")))
	}

	ctx := cmd.Context()
	for _, path := range w.sortedTargets() {
		w.process(ctx, path)
	}
	cc.Renderer.Muted(fmt.Sprintf("Watching %d file(s). Press Ctrl+C to stop.", len(w.targets)))

	w.loop(ctx, fw.Events, fw.Errors)
	return nil
}

// fileWatcher re-transpiles watched files on change.
type fileWatcher struct {
	cc      *CommandContext
	outDir  string
	targets map[string]bool // files whose changes trigger a run
	dirs    map[string]bool // directories whose new source files are picked up

	mu     sync.Mutex // serializes output
	timers map[string]*time.Timer
}

func newFileWatcher(cc *CommandContext, outDir string) *fileWatcher {
	return &fileWatcher{
		cc:      cc,
		outDir:  outDir,
		targets: make(map[string]bool),
		dirs:    make(map[string]bool),
		timers:  make(map[string]*time.Timer),
	}
}

// add registers a file or directory. Files are watched through their
// directory so editors that replace the file on save keep working.
func (w *fileWatcher) add(fw *fsnotify.Watcher, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}

	dir := filepath.Dir(abs)
	if info.IsDir() {
		dir = abs
		w.dirs[abs] = true
		entries, err := os.ReadDir(abs)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if !e.IsDir() && isSourceFile(e.Name()) {
				w.targets[filepath.Join(abs, e.Name())] = true
			}
		}
	} else {
		w.targets[abs] = true
	}
	return fw.Add(dir)
}

func (w *fileWatcher) sortedTargets() []string {
	paths := make([]string, 0, len(w.targets))
	for p := range w.targets {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

func isSourceFile(name string) bool {
	return slices.Contains(sourceExtensions, strings.ToLower(filepath.Ext(name)))
}

// relevant reports whether a change to path should trigger a run.
func (w *fileWatcher) relevant(path string) bool {
	if w.targets[path] {
		return true
	}
	if w.dirs[filepath.Dir(path)] && isSourceFile(path) {
		w.targets[path] = true
		return true
	}
	return false
}

// loop handles file system events until ctx is done or the watcher closes.
func (w *fileWatcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) {
	logger := w.cc.Logger
	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			path, err := filepath.Abs(event.Name)
			if err != nil || !w.relevant(path) {
				continue
			}
			logger.Debug("change detected", slog.String("file", path), slog.String("op", event.Op.String()))
			w.schedule(ctx, path)

		case err, ok := <-errs:
			if !ok {
				return
			}
			logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}

// schedule debounces runs per file.
func (w *fileWatcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(debounceDelay, func() {
		w.process(ctx, path)
	})
}

func (w *fileWatcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range w.timers {
		t.Stop()
	}
}

// process transpiles path and reports the result.
func (w *fileWatcher) process(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r := w.cc.Renderer
	name := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		r.StatusLine(name, "failed", err.Error())
		return
	}
	res, err := w.cc.Transpile(ctx, string(data))
	if err != nil {
		r.StatusLine(name, "failed", "")
		ReportError(r, err, w.cc.Cfg.Lang)
		return
	}

	if w.outDir == "" {
		r.Header(2, fmt.Sprintf("%s (%s)", name, time.Now().Format(time.TimeOnly)))
		r.SQL(res.SQL)
		if r.EffectiveMode() != output.ModeMarkdown {
			r.Println()
		}
		return
	}

	target, err := writeSQLFile(w.outDir, path, res.SQL)
	if err != nil {
		r.StatusLine(name, "failed", err.Error())
		return
	}
	r.StatusLine(name, "success", "→ "+target)
}

// writeSQLFile writes sql to <outDir>/<base name>.sql.
func writeSQLFile(outDir, src, sql string) (string, error) {
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	target := filepath.Join(outDir, base+".sql")
	if err := os.WriteFile(target, []byte(sql+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}
	return target, nil
}
