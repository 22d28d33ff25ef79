// Package filedoc provides a Document backed by a rendered file on disk.
//
// The file holds the app's rendered output, one text row per line. Its size
// is measured in character cells scaled by a fixed cell size, window resizes
// are simulated through SetViewport, and edits to the file are observed with
// fsnotify. Host context updates are recorded so a preview host can show them.
package filedoc

import (
	"bufio"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"

	"github.com/fsnotify/fsnotify"

	"github.com/wagiedev/mcp-app-bridge-go/internal/config"
	"github.com/wagiedev/mcp-app-bridge-go/internal/hostctx"
	"github.com/wagiedev/mcp-app-bridge-go/internal/sizeobs"
)

const (
	// DefaultCellWidth is the width of one character cell in pixels.
	DefaultCellWidth = 8
	// DefaultCellHeight is the height of one text row in pixels.
	DefaultCellHeight = 16
)

// Compile-time verification that Document satisfies the client collaborators.
var (
	_ config.Document          = (*Document)(nil)
	_ sizeobs.ResizeObserver   = (*Document)(nil)
	_ sizeobs.WindowEvents     = (*Document)(nil)
	_ sizeobs.MutationObserver = (*Document)(nil)
)

// Styling is the host context currently applied to a Document.
type Styling struct {
	Theme       hostctx.Theme
	Fonts       string
	Variables   map[string]string
	DisplayMode hostctx.DisplayMode
}

// Document is a file-backed app surface.
type Document struct {
	log        *slog.Logger
	path       string
	cellWidth  int
	cellHeight int

	mu       sync.Mutex
	viewport int
	styling  Styling
	nextID   int
	resizeFn map[int]func()
}

// Option configures a Document.
type Option func(*Document)

// WithCellSize sets the pixel size of one character cell.
func WithCellSize(width, height int) Option {
	return func(d *Document) {
		if width > 0 {
			d.cellWidth = width
		}

		if height > 0 {
			d.cellHeight = height
		}
	}
}

// WithViewport sets the initial viewport width in pixels.
func WithViewport(width int) Option {
	return func(d *Document) { d.viewport = width }
}

// New creates a Document rendering into path.
func New(log *slog.Logger, path string, opts ...Option) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve document path: %w", err)
	}

	d := &Document{
		log:        log.With("component", "file_document", "path", abs),
		path:       abs,
		cellWidth:  DefaultCellWidth,
		cellHeight: DefaultCellHeight,
		resizeFn:   make(map[int]func()),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

// Path returns the absolute path of the backing file.
func (d *Document) Path() string {
	return d.path
}

// Write replaces the rendered content.
func (d *Document) Write(content []byte) error {
	if err := os.WriteFile(d.path, content, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	return nil
}

// ScrollSize measures the rendered content.
//
// Width is the longest row, but never less than the viewport. Height is the
// number of rows. A missing file measures as an empty document.
func (d *Document) ScrollSize() sizeobs.Size {
	cols, rows, err := d.measure()
	if err != nil && !os.IsNotExist(err) {
		d.log.Debug("Failed to measure document", "error", err)
	}

	d.mu.Lock()
	viewport := d.viewport
	d.mu.Unlock()

	width := cols * d.cellWidth
	if width < viewport {
		width = viewport
	}

	return sizeobs.Size{Width: width, Height: rows * d.cellHeight}
}

// measure counts the rows and widest row of the backing file.
func (d *Document) measure() (cols, rows int, err error) {
	f, err := os.Open(d.path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		rows++

		if n := utf8.RuneCount(scanner.Bytes()); n > cols {
			cols = n
		}
	}

	return cols, rows, scanner.Err()
}

// ObserveResize is unsupported: a file has no layout box of its own, so
// callers fall back to window and mutation observation.
func (d *Document) ObserveResize(func()) (sizeobs.Disconnect, error) {
	return nil, sizeobs.ErrUnsupported
}

// OnWindowResize registers fn to run whenever SetViewport changes the width.
func (d *Document) OnWindowResize(fn func()) (sizeobs.Disconnect, error) {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.resizeFn[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.resizeFn, id)
		d.mu.Unlock()
	}, nil
}

// SetViewport changes the viewport width and notifies resize listeners.
func (d *Document) SetViewport(width int) {
	d.mu.Lock()
	if d.viewport == width {
		d.mu.Unlock()
		return
	}

	d.viewport = width
	listeners := make([]func(), 0, len(d.resizeFn))

	for _, fn := range d.resizeFn {
		listeners = append(listeners, fn)
	}
	d.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// ObserveMutations watches the backing file for changes.
//
// The parent directory is watched so that editors replacing the file
// atomically are observed too. Attribute filters have no file equivalent;
// any write, create, rename or chmod of the file counts as a mutation.
func (d *Document) ObserveMutations(fn func(), opts sizeobs.MutationOptions) (sizeobs.Disconnect, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := w.Add(filepath.Dir(d.path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(d.path), err)
	}

	d.log.Debug("Watching document for mutations",
		"child_list", opts.ChildList,
		"subtree", opts.Subtree,
		"attributes", opts.Attributes,
	)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}

				if filepath.Clean(ev.Name) != d.path {
					continue
				}

				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove|fsnotify.Chmod) != 0 {
					fn()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}

				d.log.Debug("fsnotify error", "error", err)
			}
		}
	}()

	var once sync.Once

	return func() {
		once.Do(func() {
			// Best-effort watcher close; no actionable error handling path.
			_ = w.Close()
			<-done
		})
	}, nil
}

// ApplyTheme implements hostctx.Applier.
func (d *Document) ApplyTheme(theme hostctx.Theme) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.styling.Theme = theme
	d.log.Debug("Applied theme", "theme", theme)
}

// ApplyFonts implements hostctx.Applier.
func (d *Document) ApplyFonts(css string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.styling.Fonts = css
}

// ApplyStyleVariables implements hostctx.Applier.
func (d *Document) ApplyStyleVariables(vars map[string]string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.styling.Variables = maps.Clone(vars)
}

// ApplyDisplayMode implements hostctx.Applier.
func (d *Document) ApplyDisplayMode(mode hostctx.DisplayMode) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.styling.DisplayMode = mode
	d.log.Debug("Applied display mode", "display_mode", mode)
}

// Styling returns a copy of the applied host context.
func (d *Document) Styling() Styling {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := d.styling
	out.Variables = maps.Clone(d.styling.Variables)

	return out
}
