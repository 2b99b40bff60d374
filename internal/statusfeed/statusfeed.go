// Package statusfeed follows a newline-delimited JSON file of node status
// updates written by an execution backend.
//
// Each line looks like {"node":"fetch","status":"running","progress":40}.
// Blank lines and lines starting with '#' are skipped. The file may not
// exist yet when following starts, and it may be truncated or replaced;
// the follower starts over from the beginning in both cases.
package statusfeed

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/felixgeelhaar/flowcanvas/internal/canvas"
	canvaserrors "github.com/felixgeelhaar/flowcanvas/internal/errors"
	"github.com/felixgeelhaar/flowcanvas/internal/graph"
	"github.com/felixgeelhaar/flowcanvas/internal/log"
)

// Update is one status report for one node
type Update struct {
	Node     string       `json:"node"`
	Status   graph.Status `json:"status"`
	Progress *int         `json:"progress,omitempty"`
}

// ParseLine decodes and checks a single feed line
func ParseLine(line []byte) (Update, error) {
	var u Update
	if err := json.Unmarshal(line, &u); err != nil {
		return Update{}, err
	}
	if u.Node == "" {
		return Update{}, fmt.Errorf("missing node")
	}
	if _, err := graph.ParseStatus(string(u.Status)); err != nil {
		return Update{}, err
	}
	return u, nil
}

// Apply hands an update to the canvas and reports whether it was accepted
func Apply(c *canvas.Canvas, u Update) bool {
	return c.UpdateNodeStatus(u.Node, u.Status, u.Progress)
}

// Option configures a Follower
type Option func(*Follower)

// WithLogger sets the logger for skipped lines and watch errors
func WithLogger(l *log.Logger) Option {
	return func(f *Follower) { f.log = l }
}

// WithErrorHandler receives decode and watch errors; following continues
func WithErrorHandler(fn func(error)) Option {
	return func(f *Follower) { f.onError = fn }
}

// Follower tails one feed file. Its handler runs on the goroutine that
// calls Run or Poll.
type Follower struct {
	path    string
	handle  func(Update)
	onError func(error)
	log     *log.Logger

	offset  int64
	partial []byte
	line    int
}

// NewFollower creates a follower for path delivering updates to handle
func NewFollower(path string, handle func(Update), opts ...Option) *Follower {
	f := &Follower{
		path:   filepath.Clean(path),
		handle: handle,
		log:    log.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.log = f.log.With("component", "statusfeed", "path", f.path)
	return f
}

// Run reads what the file already holds, then follows it until ctx is
// cancelled. The parent directory is watched so the file may be created,
// truncated or replaced while following.
func (f *Follower) Run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return canvaserrors.Wrap(canvaserrors.ErrCodeFeedWatch, "create status feed watcher", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(f.path)); err != nil {
		return canvaserrors.Wrap(canvaserrors.ErrCodeFeedWatch, fmt.Sprintf("watch status feed directory: %s", filepath.Dir(f.path)), err)
	}

	if err := f.Poll(); err != nil {
		return err
	}
	f.log.Debug("following status feed")

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != f.path {
				continue
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				f.reset()
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				if err := f.Poll(); err != nil {
					f.report(err)
				}
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			f.report(canvaserrors.Wrap(canvaserrors.ErrCodeFeedWatch, "status feed watcher", err))
		}
	}
}

// Poll reads any complete lines appended since the last call. A missing
// file is not an error.
func (f *Follower) Poll() error {
	file, err := os.Open(f.path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return canvaserrors.Wrap(canvaserrors.ErrCodeFeedOpen, fmt.Sprintf("open status feed: %s", f.path), err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return canvaserrors.Wrap(canvaserrors.ErrCodeFeedOpen, fmt.Sprintf("stat status feed: %s", f.path), err)
	}
	if info.Size() < f.offset {
		f.log.Info("status feed truncated, starting over")
		f.reset()
	}

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return canvaserrors.Wrap(canvaserrors.ErrCodeFeedOpen, "seek status feed", err)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return canvaserrors.Wrap(canvaserrors.ErrCodeFileReadFailed, "read status feed", err)
	}
	f.offset += int64(len(data))
	f.partial = append(f.partial, data...)

	for {
		i := bytes.IndexByte(f.partial, '\n')
		if i < 0 {
			break
		}
		line := f.partial[:i]
		f.partial = f.partial[i+1:]
		f.line++
		f.deliver(line)
	}
	// keep the unfinished tail in its own buffer
	f.partial = append([]byte(nil), f.partial...)
	return nil
}

func (f *Follower) deliver(line []byte) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] == '#' {
		return
	}
	u, err := ParseLine(line)
	if err != nil {
		f.report(canvaserrors.NewFeedDecodeError(f.line, err))
		return
	}
	f.handle(u)
}

func (f *Follower) reset() {
	f.offset = 0
	f.partial = nil
	f.line = 0
}

func (f *Follower) report(err error) {
	f.log.WithError(err).Warn("status feed problem")
	if f.onError != nil {
		f.onError(err)
	}
}
