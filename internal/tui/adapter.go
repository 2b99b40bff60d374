package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/flowcanvas/internal/statusfeed"
)

// Sender is the part of a tea.Program the feed adapter needs
type Sender interface {
	Send(msg tea.Msg)
}

// FeedAdapter bridges a status feed into a running program. Updates are
// delivered as messages so they are applied on the program's goroutine,
// never concurrently with an edit.
type FeedAdapter struct {
	program  Sender
	follower *statusfeed.Follower
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewFeedAdapter creates an adapter following path and sending to program
func NewFeedAdapter(path string, program Sender, opts ...statusfeed.Option) *FeedAdapter {
	opts = append(opts, statusfeed.WithErrorHandler(func(err error) {
		program.Send(FeedErrorMsg{Err: err})
	}))
	handle := func(u statusfeed.Update) {
		program.Send(StatusMsg{Update: u})
	}
	return &FeedAdapter{
		program:  program,
		follower: statusfeed.NewFollower(path, handle, opts...),
	}
}

// Start follows the feed in the background until Stop or ctx is done
func (a *FeedAdapter) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	a.done = make(chan struct{})
	go func() {
		defer close(a.done)
		if err := a.follower.Run(ctx); err != nil {
			a.program.Send(FeedErrorMsg{Err: err})
		}
	}()
}

// Stop cancels the feed and waits for it to finish
func (a *FeedAdapter) Stop() {
	if a.cancel == nil {
		return
	}
	a.cancel()
	<-a.done
}

// EditorResult describes how an editing session ended
type EditorResult struct {
	Saved bool
	Dirty bool
}

// RunEditor runs the editor full screen until the user quits. When feedPath
// is set, node statuses from that feed are applied while editing.
func RunEditor(ctx context.Context, cfg EditorConfig, feedPath string) (*EditorResult, error) {
	editor := NewEditor(cfg)
	program := tea.NewProgram(editor,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)

	if feedPath != "" {
		feed := NewFeedAdapter(feedPath, program, statusfeed.WithLogger(editor.log))
		feed.Start(ctx)
		defer feed.Stop()
	}

	finalModel, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("run editor: %w", err)
	}

	final, ok := finalModel.(*Editor)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	return &EditorResult{
		Saved: final.savedOnce,
		Dirty: final.Dirty(),
	}, nil
}
