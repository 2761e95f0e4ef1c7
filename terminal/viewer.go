package terminal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Options configures Run.
type Options struct {
	// Reload triggers a fresh Render of the source, typically from Watch.
	Reload <-chan struct{}
	Logger *slog.Logger
}

const panStep = 4

type view struct {
	screen tcell.Screen
	src    Source
	pager  *Pager
	status string // Last reload error, shown in the status line
	logger *slog.Logger
}

// Run shows the source on screen until the user quits or ctx is done.
// The screen must already be initialized; Run does not finalize it.
func Run(ctx context.Context, screen tcell.Screen, src Source, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	v := &view{screen: screen, src: src, pager: NewPager(""), logger: logger}
	if err := v.reload(); err != nil {
		return err
	}

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go screen.ChannelEvents(events, quit)
	defer close(quit)

	for {
		v.draw()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-opts.Reload:
			if !ok {
				opts.Reload = nil
				continue
			}
			if err := v.reload(); err != nil {
				v.status = err.Error()
				v.logger.Warn("Reload failed", "source", src.Title(), "error", err)
			}
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if done := v.handle(ev); done {
				return nil
			}
		}
	}
}

func (v *view) reload() error {
	text, err := v.src.Render()
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", v.src.Title(), err)
	}
	v.pager.SetContent(text)
	w, h := v.screen.Size()
	v.pager.Clamp(w, h-1)
	v.status = ""
	v.logger.Debug("Rendered source", "source", v.src.Title(), "lines", v.pager.Len())
	return nil
}

// handle applies one event and reports whether the viewer should exit.
func (v *view) handle(ev tcell.Event) bool {
	w, h := v.screen.Size()
	body := h - 1
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
		v.pager.Clamp(w, body)
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyUp:
			v.pager.ScrollBy(-1, body)
		case tcell.KeyDown:
			v.pager.ScrollBy(1, body)
		case tcell.KeyLeft:
			v.pager.PanBy(-panStep, w)
		case tcell.KeyRight:
			v.pager.PanBy(panStep, w)
		case tcell.KeyPgUp:
			v.pager.Page(-1, body)
		case tcell.KeyPgDn:
			v.pager.Page(1, body)
		case tcell.KeyHome:
			v.pager.ScrollTo(0, body)
		case tcell.KeyEnd:
			v.pager.ScrollTo(v.pager.Len(), body)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return true
			case 'k':
				v.pager.ScrollBy(-1, body)
			case 'j':
				v.pager.ScrollBy(1, body)
			case 'h':
				v.pager.PanBy(-panStep, w)
			case 'l':
				v.pager.PanBy(panStep, w)
			case 'b':
				v.pager.Page(-1, body)
			case ' ':
				v.pager.Page(1, body)
			case 'g':
				v.pager.ScrollTo(0, body)
			case 'G':
				v.pager.ScrollTo(v.pager.Len(), body)
			case 'r':
				if err := v.reload(); err != nil {
					v.status = err.Error()
				}
			}
		}
	}
	return false
}

func (v *view) draw() {
	s := v.screen
	s.Clear()
	w, h := s.Size()
	row, col := v.pager.Offset()
	for y, line := range v.pager.Visible(h - 1) {
		putLine(s, y, line, col, w, tcell.StyleDefault)
	}

	status := fmt.Sprintf(" %s  %d-%d/%d  q quit  r reload", v.src.Title(), row+1, min(row+h-1, v.pager.Len()), v.pager.Len())
	if v.status != "" {
		status = " " + v.status
	}
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < w; x++ {
		s.SetContent(x, h-1, ' ', nil, style)
	}
	putLine(s, h-1, status, 0, w, style)
	s.Show()
}

// putLine draws line on row y, skipping the first skip cells.
func putLine(s tcell.Screen, y int, line string, skip, width int, style tcell.Style) {
	x := -skip
	for _, r := range line {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x >= 0 && x+rw <= width {
			s.SetContent(x, y, r, nil, style)
		}
		x += rw
		if x >= width {
			return
		}
	}
}
