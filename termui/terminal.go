package termui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

var (
	ErrNotTerminal = errors.New("not a terminal")
	ErrClosed      = errors.New("terminal closed")
)

type EventKind int

const (
	KeyEvent EventKind = iota
	ResizeEvent
)

// Event is one input event: a key press or a new terminal size.
type Event struct {
	Kind   EventKind
	Key    Key
	Width  int
	Height int
}

// Terminal is the screen the event loop draws on. Implementations must
// allow Stop to be called more than once, and before or after a failed
// Start.
type Terminal interface {
	// Start switches the terminal into the mode the viewer needs.
	Start() error

	// Stop restores the mode the terminal had before Start.
	Stop() error

	// Size returns the width and height in cells.
	Size() (int, int, error)

	// ReadEvent blocks until the next event or until ctx is done.
	ReadEvent(ctx context.Context) (Event, error)

	// Draw replaces the screen contents with frame.
	Draw(frame string) error
}

const (
	enterAltScreen = "\x1b[?1049h"
	exitAltScreen  = "\x1b[?1049l"
	hideCursor     = "\x1b[?25l"
	showCursor     = "\x1b[?25h"
	beginSync      = "\x1b[?2026h"
	endSync        = "\x1b[?2026l"
	cursorHome     = "\x1b[H"
	eraseLine      = "\x1b[K"
	eraseBelow     = "\x1b[J"
)

// ProcessTerminal drives a real tty: raw mode through termios, the
// alternate screen and SIGWINCH for resizes. Input is read and decoded on
// helper goroutines so ReadEvent can honour ctx; they only feed channels.
type ProcessTerminal struct {
	in  *os.File
	out *os.File

	events chan Event
	errs   chan error
	sigCh  chan os.Signal
	done   chan struct{}

	mu       sync.Mutex
	orig     *unix.Termios
	started  bool
	stopOnce sync.Once
	stopErr  error
}

func NewProcessTerminal(in, out *os.File) *ProcessTerminal {
	return &ProcessTerminal{
		in:     in,
		out:    out,
		events: make(chan Event, 64),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}
}

func (t *ProcessTerminal) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return nil
	}

	fd := int(t.in.Fd())

	orig, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return fmt.Errorf("%w: get termios: %w", ErrNotTerminal, err)
	}

	raw := *orig
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, &raw); err != nil {
		return fmt.Errorf("set raw mode: %w", err)
	}

	t.orig = orig
	t.started = true

	if _, err := io.WriteString(t.out, enterAltScreen+hideCursor); err != nil {
		return fmt.Errorf("enter alternate screen: %w", err)
	}

	t.sigCh = make(chan os.Signal, 1)
	signal.Notify(t.sigCh, syscall.SIGWINCH)

	chunks := make(chan inputChunk)

	go t.readInput(chunks)
	go t.decodeInput(chunks)
	go t.watchResize()

	return nil
}

// Stop leaves the alternate screen and restores termios. Only the first
// call does anything; later calls return its result.
func (t *ProcessTerminal) Stop() error {
	t.stopOnce.Do(func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		close(t.done)

		if t.sigCh != nil {
			signal.Stop(t.sigCh)
		}

		if !t.started {
			return
		}

		_, werr := io.WriteString(t.out, showCursor+exitAltScreen)
		rerr := unix.IoctlSetTermios(int(t.in.Fd()), ioctlWriteTermios, t.orig)

		if rerr != nil {
			rerr = fmt.Errorf("restore termios: %w", rerr)
		}

		t.stopErr = errors.Join(werr, rerr)
	})

	return t.stopErr
}

func (t *ProcessTerminal) Size() (int, int, error) {
	ws, err := unix.IoctlGetWinsize(int(t.out.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, fmt.Errorf("get window size: %w", err)
	}

	return int(ws.Col), int(ws.Row), nil
}

// ReadEvent returns queued events before any read error.
func (t *ProcessTerminal) ReadEvent(ctx context.Context) (Event, error) {
	select {
	case ev := <-t.events:
		return ev, nil
	default:
	}

	select {
	case ev := <-t.events:
		return ev, nil
	case err := <-t.errs:
		return Event{}, err
	case <-t.done:
		return Event{}, ErrClosed
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

// Draw writes a full frame inside a synchronized update so the terminal
// never shows half of it.
func (t *ProcessTerminal) Draw(frame string) error {
	var b strings.Builder

	b.WriteString(beginSync + cursorHome)

	for i, line := range strings.Split(frame, "\n") {
		if i > 0 {
			b.WriteString("\r\n")
		}

		b.WriteString(line)
		b.WriteString(eraseLine)
	}

	b.WriteString(eraseBelow + endSync)

	if _, err := io.WriteString(t.out, b.String()); err != nil {
		return fmt.Errorf("draw: %w", err)
	}

	return nil
}

// inputChunk is one read from the input file.
type inputChunk struct {
	data []byte
	err  error
}

func (t *ProcessTerminal) readInput(chunks chan<- inputChunk) {
	buf := make([]byte, 4096)

	for {
		n, err := t.in.Read(buf)

		select {
		case chunks <- inputChunk{data: slices.Clone(buf[:n]), err: err}:
		case <-t.done:
			return
		}

		if err != nil {
			return
		}
	}
}

// decodeInput turns chunks into key events. An escape prefix left at the
// end of a chunk waits escDelay for the rest of its sequence.
func (t *ProcessTerminal) decodeInput(chunks <-chan inputChunk) {
	var d keyDecoder

	timer := time.NewTimer(escDelay)
	timer.Stop()

	for {
		select {
		case c := <-chunks:
			if !t.emit(d.Feed(c.data)) {
				return
			}

			if c.err != nil {
				if !t.emit(d.Flush()) {
					return
				}

				select {
				case t.errs <- fmt.Errorf("read input: %w", c.err):
				case <-t.done:
				}

				return
			}

			if d.Pending() {
				timer.Reset(escDelay)
			}
		case <-timer.C:
			if !t.emit(d.Flush()) {
				return
			}
		case <-t.done:
			return
		}
	}
}

// emit queues key events and reports false once the terminal is stopped.
func (t *ProcessTerminal) emit(keys []Key) bool {
	for _, k := range keys {
		select {
		case t.events <- Event{Kind: KeyEvent, Key: k}:
		case <-t.done:
			return false
		}
	}

	return true
}

func (t *ProcessTerminal) watchResize() {
	for {
		select {
		case <-t.sigCh:
			w, h, err := t.Size()
			if err != nil {
				continue
			}

			select {
			case t.events <- Event{Kind: ResizeEvent, Width: w, Height: h}:
			case <-t.done:
				return
			}
		case <-t.done:
			return
		}
	}
}
