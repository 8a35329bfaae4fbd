// link.go — the Injector Link: an ordered, rate-limited write
// channel to the serial device, plus a diagnostic reader and an emergency
// stop flag.
//
// Grounded on the teacher's internal/queries dispatcher for the
// "enqueue + single consumer + completion signal" shape, adapted here from
// an async-result map to a literal FIFO channel since the Injector never
// talks back about command completion — only the fixed inter-command gap
// provides back-pressure.
package injector

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/formpilot/pilotd/internal/util"
)

// ErrDeviceAbsent is returned when the serial port cannot be opened.
var ErrDeviceAbsent = errors.New("injector: serial device absent")

// WriteGap is the fixed pause after every queued write, standing in for
// acknowledgement from the free-running firmware.
const WriteGap = 50 * time.Millisecond

// Port is the minimal device surface the Link needs. Satisfied by
// go.bug.st/serial.Port; a fake in tests lets the pipeline and ordering
// invariants be exercised without real hardware.
type Port interface {
	io.ReadWriteCloser
}

type commandRequest struct {
	line string
	done chan struct{}
}

// Link owns the serial port for the process lifetime and serializes all
// writes to it.
type Link struct {
	port   Port
	logger zerolog.Logger

	queue chan commandRequest
	wg    sync.WaitGroup

	writeMu sync.Mutex
	stopped atomic.Bool
	closed  atomic.Bool
}

// NewLink wraps an already-open Port. Starts the queue consumer and the
// diagnostic line reader as background goroutines.
func NewLink(port Port, logger zerolog.Logger) *Link {
	l := &Link{
		port:   port,
		logger: logger,
		queue:  make(chan commandRequest, 256),
	}
	l.wg.Add(1)
	util.SafeGo(l.consume)
	util.SafeGo(l.readDiagnostics)
	return l
}

// isBlockedKey reports whether cmd is a KEY command naming a key the
// Coordinator refuses to forward — currently just Enter, an OS
// keyboard-shortcut hazard (spec §6).
func isBlockedKey(cmd string) bool {
	keyword, arg, found := strings.Cut(cmd, ",")
	return found && strings.TrimSpace(keyword) == "KEY" && strings.EqualFold(strings.TrimSpace(arg), "Enter")
}

// Send enqueues a queued command (CLICK, SCROLL, TYPE, KEY, COMBO — spec
// §4.6) and blocks until the consumer has written it and the fixed gap has
// elapsed. Safe for concurrent callers, though in practice only one action
// holds the sequencer at a time. KEY,Enter is refused outright rather than
// queued — see isBlockedKey.
func (l *Link) Send(cmd string) {
	if l.closed.Load() {
		return
	}
	if isBlockedKey(cmd) {
		l.logger.Warn().Str("command", cmd).Msg("injector: KEY,Enter blocked")
		return
	}
	req := commandRequest{line: cmd, done: make(chan struct{})}
	l.queue <- req
	<-req.done
}

// WriteDirect bypasses the queue for MOVE commands emitted by the Motion
// Engine, whose ordering is already guaranteed because only one action
// holds the sequencer at a time. Shares writeMu with the
// queue consumer so bytes of two commands are never interleaved.
func (l *Link) WriteDirect(cmd string) error {
	if l.stopped.Load() || l.closed.Load() {
		return nil
	}
	return l.writeLine(cmd)
}

func (l *Link) consume() {
	defer l.wg.Done()
	for req := range l.queue {
		if l.stopped.Load() {
			close(req.done)
			continue
		}
		if err := l.writeLine(req.line); err != nil {
			l.logger.Error().Err(err).Str("command", req.line).Msg("injector write failed")
		}
		time.Sleep(WriteGap)
		close(req.done)
	}
}

func (l *Link) writeLine(cmd string) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	_, err := l.port.Write([]byte(cmd + "\r\n"))
	return err
}

// readDiagnostics logs inbound lines from the device. Diagnostic only —
// never awaited, never parsed for acknowledgement.
func (l *Link) readDiagnostics() {
	scanner := bufio.NewScanner(l.port)
	for scanner.Scan() {
		l.logger.Debug().Str("line", scanner.Text()).Msg("injector diagnostic")
	}
}

// EmergencyStop sets the process-wide stop flag: the pipeline drains
// without writing further, and Send/WriteDirect return immediately.
func (l *Link) EmergencyStop() {
	l.stopped.Store(true)
}

// Stopped reports whether emergency stop has been engaged.
func (l *Link) Stopped() bool {
	return l.stopped.Load()
}

// Close drains the queue and closes the underlying port. Safe to call once
// at shutdown.
func (l *Link) Close() error {
	if l.closed.CompareAndSwap(false, true) {
		l.stopped.Store(true)
		close(l.queue)
		l.wg.Wait()
		return l.port.Close()
	}
	return nil
}

// OpenErrorf wraps a lower-level open failure with ErrDeviceAbsent so
// callers can classify it via errors.Is.
func OpenErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrDeviceAbsent}, args...)...)
}
