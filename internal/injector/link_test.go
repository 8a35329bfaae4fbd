package injector

import (
	"bytes"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePort is an in-memory Port: writes accumulate in a buffer (guarded by
// a mutex since the consumer and test goroutines both touch it), reads
// come from an io.Reader supplied up front (diagnostic lines).
type fakePort struct {
	mu      sync.Mutex
	written [][]byte
	r       io.Reader
}

func newFakePort(diagnostics string) *fakePort {
	return &fakePort{r: bytes.NewBufferString(diagnostics)}
}

func (f *fakePort) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := append([]byte(nil), p...)
	f.written = append(f.written, cp)
	return len(p), nil
}

func (f *fakePort) Read(p []byte) (int, error) { return f.r.Read(p) }
func (f *fakePort) Close() error               { return nil }

func (f *fakePort) lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.written))
	for i, b := range f.written {
		out[i] = string(b)
	}
	return out
}

func TestLink_SendWritesLineWithCRLF(t *testing.T) {
	p := newFakePort("")
	l := NewLink(p, zerolog.Nop())
	defer l.Close()

	l.Send("CLICK")
	assert.Equal(t, []string{"CLICK\r\n"}, p.lines())
}

func TestLink_PreservesEnqueueOrder(t *testing.T) {
	p := newFakePort("")
	l := NewLink(p, zerolog.Nop())
	defer l.Close()

	for _, cmd := range []string{"CLICK", "SCROLL,5", "TYPE,h"} {
		l.Send(cmd)
	}
	assert.Equal(t, []string{"CLICK\r\n", "SCROLL,5\r\n", "TYPE,h\r\n"}, p.lines())
}

func TestLink_EmergencyStopDrainsWithoutWriting(t *testing.T) {
	p := newFakePort("")
	l := NewLink(p, zerolog.Nop())
	defer l.Close()

	l.EmergencyStop()
	done := make(chan struct{})
	go func() {
		l.Send("CLICK")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Send did not return after emergency stop")
	}
	assert.Empty(t, p.lines())
}

func TestLink_WriteDirectBypassesQueueButSharesLock(t *testing.T) {
	p := newFakePort("")
	l := NewLink(p, zerolog.Nop())
	defer l.Close()

	require.NoError(t, l.WriteDirect("MOVE,10,5"))
	l.Send("CLICK")
	assert.Equal(t, []string{"MOVE,10,5\r\n", "CLICK\r\n"}, p.lines())
}

func TestLink_BlocksKeyEnter(t *testing.T) {
	p := newFakePort("")
	l := NewLink(p, zerolog.Nop())
	defer l.Close()

	l.Send("KEY,Enter")
	l.Send("KEY,enter")
	l.Send("CLICK")
	assert.Equal(t, []string{"CLICK\r\n"}, p.lines())
}

func TestLink_AllowsOtherNamedKeys(t *testing.T) {
	p := newFakePort("")
	l := NewLink(p, zerolog.Nop())
	defer l.Close()

	l.Send("KEY,Backspace")
	assert.Equal(t, []string{"KEY,Backspace\r\n"}, p.lines())
}

func TestLink_CloseIsIdempotent(t *testing.T) {
	p := newFakePort("")
	l := NewLink(p, zerolog.Nop())
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
}
