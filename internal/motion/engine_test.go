package motion

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formpilot/pilotd/internal/probe"
)

type fakeInjector struct {
	commands []string
}

func (f *fakeInjector) WriteDirect(cmd string) error {
	f.commands = append(f.commands, cmd)
	return nil
}

type fakeStore struct {
	vp      probe.ViewportBounds
	vpValid bool
	curX    float64
	curY    float64
	curOK   bool
}

func (f *fakeStore) Viewport() (probe.ViewportBounds, bool) { return f.vp, f.vpValid }
func (f *fakeStore) Cursor() (float64, float64, bool)       { return f.curX, f.curY, f.curOK }
func (f *fakeStore) SetCursor(x, y float64)                 { f.curX, f.curY, f.curOK = x, y, true }

func newTestEngine(inj *fakeInjector, st *fakeStore) *Engine {
	e := New(inj, st, 20, zerolog.Nop())
	e.sleep = func(time.Duration) {} // no real sleeping in tests
	return e
}

func TestMoveTo_ShortDistanceEmitsNoMove(t *testing.T) {
	inj := &fakeInjector{}
	st := &fakeStore{vp: probe.ViewportBounds{Left: 0, Top: 40, Right: 1280, Bottom: 840}, vpValid: true}
	e := newTestEngine(inj, st)

	target, err := e.MoveTo(Point{X: 500, Y: 500}, Point{X: 501, Y: 501})
	require.NoError(t, err)
	assert.Empty(t, inj.commands)
	assert.Equal(t, Point{X: 501, Y: 501}, target)
	x, y, ok := st.Cursor()
	require.True(t, ok)
	assert.Equal(t, 501.0, x)
	assert.Equal(t, 501.0, y)
}

func TestMoveTo_LongDistanceEmitsMovesSummingToDelta(t *testing.T) {
	inj := &fakeInjector{}
	st := &fakeStore{vp: probe.ViewportBounds{Left: 0, Top: 0, Right: 1280, Bottom: 900}, vpValid: true, curX: 700, curY: 400, curOK: true}
	e := newTestEngine(inj, st)

	_, err := e.MoveTo(Point{X: 100, Y: 100}, Point{X: 700, Y: 400})
	require.NoError(t, err)
	require.NotEmpty(t, inj.commands)

	var sumDX, sumDY int
	for _, c := range inj.commands {
		dx, dy := parseMove(t, c)
		sumDX += dx
		sumDY += dy
	}
	assert.Equal(t, 600, sumDX)
	assert.Equal(t, 300, sumDY)
}

func TestMoveTo_EveryPointClampedToViewport(t *testing.T) {
	inj := &fakeInjector{}
	vp := probe.ViewportBounds{Left: 0, Top: 0, Right: 200, Bottom: 200}
	st := &fakeStore{vp: vp, vpValid: true, curX: 10, curY: 10, curOK: true}
	e := newTestEngine(inj, st)

	// Target far outside the viewport; the engine must clamp to [20,180].
	target, err := e.MoveTo(Point{X: 10, Y: 10}, Point{X: 10000, Y: 10000})
	require.NoError(t, err)
	assert.InDelta(t, 180, target.X, 0.001)
	assert.InDelta(t, 180, target.Y, 0.001)

	x, y := 10.0, 10.0
	for _, c := range inj.commands {
		dx, dy := parseMove(t, c)
		x += float64(dx)
		y += float64(dy)
		assert.GreaterOrEqual(t, x, vp.Left+20-0.5)
		assert.LessOrEqual(t, x, vp.Right-20+0.5)
		assert.GreaterOrEqual(t, y, vp.Top+20-0.5)
		assert.LessOrEqual(t, y, vp.Bottom-20+0.5)
	}
}

func TestMoveTo_NoViewportRefusesAfterTimeout(t *testing.T) {
	inj := &fakeInjector{}
	st := &fakeStore{}
	e := newTestEngine(inj, st)

	start := time.Now()
	_, err := e.MoveTo(Point{X: 0, Y: 0}, Point{X: 10, Y: 10})
	assert.ErrorIs(t, err, ErrNoViewport)
	// sleep is faked to no-op, so the wait loop should still return promptly
	// in wall-clock terms even though it polled internally until the
	// 2s deadline.
	assert.Less(t, time.Since(start), time.Second)
}

func TestMoveTo_CorrectionPassEmitsOneRefinement(t *testing.T) {
	inj := &fakeInjector{}
	st := &fakeStore{
		vp: probe.ViewportBounds{Left: 0, Top: 0, Right: 1000, Bottom: 1000},
		vpValid: true,
		// Probe reports a cursor far from the intended target, simulating
		// physical drift during the move.
		curX: 690, curY: 385, curOK: true,
	}
	e := newTestEngine(inj, st)

	_, err := e.MoveTo(Point{X: 100, Y: 100}, Point{X: 700, Y: 400})
	require.NoError(t, err)

	last := inj.commands[len(inj.commands)-1]
	dx, dy := parseMove(t, last)
	// The correction should move from the reported (690,385) to (700,400).
	assert.Equal(t, 10, dx)
	assert.Equal(t, 15, dy)
}

func parseMove(t *testing.T, cmd string) (int, int) {
	t.Helper()
	require.True(t, strings.HasPrefix(cmd, "MOVE,"), "not a MOVE command: %s", cmd)
	parts := strings.Split(cmd, ",")
	require.Len(t, parts, 3)
	dx, err := strconv.Atoi(parts[1])
	require.NoError(t, err)
	dy, err := strconv.Atoi(parts[2])
	require.NoError(t, err)
	return dx, dy
}
