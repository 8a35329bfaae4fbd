package motion

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurvedPath_EndpointsMatch(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	start, target := Point{X: 100, Y: 100}, Point{X: 700, Y: 400}
	path := curvedPath(start, target, r)

	assert.Equal(t, start, path[0])
	last := path[len(path)-1]
	assert.InDelta(t, target.X, last.X, 0.001)
	assert.InDelta(t, target.Y, last.Y, 0.001)
}

func TestCurvedPath_SampleCountBounded(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	short := curvedPath(Point{X: 0, Y: 0}, Point{X: 5, Y: 5}, r)
	long := curvedPath(Point{X: 0, Y: 0}, Point{X: 5000, Y: 5000}, r)

	assert.GreaterOrEqual(t, len(short), 7) // start + >=6 samples
	assert.LessOrEqual(t, len(long), 49)    // start + <=48 samples
}

func TestCurvedPath_BowsAwayFromStraightLine(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	start, target := Point{X: 0, Y: 0}, Point{X: 1000, Y: 0}
	path := curvedPath(start, target, r)

	mid := path[len(path)/2]
	// The straight line from (0,0) to (1000,0) has y=0; the bow should
	// displace the midpoint off that line by a bounded, non-zero amount.
	assert.NotEqual(t, 0.0, mid.Y)
	assert.LessOrEqual(t, math.Abs(mid.Y), maxBowPeak+0.001)
}
