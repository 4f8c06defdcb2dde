package camera

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/scenenode/visitor"
)

func assertVec3InDelta(t *testing.T, expected, actual mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], delta, "component %d of %v", i, actual)
	}
}

func TestDefaults(t *testing.T) {
	c := New()
	assert.InDelta(t, mgl32.DegToRad(75), c.Fov, 1e-6)
	assert.EqualValues(t, 0.025, c.ZNear)
	assert.EqualValues(t, 2048, c.ZFar)
	assert.Equal(t, Rect{0, 0, 1, 1}, c.Viewport)
	assert.True(t, c.Enabled)
}

func TestViewportPixels(t *testing.T) {
	c := New()
	c.Viewport = Rect{0.5, 0, 0.5, 0.5}
	x, y, w, h := c.ViewportPixels(800, 600)
	assert.Equal(t, []int{400, 0, 400, 300}, []int{x, y, w, h})
}

func TestCalculate(t *testing.T) {
	c := New()
	c.SetGlobalTransform(mgl32.Translate3D(0, 0, 5))
	c.Calculate(640, 480)

	p := c.View().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assertVec3InDelta(t, mgl32.Vec3{0, 0, -5}, p.Vec3(), 1e-5)
	assert.Equal(t, mgl32.Perspective(c.Fov, 640.0/480.0, c.ZNear, c.ZFar), c.Projection())
}

func TestVisitRoundTripResetsMatrices(t *testing.T) {
	in := New()
	in.Name = "Main"
	in.Fov = 1
	in.Viewport = Rect{0.1, 0.2, 0.3, 0.4}
	in.Enabled = false

	var buf bytes.Buffer
	require.NoError(t, in.Visit("Camera", visitor.NewWriter(&buf)))

	out := New()
	out.Calculate(100, 100)
	require.NoError(t, out.Visit("Camera", visitor.NewReader(&buf)))
	assert.Equal(t, in, out)
	assert.Equal(t, mgl32.Ident4(), out.View())
}
