package light

import (
	"bytes"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/scenenode/visitor"
)

func TestVisitRoundTrip(t *testing.T) {
	in := NewSpot(0.5, 0.25, 20)
	in.Name = "Lamp"
	in.Color = mgl32.Vec3{1, 0.5, 0.25}
	in.SetIntensity(3)
	in.CastShadows = false

	var buf bytes.Buffer
	require.NoError(t, in.Visit("Light", visitor.NewWriter(&buf)))

	out := New()
	require.NoError(t, out.Visit("Light", visitor.NewReader(&buf)))
	assert.Equal(t, in, out)
	assert.Equal(t, SPOT, out.Type)
}

func TestVisitUnknownType(t *testing.T) {
	in := New()
	in.Type = Type(7)

	var buf bytes.Buffer
	require.NoError(t, in.Visit("Light", visitor.NewWriter(&buf)))

	err := New().Visit("Light", visitor.NewReader(&buf))
	require.Error(t, err)
	var verr *visitor.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Light.Type", verr.Path)
}

func TestSettersClamp(t *testing.T) {
	l := New()
	l.SetIntensity(-1)
	assert.EqualValues(t, 0, l.Intensity)
	l.SetRadius(-5)
	assert.EqualValues(t, 0, l.Radius)
	l.SetDistance(-5)
	assert.EqualValues(t, 0, l.Distance)

	l.SetConeAngles(3, 3)
	assert.InDelta(t, 3, l.HotspotAngle, 1e-6)
	assert.InDelta(t, math.Pi, l.FullConeAngle(), 1e-6)

	l.SetConeAngles(-1, 0.5)
	assert.EqualValues(t, 0, l.HotspotAngle)
	assert.EqualValues(t, 0.5, l.FalloffAngleDelta)
}

func assertVec3InDelta(t *testing.T, expected, actual mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], delta, "component %d of %v", i, actual)
	}
}

func TestDirectionFollowsGlobalTransform(t *testing.T) {
	l := NewDirectional()
	assertVec3InDelta(t, mgl32.Vec3{0, 0, -1}, l.Direction(), 1e-6)

	// rotated result has a float32 residue in Z
	l.SetGlobalTransform(mgl32.HomogRotate3DY(mgl32.DegToRad(90)))
	assertVec3InDelta(t, mgl32.Vec3{-1, 0, 0}, l.Direction(), 1e-5)
}

func TestClone(t *testing.T) {
	l := New()
	l.Name = "a"
	c := l.Clone()
	c.Name = "b"
	c.Color[0] = 0
	assert.Equal(t, "a", l.Name)
	assert.EqualValues(t, 1, l.Color[0])
}
