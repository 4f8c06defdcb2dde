package light

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/scenenode/scene/base"
	"github.com/mogaika/scenenode/utils"
	"github.com/mogaika/scenenode/visitor"
)

type Type uint8

const (
	DIRECTIONAL Type = iota
	POINT
	SPOT
)

func (t Type) String() string {
	switch t {
	case DIRECTIONAL:
		return "directional"
	case POINT:
		return "point"
	case SPOT:
		return "spot"
	default:
		return "unknown"
	}
}

const (
	DefaultRadius       = 10.0
	DefaultHotspotAngle = math.Pi / 4
	DefaultFalloffDelta = math.Pi / 16
	DefaultDistance     = 10.0
)

type Light struct {
	base.Base

	Type      Type
	Color     mgl32.Vec3
	Intensity float32

	// point lights
	Radius float32

	// spot lights, angles in radians
	HotspotAngle      float32
	FalloffAngleDelta float32
	Distance          float32

	CastShadows    bool
	ScatterEnabled bool
	Scatter        mgl32.Vec3
}

func New() *Light {
	return &Light{
		Base:              base.New(),
		Type:              POINT,
		Color:             mgl32.Vec3{1, 1, 1},
		Intensity:         1,
		Radius:            DefaultRadius,
		HotspotAngle:      DefaultHotspotAngle,
		FalloffAngleDelta: DefaultFalloffDelta,
		Distance:          DefaultDistance,
		CastShadows:       true,
		ScatterEnabled:    true,
		Scatter:           mgl32.Vec3{0.03, 0.03, 0.03},
	}
}

func NewPoint(radius float32) *Light {
	l := New()
	l.SetRadius(radius)
	return l
}

func NewSpot(hotspot, falloffDelta, distance float32) *Light {
	l := New()
	l.Type = SPOT
	l.SetConeAngles(hotspot, falloffDelta)
	l.SetDistance(distance)
	return l
}

func NewDirectional() *Light {
	l := New()
	l.Type = DIRECTIONAL
	return l
}

func (l *Light) SetIntensity(i float32) { l.Intensity = float32(math.Max(0, float64(i))) }

func (l *Light) SetRadius(r float32) { l.Radius = float32(math.Max(0, float64(r))) }

func (l *Light) SetDistance(d float32) { l.Distance = float32(math.Max(0, float64(d))) }

// SetConeAngles keeps the full cone, hotspot plus falloff, within [0, π].
func (l *Light) SetConeAngles(hotspot, falloffDelta float32) {
	l.HotspotAngle = utils.ClampFloat32(hotspot, 0, math.Pi)
	l.FalloffAngleDelta = utils.ClampFloat32(falloffDelta, 0, math.Pi-l.HotspotAngle)
}

// FullConeAngle is the angle where spot light intensity reaches zero.
func (l *Light) FullConeAngle() float32 {
	return l.HotspotAngle + l.FalloffAngleDelta
}

// Direction is the global -Z axis of the node.
func (l *Light) Direction() mgl32.Vec3 {
	return l.GlobalTransform().Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3().Normalize()
}

func (l *Light) Clone() *Light {
	c := *l
	c.Base = l.Base.Clone()
	return &c
}

func (l *Light) Visit(name string, v *visitor.Visitor) error {
	v.Enter(name)
	defer v.Leave()

	if err := l.Base.Visit("Base", v); err != nil {
		return err
	}

	typ := uint8(l.Type)
	if err := v.Uint8("Type", &typ); err != nil {
		return err
	}
	if v.IsReading() && Type(typ) > SPOT {
		return v.Invalid("Type", "Unknown light type %d", typ)
	}
	l.Type = Type(typ)

	v.Vec3("Color", &l.Color)
	v.Float32("Intensity", &l.Intensity)
	v.Float32("Radius", &l.Radius)
	v.Float32("HotspotAngle", &l.HotspotAngle)
	v.Float32("FalloffAngleDelta", &l.FalloffAngleDelta)
	v.Float32("Distance", &l.Distance)
	v.Bool("CastShadows", &l.CastShadows)
	v.Bool("ScatterEnabled", &l.ScatterEnabled)
	v.Vec3("Scatter", &l.Scatter)
	return v.Err()
}
