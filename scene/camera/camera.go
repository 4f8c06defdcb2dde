package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/scenenode/scene/base"
	"github.com/mogaika/scenenode/visitor"
)

const (
	DefaultFov   = 75.0 * math.Pi / 180.0
	DefaultZNear = 0.025
	DefaultZFar  = 2048.0
)

// Rect is a viewport in normalized screen coordinates.
type Rect struct {
	X, Y, W, H float32
}

func (r *Rect) Visit(name string, v *visitor.Visitor) error {
	v.Enter(name)
	defer v.Leave()
	v.Float32("X", &r.X)
	v.Float32("Y", &r.Y)
	v.Float32("W", &r.W)
	v.Float32("H", &r.H)
	return v.Err()
}

// Camera is a perspective camera looking along its global -Z axis.
type Camera struct {
	base.Base

	Fov      float32 // vertical, radians
	ZNear    float32
	ZFar     float32
	Viewport Rect
	Enabled  bool

	view       mgl32.Mat4
	projection mgl32.Mat4
}

func New() *Camera {
	return &Camera{
		Base:       base.New(),
		Fov:        DefaultFov,
		ZNear:      DefaultZNear,
		ZFar:       DefaultZFar,
		Viewport:   Rect{0, 0, 1, 1},
		Enabled:    true,
		view:       mgl32.Ident4(),
		projection: mgl32.Ident4(),
	}
}

// ViewportPixels converts the viewport into pixels of a frame.
func (c *Camera) ViewportPixels(frameW, frameH int) (x, y, w, h int) {
	fw, fh := float32(frameW), float32(frameH)
	return int(c.Viewport.X * fw), int(c.Viewport.Y * fh), int(c.Viewport.W * fw), int(c.Viewport.H * fh)
}

// Calculate refreshes view and projection matrices from the global transform.
func (c *Camera) Calculate(frameW, frameH int) {
	global := c.GlobalTransform()
	eye := global.Col(3).Vec3()
	look := global.Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	up := global.Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
	c.view = mgl32.LookAtV(eye, eye.Add(look), up)

	_, _, w, h := c.ViewportPixels(frameW, frameH)
	aspect := float32(1)
	if h > 0 {
		aspect = float32(w) / float32(h)
	}
	c.projection = mgl32.Perspective(c.Fov, aspect, c.ZNear, c.ZFar)
}

func (c *Camera) View() mgl32.Mat4 { return c.view }

func (c *Camera) Projection() mgl32.Mat4 { return c.projection }

func (c *Camera) ViewProjection() mgl32.Mat4 { return c.projection.Mul4(c.view) }

func (c *Camera) Clone() *Camera {
	cl := *c
	cl.Base = c.Base.Clone()
	return &cl
}

// Visit persists the projection parameters; view and projection matrices are
// reset and must be recalculated after a read.
func (c *Camera) Visit(name string, v *visitor.Visitor) error {
	v.Enter(name)
	defer v.Leave()

	if err := c.Base.Visit("Base", v); err != nil {
		return err
	}
	v.Float32("Fov", &c.Fov)
	v.Float32("ZNear", &c.ZNear)
	v.Float32("ZFar", &c.ZFar)
	c.Viewport.Visit("Viewport", v)
	v.Bool("Enabled", &c.Enabled)
	if err := v.Err(); err != nil {
		return err
	}

	if v.IsReading() {
		c.view = mgl32.Ident4()
		c.projection = mgl32.Ident4()
	}
	return nil
}
