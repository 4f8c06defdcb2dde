// Package base holds the state shared by every scene node kind: name, local
// transform, visibility and hierarchy links. Every node payload embeds Base.
package base

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/mogaika/scenenode/utils"
	"github.com/mogaika/scenenode/visitor"
)

// Handle identifies a node slot in a graph. The zero Handle refers to nothing.
type Handle struct {
	Index      uint32
	Generation uint32
}

var NoHandle = Handle{}

func (h Handle) IsNone() bool { return h.Generation == 0 }

func (h *Handle) Visit(name string, v *visitor.Visitor) error {
	v.Enter(name)
	defer v.Leave()
	v.Uint32("Index", &h.Index)
	v.Uint32("Generation", &h.Generation)
	return v.Err()
}

// Transform is a local transform, applied as scale, then rotation, then translation.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func Identity() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(t.Rotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// Euler returns the rotation as X, Y, Z angles in degrees.
func (t Transform) Euler() mgl32.Vec3 {
	return utils.QuatToEuler(t.Rotation)
}

// SetEuler sets the rotation from X, Y, Z angles in degrees.
func (t *Transform) SetEuler(degrees mgl32.Vec3) {
	t.Rotation = utils.EulerToQuat(degrees)
}

func (t *Transform) Visit(name string, v *visitor.Visitor) error {
	v.Enter(name)
	defer v.Leave()
	v.Vec3("Position", &t.Position)
	v.Quat("Rotation", &t.Rotation)
	v.Vec3("Scale", &t.Scale)
	return v.Err()
}

// Base is the scene node record every kind carries.
//
// Hierarchy links are maintained by the owning graph. The global transform and
// global visibility are derived state: they are recomputed on graph update and
// never persisted.
type Base struct {
	Name        string
	Tag         string
	Local       Transform
	Visible     bool
	DepthOffset float32
	// Lifetime in seconds, meaningful only when HasLifetime is set.
	Lifetime    float32
	HasLifetime bool
	// Model resource the node was instantiated from, uuid.Nil for none.
	Resource uuid.UUID

	parent        Handle
	children      []Handle
	global        mgl32.Mat4
	globalVisible bool
	// set while a graph slot holds this record
	owned bool
}

func New() Base {
	return Base{
		Local:         Identity(),
		Visible:       true,
		global:        mgl32.Ident4(),
		globalVisible: true,
	}
}

// AsBase gives access to the embedded record of any payload.
func (b *Base) AsBase() *Base { return b }

func (b *Base) Parent() Handle { return b.parent }

// Children returns the child handles. The slice must not be modified.
func (b *Base) Children() []Handle { return b.children }

func (b *Base) SetParent(h Handle) { b.parent = h }

func (b *Base) AddChild(h Handle) { b.children = append(b.children, h) }

// ClearLinks forgets the parent and all children.
func (b *Base) ClearLinks() {
	b.parent = NoHandle
	b.children = nil
}

// RemoveChild reports whether h was a child of b.
func (b *Base) RemoveChild(h Handle) bool {
	for i, c := range b.children {
		if c == h {
			b.children = append(b.children[:i], b.children[i+1:]...)
			if len(b.children) == 0 {
				b.children = nil
			}
			return true
		}
	}
	return false
}

func (b *Base) GlobalTransform() mgl32.Mat4 { return b.global }

func (b *Base) SetGlobalTransform(m mgl32.Mat4) { b.global = m }

func (b *Base) GlobalPosition() mgl32.Vec3 { return b.global.Col(3).Vec3() }

func (b *Base) GlobalVisibility() bool { return b.globalVisible }

func (b *Base) SetGlobalVisibility(visible bool) { b.globalVisible = visible }

// SetDepthOffset clamps offset into [0, 1].
func (b *Base) SetDepthOffset(offset float32) {
	b.DepthOffset = utils.ClampFloat32(offset, 0, 1)
}

func (b *Base) SetLifetime(seconds float32) {
	b.Lifetime = seconds
	b.HasLifetime = true
}

func (b *Base) ClearLifetime() {
	b.Lifetime = 0
	b.HasLifetime = false
}

// Owned reports whether a graph currently stores this record.
func (b *Base) Owned() bool { return b.owned }

func (b *Base) SetOwned(owned bool) { b.owned = owned }

// Clone returns an unowned copy.
func (b *Base) Clone() Base {
	c := *b
	c.owned = false
	if b.children != nil {
		c.children = append([]Handle(nil), b.children...)
	}
	return c
}

// Visit reads or writes the persistent fields. On read derived state is reset
// to its defaults until the owning graph updates it.
func (b *Base) Visit(name string, v *visitor.Visitor) error {
	v.Enter(name)
	defer v.Leave()

	v.String("Name", &b.Name)
	v.String("Tag", &b.Tag)
	b.Local.Visit("Local", v)
	v.Bool("Visible", &b.Visible)
	v.Float32("DepthOffset", &b.DepthOffset)
	v.Bool("HasLifetime", &b.HasLifetime)
	v.Float32("Lifetime", &b.Lifetime)
	v.UUID("Resource", &b.Resource)
	b.parent.Visit("Parent", v)
	visitor.Slice(v, "Children", &b.children)
	if err := v.Err(); err != nil {
		return err
	}

	if v.IsReading() {
		if len(b.children) == 0 {
			b.children = nil
		}
		b.global = mgl32.Ident4()
		b.globalVisible = true
	}
	return nil
}
