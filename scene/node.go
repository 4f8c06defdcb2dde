// Package scene defines Node, the value stored in every slot of a scene graph.
//
// A Node holds exactly one payload out of a closed set of kinds. Operations
// shared by all kinds (name, transform, visibility, hierarchy links) are
// available on the Node itself. Kind specific data is reached with the
// Is<Kind>, As<Kind> and TryAs<Kind> accessors.
//
// As<Kind> panics with a CastError when the node holds another kind. Use it
// only where the kind is known from control flow; check with Is<Kind> or use
// TryAs<Kind> for nodes that come from decoded data.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/scenenode/scene/base"
	"github.com/mogaika/scenenode/scene/camera"
	"github.com/mogaika/scenenode/scene/light"
	"github.com/mogaika/scenenode/scene/mesh"
	"github.com/mogaika/scenenode/scene/particle"
	"github.com/mogaika/scenenode/scene/sprite"
	"github.com/mogaika/scenenode/visitor"
)

type payload interface {
	visitor.Visitable
	AsBase() *base.Base
}

// Node is a scene graph node of any kind. The zero Node is a Base node with
// default fields.
//
// A Node refers to its payload: copies of a Node value share the same payload
// and see each other's changes. Use Clone for an independent node. A graph
// clones a node on Add when its payload is already stored in a graph.
type Node struct {
	p payload
}

func NewBase() Node {
	b := base.New()
	return Node{p: &b}
}

func NewLight(l *light.Light) Node {
	if l == nil {
		l = light.New()
	}
	return Node{p: l}
}

func NewCamera(c *camera.Camera) Node {
	if c == nil {
		c = camera.New()
	}
	return Node{p: c}
}

func NewMesh(m *mesh.Mesh) Node {
	if m == nil {
		m = mesh.New()
	}
	return Node{p: m}
}

func NewSprite(s *sprite.Sprite) Node {
	if s == nil {
		s = sprite.New()
	}
	return Node{p: s}
}

func NewParticleSystem(ps *particle.ParticleSystem) Node {
	if ps == nil {
		ps = particle.New()
	}
	return Node{p: ps}
}

func (n *Node) payload() payload {
	if n.p == nil {
		b := base.New()
		n.p = &b
	}
	return n.p
}

func (n *Node) Kind() Kind { return kindOf(n.p) }

// Id is the kind identifier written in front of the payload.
func (n *Node) Id() uint8 { return uint8(n.Kind()) }

// AsBase returns the shared record of any kind.
func (n *Node) AsBase() *base.Base { return n.payload().AsBase() }

// Payload returns the concrete payload pointer, for printing and encoding.
func (n *Node) Payload() interface{} { return n.payload() }

func (n *Node) Name() string        { return n.AsBase().Name }
func (n *Node) SetName(name string) { n.AsBase().Name = name }

func (n *Node) Tag() string       { return n.AsBase().Tag }
func (n *Node) SetTag(tag string) { n.AsBase().Tag = tag }

func (n *Node) LocalTransform() base.Transform     { return n.AsBase().Local }
func (n *Node) SetLocalTransform(t base.Transform) { n.AsBase().Local = t }

func (n *Node) Visibility() bool           { return n.AsBase().Visible }
func (n *Node) SetVisibility(visible bool) { n.AsBase().Visible = visible }

func (n *Node) GlobalTransform() mgl32.Mat4 { return n.AsBase().GlobalTransform() }
func (n *Node) GlobalVisibility() bool      { return n.AsBase().GlobalVisibility() }

func (n *Node) Parent() base.Handle     { return n.AsBase().Parent() }
func (n *Node) Children() []base.Handle { return n.AsBase().Children() }

// Clone returns a deep copy holding the same kind.
func (n *Node) Clone() Node {
	switch p := n.payload().(type) {
	case *base.Base:
		b := p.Clone()
		return Node{p: &b}
	case *light.Light:
		return Node{p: p.Clone()}
	case *camera.Camera:
		return Node{p: p.Clone()}
	case *mesh.Mesh:
		return Node{p: p.Clone()}
	case *sprite.Sprite:
		return Node{p: p.Clone()}
	case *particle.ParticleSystem:
		return Node{p: p.Clone()}
	default:
		panic(fmt.Sprintf("scene: unexpected payload %T", p))
	}
}

func (n *Node) String() string {
	return fmt.Sprintf("%v(%q)", n.Kind(), n.Name())
}

// CastError is the panic value of a trusted downcast to the wrong kind.
type CastError struct {
	Want Kind
	Have Kind
}

func (e CastError) Error() string {
	return fmt.Sprintf("scene: node is %v, not %v", e.Have, e.Want)
}

func (n *Node) castPanic(want Kind) {
	panic(CastError{Want: want, Have: n.Kind()})
}

func (n *Node) IsLight() bool          { return n.Kind() == KindLight }
func (n *Node) IsCamera() bool         { return n.Kind() == KindCamera }
func (n *Node) IsMesh() bool           { return n.Kind() == KindMesh }
func (n *Node) IsSprite() bool         { return n.Kind() == KindSprite }
func (n *Node) IsParticleSystem() bool { return n.Kind() == KindParticleSystem }

func (n *Node) TryAsLight() (*light.Light, bool) {
	l, ok := n.p.(*light.Light)
	return l, ok
}

func (n *Node) TryAsCamera() (*camera.Camera, bool) {
	c, ok := n.p.(*camera.Camera)
	return c, ok
}

func (n *Node) TryAsMesh() (*mesh.Mesh, bool) {
	m, ok := n.p.(*mesh.Mesh)
	return m, ok
}

func (n *Node) TryAsSprite() (*sprite.Sprite, bool) {
	s, ok := n.p.(*sprite.Sprite)
	return s, ok
}

func (n *Node) TryAsParticleSystem() (*particle.ParticleSystem, bool) {
	ps, ok := n.p.(*particle.ParticleSystem)
	return ps, ok
}

func (n *Node) AsLight() *light.Light {
	l, ok := n.TryAsLight()
	if !ok {
		n.castPanic(KindLight)
	}
	return l
}

func (n *Node) AsCamera() *camera.Camera {
	c, ok := n.TryAsCamera()
	if !ok {
		n.castPanic(KindCamera)
	}
	return c
}

func (n *Node) AsMesh() *mesh.Mesh {
	m, ok := n.TryAsMesh()
	if !ok {
		n.castPanic(KindMesh)
	}
	return m
}

func (n *Node) AsSprite() *sprite.Sprite {
	s, ok := n.TryAsSprite()
	if !ok {
		n.castPanic(KindSprite)
	}
	return s
}

func (n *Node) AsParticleSystem() *particle.ParticleSystem {
	ps, ok := n.TryAsParticleSystem()
	if !ok {
		n.castPanic(KindParticleSystem)
	}
	return ps
}
