// Package graph stores scene nodes in a generational pool and keeps the
// parent/children links of every node consistent.
package graph

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/scenenode/scene"
	"github.com/mogaika/scenenode/scene/base"
)

const RootName = "__ROOT__"

type slot struct {
	alive      bool
	generation uint32
	node       scene.Node
}

// Graph owns its nodes. Handles stay valid until the node is removed; a
// removed slot is reused with a new generation so stale handles never resolve.
type Graph struct {
	Title string

	slots []slot
	free  []uint32
	root  base.Handle
	count int
}

func New() *Graph {
	g := &Graph{}
	root := scene.NewBase()
	root.SetName(RootName)
	g.root = g.alloc(root)
	return g
}

func (g *Graph) alloc(n scene.Node) base.Handle {
	var index uint32
	if len(g.free) != 0 {
		index = g.free[len(g.free)-1]
		g.free = g.free[:len(g.free)-1]
	} else {
		index = uint32(len(g.slots))
		g.slots = append(g.slots, slot{})
	}

	s := &g.slots[index]
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	s.alive = true
	s.node = n
	s.node.AsBase().SetOwned(true)
	g.count++
	return base.Handle{Index: index, Generation: s.generation}
}

func (g *Graph) release(h base.Handle) {
	s := &g.slots[h.Index]
	s.alive = false
	s.node.AsBase().SetOwned(false)
	s.node = scene.Node{}
	g.free = append(g.free, h.Index)
	g.count--
}

func (g *Graph) Root() base.Handle { return g.root }

// Len returns the number of live nodes, root included.
func (g *Graph) Len() int { return g.count }

// Capacity returns the number of slots, live or free.
func (g *Graph) Capacity() int { return len(g.slots) }

func (g *Graph) IsValid(h base.Handle) bool {
	if h.IsNone() || int(h.Index) >= len(g.slots) {
		return false
	}
	s := &g.slots[h.Index]
	return s.alive && s.generation == h.Generation
}

// HandleAt returns the handle of the live node stored in slot index.
func (g *Graph) HandleAt(index uint32) (base.Handle, bool) {
	if int(index) >= len(g.slots) || !g.slots[index].alive {
		return base.NoHandle, false
	}
	return base.Handle{Index: index, Generation: g.slots[index].generation}, true
}

func (g *Graph) TryGet(h base.Handle) (*scene.Node, bool) {
	if !g.IsValid(h) {
		return nil, false
	}
	return &g.slots[h.Index].node, true
}

// Get panics on a handle that does not refer to a live node.
func (g *Graph) Get(h base.Handle) *scene.Node {
	n, ok := g.TryGet(h)
	if !ok {
		panic(fmt.Sprintf("graph: invalid handle %v", h))
	}
	return n
}

// Add stores n as a child of the root node. The graph takes the payload of n
// over; a payload already stored in this or another graph is cloned instead.
func (g *Graph) Add(n scene.Node) base.Handle {
	if n.AsBase().Owned() {
		n = n.Clone()
	}
	// links are owned by the graph
	n.AsBase().ClearLinks()

	h := g.alloc(n)
	g.attach(h, g.root)
	return h
}

func (g *Graph) attach(child, parent base.Handle) {
	g.Get(child).AsBase().SetParent(parent)
	g.Get(parent).AsBase().AddChild(child)
}

func (g *Graph) detach(child base.Handle) {
	b := g.Get(child).AsBase()
	if p, ok := g.TryGet(b.Parent()); ok {
		p.AsBase().RemoveChild(child)
	}
	b.SetParent(base.NoHandle)
}

// IsAncestor reports whether ancestor is on the parent chain of h.
func (g *Graph) IsAncestor(ancestor, h base.Handle) bool {
	for n, ok := g.TryGet(h); ok; n, ok = g.TryGet(h) {
		h = n.Parent()
		if h == ancestor {
			return true
		}
	}
	return false
}

// Link moves child with its descendants under parent.
func (g *Graph) Link(child, parent base.Handle) error {
	if !g.IsValid(child) {
		return errors.Errorf("Invalid child handle %v", child)
	}
	if !g.IsValid(parent) {
		return errors.Errorf("Invalid parent handle %v", parent)
	}
	if child == g.root {
		return errors.Errorf("Root node can not be linked")
	}
	if child == parent || g.IsAncestor(child, parent) {
		return errors.Errorf("Linking %v under %v creates a cycle", child, parent)
	}
	g.detach(child)
	g.attach(child, parent)
	return nil
}

// Unlink moves h back under the root node.
func (g *Graph) Unlink(h base.Handle) error {
	return g.Link(h, g.root)
}

// Remove deletes h and all of its descendants. It returns the removed nodes,
// h first.
func (g *Graph) Remove(h base.Handle) ([]scene.Node, error) {
	if !g.IsValid(h) {
		return nil, errors.Errorf("Invalid handle %v", h)
	}
	if h == g.root {
		return nil, errors.Errorf("Root node can not be removed")
	}

	g.detach(h)
	subtree := g.subtree(h)
	removed := make([]scene.Node, 0, len(subtree))
	for _, sh := range subtree {
		removed = append(removed, g.slots[sh.Index].node)
		g.release(sh)
	}
	return removed, nil
}

// subtree lists h and its descendants, ancestors first.
func (g *Graph) subtree(h base.Handle) []base.Handle {
	queue := []base.Handle{h}
	for i := 0; i < len(queue); i++ {
		queue = append(queue, g.Get(queue[i]).Children()...)
	}
	return queue
}

// ForEach calls f for every node reachable from the root, root included.
// Ancestors are processed first. The graph must not be changed until this
// method returns.
func (g *Graph) ForEach(f func(h base.Handle, n *scene.Node)) {
	g.Until(func(h base.Handle, n *scene.Node) bool {
		f(h, n)
		return true
	})
}

// Until is like ForEach but stops as soon as f returns false.
func (g *Graph) Until(f func(h base.Handle, n *scene.Node) bool) {
	queue := []base.Handle{g.root}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		n := g.Get(h)
		if !f(h, n) {
			return
		}
		queue = append(queue, n.Children()...)
	}
}

// Find returns the first node named name in breadth first order.
func (g *Graph) Find(name string) (base.Handle, bool) {
	found := base.NoHandle
	g.Until(func(h base.Handle, n *scene.Node) bool {
		if n.Name() == name {
			found = h
			return false
		}
		return true
	})
	return found, !found.IsNone()
}

// FindKind returns handles of every node of kind k in breadth first order.
func (g *Graph) FindKind(k scene.Kind) []base.Handle {
	var found []base.Handle
	g.ForEach(func(h base.Handle, n *scene.Node) {
		if n.Kind() == k {
			found = append(found, h)
		}
	})
	return found
}

// Update advances the scene by dt seconds. Nodes with an expired lifetime are
// removed together with their descendants, particle systems are simulated and
// then global transforms and visibility are recalculated.
func (g *Graph) Update(dt float32) {
	var expired []base.Handle
	for i := range g.slots {
		s := &g.slots[i]
		if !s.alive {
			continue
		}
		h := base.Handle{Index: uint32(i), Generation: s.generation}
		b := s.node.AsBase()
		if b.HasLifetime && h != g.root {
			b.Lifetime -= dt
			if b.Lifetime <= 0 {
				expired = append(expired, h)
				continue
			}
		}
		if ps, ok := s.node.TryAsParticleSystem(); ok {
			ps.Update(dt)
		}
	}
	for _, h := range expired {
		// may be gone already with an expired ancestor
		if g.IsValid(h) {
			g.Remove(h)
		}
	}
	g.UpdateHierarchy()
}

// UpdateHierarchy recalculates global transforms and visibility.
func (g *Graph) UpdateHierarchy() {
	g.ForEach(func(h base.Handle, n *scene.Node) {
		b := n.AsBase()
		global := mgl32.Ident4()
		visible := true
		if p, ok := g.TryGet(b.Parent()); ok {
			global = p.GlobalTransform()
			visible = p.GlobalVisibility()
		}
		b.SetGlobalTransform(global.Mul4(b.Local.Matrix()))
		b.SetGlobalVisibility(visible && b.Visible)
	})
}

// CalculateCameras refreshes view and projection matrices of every camera
// for a frame of the given size.
func (g *Graph) CalculateCameras(frameW, frameH int) {
	for _, h := range g.FindKind(scene.KindCamera) {
		g.Get(h).AsCamera().Calculate(frameW, frameH)
	}
}
