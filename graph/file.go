package graph

import (
	"bufio"
	"bytes"
	"io"
	"log"

	"github.com/pkg/errors"

	"github.com/mogaika/scenenode/config"
	"github.com/mogaika/scenenode/scene/base"
	"github.com/mogaika/scenenode/utils"
	"github.com/mogaika/scenenode/visitor"
)

// Scene file layout, little-endian:
//
//	0x00 magic "SCNG"
//	0x04 u32 format version
//	0x08 title, 24 bytes, configured encoding, zero padded
//	0x20 root handle
//	0x28 u32 slots count
//	     per slot: bool alive, u32 generation, node when alive
var Magic = [4]byte{'S', 'C', 'N', 'G'}

const TitleSize = 24

// Header is the fixed part of a scene file.
type Header struct {
	Magic   [4]byte
	Version config.FormatVersion
	Title   [TitleSize]byte
	Root    base.Handle
}

func (h *Header) Visit(name string, v *visitor.Visitor) error {
	v.Enter(name)
	defer v.Leave()

	v.Raw("Magic", h.Magic[:])
	version := uint32(h.Version)
	v.Uint32("Version", &version)
	h.Version = config.FormatVersion(version)
	v.Raw("Title", h.Title[:])
	h.Root.Visit("Root", v)
	if err := v.Err(); err != nil {
		return err
	}

	if v.IsReading() {
		if h.Magic != Magic {
			return v.Invalid("Magic", "Invalid magic %q", h.Magic[:])
		}
		if !h.Version.Supported() {
			return v.Invalid("Version", "Unsupported format version %d", h.Version)
		}
	}
	return nil
}

// ReadHeader reads only the fixed header of a scene file.
func ReadHeader(r io.Reader) (*Header, string, error) {
	h := &Header{}
	if err := h.Visit("Header", visitor.NewReader(r)); err != nil {
		return nil, "", errors.Wrapf(err, "Failed to read header")
	}
	title, err := utils.BytesToString(h.Title[:])
	if err != nil {
		return nil, "", errors.Wrapf(err, "Failed to read title")
	}
	return h, title, nil
}

func (g *Graph) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	v := visitor.NewWriter(bw)

	title, err := utils.StringToBytesBuffer(g.Title, TitleSize, false)
	if err != nil {
		return errors.Wrapf(err, "Failed to encode title")
	}
	h := &Header{Magic: Magic, Version: config.CurrentFormat, Root: g.root}
	copy(h.Title[:], title)
	if err := h.Visit("Header", v); err != nil {
		return errors.Wrapf(err, "Failed to write header")
	}

	count := len(g.slots)
	if err := v.Len("SlotsCount", &count); err != nil {
		return err
	}
	for i := range g.slots {
		s := &g.slots[i]
		v.Bool("Alive", &s.alive)
		v.Uint32("Generation", &s.generation)
		if s.alive {
			if err := s.node.Visit("Node", v); err != nil {
				return errors.Wrapf(err, "Failed to save node %d", i)
			}
		}
		if err := v.Err(); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func (g *Graph) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := g.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load reads a graph written by Save. A node that fails to decode fails the
// whole load.
func Load(r io.Reader) (*Graph, error) {
	v := visitor.NewReader(bufio.NewReader(r))

	h := &Header{}
	if err := h.Visit("Header", v); err != nil {
		return nil, errors.Wrapf(err, "Failed to read header")
	}
	title, err := utils.BytesToString(h.Title[:])
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read title")
	}

	count := 0
	if err := v.Len("SlotsCount", &count); err != nil {
		return nil, errors.Wrapf(err, "Failed to read slots count")
	}

	g := &Graph{Title: title, root: h.Root}
	for i := 0; i < count; i++ {
		var s slot
		v.Bool("Alive", &s.alive)
		v.Uint32("Generation", &s.generation)
		if err := v.Err(); err != nil {
			return nil, errors.Wrapf(err, "Failed to load slot %d", i)
		}
		if s.alive {
			if err := s.node.Visit("Node", v); err != nil {
				return nil, errors.Wrapf(err, "Failed to load node %d", i)
			}
			s.node.AsBase().SetOwned(true)
			g.count++
		}
		g.slots = append(g.slots, s)
	}

	if err := g.validate(); err != nil {
		return nil, errors.Wrapf(err, "Invalid scene")
	}
	for i := len(g.slots) - 1; i >= 0; i-- {
		if !g.slots[i].alive {
			g.free = append(g.free, uint32(i))
		}
	}
	g.UpdateHierarchy()

	log.Printf("[graph] Loaded scene %q: %d nodes in %d slots", g.Title, g.count, len(g.slots))
	return g, nil
}

func (g *Graph) UnmarshalBinary(data []byte) error {
	loaded, err := Load(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*g = *loaded
	return nil
}

// validate checks that every link refers to a live node and that parent and
// children links agree with each other.
func (g *Graph) validate() error {
	if !g.IsValid(g.root) {
		return errors.Errorf("Invalid root handle %v", g.root)
	}
	if !g.Get(g.root).Parent().IsNone() {
		return errors.Errorf("Root node has a parent")
	}

	for i := range g.slots {
		s := &g.slots[i]
		if !s.alive {
			continue
		}
		h := base.Handle{Index: uint32(i), Generation: s.generation}
		if h.IsNone() {
			return errors.Errorf("Node %d has zero generation", i)
		}
		listed := make(map[base.Handle]struct{}, len(s.node.Children()))
		for _, c := range s.node.Children() {
			if _, dup := listed[c]; dup {
				return errors.Errorf("Node %d lists child %v more than once", i, c)
			}
			listed[c] = struct{}{}
			child, ok := g.TryGet(c)
			if !ok {
				return errors.Errorf("Node %d has invalid child %v", i, c)
			}
			if child.Parent() != h {
				return errors.Errorf("Node %d lists %v as child, but its parent is %v", i, c, child.Parent())
			}
		}
		if h == g.root {
			continue
		}
		parent, ok := g.TryGet(s.node.Parent())
		if !ok {
			return errors.Errorf("Node %d has invalid parent %v", i, s.node.Parent())
		}
		if !containsHandle(parent.Children(), h) {
			return errors.Errorf("Node %d is missing from children of its parent %v", i, s.node.Parent())
		}
	}

	// every live node must hang off the root
	seen := map[base.Handle]struct{}{g.root: {}}
	queue := []base.Handle{g.root}
	for i := 0; i < len(queue); i++ {
		for _, c := range g.Get(queue[i]).Children() {
			if _, ok := seen[c]; ok {
				return errors.Errorf("Node %v is reachable more than once", c)
			}
			seen[c] = struct{}{}
			queue = append(queue, c)
		}
	}
	if len(seen) != g.count {
		return errors.Errorf("%d of %d nodes are not reachable from root", g.count-len(seen), g.count)
	}
	return nil
}

func containsHandle(hs []base.Handle, h base.Handle) bool {
	for _, c := range hs {
		if c == h {
			return true
		}
	}
	return false
}
