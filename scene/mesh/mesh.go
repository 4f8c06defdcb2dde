package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/mogaika/scenenode/scene/base"
	"github.com/mogaika/scenenode/visitor"
)

type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
}

func (vx *Vertex) Visit(name string, v *visitor.Visitor) error {
	v.Enter(name)
	defer v.Leave()
	v.Vec3("Position", &vx.Position)
	v.Vec3("Normal", &vx.Normal)
	v.Vec2("TexCoord", &vx.TexCoord)
	return v.Err()
}

// Surface is an indexed triangle list with a single texture.
type Surface struct {
	Vertices []Vertex
	Indices  []uint32
	Texture  uuid.UUID
	Color    [4]uint8
}

func (s *Surface) Visit(name string, v *visitor.Visitor) error {
	v.Enter(name)
	defer v.Leave()

	visitor.Slice(v, "Vertices", &s.Vertices)

	count := len(s.Indices)
	if err := v.Len("IndicesCount", &count); err != nil {
		return err
	}
	if v.IsReading() {
		s.Indices = nil
		if count > 0 {
			s.Indices = make([]uint32, 0, minInt(count, 1024))
		}
		for i := 0; i < count; i++ {
			var index uint32
			if err := v.Uint32("Index", &index); err != nil {
				return err
			}
			s.Indices = append(s.Indices, index)
		}
	} else {
		for i := range s.Indices {
			v.Uint32("Index", &s.Indices[i])
		}
	}

	v.UUID("Texture", &s.Texture)
	for i := range s.Color {
		v.Uint8("Color", &s.Color[i])
	}
	if err := v.Err(); err != nil {
		return err
	}

	if v.IsReading() {
		for _, index := range s.Indices {
			if int(index) >= len(s.Vertices) {
				return v.Invalid("Indices", "Index %d out of %d vertices", index, len(s.Vertices))
			}
		}
	}
	return nil
}

func (s *Surface) Clone() Surface {
	c := *s
	if s.Vertices != nil {
		c.Vertices = append([]Vertex(nil), s.Vertices...)
	}
	if s.Indices != nil {
		c.Indices = append([]uint32(nil), s.Indices...)
	}
	return c
}

func (s *Surface) TrianglesCount() int { return len(s.Indices) / 3 }

type Mesh struct {
	base.Base

	Surfaces    []Surface
	CastShadows bool
}

func New() *Mesh {
	return &Mesh{
		Base:        base.New(),
		CastShadows: true,
	}
}

func NewWithSurfaces(surfaces ...Surface) *Mesh {
	m := New()
	m.Surfaces = surfaces
	return m
}

// BoundingBox returns the local space box around every vertex, or two zero
// vectors for a mesh without vertices.
func (m *Mesh) BoundingBox() (min, max mgl32.Vec3) {
	first := true
	for _, s := range m.Surfaces {
		for _, vx := range s.Vertices {
			if first {
				min, max = vx.Position, vx.Position
				first = false
				continue
			}
			for i := 0; i < 3; i++ {
				min[i] = float32(math.Min(float64(min[i]), float64(vx.Position[i])))
				max[i] = float32(math.Max(float64(max[i]), float64(vx.Position[i])))
			}
		}
	}
	return
}

func (m *Mesh) Clone() *Mesh {
	c := *m
	c.Base = m.Base.Clone()
	if m.Surfaces != nil {
		c.Surfaces = make([]Surface, len(m.Surfaces))
		for i := range m.Surfaces {
			c.Surfaces[i] = m.Surfaces[i].Clone()
		}
	}
	return &c
}

func (m *Mesh) Visit(name string, v *visitor.Visitor) error {
	v.Enter(name)
	defer v.Leave()

	if err := m.Base.Visit("Base", v); err != nil {
		return err
	}
	visitor.Slice(v, "Surfaces", &m.Surfaces)
	v.Bool("CastShadows", &m.CastShadows)
	return v.Err()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
