package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
)

// NewQuad builds a single surface XY plane of the given size facing +Z.
func NewQuad(width, height float32) *Mesh {
	w, h := width/2, height/2
	n := mgl32.Vec3{0, 0, 1}
	s := Surface{
		Vertices: []Vertex{
			{Position: mgl32.Vec3{-w, -h, 0}, Normal: n, TexCoord: mgl32.Vec2{0, 1}},
			{Position: mgl32.Vec3{w, -h, 0}, Normal: n, TexCoord: mgl32.Vec2{1, 1}},
			{Position: mgl32.Vec3{w, h, 0}, Normal: n, TexCoord: mgl32.Vec2{1, 0}},
			{Position: mgl32.Vec3{-w, h, 0}, Normal: n, TexCoord: mgl32.Vec2{0, 0}},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
		Color:   [4]uint8{0xff, 0xff, 0xff, 0xff},
	}
	return NewWithSurfaces(s)
}

var cubeFaces = [6]struct {
	normal, u, v mgl32.Vec3
}{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
}

// NewCube builds an axis aligned cube centered at the origin with 4 vertices per face.
func NewCube(size mgl32.Vec3) *Mesh {
	half := size.Mul(0.5)
	s := Surface{
		Vertices: make([]Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
		Color:    [4]uint8{0xff, 0xff, 0xff, 0xff},
	}
	corners := [4]mgl32.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, f := range cubeFaces {
		start := uint32(len(s.Vertices))
		for _, c := range corners {
			p := f.normal.Add(f.u.Mul(c[0])).Add(f.v.Mul(c[1]))
			s.Vertices = append(s.Vertices, Vertex{
				Position: mgl32.Vec3{p[0] * half[0], p[1] * half[1], p[2] * half[2]},
				Normal:   f.normal,
				TexCoord: mgl32.Vec2{(c[0] + 1) / 2, (1 - c[1]) / 2},
			})
		}
		s.Indices = append(s.Indices, start, start+1, start+2, start, start+2, start+3)
	}
	return NewWithSurfaces(s)
}
