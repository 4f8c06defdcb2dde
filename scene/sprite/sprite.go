package sprite

import (
	"github.com/google/uuid"

	"github.com/mogaika/scenenode/scene/base"
	"github.com/mogaika/scenenode/visitor"
)

// Sprite is a camera facing textured quad.
type Sprite struct {
	base.Base

	Texture  uuid.UUID
	Color    [4]uint8
	Size     float32
	Rotation float32 // radians, around the view axis
}

func New() *Sprite {
	return &Sprite{
		Base:  base.New(),
		Color: [4]uint8{0xff, 0xff, 0xff, 0xff},
		Size:  1,
	}
}

func (s *Sprite) Clone() *Sprite {
	c := *s
	c.Base = s.Base.Clone()
	return &c
}

func (s *Sprite) Visit(name string, v *visitor.Visitor) error {
	v.Enter(name)
	defer v.Leave()

	if err := s.Base.Visit("Base", v); err != nil {
		return err
	}
	v.UUID("Texture", &s.Texture)
	for i := range s.Color {
		v.Uint8("Color", &s.Color[i])
	}
	v.Float32("Size", &s.Size)
	v.Float32("Rotation", &s.Rotation)
	return v.Err()
}
