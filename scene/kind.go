package scene

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/mogaika/scenenode/scene/base"
	"github.com/mogaika/scenenode/scene/camera"
	"github.com/mogaika/scenenode/scene/light"
	"github.com/mogaika/scenenode/scene/mesh"
	"github.com/mogaika/scenenode/scene/particle"
	"github.com/mogaika/scenenode/scene/sprite"
)

// Kind identifies the payload a Node holds. Values are part of the scene file
// format and must never be renumbered.
type Kind uint8

const (
	KindBase Kind = iota
	KindLight
	KindCamera
	KindMesh
	KindSprite
	KindParticleSystem

	kindsCount
)

var kindNames = [kindsCount]string{
	KindBase:           "Base",
	KindLight:          "Light",
	KindCamera:         "Camera",
	KindMesh:           "Mesh",
	KindSprite:         "Sprite",
	KindParticleSystem: "ParticleSystem",
}

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (k Kind) Valid() bool { return k < kindsCount }

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, &UnknownKindError{Id: uint8(k), Offset: -1}
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, errors.Errorf("Unknown node kind name %q", name)
}

// Kinds lists every kind in identifier order.
func Kinds() []Kind {
	kinds := make([]Kind, kindsCount)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// ErrUnknownKind matches every *UnknownKindError with errors.Is.
var ErrUnknownKind = errors.New("unknown node kind")

// UnknownKindError reports a kind identifier outside the known set.
type UnknownKindError struct {
	Id uint8
	// Offset of the identifier in the stream, -1 when not decoded from one.
	Offset int64
}

func (e *UnknownKindError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("Unknown node kind id %d at offset 0x%x", e.Id, e.Offset)
	}
	return fmt.Sprintf("Unknown node kind id %d", e.Id)
}

func (e *UnknownKindError) Is(target error) bool { return target == ErrUnknownKind }

// FromId constructs a default node of the kind with the given identifier.
// Every identifier decoded from a stream goes through here.
func FromId(id uint8) (Node, error) {
	switch Kind(id) {
	case KindBase:
		b := base.New()
		return Node{p: &b}, nil
	case KindLight:
		return Node{p: light.New()}, nil
	case KindCamera:
		return Node{p: camera.New()}, nil
	case KindMesh:
		return Node{p: mesh.New()}, nil
	case KindSprite:
		return Node{p: sprite.New()}, nil
	case KindParticleSystem:
		return Node{p: particle.New()}, nil
	default:
		return Node{}, &UnknownKindError{Id: id, Offset: -1}
	}
}

func FromKind(k Kind) (Node, error) {
	return FromId(uint8(k))
}

// kindOf is the single place mapping payload types back to kinds.
func kindOf(p payload) Kind {
	switch p.(type) {
	case nil, *base.Base:
		return KindBase
	case *light.Light:
		return KindLight
	case *camera.Camera:
		return KindCamera
	case *mesh.Mesh:
		return KindMesh
	case *sprite.Sprite:
		return KindSprite
	case *particle.ParticleSystem:
		return KindParticleSystem
	default:
		panic(fmt.Sprintf("scene: unexpected payload %T", p))
	}
}
