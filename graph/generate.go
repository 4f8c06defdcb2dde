package graph

import (
	"log"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/mogaika/scenenode/scene"
	"github.com/mogaika/scenenode/scene/base"
	"github.com/mogaika/scenenode/scene/camera"
	"github.com/mogaika/scenenode/scene/light"
	"github.com/mogaika/scenenode/scene/mesh"
	"github.com/mogaika/scenenode/scene/particle"
	"github.com/mogaika/scenenode/scene/sprite"
	"github.com/mogaika/scenenode/utils"
)

// Generate builds a random scene of n nodes besides the root. The same seed
// always produces the same scene.
func Generate(n int, seed int64) *Graph {
	rng := rand.New(rand.NewSource(seed))
	names := utils.NewRandomNameGenerator(seed)
	kinds := scene.Kinds()

	g := New()
	g.Title = names.RandomName()
	if len(g.Title) > TitleSize {
		g.Title = g.Title[:TitleSize]
	}

	handles := make([]base.Handle, 0, n)
	for i := 0; i < n; i++ {
		node := randomNode(rng, kinds[rng.Intn(len(kinds))])
		node.SetName(names.RandomName())

		tr := base.Identity()
		tr.Position = randomVec3(rng, 10)
		tr.SetEuler(mgl32.Vec3{0, rng.Float32() * 360, 0})
		node.SetLocalTransform(tr)

		h := g.Add(node)
		// a fresh node has no children so any existing parent keeps the tree acyclic
		if len(handles) != 0 && rng.Intn(3) != 0 {
			if err := g.Link(h, handles[rng.Intn(len(handles))]); err != nil {
				log.Panicf("[graph] Generate link: %v", err)
			}
		}
		handles = append(handles, h)
	}

	g.UpdateHierarchy()
	return g
}

func randomVec3(rng *rand.Rand, extent float32) mgl32.Vec3 {
	return mgl32.Vec3{
		(rng.Float32()*2 - 1) * extent,
		(rng.Float32()*2 - 1) * extent,
		(rng.Float32()*2 - 1) * extent,
	}
}

func randomColor(rng *rand.Rand) [4]uint8 {
	return [4]uint8{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 0xff}
}

func randomTexture(rng *rand.Rand) uuid.UUID {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func randomNode(rng *rand.Rand, k scene.Kind) scene.Node {
	switch k {
	case scene.KindLight:
		var l *light.Light
		switch rng.Intn(3) {
		case 0:
			l = light.NewDirectional()
		case 1:
			l = light.NewPoint(1 + rng.Float32()*20)
		default:
			l = light.NewSpot(mgl32.DegToRad(10+rng.Float32()*50), mgl32.DegToRad(rng.Float32()*20), 1+rng.Float32()*30)
		}
		l.Color = mgl32.Vec3{rng.Float32(), rng.Float32(), rng.Float32()}
		l.SetIntensity(rng.Float32() * 4)
		l.CastShadows = rng.Intn(2) == 0
		return scene.NewLight(l)
	case scene.KindCamera:
		c := camera.New()
		c.Fov = mgl32.DegToRad(45 + rng.Float32()*45)
		return scene.NewCamera(c)
	case scene.KindMesh:
		var m *mesh.Mesh
		if rng.Intn(2) == 0 {
			m = mesh.NewCube(mgl32.Vec3{1 + rng.Float32()*4, 1 + rng.Float32()*4, 1 + rng.Float32()*4})
		} else {
			m = mesh.NewQuad(1+rng.Float32()*4, 1+rng.Float32()*4)
		}
		for i := range m.Surfaces {
			m.Surfaces[i].Color = randomColor(rng)
			m.Surfaces[i].Texture = randomTexture(rng)
		}
		return scene.NewMesh(m)
	case scene.KindSprite:
		s := sprite.New()
		s.Texture = randomTexture(rng)
		s.Color = randomColor(rng)
		s.Size = 0.5 + rng.Float32()*2
		s.Rotation = rng.Float32() * 2 * math.Pi
		return scene.NewSprite(s)
	case scene.KindParticleSystem:
		ps := particle.New()
		if rng.Intn(2) == 0 {
			ps.Emitters = append(ps.Emitters, particle.NewBoxEmitter(randomVec3(rng, 2).Add(mgl32.Vec3{2.5, 2.5, 2.5})))
		} else {
			ps.Emitters = append(ps.Emitters, particle.NewSphereEmitter(0.5+rng.Float32()*2))
		}
		ps.Texture = randomTexture(rng)
		ps.Seed(rng.Int63())
		return scene.NewParticleSystem(ps)
	default:
		return scene.NewBase()
	}
}
