// Package particle implements the particle system node. Emitter configuration
// is persisted, live particles are simulation state and are not.
package particle

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/mogaika/scenenode/scene/base"
	"github.com/mogaika/scenenode/visitor"
)

// Particle is a live particle in the local space of the system.
type Particle struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Size     float32
	Age      float32
	Lifetime float32
	emitter  int
}

type ParticleSystem struct {
	base.Base

	Emitters     []Emitter
	Acceleration mgl32.Vec3
	Texture      uuid.UUID

	particles []Particle
	rng       *rand.Rand
}

func New() *ParticleSystem {
	return &ParticleSystem{
		Base:         base.New(),
		Acceleration: mgl32.Vec3{0, -9.81, 0},
	}
}

// Seed makes the simulation deterministic.
func (ps *ParticleSystem) Seed(seed int64) {
	ps.rng = rand.New(rand.NewSource(seed))
}

func (ps *ParticleSystem) Particles() []Particle { return ps.particles }

func (ps *ParticleSystem) ClearParticles() {
	ps.particles = nil
	for i := range ps.Emitters {
		ps.Emitters[i].alive = 0
		ps.Emitters[i].spawnAccum = 0
	}
}

// Update advances the simulation by dt seconds: ages and moves existing
// particles, drops expired ones and spawns new ones up to each emitter limit.
func (ps *ParticleSystem) Update(dt float32) {
	if ps.rng == nil {
		ps.Seed(1)
	}

	alive := ps.particles[:0]
	for _, p := range ps.particles {
		p.Age += dt
		if p.Age >= p.Lifetime {
			ps.Emitters[p.emitter].alive--
			continue
		}
		p.Velocity = p.Velocity.Add(ps.Acceleration.Mul(dt))
		p.Position = p.Position.Add(p.Velocity.Mul(dt))
		alive = append(alive, p)
	}
	ps.particles = alive

	for i := range ps.Emitters {
		e := &ps.Emitters[i]
		for n := e.takeSpawns(dt); n > 0; n-- {
			ps.particles = append(ps.particles, Particle{
				Position: e.spawnPoint(ps.rng),
				Velocity: randomDirection(ps.rng).Mul(e.Speed.Sample(ps.rng)),
				Size:     e.Size.Sample(ps.rng),
				Lifetime: e.Lifetime.Sample(ps.rng),
				emitter:  i,
			})
			e.alive++
		}
	}
}

func (ps *ParticleSystem) Clone() *ParticleSystem {
	c := *ps
	c.Base = ps.Base.Clone()
	if ps.Emitters != nil {
		c.Emitters = append([]Emitter(nil), ps.Emitters...)
	}
	if ps.particles != nil {
		c.particles = append([]Particle(nil), ps.particles...)
	}
	c.rng = nil
	return &c
}

func (ps *ParticleSystem) Visit(name string, v *visitor.Visitor) error {
	v.Enter(name)
	defer v.Leave()

	if err := ps.Base.Visit("Base", v); err != nil {
		return err
	}
	visitor.Slice(v, "Emitters", &ps.Emitters)
	v.Vec3("Acceleration", &ps.Acceleration)
	v.UUID("Texture", &ps.Texture)
	if err := v.Err(); err != nil {
		return err
	}

	if v.IsReading() {
		ps.particles = nil
	}
	return nil
}
