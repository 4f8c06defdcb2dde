package particle

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/scenenode/visitor"
)

type EmitterKind uint8

const (
	EMITTER_BOX EmitterKind = iota
	EMITTER_SPHERE
)

func (k EmitterKind) String() string {
	switch k {
	case EMITTER_BOX:
		return "box"
	case EMITTER_SPHERE:
		return "sphere"
	default:
		return "unknown"
	}
}

// Range is an inclusive [Min, Max] interval sampled uniformly.
type Range struct {
	Min, Max float32
}

func (r Range) Sample(rng *rand.Rand) float32 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float32()*(r.Max-r.Min)
}

func (r *Range) Visit(name string, v *visitor.Visitor) error {
	v.Enter(name)
	defer v.Leave()
	v.Float32("Min", &r.Min)
	v.Float32("Max", &r.Max)
	return v.Err()
}

// Emitter spawns particles inside a box or a sphere placed at Position
// relative to the owning particle system.
type Emitter struct {
	Kind         EmitterKind
	HalfExtents  mgl32.Vec3 // box
	Radius       float32    // sphere
	Position     mgl32.Vec3
	MaxParticles uint32
	SpawnRate    float32 // particles per second
	Lifetime     Range
	Size         Range
	Speed        Range

	spawnAccum float32
	alive      uint32
}

func NewBoxEmitter(halfExtents mgl32.Vec3) Emitter {
	e := defaultEmitter()
	e.Kind = EMITTER_BOX
	e.HalfExtents = halfExtents
	return e
}

func NewSphereEmitter(radius float32) Emitter {
	e := defaultEmitter()
	e.Kind = EMITTER_SPHERE
	e.Radius = radius
	return e
}

func defaultEmitter() Emitter {
	return Emitter{
		MaxParticles: 100,
		SpawnRate:    25,
		Lifetime:     Range{1, 2},
		Size:         Range{0.1, 0.2},
		Speed:        Range{0.5, 1},
	}
}

// spawnPoint picks a random point inside the emitter volume.
func (e *Emitter) spawnPoint(rng *rand.Rand) mgl32.Vec3 {
	switch e.Kind {
	case EMITTER_SPHERE:
		dir := randomDirection(rng)
		r := e.Radius * float32(math.Cbrt(rng.Float64()))
		return e.Position.Add(dir.Mul(r))
	default:
		return e.Position.Add(mgl32.Vec3{
			(rng.Float32()*2 - 1) * e.HalfExtents[0],
			(rng.Float32()*2 - 1) * e.HalfExtents[1],
			(rng.Float32()*2 - 1) * e.HalfExtents[2],
		})
	}
}

// takeSpawns accumulates SpawnRate*dt and returns how many particles to spawn
// now. Whole particles beyond the MaxParticles limit are dropped.
func (e *Emitter) takeSpawns(dt float32) uint32 {
	acc := float64(e.spawnAccum) + float64(e.SpawnRate)*float64(dt)
	if math.IsNaN(acc) || acc < 1 {
		if !(acc >= 0) {
			acc = 0
		}
		e.spawnAccum = float32(acc)
		return 0
	}

	whole := math.Floor(acc)
	if math.IsInf(whole, 1) {
		e.spawnAccum = 0
	} else {
		e.spawnAccum = float32(acc - whole)
	}

	if e.alive >= e.MaxParticles {
		return 0
	}
	if free := float64(e.MaxParticles - e.alive); whole > free {
		return uint32(free)
	}
	return uint32(whole)
}

func randomDirection(rng *rand.Rand) mgl32.Vec3 {
	z := rng.Float64()*2 - 1
	a := rng.Float64() * 2 * math.Pi
	r := math.Sqrt(1 - z*z)
	return mgl32.Vec3{float32(r * math.Cos(a)), float32(r * math.Sin(a)), float32(z)}
}

func (e *Emitter) Visit(name string, v *visitor.Visitor) error {
	v.Enter(name)
	defer v.Leave()

	kind := uint8(e.Kind)
	if err := v.Uint8("Kind", &kind); err != nil {
		return err
	}
	e.Kind = EmitterKind(kind)
	if e.Kind != EMITTER_BOX && e.Kind != EMITTER_SPHERE {
		return v.Invalid("Kind", "Unknown emitter kind %d", kind)
	}
	// both shapes are persisted whatever the kind
	v.Vec3("HalfExtents", &e.HalfExtents)
	v.Float32("Radius", &e.Radius)

	v.Vec3("Position", &e.Position)
	v.Uint32("MaxParticles", &e.MaxParticles)
	if err := v.Float32("SpawnRate", &e.SpawnRate); err != nil {
		return err
	}
	if rate := float64(e.SpawnRate); math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return v.Invalid("SpawnRate", "Invalid spawn rate %v", e.SpawnRate)
	}
	e.Lifetime.Visit("Lifetime", v)
	e.Size.Visit("Size", v)
	e.Speed.Visit("Speed", v)
	if err := v.Err(); err != nil {
		return err
	}

	if v.IsReading() {
		e.spawnAccum = 0
		e.alive = 0
	}
	return nil
}
