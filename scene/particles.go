package scene

import (
	stdmath "math"
	"math/rand"

	"render-engine/core"
	"render-engine/math"
)

// BlendMode controls how particle colours composite with the scene.
type BlendMode int

const (
	BlendAlpha    BlendMode = iota // standard alpha blend (smoke, mist, dust)
	BlendAdditive                  // additive blend (fire, sparks, glow, magic)
)

// EmitterShape selects where new particles are spawned from.
type EmitterShape int

const (
	EmitterPoint  EmitterShape = iota // spawn at Position, velocity within a cone around Direction
	EmitterCone                       // alias of EmitterPoint kept for readability at call sites
	EmitterSphere                     // spawn uniformly inside a sphere of radius ShapeRadius around Position
	EmitterBox                        // spawn uniformly inside a box of half-extents ShapeExtents around Position
)

// Particle is a single live particle instance.
type Particle struct {
	Position math.Vec3
	Velocity math.Vec3
	Life     float32    // remaining lifetime in seconds
	MaxLife  float32    // total initial lifetime in seconds
	Size     float32    // world-space billboard half-size
	Rotation float32    // radians, about the view axis
	Color    core.Color // updated each frame from ColorOverLifetime
}

// ParticleEmitter spawns and simulates CPU particles. The renderer draws
// the live Particles slice as a single instanced billboard draw call.
type ParticleEmitter struct {
	Shape EmitterShape

	// Spawn position + direction
	Position  math.Vec3
	Direction math.Vec3 // mean emission direction (must be normalised); EmitterPoint/Cone only
	Spread    float32   // half-angle cone spread in radians; EmitterPoint/Cone only

	// EmitterSphere / EmitterBox extents
	ShapeRadius  float32
	ShapeExtents math.Vec3

	// Spawn rate
	Rate int // particles per second

	// Per-particle random ranges
	MinLife, MaxLife   float32 // lifetime range (seconds)
	MinSpeed, MaxSpeed float32 // initial speed range (units/s)
	MinSize, MaxSize   float32 // initial billboard half-size range

	// VelocityRandomness blends the sampled emission direction toward a
	// fully random unit direction: 0 = exactly the shape's direction,
	// 1 = uniform random sphere.
	VelocityRandomness float32

	// Colour/size over the 0..1 lifetime fraction. Only consulted once
	// SetColorOverLifetime or SetSizeOverLifetime has been called; until
	// then the StartColor/EndColor and MinSize/MaxSize lerps are used.
	ColorOverLifetime ColorGradient
	SizeOverLifetime  FloatGradient
	useGradients      bool

	// Legacy two-color convenience, used until a gradient setter is called.
	StartColor core.Color
	EndColor   core.Color

	// Physics — constant acceleration applied every frame
	Gravity math.Vec3

	// Rendering
	BlendMode BlendMode

	// Control
	Active bool // if false no new particles are spawned; existing ones finish out

	// Live particles (read by the renderer)
	Particles []Particle

	pool       int
	spawnAccum float32
	rng        *rand.Rand
}

// NewParticleEmitter returns a fire-like point/cone emitter with sensible
// defaults. Adjust fields before the first Update to customise behaviour.
func NewParticleEmitter(maxParticles int) *ParticleEmitter {
	return &ParticleEmitter{
		Shape:      EmitterCone,
		Direction:  math.Vec3{X: 0, Y: 1, Z: 0},
		Spread:     0.4,
		Rate:       80,
		MinLife:    0.6,
		MaxLife:    1.8,
		MinSpeed:   2.0,
		MaxSpeed:   5.0,
		MinSize:    0.06,
		MaxSize:    0.22,
		StartColor: core.Color{R: 1.0, G: 0.7, B: 0.15, A: 1.0},
		EndColor:   core.Color{R: 0.8, G: 0.05, B: 0.0, A: 0.0},
		Gravity:    math.Vec3{Y: 0.3},
		BlendMode:  BlendAdditive,
		Active:     true,
		Particles:  make([]Particle, 0, maxParticles),
		pool:       maxParticles,
		rng:        rand.New(rand.NewSource(42)),
	}
}

// NewSmokeEmitter returns a slow rising smoke emitter.
func NewSmokeEmitter(maxParticles int) *ParticleEmitter {
	return &ParticleEmitter{
		Shape:      EmitterCone,
		Direction:  math.Vec3{X: 0, Y: 1, Z: 0},
		Spread:     0.5,
		Rate:       20,
		MinLife:    2.0,
		MaxLife:    4.0,
		MinSpeed:   0.5,
		MaxSpeed:   1.5,
		MinSize:    0.15,
		MaxSize:    0.5,
		StartColor: core.Color{R: 0.3, G: 0.3, B: 0.3, A: 0.4},
		EndColor:   core.Color{R: 0.6, G: 0.6, B: 0.6, A: 0.0},
		Gravity:    math.Vec3{Y: 0.1},
		BlendMode:  BlendAlpha,
		Active:     true,
		Particles:  make([]Particle, 0, maxParticles),
		pool:       maxParticles,
		rng:        rand.New(rand.NewSource(99)),
	}
}

// SetColorOverLifetime installs a color gradient and switches the emitter
// off the legacy StartColor/EndColor lerp.
func (e *ParticleEmitter) SetColorOverLifetime(g ColorGradient) {
	e.ColorOverLifetime = g
	if !e.useGradients {
		// Keep size on the legacy MaxSize → MinSize lerp.
		e.SizeOverLifetime = LinearFloat(e.MaxSize, e.MinSize)
	}
	e.useGradients = true
}

// SetSizeOverLifetime installs a size gradient and switches the emitter
// off the legacy MinSize/MaxSize lerp.
func (e *ParticleEmitter) SetSizeOverLifetime(g FloatGradient) {
	e.SizeOverLifetime = g
	if !e.useGradients {
		// Keep colour on the legacy StartColor → EndColor lerp.
		e.ColorOverLifetime = LinearColor(e.StartColor, e.EndColor)
	}
	e.useGradients = true
}

// Update advances the simulation by dt seconds.
// Call once per frame before the renderer draws the emitter.
func (e *ParticleEmitter) Update(dt float32) {
	if e.Active {
		e.spawnAccum += float32(e.Rate) * dt
		for e.spawnAccum >= 1.0 && len(e.Particles) < e.pool {
			e.spawnParticle()
			e.spawnAccum -= 1.0
		}
	}

	write := 0
	for i := range e.Particles {
		p := &e.Particles[i]
		p.Life -= dt
		if p.Life <= 0 {
			continue
		}
		p.Velocity = p.Velocity.Add(e.Gravity.Mul(dt))
		p.Position = p.Position.Add(p.Velocity.Mul(dt))

		t := 1.0 - p.Life/p.MaxLife // 0 = just born, 1 = about to die
		if e.useGradients {
			p.Color = e.ColorOverLifetime.Eval(t)
			p.Size = e.SizeOverLifetime.Eval(t)
		} else {
			p.Color = lerpColor(e.StartColor, e.EndColor, t)
			p.Size = e.MinSize + (e.MaxSize-e.MinSize)*(1.0-t)
		}

		e.Particles[write] = *p
		write++
	}
	e.Particles = e.Particles[:write]
}

// Count returns the number of live particles.
func (e *ParticleEmitter) Count() int { return len(e.Particles) }

func (e *ParticleEmitter) spawnParticle() {
	life := e.MinLife + e.rng.Float32()*(e.MaxLife-e.MinLife)
	speed := e.MinSpeed + e.rng.Float32()*(e.MaxSpeed-e.MinSpeed)

	pos, dir := e.sampleSpawn()
	if e.VelocityRandomness > 0 {
		random := randomOnSphere(e.rng)
		dir = dir.Mul(1 - e.VelocityRandomness).Add(random.Mul(e.VelocityRandomness)).Normalize()
	}

	size := e.MinSize
	color := e.StartColor
	if e.useGradients {
		size = e.SizeOverLifetime.Eval(0)
		color = e.ColorOverLifetime.Eval(0)
	}

	e.Particles = append(e.Particles, Particle{
		Position: pos,
		Velocity: dir.Mul(speed),
		Life:     life,
		MaxLife:  life,
		Size:     size,
		Rotation: e.rng.Float32() * 2 * float32(stdmath.Pi),
		Color:    color,
	})
}

// sampleSpawn returns a (position, direction) pair for a new particle
// according to e.Shape.
func (e *ParticleEmitter) sampleSpawn() (math.Vec3, math.Vec3) {
	switch e.Shape {
	case EmitterSphere:
		offset := randomOnSphere(e.rng).Mul(e.rng.Float32() * e.ShapeRadius)
		pos := e.Position.Add(offset)
		dir := offset.Normalize()
		if offset.LengthSqr() < 1e-8 {
			dir = math.Vec3{Y: 1}
		}
		return pos, dir
	case EmitterBox:
		offset := math.Vec3{
			X: (e.rng.Float32()*2 - 1) * e.ShapeExtents.X,
			Y: (e.rng.Float32()*2 - 1) * e.ShapeExtents.Y,
			Z: (e.rng.Float32()*2 - 1) * e.ShapeExtents.Z,
		}
		dir := randomInCone(e.Direction, e.Spread, e.rng)
		return e.Position.Add(offset), dir
	default: // EmitterPoint, EmitterCone
		return e.Position, randomInCone(e.Direction, e.Spread, e.rng)
	}
}

// randomOnSphere returns a uniformly distributed unit vector.
func randomOnSphere(rng *rand.Rand) math.Vec3 {
	z := rng.Float32()*2 - 1
	theta := rng.Float32() * 2 * float32(stdmath.Pi)
	r := float32(stdmath.Sqrt(float64(1 - z*z)))
	return math.Vec3{X: r * float32(stdmath.Cos(float64(theta))), Y: r * float32(stdmath.Sin(float64(theta))), Z: z}
}

// randomInCone returns a uniformly-distributed unit vector within a cone of
// half-angle spread around axis.  Samples cos(theta) uniformly in
// [cos(spread), 1], which is uniform over the spherical cap (not polar-biased).
func randomInCone(axis math.Vec3, spread float32, rng *rand.Rand) math.Vec3 {
	phi := rng.Float32() * 2.0 * float32(stdmath.Pi)
	cosMin := float32(stdmath.Cos(float64(spread)))
	cosTheta := cosMin + rng.Float32()*(1.0-cosMin)
	sinTheta := float32(stdmath.Sqrt(float64(1.0 - cosTheta*cosTheta)))

	up := math.Vec3{X: 0, Y: 1, Z: 0}
	if stdmath.Abs(float64(axis.Dot(up))) > 0.99 {
		up = math.Vec3{X: 1, Y: 0, Z: 0}
	}
	right := axis.Cross(up).Normalize()
	up = right.Cross(axis).Normalize()

	sinPhi := float32(stdmath.Sin(float64(phi)))
	cosPhi := float32(stdmath.Cos(float64(phi)))
	return axis.Mul(cosTheta).
		Add(right.Mul(sinTheta * cosPhi)).
		Add(up.Mul(sinTheta * sinPhi)).
		Normalize()
}

func lerpColor(a, b core.Color, t float32) core.Color {
	return core.Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}
