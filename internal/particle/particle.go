// Package particle animates the menu fireworks.
package particle

import "math/rand"

type Particle struct {
	X, Y       float32
	XSpeed     float32
	YSpeed     float32
	R, G, B, A float32
	Size       float32
	Life       float32
	Decay      float32
	Gravity    float32
	stage      int
}

func (p *Particle) IsDead() bool {
	return p.Life <= 0
}

func (p *Particle) evolve() {
	p.X += p.XSpeed
	p.Y += p.YSpeed
	p.Life -= p.Decay
	p.YSpeed += p.Gravity
}

const (
	ROCKET_STAGE = iota
	SPARK_STAGE
	BURNT_STAGE
)

const FIREWORKS_PARTICLE_COUNT = 100

// Fireworks launches a bundle of rockets from a random spot at the bottom
// line; each one bursts into a coloured spark when it burns out. Positions are
// relative to the launch line centre, y grows downwards.
type Fireworks struct {
	rng       *rand.Rand
	halfWidth float32
	particles []Particle
}

func NewFireworks(rng *rand.Rand, screenWidth float32) *Fireworks {
	f := &Fireworks{
		rng:       rng,
		halfWidth: screenWidth / 2,
		particles: make([]Particle, 0, FIREWORKS_PARTICLE_COUNT),
	}
	f.Reset()
	return f
}

func (f *Fireworks) between(low, high float32) float32 {
	return low + f.rng.Float32()*(high-low)
}

func (f *Fireworks) Reset() {
	x := f.between(-f.halfWidth, f.halfWidth)
	xSpeed := float32(2.5)
	if x >= 0 {
		xSpeed = -xSpeed
	}
	f.particles = f.particles[:0]
	for i := 0; i < FIREWORKS_PARTICLE_COUNT; i++ {
		f.particles = append(f.particles, Particle{
			X:       x,
			XSpeed:  xSpeed,
			YSpeed:  -5,
			R:       1,
			G:       1,
			B:       1,
			A:       1,
			Size:    5,
			Life:    100,
			Decay:   1,
			Gravity: 0.03,
			stage:   ROCKET_STAGE,
		})
	}
}

func (f *Fireworks) explode(p *Particle) {
	p.stage = SPARK_STAGE
	p.Gravity = 0.04
	p.XSpeed = f.between(-2, 2)
	p.YSpeed = f.between(-2, 2)
	p.Size = 3
	p.R = f.rng.Float32()
	p.G = f.rng.Float32()
	p.B = f.rng.Float32()
	p.Life = 10
	p.Decay = 0.2
}

// Evolve moves every live particle one frame forward. Once the last spark
// burns out a new bundle is launched.
func (f *Fireworks) Evolve() {
	alive := f.particles[:0]
	for _, p := range f.particles {
		p.evolve()
		if p.stage == SPARK_STAGE {
			p.A -= 0.02
		}
		if p.IsDead() {
			p.stage++
			if p.stage == SPARK_STAGE {
				f.explode(&p)
			}
		}
		if !p.IsDead() {
			alive = append(alive, p)
		}
	}
	f.particles = alive
	if len(f.particles) == 0 {
		f.Reset()
	}
}

// Particles returns the live particles; the slice is reused by Evolve.
func (f *Fireworks) Particles() []Particle {
	return f.particles
}
