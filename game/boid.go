package game

import (
	"github.com/google/uuid"
	"github.com/wfunc/boidserver/geom"
	"github.com/wfunc/boidserver/models"
)

// Boid is one autonomous flocking agent. Boids are created in batches when a
// room's simulation is constructed and live until the room is destroyed.
type Boid struct {
	ID           string
	Position     geom.Vec
	Velocity     geom.Vec
	Acceleration geom.Vec
	Color        string
	Segregated   bool
}

func NewBoid(x, y float64, color string) *Boid {
	return &Boid{
		ID:       uuid.New().String(),
		Position: geom.NewVec(x, y),
		Color:    color,
	}
}

// Flock accumulates this tick's steering forces against every boid and
// predator in the room, and refreshes the segregation flag. It reads
// positions only; integration happens later in Update so every boid in a
// tick sees the same start-of-tick world.
func (b *Boid) Flock(boids []*Boid, predators []*Predator) {
	separation := b.separate(boids).Scale(SeparationWeight)
	alignment := b.align(boids).Scale(AlignmentWeight)
	cohesion := b.cohere(boids).Scale(CohesionWeight)
	flee := b.flee(predators).Scale(FleeWeight)

	b.applyForce(separation)
	b.applyForce(alignment)
	b.applyForce(cohesion)
	b.applyForce(flee)

	b.checkColorSegregation(boids)
}

// checkColorSegregation marks the boid segregated iff it has at least one
// neighbor within the perception radius and every such neighbor shares its
// color. A boid with no neighbors is never segregated.
func (b *Boid) checkColorSegregation(boids []*Boid) {
	sameColor := 0
	neighbors := 0

	for _, other := range boids {
		if other == b {
			continue
		}
		if b.Position.Distance(other.Position) < PerceptionRadius {
			neighbors++
			if other.Color == b.Color {
				sameColor++
			}
		}
	}

	b.Segregated = neighbors > 0 && sameColor == neighbors
}

// flee steers away from every predator within FleeRadius. Closer predators
// produce a stronger desired speed; the per-predator steers are averaged.
func (b *Boid) flee(predators []*Predator) geom.Vec {
	steering := geom.Vec{}
	total := 0

	for _, p := range predators {
		distance := b.Position.Distance(p.ServerPosition)
		if distance >= FleeRadius {
			continue
		}

		desired := b.Position.Sub(p.ServerPosition).Normalize()
		strength := (FleeRadius - distance) / FleeRadius
		desired = desired.Scale(MaxSpeed * (1 + strength))

		steer := desired.Sub(b.Velocity).Limit(MaxForce)
		steering = steering.Add(steer)
		total++
	}

	if total > 0 {
		return steering.Divide(float64(total))
	}
	return steering
}

// separate pushes away from boids crowding inside half the perception
// radius, weighted by inverse distance.
func (b *Boid) separate(boids []*Boid) geom.Vec {
	steering := geom.Vec{}
	total := 0

	for _, other := range boids {
		if other == b {
			continue
		}
		distance := b.Position.Distance(other.Position)
		if distance > 0 && distance < PerceptionRadius/2 {
			diff := b.Position.Sub(other.Position).Divide(distance)
			steering = steering.Add(diff)
			total++
		}
	}

	if total > 0 {
		return steering.Divide(float64(total)).
			Normalize().
			Scale(MaxSpeed).
			Sub(b.Velocity).
			Limit(MaxForce)
	}
	return steering
}

// align steers toward the average velocity of neighbors.
func (b *Boid) align(boids []*Boid) geom.Vec {
	steering := geom.Vec{}
	total := 0

	for _, other := range boids {
		if other == b {
			continue
		}
		if b.Position.Distance(other.Position) < PerceptionRadius {
			steering = steering.Add(other.Velocity)
			total++
		}
	}

	if total > 0 {
		return steering.Divide(float64(total)).
			Normalize().
			Scale(MaxSpeed).
			Sub(b.Velocity).
			Limit(MaxForce)
	}
	return steering
}

// cohere steers toward the average position of neighbors.
func (b *Boid) cohere(boids []*Boid) geom.Vec {
	steering := geom.Vec{}
	total := 0

	for _, other := range boids {
		if other == b {
			continue
		}
		if b.Position.Distance(other.Position) < PerceptionRadius {
			steering = steering.Add(other.Position)
			total++
		}
	}

	if total > 0 {
		return steering.Divide(float64(total)).
			Sub(b.Position).
			Normalize().
			Scale(MaxSpeed).
			Sub(b.Velocity).
			Limit(MaxForce)
	}
	return steering
}

func (b *Boid) applyForce(force geom.Vec) {
	b.Acceleration = b.Acceleration.Add(force)
}

// Update integrates velocity and position, resets acceleration, and applies
// the soft boundary correction.
func (b *Boid) Update(canvasWidth, canvasHeight float64) {
	b.Velocity = b.Velocity.Add(b.Acceleration).Limit(MaxSpeed)
	b.Position = b.Position.Add(b.Velocity)
	b.Acceleration = geom.Vec{}
	b.edges(canvasWidth, canvasHeight)
}

// edges nudges velocity back toward the interior inside the margin band.
// This is a steering correction, not a clamp, so a boid may briefly occupy
// the band.
func (b *Boid) edges(canvasWidth, canvasHeight float64) {
	if b.Position.X < EdgeMargin {
		b.Velocity.X += TurnFactor
	}
	if b.Position.X > canvasWidth-EdgeMargin {
		b.Velocity.X -= TurnFactor
	}
	if b.Position.Y < EdgeMargin {
		b.Velocity.Y += TurnFactor
	}
	if b.Position.Y > canvasHeight-EdgeMargin {
		b.Velocity.Y -= TurnFactor
	}
}

func (b *Boid) State() models.BoidState {
	return models.BoidState{
		ID:         b.ID,
		Position:   b.Position,
		Velocity:   b.Velocity,
		Color:      b.Color,
		Segregated: b.Segregated,
	}
}
