package game

const (
	CanvasWidth  = 800.0
	CanvasHeight = 600.0

	MaxSpeed         = 2.5
	MaxForce         = 0.05
	PerceptionRadius = 60.0
	FleeRadius       = 60.0

	// Steering weights, applied when the four forces are combined.
	SeparationWeight = 1.8
	AlignmentWeight  = 1.2
	CohesionWeight   = 1.2
	FleeWeight       = 2.5

	// Soft boundary: inside this margin velocity is nudged back toward the
	// interior instead of hard-clamping position.
	EdgeMargin = 20.0
	TurnFactor = 0.2

	// Boids spawn inside this inner band so they don't start on an edge.
	SpawnMargin = 100.0

	PredatorRadius = 12.0
	MaxPredators   = 4
)

// BoidColors is the palette boid groups cycle through.
var BoidColors = []string{"#4CAF50", "#F44336", "#2196F3", "#FFEB3B"}

// PredatorColors is the fixed slot palette; each predator takes the first
// unused slot.
var PredatorColors = []string{"#F44336", "#2196F3", "#4CAF50", "#FFEB3B"}
