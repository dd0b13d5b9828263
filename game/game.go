package game

import (
	"math/rand"

	"github.com/wfunc/boidserver/geom"
	"github.com/wfunc/boidserver/models"
)

// Game is one room's authoritative simulation. It owns the boid and predator
// collections and nothing else: no locks, no references back to the room or
// registries. The owner serializes access.
type Game struct {
	boids       []*Boid
	predators   []*Predator
	canvasW     float64
	canvasH     float64
	gameStarted bool
	tick        int64
}

// NewGame spawns one batch of boids per color group inside the inner spawn
// band. Group colors cycle through the boid palette.
func NewGame(boidGroups, boidsPerGroup int) *Game {
	g := &Game{
		canvasW: CanvasWidth,
		canvasH: CanvasHeight,
	}
	g.initializeBoids(boidGroups, boidsPerGroup)
	return g
}

func (g *Game) initializeBoids(groups, perGroup int) {
	g.boids = make([]*Boid, 0, groups*perGroup)
	for gi := 0; gi < groups; gi++ {
		color := BoidColors[gi%len(BoidColors)]
		for i := 0; i < perGroup; i++ {
			x := rand.Float64()*(g.canvasW-2*SpawnMargin) + SpawnMargin
			y := rand.Float64()*(g.canvasH-2*SpawnMargin) + SpawnMargin
			g.boids = append(g.boids, NewBoid(x, y, color))
		}
	}
}

// AddPlayer creates a predator at canvas center in the first unused palette
// slot. Returns the predator ID, or "" when all four slots are taken.
func (g *Game) AddPlayer(playerID, playerName string) string {
	if len(g.predators) >= MaxPredators {
		return ""
	}

	color := g.nextFreeColor()
	predator := NewPredator(playerID, playerName, color, g.canvasW/2, g.canvasH/2)
	g.predators = append(g.predators, predator)
	return predator.ID
}

// nextFreeColor returns the first palette slot no live predator holds, so a
// leave/rejoin cycle cannot hand out a duplicate color.
func (g *Game) nextFreeColor() string {
	for _, color := range PredatorColors {
		taken := false
		for _, p := range g.predators {
			if p.Color == color {
				taken = true
				break
			}
		}
		if !taken {
			return color
		}
	}
	return PredatorColors[0]
}

// RemovePlayer drops the predator owned by playerID. No-op if absent; the
// simulation holds no dangling references afterwards.
func (g *Game) RemovePlayer(playerID string) {
	kept := g.predators[:0]
	for _, p := range g.predators {
		if p.PlayerID != playerID {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(g.predators); i++ {
		g.predators[i] = nil
	}
	g.predators = kept
}

// UpdatePlayerPosition stores the latest input target for playerID's
// predator. No-op if the player has no predator (already left).
func (g *Game) UpdatePlayerPosition(playerID string, position geom.Vec) {
	for _, p := range g.predators {
		if p.PlayerID == playerID {
			p.SetClientPosition(position)
			return
		}
	}
}

// Update advances one tick. Predators clamp first so boids flee current-tick
// predator positions; then every boid's forces are computed against the
// start-of-tick boid positions, and only then does anything integrate.
func (g *Game) Update() {
	if !g.gameStarted {
		return
	}
	g.tick++

	for _, p := range g.predators {
		p.Update(g.canvasW, g.canvasH)
	}

	for _, b := range g.boids {
		b.Flock(g.boids, g.predators)
	}
	for _, b := range g.boids {
		b.Update(g.canvasW, g.canvasH)
	}
}

func (g *Game) StartGame() {
	g.gameStarted = true
}

func (g *Game) Started() bool {
	return g.gameStarted
}

// Tick returns the number of effectual Update calls so far.
func (g *Game) Tick() int64 {
	return g.tick
}

// IsComplete reports whether every boid is segregated right now. It is a
// pure query over the flags refreshed by the last Update.
func (g *Game) IsComplete() bool {
	for _, b := range g.boids {
		if !b.Segregated {
			return false
		}
	}
	return true
}

func (g *Game) PlayerCount() int {
	return len(g.predators)
}

func (g *Game) BoidCount() int {
	return len(g.boids)
}

// State snapshots the full world for broadcast.
func (g *Game) State() models.GameState {
	state := models.GameState{
		GameStarted: g.gameStarted,
		Boids:       make([]models.BoidState, 0, len(g.boids)),
		Predators:   make([]models.PredatorState, 0, len(g.predators)),
	}
	for _, b := range g.boids {
		state.Boids = append(state.Boids, b.State())
	}
	for _, p := range g.predators {
		state.Predators = append(state.Predators, p.State())
	}
	return state
}
