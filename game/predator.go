package game

import (
	"math"

	"github.com/google/uuid"
	"github.com/wfunc/boidserver/geom"
	"github.com/wfunc/boidserver/models"
)

// Predator is a player-controlled agent. ServerPosition is authoritative and
// is recomputed from the last client-reported position every tick; input
// never writes it directly.
type Predator struct {
	ID             string
	PlayerID       string
	PlayerName     string
	Color          string
	Radius         float64
	ServerPosition geom.Vec
	ClientPosition geom.Vec
}

func NewPredator(playerID, playerName, color string, startX, startY float64) *Predator {
	return &Predator{
		ID:             uuid.New().String(),
		PlayerID:       playerID,
		PlayerName:     playerName,
		Color:          color,
		Radius:         PredatorRadius,
		ServerPosition: geom.NewVec(startX, startY),
		ClientPosition: geom.NewVec(startX, startY),
	}
}

// Update clamps the client-reported target into [radius, dim-radius] on both
// axes. Out-of-bounds input is the only cheat vector guarded against.
func (p *Predator) Update(canvasWidth, canvasHeight float64) {
	p.ServerPosition.X = math.Max(p.Radius, math.Min(canvasWidth-p.Radius, p.ClientPosition.X))
	p.ServerPosition.Y = math.Max(p.Radius, math.Min(canvasHeight-p.Radius, p.ClientPosition.Y))
}

// SetClientPosition stores the latest input target, unclamped. It is read on
// the next tick's Update.
func (p *Predator) SetClientPosition(pos geom.Vec) {
	p.ClientPosition = pos
}

func (p *Predator) State() models.PredatorState {
	return models.PredatorState{
		ID:         p.ID,
		PlayerID:   p.PlayerID,
		PlayerName: p.PlayerName,
		Position:   p.ServerPosition,
		Color:      p.Color,
	}
}
