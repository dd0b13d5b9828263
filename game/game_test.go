package game

import (
	"testing"

	"github.com/wfunc/boidserver/geom"
)

func TestGame_InitializeBoidsByGroup(t *testing.T) {
	g := NewGame(3, 10)

	if g.BoidCount() != 30 {
		t.Fatalf("expected 30 boids, got %d", g.BoidCount())
	}

	colors := make(map[string]int)
	for _, b := range g.boids {
		colors[b.Color]++
	}
	if len(colors) != 3 {
		t.Errorf("expected 3 color groups, got %d", len(colors))
	}
	for color, n := range colors {
		if n != 10 {
			t.Errorf("expected 10 boids of color %s, got %d", color, n)
		}
	}
}

func TestGame_AddPlayerCap(t *testing.T) {
	g := NewGame(1, 5)

	for i := 0; i < MaxPredators; i++ {
		if id := g.AddPlayer(string(rune('a'+i)), "p"); id == "" {
			t.Fatalf("player %d should have been admitted", i+1)
		}
	}

	// The 5th player gets no identifier and the collection is unchanged.
	if id := g.AddPlayer("fifth", "p"); id != "" {
		t.Error("5th player should be rejected")
	}
	if g.PlayerCount() != MaxPredators {
		t.Errorf("expected %d predators, got %d", MaxPredators, g.PlayerCount())
	}
}

func TestGame_ColorSlotReuse(t *testing.T) {
	g := NewGame(1, 5)
	g.AddPlayer("p1", "one")
	g.AddPlayer("p2", "two")

	// p1 leaves; the next join must take p1's freed slot, not a duplicate.
	g.RemovePlayer("p1")
	g.AddPlayer("p3", "three")

	seen := make(map[string]bool)
	for _, p := range g.predators {
		if seen[p.Color] {
			t.Fatalf("duplicate predator color %s", p.Color)
		}
		seen[p.Color] = true
	}
}

func TestGame_RemovePlayerNoOpWhenAbsent(t *testing.T) {
	g := NewGame(1, 5)
	g.AddPlayer("p1", "one")

	g.RemovePlayer("ghost")

	if g.PlayerCount() != 1 {
		t.Errorf("expected 1 predator, got %d", g.PlayerCount())
	}
}

func TestGame_UpdateNoOpUntilStarted(t *testing.T) {
	g := NewGame(2, 10)

	before := make([]geom.Vec, len(g.boids))
	for i, b := range g.boids {
		before[i] = b.Position
	}

	g.Update()

	for i, b := range g.boids {
		if b.Position != before[i] {
			t.Fatal("boid positions must not change before StartGame")
		}
	}
	if g.Tick() != 0 {
		t.Errorf("tick counter should stay 0 before start, got %d", g.Tick())
	}
}

func TestGame_UpdateAdvancesOnceStarted(t *testing.T) {
	g := NewGame(2, 10)
	g.StartGame()

	g.Update()
	g.Update()

	if g.Tick() != 2 {
		t.Errorf("expected 2 ticks, got %d", g.Tick())
	}
}

func TestGame_PredatorsClampBeforeBoidsFlock(t *testing.T) {
	g := NewGame(1, 1)
	g.StartGame()
	g.AddPlayer("p1", "one")

	// Out-of-bounds input this tick; boids must see the clamped position.
	g.UpdatePlayerPosition("p1", geom.NewVec(-500, 10000))
	g.Update()

	p := g.predators[0]
	if p.ServerPosition.X != PredatorRadius || p.ServerPosition.Y != CanvasHeight-PredatorRadius {
		t.Errorf("predator not clamped within the same tick: (%v, %v)",
			p.ServerPosition.X, p.ServerPosition.Y)
	}
}

func TestGame_UpdatePlayerPositionNoOpForUnknown(t *testing.T) {
	g := NewGame(1, 5)
	g.AddPlayer("p1", "one")

	// Must not panic or touch anyone else's predator.
	g.UpdatePlayerPosition("ghost", geom.NewVec(10, 10))

	if g.predators[0].ClientPosition != geom.NewVec(CanvasWidth/2, CanvasHeight/2) {
		t.Error("input for an unknown player must be a no-op")
	}
}

func TestGame_IsComplete(t *testing.T) {
	g := NewGame(1, 3)

	// Cluster all boids of the single color together: everyone neighbors
	// everyone, all same color.
	positions := []geom.Vec{{X: 100, Y: 100}, {X: 120, Y: 100}, {X: 110, Y: 120}}
	for i, b := range g.boids {
		b.Position = positions[i]
	}
	for _, b := range g.boids {
		b.checkColorSegregation(g.boids)
	}

	if !g.IsComplete() {
		t.Error("a fully clustered single-color flock should be complete")
	}
}

func TestGame_NotCompleteWithIsolatedBoid(t *testing.T) {
	g := NewGame(1, 3)

	// Two clustered, one isolated: the loner has zero neighbors and is
	// never segregated, so the game can never complete.
	positions := []geom.Vec{{X: 100, Y: 100}, {X: 120, Y: 100}, {X: 700, Y: 500}}
	for i, b := range g.boids {
		b.Position = positions[i]
	}
	for _, b := range g.boids {
		b.checkColorSegregation(g.boids)
	}

	if g.IsComplete() {
		t.Error("an isolated boid must keep the game incomplete")
	}
}

func TestGame_StateSnapshot(t *testing.T) {
	g := NewGame(2, 4)
	g.AddPlayer("p1", "one")
	g.StartGame()

	state := g.State()

	if !state.GameStarted {
		t.Error("snapshot should report the started flag")
	}
	if len(state.Boids) != 8 {
		t.Errorf("expected 8 boid states, got %d", len(state.Boids))
	}
	if len(state.Predators) != 1 {
		t.Errorf("expected 1 predator state, got %d", len(state.Predators))
	}
	if state.Predators[0].PlayerID != "p1" {
		t.Errorf("expected playerId p1, got %s", state.Predators[0].PlayerID)
	}
}
