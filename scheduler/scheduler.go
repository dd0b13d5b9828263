// scheduler/scheduler.go
package scheduler

import (
	"sync"
	"time"

	"github.com/wfunc/boidserver/broadcast"
	"github.com/wfunc/boidserver/monitor"
	"github.com/wfunc/boidserver/network"
	"github.com/wfunc/boidserver/room"
	"github.com/wfunc/boidserver/state"
)

// Scheduler drives every room from one fixed-rate timer. Each tick it
// advances each room's simulation exactly once — independent of how many
// members the room has — then pushes that room's full state to its members.
type Scheduler struct {
	rooms       *room.Manager
	broadcaster broadcast.Broadcaster
	monitor     *monitor.Monitor // optional
	interval    time.Duration
	quit        chan struct{}
	stopOnce    sync.Once
}

func New(rooms *room.Manager, broadcaster broadcast.Broadcaster, mon *monitor.Monitor, tickRate int) *Scheduler {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &Scheduler{
		rooms:       rooms,
		broadcaster: broadcaster,
		monitor:     mon,
		interval:    time.Second / time.Duration(tickRate),
		quit:        make(chan struct{}),
	}
}

// Run blocks until Stop. One goroutine owns all simulation advancement, so
// no room's state is ever mutated from two tasks at once.
func (s *Scheduler) Run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			s.step()
		}
	}
}

func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
	})
}

// step advances and broadcasts every room once. Finished rooms are frozen —
// the simulation no longer advances — but their final state keeps going out
// until the room empties.
func (s *Scheduler) step() {
	start := time.Now()
	boids := 0

	for _, r := range s.rooms.All() {
		if r.Status() != state.StatusFinished {
			r.Update()
		}

		msg := network.GameStateMsg{
			Type:      network.MsgGameState,
			GameState: r.GameState(),
		}
		s.broadcaster.BroadcastToRoom(r.ID, msg, "")
		boids += r.BoidCount()
	}

	if s.monitor != nil {
		s.monitor.ObserveTickDuration(time.Since(start))
		s.monitor.SetBoidsSimulated(boids)
	}
}
