package state

import (
	"github.com/wfunc/boidserver/logger"
)

// Room lifecycle state IDs. These double as the status strings on the wire.
const (
	StatusWaiting    = "waiting"
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"
)

// 房间状态基础结构
type RoomStateBase struct {
	ID   string
	Room RoomContext
}

func (s *RoomStateBase) GetID() string {
	return s.ID
}

func (s *RoomStateBase) OnEnter() {}

func (s *RoomStateBase) OnExit() {}

func (s *RoomStateBase) OnUpdate() {}

// WaitingState is the lobby: the simulation exists but is not started, so a
// tick is a no-op.
type WaitingState struct {
	RoomStateBase
}

func NewWaitingState(room RoomContext) *WaitingState {
	return &WaitingState{
		RoomStateBase: RoomStateBase{
			ID:   StatusWaiting,
			Room: room,
		},
	}
}

// PlayingState advances the simulation each tick and watches for the win
// condition.
type PlayingState struct {
	RoomStateBase
	Sim Simulation
}

func NewPlayingState(room RoomContext, sim Simulation) *PlayingState {
	return &PlayingState{
		RoomStateBase: RoomStateBase{
			ID:   StatusInProgress,
			Room: room,
		},
		Sim: sim,
	}
}

func (s *PlayingState) OnEnter() {
	s.Sim.StartGame()
	logger.Log.Infof("room %s game started", s.Room.GetID())
}

// OnUpdate runs exactly one simulation step, then checks segregation. The
// completeness query is recomputed every tick, not cached.
func (s *PlayingState) OnUpdate() {
	s.Sim.Update()
	if s.Sim.IsComplete() {
		if err := s.Room.ChangeState(NewFinishedState(s.Room)); err != nil {
			logger.Log.Errorf("room %s failed to finish: %v", s.Room.GetID(), err)
		}
	}
}

// FinishedState is terminal. The simulation is frozen; the room keeps
// broadcasting the final state until it empties.
type FinishedState struct {
	RoomStateBase
}

func NewFinishedState(room RoomContext) *FinishedState {
	return &FinishedState{
		RoomStateBase: RoomStateBase{
			ID:   StatusFinished,
			Room: room,
		},
	}
}

func (s *FinishedState) OnEnter() {
	logger.Log.Infof("room %s finished: all boids segregated", s.Room.GetID())
}
