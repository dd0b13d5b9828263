// room/room.go
package room

import (
	"fmt"
	"sync"
	"time"

	"github.com/wfunc/boidserver/game"
	"github.com/wfunc/boidserver/geom"
	"github.com/wfunc/boidserver/models"
	"github.com/wfunc/boidserver/state"
)

// Options 创建房间时的大厅配置
type Options struct {
	RoomName      string
	BoidGroups    int
	BoidsPerGroup int
	MaxPlayers    int
}

// Room 是一个隔离的游戏实例: 大厅元数据 + 一个权威模拟 + 生命周期状态机
type Room struct {
	ID            string
	RoomName      string
	HostName      string
	BoidGroups    int
	BoidsPerGroup int
	MaxPlayers    int
	CreatedAt     time.Time

	game         *game.Game
	stateMachine state.StateMachine
	mutex        sync.Mutex
}

// NewRoom builds a room in the waiting state. The simulation is constructed
// up front so the flock exists while the lobby fills.
func NewRoom(id, hostName string, opts Options) *Room {
	r := &Room{
		ID:            id,
		RoomName:      opts.RoomName,
		HostName:      hostName,
		BoidGroups:    opts.BoidGroups,
		BoidsPerGroup: opts.BoidsPerGroup,
		MaxPlayers:    opts.MaxPlayers,
		CreatedAt:     time.Now(),
		game:          game.NewGame(opts.BoidGroups, opts.BoidsPerGroup),
	}
	if r.RoomName == "" {
		r.RoomName = fmt.Sprintf("Room %s", id)
	}

	// 初始化状态机: 只允许 waiting -> in_progress -> finished
	waiting := state.NewWaitingState(r)
	r.stateMachine = state.NewBaseStateMachine(waiting)
	r.stateMachine.AddTransition(waiting, state.NewPlayingState(r, r.game), nil)
	r.stateMachine.AddTransition(state.NewPlayingState(r, r.game), state.NewFinishedState(r), nil)

	return r
}

// --- 实现 state.RoomContext 接口 ---

func (r *Room) GetID() string {
	return r.ID
}

// ChangeState forwards to the state machine; the machine enforces the
// forward-only lifecycle.
func (r *Room) ChangeState(newState state.State) error {
	return r.stateMachine.ChangeState(newState)
}

// --- 房间核心逻辑 ---

// Status returns the lifecycle status string (waiting/in_progress/finished).
func (r *Room) Status() string {
	return r.stateMachine.GetCurrentState().GetID()
}

// AddPlayer allocates a predator slot for playerID. Returns the predator ID,
// or "" when the lobby or the predator palette is full.
func (r *Room) AddPlayer(playerID, playerName string) string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.game.PlayerCount() >= r.MaxPlayers {
		return ""
	}
	return r.game.AddPlayer(playerID, playerName)
}

// RemovePlayer frees playerID's predator slot. No-op if absent.
func (r *Room) RemovePlayer(playerID string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.game.RemovePlayer(playerID)
}

// UpdatePlayerPosition records the latest input target for playerID. The
// write lands under the room lock; the simulation reads it on its next tick
// (last write before the tick boundary wins).
func (r *Room) UpdatePlayerPosition(playerID string, position geom.Vec) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.game.UpdatePlayerPosition(playerID, position)
}

// StartGame moves the lobby into in_progress and starts the simulation.
func (r *Room) StartGame() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.stateMachine.ChangeState(state.NewPlayingState(r, r.game))
}

// Update runs the current lifecycle state for one tick. The scheduler calls
// this exactly once per room per tick; in waiting and finished it is a no-op.
func (r *Room) Update() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.stateMachine.GetCurrentState().OnUpdate()
}

// GameState snapshots the full world for broadcast.
func (r *Room) GameState() models.GameState {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	gs := r.game.State()
	gs.RoomID = r.ID
	return gs
}

// LobbyInfo returns the summary shown in the lobby list.
func (r *Room) LobbyInfo() models.LobbyInfo {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return models.LobbyInfo{
		RoomID:        r.ID,
		RoomName:      r.RoomName,
		HostName:      r.HostName,
		PlayerCount:   r.game.PlayerCount(),
		MaxPlayers:    r.MaxPlayers,
		BoidGroups:    r.BoidGroups,
		BoidsPerGroup: r.BoidsPerGroup,
		Status:        r.Status(),
	}
}

func (r *Room) PlayerCount() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.game.PlayerCount()
}

func (r *Room) BoidCount() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.game.BoidCount()
}

// Tick exposes the simulation's tick counter. The scheduler advances a room
// exactly once per tick, however many members it has; tests assert on this.
func (r *Room) Tick() int64 {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.game.Tick()
}
