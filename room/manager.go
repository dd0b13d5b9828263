// room/manager.go
package room

import (
	"sync"

	"github.com/wfunc/boidserver/logger"
	"github.com/wfunc/boidserver/models"
	"github.com/wfunc/boidserver/state"
)

// Manager 管理所有房间
type Manager struct {
	rooms map[string]*Room
	mutex sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		rooms: make(map[string]*Room),
	}
}

// CreateRoom builds a room from the lobby configuration and registers it.
func (m *Manager) CreateRoom(id, hostName string, opts Options) *Room {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	r := NewRoom(id, hostName, opts)
	m.rooms[id] = r
	return r
}

func (m *Manager) GetRoom(id string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	r, exists := m.rooms[id]
	return r, exists
}

func (m *Manager) RemoveRoom(id string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.rooms, id)
}

// All returns a snapshot of every room, for the scheduler's per-tick sweep.
func (m *Manager) All() []*Room {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

// GetAllLobbies lists summaries of rooms still waiting for players. Rooms in
// progress or finished are not joinable and are not advertised.
func (m *Manager) GetAllLobbies() []models.LobbyInfo {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	lobbies := make([]models.LobbyInfo, 0, len(m.rooms))
	for _, r := range m.rooms {
		if r.Status() == state.StatusWaiting {
			lobbies = append(lobbies, r.LobbyInfo())
		}
	}
	return lobbies
}

// CleanupEmptyRooms drops every room whose player count is zero. The normal
// leave/disconnect path already removes emptied rooms; this sweep is the
// leak guard for abandoned ones and runs periodically, not per tick.
func (m *Manager) CleanupEmptyRooms() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	removed := 0
	for id, r := range m.rooms {
		if r.PlayerCount() == 0 {
			delete(m.rooms, id)
			removed++
		}
	}
	if removed > 0 {
		logger.Log.Infof("cleaned up %d empty rooms", removed)
	}
	return removed
}
