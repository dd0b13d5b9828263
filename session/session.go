// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/wfunc/boidserver/network"
)

// Session is one live connection entry. The session ID doubles as the player
// ID for the lifetime of the connection. A session is associated with at
// most one room at a time.
type Session struct {
	ID         string
	Conn       network.Connection
	CreatedAt  time.Time
	LastActive time.Time

	playerName string
	roomID     string
	mutex      sync.RWMutex
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		LastActive: now,
	}
}

func (s *Session) GetID() string {
	return s.ID
}

// SetRoom replaces the room association wholesale ("" clears it).
func (s *Session) SetRoom(roomID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.roomID = roomID
}

func (s *Session) RoomID() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.roomID
}

func (s *Session) SetPlayerName(name string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.playerName = name
}

func (s *Session) PlayerName() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.playerName
}

// Send delivers one message on the session's channel.
func (s *Session) Send(msg interface{}) error {
	s.LastActive = time.Now()
	return s.Conn.SendJSON(msg)
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Session管理器 — the connection registry. Mutations arrive concurrently
// from connection lifecycles and the broadcast path.
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(s *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[s.ID] = s
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	s, exists := m.sessions[sessionID]
	return s, exists
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}

// InRoom returns every session currently associated with roomID. This is
// what scopes a broadcast to one room.
func (m *Manager) InRoom(roomID string) []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []*Session
	for _, s := range m.sessions {
		if s.RoomID() == roomID {
			result = append(result, s)
		}
	}
	return result
}
