// broadcast/broadcast.go
package broadcast

import (
	"github.com/wfunc/boidserver/logger"
	"github.com/wfunc/boidserver/session"
)

// 广播接口
type Broadcaster interface {
	// BroadcastToRoom delivers msg to every session associated with roomID,
	// optionally excluding one session ID (the sender). A failed delivery
	// removes that session's registry entry and delivery continues.
	BroadcastToRoom(roomID string, msg interface{}, excludeSessionID string)
	// SendDirect delivers one message to one session, fire-and-forget.
	SendDirect(s *session.Session, msg interface{})
}

// RoomBroadcaster 基于房间的广播器
type RoomBroadcaster struct {
	sessionManager *session.Manager
}

func NewRoomBroadcaster(sessionManager *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		sessionManager: sessionManager,
	}
}

func (b *RoomBroadcaster) BroadcastToRoom(roomID string, msg interface{}, excludeSessionID string) {
	for _, s := range b.sessionManager.InRoom(roomID) {
		if s.ID == excludeSessionID {
			continue
		}
		if err := s.Send(msg); err != nil {
			// A broken channel takes out its own entry, never the tick or
			// the remaining recipients.
			logger.Log.Infof("dropping session %s after send error: %v", s.ID, err)
			b.sessionManager.Remove(s.ID)
			s.Close()
		}
	}
}

func (b *RoomBroadcaster) SendDirect(s *session.Session, msg interface{}) {
	if s == nil {
		return
	}
	if err := s.Send(msg); err != nil {
		logger.Log.Debugf("direct send to session %s failed: %v", s.ID, err)
	}
}
