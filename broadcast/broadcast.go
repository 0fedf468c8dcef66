// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/wfunc/pictureduel/session"
)

var ErrSessionNotFound = errors.New("session not found")

// Broadcaster fans notifications out to connected clients.
type Broadcaster interface {
	BroadcastToRoom(roomCode string, msgID uint16, data []byte) error
	BroadcastToRoomExcept(roomCode, exceptSessionID string, msgID uint16, data []byte) error
	SendToSession(sessionID string, msgID uint16, data []byte) error
}

// RoomBroadcaster resolves room membership through the session manager, so
// it never has to reach into room state.
type RoomBroadcaster struct {
	sessionManager *session.Manager
}

func NewRoomBroadcaster(sessionManager *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		sessionManager: sessionManager,
	}
}

func (b *RoomBroadcaster) BroadcastToRoom(roomCode string, msgID uint16, data []byte) error {
	return b.BroadcastToRoomExcept(roomCode, "", msgID, data)
}

func (b *RoomBroadcaster) BroadcastToRoomExcept(roomCode, exceptSessionID string, msgID uint16, data []byte) error {
	sessions := b.sessionManager.GetByRoomCode(roomCode)

	for _, s := range sessions {
		if s.GetID() == exceptSessionID {
			continue
		}
		if err := s.Send(msgID, data); err != nil {
			// A dead connection is cleaned up by its own read loop.
			continue
		}
	}
	return nil
}

func (b *RoomBroadcaster) SendToSession(sessionID string, msgID uint16, data []byte) error {
	s, exists := b.sessionManager.Get(sessionID)
	if !exists {
		return ErrSessionNotFound
	}
	return s.Send(msgID, data)
}
