// room/manager.go
package room

import (
	"strings"
	"sync"
)

const maxRoomCodeLength = 8

// NormalizeCode canonicalizes a client-supplied room code: trimmed,
// uppercased, truncated to 8 runes. An empty result means the code was
// unusable.
func NormalizeCode(raw string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if runes := []rune(code); len(runes) > maxRoomCodeLength {
		code = string(runes[:maxRoomCodeLength])
	}
	return code
}

// Manager 房间管理器 — owns the live room table. Rooms are created on
// first join and removed when their last member leaves.
type Manager struct {
	cfg  Config
	deps Deps

	mutex sync.RWMutex
	rooms map[string]*Room

	// OnCountChange, when set, is invoked with the new room count after
	// every create and remove. Used to feed the active-rooms gauge.
	OnCountChange func(int)
}

// NewManager 创建房间管理器
func NewManager(cfg Config, deps Deps) *Manager {
	return &Manager{
		cfg:   cfg,
		deps:  deps,
		rooms: make(map[string]*Room),
	}
}

// GetOrCreate returns the room for a normalized code, creating it when it
// does not exist yet.
func (m *Manager) GetOrCreate(code string) *Room {
	m.mutex.Lock()
	r, ok := m.rooms[code]
	if !ok {
		r = NewRoom(code, m.cfg, m.deps)
		m.rooms[code] = r
	}
	count := len(m.rooms)
	m.mutex.Unlock()

	if !ok && m.OnCountChange != nil {
		m.OnCountChange(count)
	}
	return r
}

// Get returns the room for a code, or nil.
func (m *Manager) Get(code string) *Room {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.rooms[code]
}

// Remove drops a room from the table.
func (m *Manager) Remove(code string) {
	m.mutex.Lock()
	_, ok := m.rooms[code]
	delete(m.rooms, code)
	count := len(m.rooms)
	m.mutex.Unlock()

	if ok && m.OnCountChange != nil {
		m.OnCountChange(count)
	}
}

// Count returns the number of live rooms.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}
