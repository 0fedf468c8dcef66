package session

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/wfunc/pictureduel/network"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct{}

func (m *MockConnection) Send(msgID uint16, data []byte) error { return nil }
func (m *MockConnection) Close() error                         { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)  {}
func (m *MockConnection) ReadPacket() (*network.Packet, error) { return nil, nil }

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sessionID := "test_session_1"
	sess := NewSession(sessionID, &MockConnection{})

	// Test Add
	manager.Add(sess)
	if manager.Count() != 1 {
		t.Fatalf("Expected session count to be 1, got %d", manager.Count())
	}

	// Test Get
	retrievedSess, exists := manager.Get(sessionID)
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if retrievedSess != sess {
		t.Fatal("Get should return the same session instance")
	}

	// Test Remove
	manager.Remove(sessionID)
	if manager.Count() != 0 {
		t.Fatalf("Expected session count to be 0 after removal, got %d", manager.Count())
	}

	_, exists = manager.Get(sessionID)
	if exists {
		t.Fatal("Get should not find the removed session")
	}
}

func TestManager_GetByRoomCode(t *testing.T) {
	manager := NewManager()

	sess1 := NewSession("session1", &MockConnection{})
	sess1.SetRoomCode("ABCD")

	sess2 := NewSession("session2", &MockConnection{})
	sess2.SetRoomCode("WXYZ")

	sess3 := NewSession("session3", &MockConnection{})
	sess3.SetRoomCode("ABCD")

	manager.Add(sess1)
	manager.Add(sess2)
	manager.Add(sess3)

	abcd := manager.GetByRoomCode("ABCD")
	if len(abcd) != 2 {
		t.Errorf("Expected 2 sessions in room ABCD, got %d", len(abcd))
	}

	wxyz := manager.GetByRoomCode("WXYZ")
	if len(wxyz) != 1 {
		t.Errorf("Expected 1 session in room WXYZ, got %d", len(wxyz))
	}

	if got := manager.GetByRoomCode("NONE"); len(got) != 0 {
		t.Errorf("Expected 0 sessions in unknown room, got %d", len(got))
	}
}

// Broadcasts deliver through Send from room goroutines while the read loop
// touches the session on heartbeats, so both must be safe to run at once.
func TestSession_ConcurrentSendAndTouch(t *testing.T) {
	sess := NewSession("test_session", &MockConnection{})
	before := sess.GetLastActive()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = sess.Send(1, nil)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sess.Touch()
				_ = sess.GetLastActive()
			}
		}()
	}
	wg.Wait()

	if sess.GetLastActive().Before(before) {
		t.Error("LastActive should never move backwards")
	}
}

func TestSession_Name(t *testing.T) {
	sess := NewSession("test_session", &MockConnection{})

	if sess.GetName() != "" {
		t.Errorf("Expected empty default name, got %q", sess.GetName())
	}

	sess.SetName("Alice")
	if sess.GetName() != "Alice" {
		t.Errorf("Expected name Alice, got %q", sess.GetName())
	}
}
