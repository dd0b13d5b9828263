package server

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/wfunc/boidserver/config"
	"github.com/wfunc/boidserver/geom"
	"github.com/wfunc/boidserver/network"
	"github.com/wfunc/boidserver/session"
)

// MockConnection records every message sent through it.
type MockConnection struct {
	sent []interface{}
}

func (m *MockConnection) SendJSON(v interface{}) error {
	m.sent = append(m.sent, v)
	return nil
}

func (m *MockConnection) ReadMessage() ([]byte, error) { return nil, nil }
func (m *MockConnection) Close() error                 { return nil }
func (m *MockConnection) RemoteAddr() net.Addr         { return nil }
func (m *MockConnection) SetHeartbeat(time.Duration)   {}

func (m *MockConnection) lastSent(t *testing.T) interface{} {
	t.Helper()
	if len(m.sent) == 0 {
		t.Fatal("expected a message to be sent")
	}
	return m.sent[len(m.sent)-1]
}

func newTestServer() *GameServer {
	return NewGameServer(config.DefaultConfig())
}

func newTestSession(t *testing.T, s *GameServer, id string) (*session.Session, *MockConnection) {
	t.Helper()
	conn := &MockConnection{}
	sess := session.NewSession(id, conn)
	s.sessionManager.Add(sess)
	return sess, conn
}

func envelope(t *testing.T, msgType string, payload interface{}) []byte {
	t.Helper()
	env := network.Envelope{Type: msgType}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		env.Payload = raw
	}
	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return data
}

func createLobby(t *testing.T, s *GameServer, sess *session.Session, conn *MockConnection) network.LobbyCreatedMsg {
	t.Helper()
	s.handleMessage(sess, envelope(t, network.MsgCreateLobby, network.CreateLobbyRequest{
		PlayerName:    "host",
		BoidGroups:    2,
		BoidsPerGroup: 5,
		MaxPlayers:    4,
	}))
	msg, ok := conn.lastSent(t).(network.LobbyCreatedMsg)
	if !ok {
		t.Fatalf("expected LobbyCreatedMsg, got %T: %v", conn.lastSent(t), conn.lastSent(t))
	}
	return msg
}

func TestCreateLobby(t *testing.T) {
	s := newTestServer()
	sess, conn := newTestSession(t, s, "s1")

	msg := createLobby(t, s, sess, conn)

	if msg.PlayerID != "s1" {
		t.Errorf("expected playerId s1, got %s", msg.PlayerID)
	}
	if msg.PredatorID == "" {
		t.Error("expected a predator ID")
	}
	if msg.Lobby.PlayerCount != 1 {
		t.Errorf("expected player count 1, got %d", msg.Lobby.PlayerCount)
	}
	if sess.RoomID() != msg.Lobby.RoomID {
		t.Errorf("session room %q does not match lobby %q", sess.RoomID(), msg.Lobby.RoomID)
	}
	if s.roomManager.Count() != 1 {
		t.Errorf("expected 1 room, got %d", s.roomManager.Count())
	}
}

func TestCreateLobbyInvalidConfig(t *testing.T) {
	s := newTestServer()
	sess, conn := newTestSession(t, s, "s1")

	s.handleMessage(sess, envelope(t, network.MsgCreateLobby, network.CreateLobbyRequest{
		PlayerName:    "host",
		BoidGroups:    0,
		BoidsPerGroup: 5,
		MaxPlayers:    4,
	}))

	msg, ok := conn.lastSent(t).(network.ErrorMsg)
	if !ok || msg.Error != "Invalid lobby configuration" {
		t.Fatalf("expected invalid configuration error, got %v", conn.lastSent(t))
	}
	if s.roomManager.Count() != 0 {
		t.Errorf("expected no rooms, got %d", s.roomManager.Count())
	}
}

func TestJoinLobbyNotFound(t *testing.T) {
	s := newTestServer()
	sess, conn := newTestSession(t, s, "s1")

	s.handleMessage(sess, envelope(t, network.MsgJoinLobby, network.JoinLobbyRequest{
		PlayerName: "guest",
		RoomID:     "nope",
	}))

	msg, ok := conn.lastSent(t).(network.ErrorMsg)
	if !ok || msg.Error != "Room not found" {
		t.Fatalf("expected room not found error, got %v", conn.lastSent(t))
	}
}

func TestJoinLobbyBroadcastsToMembers(t *testing.T) {
	s := newTestServer()
	host, hostConn := newTestSession(t, s, "host")
	created := createLobby(t, s, host, hostConn)

	guest, guestConn := newTestSession(t, s, "guest")
	s.handleMessage(guest, envelope(t, network.MsgJoinLobby, network.JoinLobbyRequest{
		PlayerName: "guest",
		RoomID:     created.Lobby.RoomID,
	}))

	joined, ok := guestConn.lastSent(t).(network.LobbyJoinedMsg)
	if !ok {
		t.Fatalf("expected LobbyJoinedMsg, got %v", guestConn.lastSent(t))
	}
	if joined.Lobby.PlayerCount != 2 {
		t.Errorf("expected player count 2, got %d", joined.Lobby.PlayerCount)
	}

	notice, ok := hostConn.lastSent(t).(network.PlayerJoinedMsg)
	if !ok {
		t.Fatalf("expected host to receive PlayerJoinedMsg, got %v", hostConn.lastSent(t))
	}
	if notice.PlayerID != "guest" {
		t.Errorf("expected playerId guest, got %s", notice.PlayerID)
	}
}

func TestJoinLobbyFull(t *testing.T) {
	s := newTestServer()
	host, hostConn := newTestSession(t, s, "host")
	s.handleMessage(host, envelope(t, network.MsgCreateLobby, network.CreateLobbyRequest{
		PlayerName:    "host",
		BoidGroups:    1,
		BoidsPerGroup: 2,
		MaxPlayers:    1,
	}))
	created, ok := hostConn.lastSent(t).(network.LobbyCreatedMsg)
	if !ok {
		t.Fatalf("expected LobbyCreatedMsg, got %v", hostConn.lastSent(t))
	}

	guest, guestConn := newTestSession(t, s, "guest")
	s.handleMessage(guest, envelope(t, network.MsgJoinLobby, network.JoinLobbyRequest{
		PlayerName: "guest",
		RoomID:     created.Lobby.RoomID,
	}))

	msg, ok := guestConn.lastSent(t).(network.ErrorMsg)
	if !ok || msg.Error != "Room is full" {
		t.Fatalf("expected room full error, got %v", guestConn.lastSent(t))
	}
	if guest.RoomID() != "" {
		t.Errorf("guest should have no room association, got %q", guest.RoomID())
	}
}

func TestGetLobbiesListsWaitingRooms(t *testing.T) {
	s := newTestServer()
	host, hostConn := newTestSession(t, s, "host")
	createLobby(t, s, host, hostConn)

	other, otherConn := newTestSession(t, s, "other")
	s.handleMessage(other, envelope(t, network.MsgGetLobbies, nil))

	msg, ok := otherConn.lastSent(t).(network.LobbyListMsg)
	if !ok {
		t.Fatalf("expected LobbyListMsg, got %v", otherConn.lastSent(t))
	}
	if len(msg.Lobbies) != 1 {
		t.Fatalf("expected 1 lobby, got %d", len(msg.Lobbies))
	}
}

func TestStartGame(t *testing.T) {
	s := newTestServer()
	host, hostConn := newTestSession(t, s, "host")
	createLobby(t, s, host, hostConn)

	s.handleMessage(host, envelope(t, network.MsgStartGame, nil))
	if _, ok := hostConn.lastSent(t).(network.GameStartedMsg); !ok {
		t.Fatalf("expected GameStartedMsg, got %v", hostConn.lastSent(t))
	}

	// Starting again is rejected by the lifecycle.
	s.handleMessage(host, envelope(t, network.MsgStartGame, nil))
	msg, ok := hostConn.lastSent(t).(network.ErrorMsg)
	if !ok || msg.Error != "Game already started" {
		t.Fatalf("expected already started error, got %v", hostConn.lastSent(t))
	}
}

func TestInputMovesPredator(t *testing.T) {
	s := newTestServer()
	host, hostConn := newTestSession(t, s, "host")
	created := createLobby(t, s, host, hostConn)
	s.handleMessage(host, envelope(t, network.MsgStartGame, nil))

	s.handleMessage(host, envelope(t, network.MsgInput, network.InputRequest{
		Position: geom.Vec{X: 100, Y: 100},
	}))

	r, _ := s.roomManager.GetRoom(created.Lobby.RoomID)
	r.Update()

	gs := r.GameState()
	if len(gs.Predators) != 1 {
		t.Fatalf("expected 1 predator, got %d", len(gs.Predators))
	}
	p := gs.Predators[0]
	if p.Position.X != 100 || p.Position.Y != 100 {
		t.Errorf("expected predator at (100,100), got (%v,%v)", p.Position.X, p.Position.Y)
	}
}

func TestInputWithoutRoomIsDropped(t *testing.T) {
	s := newTestServer()
	sess, conn := newTestSession(t, s, "s1")

	s.handleMessage(sess, envelope(t, network.MsgInput, network.InputRequest{
		Position: geom.Vec{X: 1, Y: 2},
	}))

	if len(conn.sent) != 0 {
		t.Fatalf("expected no reply, got %v", conn.sent)
	}
}

func TestLeaveLobbyRemovesEmptyRoom(t *testing.T) {
	s := newTestServer()
	host, hostConn := newTestSession(t, s, "host")
	createLobby(t, s, host, hostConn)

	s.handleMessage(host, envelope(t, network.MsgLeaveLobby, nil))

	if host.RoomID() != "" {
		t.Errorf("expected cleared room association, got %q", host.RoomID())
	}
	if s.roomManager.Count() != 0 {
		t.Errorf("expected empty room to be removed, got %d rooms", s.roomManager.Count())
	}
}

func TestLeaveLobbyNotifiesRemainingMembers(t *testing.T) {
	s := newTestServer()
	host, hostConn := newTestSession(t, s, "host")
	created := createLobby(t, s, host, hostConn)

	guest, _ := newTestSession(t, s, "guest")
	s.handleMessage(guest, envelope(t, network.MsgJoinLobby, network.JoinLobbyRequest{
		PlayerName: "guest",
		RoomID:     created.Lobby.RoomID,
	}))

	s.handleMessage(guest, envelope(t, network.MsgLeaveLobby, nil))

	msg, ok := hostConn.lastSent(t).(network.PlayerLeftMsg)
	if !ok {
		t.Fatalf("expected PlayerLeftMsg, got %v", hostConn.lastSent(t))
	}
	if msg.PlayerID != "guest" {
		t.Errorf("expected playerId guest, got %s", msg.PlayerID)
	}
	if s.roomManager.Count() != 1 {
		t.Errorf("room with remaining members must survive, got %d rooms", s.roomManager.Count())
	}
}

func TestMalformedMessage(t *testing.T) {
	s := newTestServer()
	sess, conn := newTestSession(t, s, "s1")

	s.handleMessage(sess, []byte("{not json"))

	msg, ok := conn.lastSent(t).(network.ErrorMsg)
	if !ok || msg.Error != "Invalid message format" {
		t.Fatalf("expected invalid format error, got %v", conn.lastSent(t))
	}
}

func TestUnknownMessageType(t *testing.T) {
	s := newTestServer()
	sess, conn := newTestSession(t, s, "s1")

	s.handleMessage(sess, envelope(t, "teleport", nil))

	msg, ok := conn.lastSent(t).(network.ErrorMsg)
	if !ok || msg.Error != "Unknown message type" {
		t.Fatalf("expected unknown type error, got %v", conn.lastSent(t))
	}
}
