package server

import (
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wfunc/boidserver/broadcast"
	"github.com/wfunc/boidserver/config"
	"github.com/wfunc/boidserver/game"
	"github.com/wfunc/boidserver/logger"
	"github.com/wfunc/boidserver/monitor"
	"github.com/wfunc/boidserver/network"
	"github.com/wfunc/boidserver/room"
	boidrpc "github.com/wfunc/boidserver/rpc"
	"github.com/wfunc/boidserver/scheduler"
	"github.com/wfunc/boidserver/session"
	"github.com/wfunc/boidserver/timer"
)

const (
	heartbeatInterval = 30 * time.Second
	pingPeriod        = 25 * time.Second
	maxMessageSize    = 64 * 1024

	// Hard cap on one room's flock; above this the O(n²) neighbor passes
	// can no longer hold 60 Hz.
	maxBoidsPerRoom = 2000
)

type GameServer struct {
	cfg            *config.Config
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	broadcaster    broadcast.Broadcaster
	scheduler      *scheduler.Scheduler
	rpcServer      *boidrpc.Server
	monitor        *monitor.Monitor
	timers         *timer.Manager
	shutdownChan   chan struct{}
}

// NewGameServer wires the registries and broadcaster. Listeners, metrics and
// the tick loop are brought up by Start.
func NewGameServer(cfg *config.Config) *GameServer {
	s := &GameServer{
		cfg:            cfg,
		roomManager:    room.NewManager(),
		sessionManager: session.NewManager(),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	s.broadcaster = broadcast.NewRoomBroadcaster(s.sessionManager)
	return s
}

// Start brings up metrics, the admin RPC, the tick scheduler and the
// housekeeping timers, then serves websocket connections. Blocks.
func (s *GameServer) Start() error {
	s.monitor = monitor.NewMonitor("boidserver")
	s.monitor.StartServer(s.cfg.Server.MetricsAddress)

	rpcServer, err := boidrpc.NewServer(s.cfg.Server.RPCAddress)
	if err != nil {
		return err
	}
	s.rpcServer = rpcServer
	rpc.Register(boidrpc.NewAdmin(s.roomManager, s.sessionManager, s.monitor))
	go s.rpcServer.Start()

	s.scheduler = scheduler.New(s.roomManager, s.broadcaster, s.monitor, s.cfg.Game.TickRate)
	go s.scheduler.Run()

	s.timers = timer.NewManager()
	cleanupInterval := time.Duration(s.cfg.Game.CleanupIntervalSeconds) * time.Second
	s.timers.AddTask(cleanupInterval, cleanupInterval, func() {
		s.roomManager.CleanupEmptyRooms()
		s.monitor.SetActiveRooms(s.roomManager.Count())
	})
	s.timers.AddTask(10*time.Second, 10*time.Second, func() {
		s.monitor.SetActiveRooms(s.roomManager.Count())
	})

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.cfg.Server.HTTPAddress)
	return http.ListenAndServe(s.cfg.Server.HTTPAddress, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if s.timers != nil {
		s.timers.Stop()
	}
	if s.rpcServer != nil {
		s.rpcServer.Stop()
	}
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	conn.SetReadLimit(maxMessageSize)
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	wsConn.SetHeartbeat(heartbeatInterval)

	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	if s.monitor != nil {
		s.monitor.IncOnlinePlayers()
	}

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.ID)

	done := make(chan struct{})
	go s.pingLoop(wsConn, done)

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.ID)
		close(done)
		s.leaveRoom(sess)
		s.sessionManager.Remove(sess.ID)
		if s.monitor != nil {
			s.monitor.DecOnlinePlayers()
		}
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			data, err := wsConn.ReadMessage()
			if err != nil {
				return
			}
			s.handleMessage(sess, data)
		}
	}
}

// pingLoop keeps the read deadline fed for idle lobby members; peers that
// stop answering pings are reaped by the read loop's deadline.
func (s *GameServer) pingLoop(conn *network.WSConnection, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.Ping(); err != nil {
				return
			}
		}
	}
}

// handleMessage decodes the envelope once at the boundary and dispatches on
// the message kind. Malformed input answers the sender with an error and
// never tears down the connection or the room loop.
func (s *GameServer) handleMessage(sess *session.Session, data []byte) {
	if s.monitor != nil {
		s.monitor.IncMessagesReceived()
	}

	env, err := network.DecodeEnvelope(data)
	if err != nil {
		logger.Log.Infof("Session %s sent malformed message: %v", sess.ID, err)
		s.sendError(sess, "Invalid message format")
		return
	}

	switch env.Type {
	case network.MsgCreateLobby:
		s.handleCreateLobby(sess, env)
	case network.MsgJoinLobby:
		s.handleJoinLobby(sess, env)
	case network.MsgGetLobbies:
		s.handleGetLobbies(sess)
	case network.MsgInput:
		s.handleInput(sess, env)
	case network.MsgStartGame:
		s.handleStartGame(sess)
	case network.MsgLeaveLobby:
		s.leaveRoom(sess)
	default:
		logger.Log.Infof("Session %s sent unknown message type: %s", sess.ID, env.Type)
		s.sendError(sess, "Unknown message type")
	}
}

func (s *GameServer) handleCreateLobby(sess *session.Session, env network.Envelope) {
	req, err := network.DecodePayload[network.CreateLobbyRequest](env)
	if err != nil {
		s.sendError(sess, "Invalid message format")
		return
	}
	if req.BoidGroups < 1 || req.BoidsPerGroup < 1 ||
		req.BoidGroups*req.BoidsPerGroup > maxBoidsPerRoom ||
		req.MaxPlayers < 1 || req.MaxPlayers > game.MaxPredators {
		s.sendError(sess, "Invalid lobby configuration")
		return
	}

	// Creating while in a room replaces the old association.
	s.leaveRoom(sess)

	roomID := uuid.New().String()[:8]
	newRoom := s.roomManager.CreateRoom(roomID, req.PlayerName, room.Options{
		RoomName:      req.RoomName,
		BoidGroups:    req.BoidGroups,
		BoidsPerGroup: req.BoidsPerGroup,
		MaxPlayers:    req.MaxPlayers,
	})

	predatorID := newRoom.AddPlayer(sess.ID, req.PlayerName)
	if predatorID == "" {
		s.roomManager.RemoveRoom(roomID)
		s.sendError(sess, "Failed to create lobby")
		return
	}

	sess.SetPlayerName(req.PlayerName)
	sess.SetRoom(roomID)
	if s.monitor != nil {
		s.monitor.SetActiveRooms(s.roomManager.Count())
	}

	logger.Log.Infof("Session %s created room %s", sess.ID, roomID)

	s.broadcaster.SendDirect(sess, network.LobbyCreatedMsg{
		Type:       network.MsgLobbyCreated,
		Lobby:      newRoom.LobbyInfo(),
		PlayerID:   sess.ID,
		PredatorID: predatorID,
	})
}

func (s *GameServer) handleJoinLobby(sess *session.Session, env network.Envelope) {
	req, err := network.DecodePayload[network.JoinLobbyRequest](env)
	if err != nil {
		s.sendError(sess, "Invalid message format")
		return
	}

	target, exists := s.roomManager.GetRoom(req.RoomID)
	if !exists {
		s.sendError(sess, "Room not found")
		return
	}

	// Joining while in another room replaces the old association.
	if sess.RoomID() != "" && sess.RoomID() != req.RoomID {
		s.leaveRoom(sess)
	}

	predatorID := target.AddPlayer(sess.ID, req.PlayerName)
	if predatorID == "" {
		s.sendError(sess, "Room is full")
		return
	}

	sess.SetPlayerName(req.PlayerName)
	sess.SetRoom(req.RoomID)

	logger.Log.Infof("Session %s joined room %s", sess.ID, req.RoomID)

	s.broadcaster.BroadcastToRoom(req.RoomID, network.PlayerJoinedMsg{
		Type:       network.MsgPlayerJoined,
		PlayerID:   sess.ID,
		PredatorID: predatorID,
	}, sess.ID)

	s.broadcaster.SendDirect(sess, network.LobbyJoinedMsg{
		Type:       network.MsgLobbyJoined,
		Lobby:      target.LobbyInfo(),
		PlayerID:   sess.ID,
		PredatorID: predatorID,
	})
}

func (s *GameServer) handleGetLobbies(sess *session.Session) {
	s.broadcaster.SendDirect(sess, network.LobbyListMsg{
		Type:    network.MsgLobbyList,
		Lobbies: s.roomManager.GetAllLobbies(),
	})
}

func (s *GameServer) handleInput(sess *session.Session, env network.Envelope) {
	req, err := network.DecodePayload[network.InputRequest](env)
	if err != nil {
		s.sendError(sess, "Invalid message format")
		return
	}

	roomID := sess.RoomID()
	if roomID == "" {
		// Input before joining anything is dropped.
		return
	}

	target, exists := s.roomManager.GetRoom(roomID)
	if !exists {
		s.sendError(sess, "Room not found")
		return
	}
	target.UpdatePlayerPosition(sess.ID, req.Position)
}

func (s *GameServer) handleStartGame(sess *session.Session) {
	roomID := sess.RoomID()
	if roomID == "" {
		s.sendError(sess, "Not in a room")
		return
	}

	target, exists := s.roomManager.GetRoom(roomID)
	if !exists {
		s.sendError(sess, "Room not found")
		return
	}

	if err := target.StartGame(); err != nil {
		s.sendError(sess, "Game already started")
		return
	}

	s.broadcaster.BroadcastToRoom(roomID, network.GameStartedMsg{
		Type: network.MsgGameStarted,
	}, "")
}

// leaveRoom detaches sess from its room (no-op without an association),
// tells the remaining members, and drops the room once it empties.
func (s *GameServer) leaveRoom(sess *session.Session) {
	roomID := sess.RoomID()
	if roomID == "" {
		return
	}
	sess.SetRoom("")

	target, exists := s.roomManager.GetRoom(roomID)
	if !exists {
		return
	}

	target.RemovePlayer(sess.ID)
	s.broadcaster.BroadcastToRoom(roomID, network.PlayerLeftMsg{
		Type:     network.MsgPlayerLeft,
		PlayerID: sess.ID,
	}, sess.ID)

	if target.PlayerCount() == 0 {
		s.roomManager.RemoveRoom(roomID)
		logger.Log.Infof("Removed empty room %s", roomID)
		if s.monitor != nil {
			s.monitor.SetActiveRooms(s.roomManager.Count())
		}
	}
}

func (s *GameServer) sendError(sess *session.Session, msg string) {
	s.broadcaster.SendDirect(sess, network.NewErrorMsg(msg))
}
