package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/boidserver/logger"
	"github.com/wfunc/boidserver/models"
	"github.com/wfunc/boidserver/monitor"
	"github.com/wfunc/boidserver/room"
	"github.com/wfunc/boidserver/session"
)

// Server manages the RPC listener for the admin surface.
type Server struct {
	listener net.Listener
	address  string
}

func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins serving RPC requests. Services are registered by the caller
// before Start.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// Admin exposes operational queries over net/rpc. Methods follow the net/rpc
// signature: exported method, exported args, pointer reply, error return.
type Admin struct {
	rooms    *room.Manager
	sessions *session.Manager
	monitor  *monitor.Monitor
}

func NewAdmin(rooms *room.Manager, sessions *session.Manager, mon *monitor.Monitor) *Admin {
	return &Admin{rooms: rooms, sessions: sessions, monitor: mon}
}

type ListLobbiesArgs struct{}

type ListLobbiesReply struct {
	Lobbies []models.LobbyInfo
}

// ListLobbies returns the same waiting-room summaries the wire protocol's
// get_lobbies serves.
func (a *Admin) ListLobbies(args *ListLobbiesArgs, reply *ListLobbiesReply) error {
	reply.Lobbies = a.rooms.GetAllLobbies()
	return nil
}

type StatsArgs struct{}

type StatsReply struct {
	ActiveRooms    int
	OnlineSessions int
	UptimeSeconds  float64
}

func (a *Admin) Stats(args *StatsArgs, reply *StatsReply) error {
	reply.ActiveRooms = a.rooms.Count()
	reply.OnlineSessions = a.sessions.Count()
	if a.monitor != nil {
		reply.UptimeSeconds = a.monitor.Uptime().Seconds()
	}
	return nil
}
