package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/pictureduel/logger"
	"github.com/wfunc/pictureduel/models"
	"github.com/wfunc/pictureduel/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server. Services are registered with the
// net/rpc default server before Start is called.
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

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
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

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// StatsService exposes archived-game queries over net/rpc for operational
// tooling. Methods follow the net/rpc signature rules: exported method,
// exported argument types, pointer reply, error return.
type StatsService struct {
	records *services.RecordService
}

func NewStatsService(records *services.RecordService) *StatsService {
	return &StatsService{records: records}
}

// Register binds the service to the net/rpc default server.
func (ss *StatsService) Register() error {
	return rpc.Register(ss)
}

type PlayerStatsArgs struct {
	Name string
}

type PlayerStatsReply struct {
	Stats models.PlayerStats
}

func (ss *StatsService) GetPlayerStats(args *PlayerStatsArgs, reply *PlayerStatsReply) error {
	stats, err := ss.records.PlayerStats(args.Name)
	if err != nil {
		return err
	}
	reply.Stats = stats
	return nil
}

type RecentGamesArgs struct {
	Limit int
}

type RecentGamesReply struct {
	Games []models.GameRecord
}

func (ss *StatsService) GetRecentGames(args *RecentGamesArgs, reply *RecentGamesReply) error {
	games, err := ss.records.RecentGames(args.Limit)
	if err != nil {
		return err
	}
	reply.Games = games
	return nil
}
