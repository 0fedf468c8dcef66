package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wfunc/pictureduel/broadcast"
	"github.com/wfunc/pictureduel/logger"
	"github.com/wfunc/pictureduel/monitor"
	"github.com/wfunc/pictureduel/network"
	"github.com/wfunc/pictureduel/room"
	"github.com/wfunc/pictureduel/services"
	"github.com/wfunc/pictureduel/session"
	pictureduel_rpc "github.com/wfunc/pictureduel/rpc"
)

// GameServer owns the websocket boundary: it upgrades connections, decodes
// packets, and routes events into rooms. Anything malformed is dropped
// here; rooms only ever see well-formed events.
type GameServer struct {
	addr           string
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	broadcaster    broadcast.Broadcaster
	records        *services.RecordService
	monitor        *monitor.Monitor
	rpcServer      *pictureduel_rpc.Server
	shutdownChan   chan struct{}
}

func NewGameServer(addr, rpcAddr string, gameCfg room.Config, scheduler room.Scheduler, mon *monitor.Monitor, records *services.RecordService) *GameServer {
	s := &GameServer{
		addr:           addr,
		sessionManager: session.NewManager(),
		records:        records,
		monitor:        mon,
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	// 初始化广播器
	s.broadcaster = broadcast.NewRoomBroadcaster(s.sessionManager)

	deps := room.Deps{
		Broadcaster: s.broadcaster,
		Scheduler:   scheduler,
		OnGameOver:  records.GameFinished,
	}
	if mon != nil {
		deps.Metrics = mon
	}
	s.roomManager = room.NewManager(gameCfg, deps)
	if mon != nil {
		s.roomManager.OnCountChange = mon.SetActiveRooms
	}

	// 初始化RPC服务器
	rpcServer, err := pictureduel_rpc.NewServer(rpcAddr)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	// 注册RPC服务
	statsService := pictureduel_rpc.NewStatsService(records)
	if err := statsService.Register(); err != nil {
		logger.Log.Fatalf("Failed to register RPC service: %v", err)
	}

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	if s.monitor != nil {
		s.monitor.IncOnlinePlayers()
	}

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		if s.monitor != nil {
			s.monitor.DecOnlinePlayers()
		}
		if code := sess.GetRoomCode(); code != "" {
			s.leaveRoom(sess.GetID(), code)
		}
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			s.handlePacket(sess, packet)
		}
	}
}

// leaveRoom detaches a session from a room, dropping the room itself when
// it empties out. The session's room code must already be cleared or
// repointed so the departure notifications skip it.
func (s *GameServer) leaveRoom(sessionID, code string) {
	r := s.roomManager.Get(code)
	if r == nil {
		return
	}
	if empty := r.Leave(sessionID); empty {
		s.roomManager.Remove(code)
		logger.Log.Infof("Room %s removed, last player left", code)
	}
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	if s.monitor != nil {
		s.monitor.IncMessagesReceived()
	}

	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.Touch()
	case network.MsgTypeSetName:
		s.handleSetName(sess, packet)
	case network.MsgTypeJoinRoom:
		s.handleJoinRoom(sess, packet)
	case network.MsgTypeChatMessage:
		s.handleChat(sess, packet)
	case network.MsgTypeHostStartRound:
		s.handleStartRound(sess, packet)
	case network.MsgTypeSubmitGuess:
		s.handleGuess(sess, packet)
	case network.MsgTypeHostResetGame:
		s.inRoom(sess, func(r *room.Room) { r.HostResetGame(sess.GetID()) })
	case network.MsgTypeDrawLine:
		s.handleDrawLine(sess, packet)
	case network.MsgTypeClearCanvas:
		s.inRoom(sess, func(r *room.Room) { r.RelayClearCanvas(sess.GetID()) })
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

// inRoom runs fn against the session's current room, if any.
func (s *GameServer) inRoom(sess *session.Session, fn func(*room.Room)) {
	code := sess.GetRoomCode()
	if code == "" {
		return
	}
	r := s.roomManager.Get(code)
	if r == nil {
		return
	}
	fn(r)
}

func (s *GameServer) handleSetName(sess *session.Session, packet *network.Packet) {
	var req network.SetNameRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}
	sess.SetName(req.Name)
}

func (s *GameServer) handleJoinRoom(sess *session.Session, packet *network.Packet) {
	joinError := func(message string) {
		data, _ := json.Marshal(network.ErrorPayload{Message: message})
		sess.Send(network.MsgTypeJoinError, data)
	}

	var req network.JoinRoomRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		joinError("Invalid room code.")
		return
	}
	code := room.NormalizeCode(req.RoomCode)
	if code == "" {
		joinError("Invalid room code.")
		return
	}

	name := req.Name
	if strings.TrimSpace(name) == "" {
		name = sess.GetName()
	}
	if strings.TrimSpace(name) == "" {
		joinError("Please enter a name first.")
		return
	}

	// Moving between rooms: drop out of the old one first, with the room
	// code already pointing at the new room so the old room's departure
	// notifications skip this session.
	oldCode := sess.GetRoomCode()
	sess.SetRoomCode(code)
	if oldCode != "" && oldCode != code {
		s.leaveRoom(sess.GetID(), oldCode)
	}

	r := s.roomManager.GetOrCreate(code)
	finalName, err := r.Join(sess.GetID(), name)
	if err != nil {
		// The old room has already been left, so the session falls back to
		// the lobby rather than a room it is no longer a member of.
		sess.SetRoomCode("")
		if r.PlayerCount() == 0 {
			s.roomManager.Remove(code)
		}
		joinError("Something went wrong joining.")
		return
	}
	sess.SetName(finalName)
}

func (s *GameServer) handleChat(sess *session.Session, packet *network.Packet) {
	var req network.ChatRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}
	s.inRoom(sess, func(r *room.Room) { r.Chat(sess.GetID(), req.Text) })
}

func (s *GameServer) handleStartRound(sess *session.Session, packet *network.Packet) {
	var req network.HostStartRoundRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}
	s.inRoom(sess, func(r *room.Room) { r.HostStartRound(sess.GetID(), req.Category, req.DurationMs) })
}

func (s *GameServer) handleGuess(sess *session.Session, packet *network.Packet) {
	var req network.SubmitGuessRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}
	s.inRoom(sess, func(r *room.Room) { r.SubmitGuess(sess.GetID(), req.Guess) })
}

func (s *GameServer) handleDrawLine(sess *session.Session, packet *network.Packet) {
	var msg network.DrawLineMessage
	if err := json.Unmarshal(packet.Data, &msg); err != nil || !msg.Valid() {
		return
	}
	s.inRoom(sess, func(r *room.Room) { r.RelayDrawLine(sess.GetID(), packet.Data) })
}
