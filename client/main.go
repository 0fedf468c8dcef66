// Command client is a terminal test client: it joins a room and turns
// stdin lines into commands.
//
// Usage: client ROOMCODE NAME [ws://host:port/ws]
//
//	/start CATEGORY [durationMs]   start a round (host only)
//	/guess WORD                    submit a guess
//	/reset                         reset the game (host only)
//	anything else                  chat
package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wfunc/pictureduel/network"
)

// send formats and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16, payload interface{}) error {
	var data []byte
	if payload != nil {
		var err error
		if data, err = json.Marshal(payload); err != nil {
			return err
		}
	}

	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

var msgNames = map[uint16]string{
	network.MsgTypeJoinedRoom:        "joined_room",
	network.MsgTypeJoinError:         "join_error",
	network.MsgTypeRoomState:         "room_state",
	network.MsgTypeRoundStarted:      "round_started",
	network.MsgTypeYourWord:          "your_word",
	network.MsgTypeGuessResult:       "guess_result",
	network.MsgTypePlayerGuessed:     "player_guessed",
	network.MsgTypeRoundEnded:        "round_ended",
	network.MsgTypeReadyForNextRound: "ready_for_next_round",
	network.MsgTypeGameOver:          "game_over",
	network.MsgTypeRoundError:        "round_error",
	network.MsgTypeGameReset:         "game_reset",
	network.MsgTypeChatMessage:       "chat",
	network.MsgTypeDrawLine:          "draw_line",
	network.MsgTypeClearCanvas:       "clear_canvas",
}

func main() {
	if len(os.Args) < 3 {
		log.Fatalf("usage: %s ROOMCODE NAME [ws://host:port/ws]", os.Args[0])
	}
	roomCode, name := os.Args[1], os.Args[2]
	addr := "ws://localhost:3000/ws"
	if len(os.Args) > 3 {
		addr = os.Args[3]
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	log.Printf("Connecting to %s", addr)

	c, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			if len(message) < 4 {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			msgID := binary.BigEndian.Uint16(message[0:2])
			data := message[4:]
			label, ok := msgNames[msgID]
			if !ok {
				label = strconv.Itoa(int(msgID))
			}
			log.Printf("<- %s: %s", label, string(data))
		}
	}()

	log.Printf("Joining room %s as %s", roomCode, name)
	if err := send(c, network.MsgTypeJoinRoom, network.JoinRoomRequest{RoomCode: roomCode, Name: name}); err != nil {
		log.Fatalf("Join failed: %v", err)
	}

	lines := make(chan string)
	go func() {
		reader := bufio.NewReader(os.Stdin)
		for {
			text, err := reader.ReadString('\n')
			if err != nil {
				close(lines)
				return
			}
			lines <- strings.TrimSpace(text)
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		case text, ok := <-lines:
			if !ok {
				return
			}
			if text == "" {
				continue
			}
			if err := dispatch(c, text); err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}

func dispatch(c *websocket.Conn, text string) error {
	switch {
	case strings.HasPrefix(text, "/start"):
		fields := strings.Fields(text)
		if len(fields) < 2 {
			log.Println("usage: /start CATEGORY [durationMs]")
			return nil
		}
		req := network.HostStartRoundRequest{Category: fields[1]}
		if len(fields) > 2 {
			ms, err := strconv.ParseInt(fields[2], 10, 64)
			if err != nil {
				log.Printf("Bad duration %q", fields[2])
				return nil
			}
			req.DurationMs = ms
		}
		return send(c, network.MsgTypeHostStartRound, req)
	case strings.HasPrefix(text, "/guess "):
		return send(c, network.MsgTypeSubmitGuess, network.SubmitGuessRequest{Guess: strings.TrimPrefix(text, "/guess ")})
	case text == "/reset":
		return send(c, network.MsgTypeHostResetGame, nil)
	default:
		return send(c, network.MsgTypeChatMessage, network.ChatRequest{Text: text})
	}
}
