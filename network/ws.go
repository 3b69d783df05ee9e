package network

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"memorymatch/protocol"
	"memorymatch/room"
)

const (
	readLimit    = 1 << 16
	pongWait     = 60 * time.Second
	pingEvery    = 25 * time.Second
	writeWait    = 10 * time.Second
	sendQueueLen = 256
)

var errSendQueueFull = errors.New("send queue full")

// wsConn adapts a websocket to room.Conn. The room never blocks on the
// network: frames go through a queue drained by a single writer goroutine,
// which also sends pings.
type wsConn struct {
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newWSConn(conn *websocket.Conn) *wsConn {
	c := &wsConn{
		conn: conn,
		send: make(chan []byte, sendQueueLen),
		done: make(chan struct{}),
	}
	go c.writeLoop()
	return c
}

func (c *wsConn) Send(b []byte) error {
	select {
	case <-c.done:
		return websocket.ErrCloseSent
	default:
	}
	select {
	case c.send <- b:
		return nil
	default:
		return errSendQueueFull
	}
}

func (c *wsConn) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

func (c *wsConn) writeLoop() {
	ticker := time.NewTicker(pingEvery)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case b := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			// flush what the room queued before closing
			for {
				select {
				case b := <-c.send:
					_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
						return
					}
				default:
					_ = c.conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
						time.Now().Add(writeWait))
					return
				}
			}
		}
	}
}

func (c *wsConn) sendError(msg string) {
	_ = c.Send(protocol.MustEncode(protocol.MsgError, protocol.Error{Message: msg}))
}

// GET /api/games/{code}/ws
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	rm := s.rooms.GetRoom(code)
	if rm == nil {
		writeJSON(w, http.StatusNotFound, errObj("NOT_FOUND", fmt.Sprintf("game %q not found", code)))
		return
	}

	// Upgrade HTTP -> WebSocket
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Println("upgrade:", err)
		return
	}

	// Basic timeouts + pong handling (keeps connections healthy)
	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	hello, err := readHello(conn)
	if err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	wc := newWSConn(conn)
	defer wc.Close()
	reply := make(chan room.JoinResult, 1)
	if !s.post(rm, room.Join{Conn: wc, Name: hello.Name, Reply: reply}) {
		return
	}
	var playerID string
	select {
	case res := <-reply:
		playerID = res.PlayerID
	case <-time.After(s.joinTimeout):
		return
	}

	s.readLoop(conn, wc, rm, playerID)
	s.post(rm, room.Leave{PlayerID: playerID})
}

func readHello(conn *websocket.Conn) (protocol.Hello, error) {
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return protocol.Hello{}, err
	}
	env, err := protocol.DecodeEnvelope(msg)
	if err != nil {
		return protocol.Hello{}, err
	}
	if env.T != protocol.MsgHello {
		return protocol.Hello{}, fmt.Errorf("expected %q, got %q", protocol.MsgHello, env.T)
	}
	hello, err := protocol.DecodePayload[protocol.Hello](env)
	if err != nil {
		return protocol.Hello{}, err
	}
	if hello.V != protocol.Version {
		return protocol.Hello{}, fmt.Errorf("unsupported protocol version %d", hello.V)
	}
	return hello, nil
}

// readLoop turns client frames into room commands until the socket fails.
func (s *Server) readLoop(conn *websocket.Conn, wc *wsConn, rm *room.Room, playerID string) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Println("read:", err)
			}
			return
		}
		env, err := protocol.DecodeEnvelope(msg)
		if err != nil {
			wc.sendError(err.Error())
			continue
		}

		var cmd any
		switch env.T {
		case protocol.MsgStart:
			cmd = room.Start{PlayerID: playerID}
		case protocol.MsgRestart:
			cmd = room.Restart{PlayerID: playerID}
		case protocol.MsgOpen:
			o, err := protocol.DecodePayload[protocol.Open](env)
			if err != nil {
				wc.sendError(err.Error())
				continue
			}
			cmd = room.Open{PlayerID: playerID, Position: o.Position}
		default:
			wc.sendError(fmt.Sprintf("unknown message type %q", env.T))
			continue
		}
		if !s.post(rm, cmd) {
			return
		}
	}
}

// post delivers cmd to the room unless its inbox stays full past joinTimeout.
func (s *Server) post(rm *room.Room, cmd any) bool {
	select {
	case rm.Inbox <- cmd:
		return true
	case <-time.After(s.joinTimeout):
		s.logger.Printf("room inbox full, dropping %T", cmd)
		return false
	}
}
