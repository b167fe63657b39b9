package server

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Scrimzay/breadducks/internal/protocol"
	"github.com/Scrimzay/breadducks/internal/world"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// Liveness: ping every HeartbeatInterval, give up after ClientTimeout of silence.
var (
	HeartbeatInterval = 5 * time.Second
	ClientTimeout     = 10 * time.Second
	writeWait         = 10 * time.Second
	replyWait         = 2 * time.Second
)

const (
	maxFrameSize   = 4096
	sendBufferSize = 64
	// text commands only; the binary transform stream is not limited
	commandRate  = 5
	commandBurst = 10
)

var errSendBufferFull = errors.New("send buffer full")
var errSessionClosed = errors.New("session closed")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// liveness is the ping cadence and silence limit of one session.
type liveness struct {
	heartbeat time.Duration
	timeout   time.Duration
}

type outbound struct {
	msgType int
	data    []byte
}

// session is one websocket client. It is the world's Sink for that client.
type session struct {
	conn    *websocket.Conn
	world   *world.World
	send    chan outbound
	done    chan struct{}
	once    sync.Once
	id      atomic.Uint32
	dialect atomic.Int32
	limiter *rate.Limiter
	live    liveness
}

func newSession(conn *websocket.Conn, gameWorld *world.World, live liveness) *session {
	return &session{
		conn:    conn,
		world:   gameWorld,
		live:    live,
		send:    make(chan outbound, sendBufferSize),
		done:    make(chan struct{}),
		limiter: rate.NewLimiter(commandRate, commandBurst),
	}
}

func HandleWebsocket(gameWorld *world.World) gin.HandlerFunc {
	return handleWebsocket(gameWorld, liveness{heartbeat: HeartbeatInterval, timeout: ClientTimeout})
}

func handleWebsocket(gameWorld *world.World, live liveness) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("WS upgrade error:", err)
			return
		}

		s := newSession(conn, gameWorld, live)
		go s.writer()
		s.reader()
	}
}

func (s *session) enqueue(msgType int, data []byte) error {
	select {
	case <-s.done:
		return errSessionClosed
	default:
	}

	select {
	case s.send <- outbound{msgType: msgType, data: data}:
		return nil
	default:
		return errSendBufferFull
	}
}

func (s *session) SendNotice(n protocol.Notice) error {
	for _, frame := range protocol.EncodeNotice(protocol.Dialect(s.dialect.Load()), n) {
		if err := s.enqueue(websocket.TextMessage, []byte(frame)); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) SendSync(data []byte) error {
	return s.enqueue(websocket.BinaryMessage, data)
}

// close is safe to call from both goroutines; the world hears about it once.
func (s *session) close() {
	s.once.Do(func() {
		close(s.done)
		_ = s.conn.Close()
		if id := s.id.Load(); id != 0 {
			s.world.Submit(world.Leave{ID: id})
			log.Printf("Session for duck %d closed", id)
		}
	})
}

func (s *session) writer() {
	ticker := time.NewTicker(s.live.heartbeat)
	defer func() {
		ticker.Stop()
		s.close()
	}()

	for {
		select {
		case <-s.done:
			return
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(msg.msgType, msg.data); err != nil {
				log.Println("WS write error:", err)
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *session) reader() {
	defer s.close()

	s.conn.SetReadLimit(maxFrameSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(s.live.timeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.live.timeout))
	})

	for {
		msgType, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Println("WS read error:", err)
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(s.live.timeout))

		switch msgType {
		case websocket.TextMessage:
			s.handleText(msg)
		case websocket.BinaryMessage:
			s.handleBinary(msg)
		}
	}
}

func (s *session) handleText(msg []byte) {
	if !s.limiter.Allow() {
		log.Printf("Dropping command from duck %d: rate limited", s.id.Load())
		return
	}

	cmd, dialect, err := protocol.ParseCommand(string(msg))
	if err != nil {
		log.Println("Command parse error:", err)
		return
	}
	if old := protocol.Dialect(s.dialect.Swap(int32(dialect))); old != dialect {
		log.Printf("Duck %d switched from %v to %v commands", s.id.Load(), old, dialect)
	}

	switch c := cmd.(type) {
	case protocol.JoinGame:
		s.join(c)

	case protocol.StartGame:
		s.world.Submit(world.StartRound{ID: s.id.Load(), Lobby: c.Lobby, Duration: c.Duration})

	case protocol.JoinLobby:
		if id := s.id.Load(); id != 0 {
			s.world.Submit(world.JoinLobby{ID: id, Lobby: c.Lobby})
		}

	case protocol.ListLobbies:
		s.listLobbies()
	}
}

func (s *session) join(c protocol.JoinGame) {
	if s.id.Load() != 0 {
		log.Printf("Duck %d sent a second join, ignoring", s.id.Load())
		return
	}

	reply := make(chan uint32, 1)
	ok := s.world.Submit(world.Join{
		Sink:    s,
		Name:    c.Name,
		Variety: c.Variety,
		Color:   c.Color,
		Reply:   reply,
	})
	if !ok {
		return
	}

	select {
	case id := <-reply:
		s.id.Store(id)
		// the writer may have closed us while we waited; Leave is idempotent
		select {
		case <-s.done:
			s.world.Submit(world.Leave{ID: id})
		default:
		}
	case <-s.world.Done():
	}
}

func (s *session) listLobbies() {
	reply := make(chan []world.LobbyInfo, 1)
	if !s.world.Submit(world.ListLobbies{Reply: reply}) {
		return
	}

	select {
	case lobbies := <-reply:
		names := make([]string, 0, len(lobbies))
		for _, l := range lobbies {
			names = append(names, l.Name)
		}
		if err := s.SendNotice(protocol.LobbyList{Names: names}); err != nil {
			log.Println("Lobby list send error:", err)
		}
	case <-time.After(replyWait):
	case <-s.world.Done():
	}
}

func (s *session) handleBinary(msg []byte) {
	id := s.id.Load()
	if id == 0 {
		return
	}

	d, err := protocol.DecodeDuck(msg)
	if err != nil {
		log.Printf("Dropping update from duck %d: %v", id, err)
		return
	}
	s.world.Submit(world.Update{ID: id, X: d.X, Y: d.Y, Z: d.Z, Rotation: d.Rotation})
}
