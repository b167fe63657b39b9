package world

import "time"

// Command is something a session asks the world to do. Commands are applied one at a
// time on the world goroutine, in between ticks.
type Command interface {
	apply(w *World)
}

// Join: issued once the client sent its duck info. Reply gets the assigned id.
type Join struct {
	Sink    Sink
	Lobby   string // empty means the default lobby
	Name    string
	Variety string
	Color   string
	Reply   chan<- uint32
}

// Leave: issued on disconnect or heartbeat timeout
type Leave struct {
	ID uint32
}

// Update: latest transform reported by the client
type Update struct {
	ID       uint32
	X, Y, Z  float32
	Rotation float32
}

// StartRound with an empty Lobby starts the lobby ID currently sits in.
type StartRound struct {
	ID       uint32
	Lobby    string
	Duration time.Duration
}

type JoinLobby struct {
	ID    uint32
	Lobby string
}

type ListLobbies struct {
	Reply chan<- []LobbyInfo
}

func (c Join) apply(w *World) {
	id := w.Join(c.Sink, c.Lobby, c.Name, c.Variety, c.Color)
	if c.Reply != nil {
		c.Reply <- id
	}
}

func (c Leave) apply(w *World) {
	w.Leave(c.ID)
}

func (c Update) apply(w *World) {
	w.SubmitUpdate(c.ID, c.X, c.Y, c.Z, c.Rotation)
}

func (c StartRound) apply(w *World) {
	name := c.Lobby
	if name == "" {
		name = w.lobbyOf(c.ID)
	}
	if name == "" {
		return
	}
	w.StartRound(name, c.Duration)
}

func (c JoinLobby) apply(w *World) {
	w.JoinLobby(c.ID, c.Lobby)
}

func (c ListLobbies) apply(w *World) {
	if c.Reply != nil {
		c.Reply <- w.ListLobbies()
	}
}
