package protocol

import (
	"strconv"
	"strings"
	"time"
)

// Notice is a server -> client text message. Sessions render it in their own dialect.
type Notice interface {
	notice()
}

type RosterEntry struct {
	ID      uint32
	Name    string
	Variety string
	Color   string
}

// AssignedID tells a joiner which id the server gave it.
type AssignedID struct {
	ID uint32
}

// Roster lists the ducks already in the lobby, sent to a joiner.
type Roster struct {
	Entries []RosterEntry
}

type PeerJoined struct {
	Entry RosterEntry
}

type PeerLeft struct {
	ID uint32
}

type RoundStarted struct {
	Start    time.Time
	Duration time.Duration
}

// Spectate is sent instead of a duck spawn when joining a lobby mid-round.
type Spectate struct {
	Start    time.Time
	Duration time.Duration
}

type RoundEnded struct{}

type LobbyList struct {
	Names []string
}

func (AssignedID) notice()   {}
func (Roster) notice()       {}
func (PeerJoined) notice()   {}
func (PeerLeft) notice()     {}
func (RoundStarted) notice() {}
func (Spectate) notice()     {}
func (RoundEnded) notice()   {}
func (LobbyList) notice()    {}

func id(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}

func timing(start time.Time, d time.Duration) []string {
	return []string{strconv.FormatInt(start.Unix(), 10), strconv.FormatInt(int64(d/time.Second), 10)}
}

func frame(fields ...string) string {
	return strings.Join(fields, "\n")
}

func (e RosterEntry) castFrame() string {
	return frame("cast:join_game", id(e.ID), e.Name, e.Variety, e.Color)
}

func (e RosterEntry) slashLine() string {
	return strings.Join([]string{id(e.ID), e.Name, e.Variety, e.Color}, " ")
}

// EncodeNotice renders n as zero or more text frames.
func EncodeNotice(d Dialect, n Notice) []string {
	if d == DialectSlash {
		return encodeSlash(n)
	}
	return encodeCast(n)
}

func encodeCast(n Notice) []string {
	switch n := n.(type) {
	case AssignedID:
		return []string{frame("re:join_game", id(n.ID))}

	case Roster:
		out := make([]string, 0, len(n.Entries))
		for _, e := range n.Entries {
			out = append(out, e.castFrame())
		}
		return out

	case PeerJoined:
		return []string{n.Entry.castFrame()}

	case PeerLeft:
		return []string{frame("cast:leave_game", id(n.ID))}

	case RoundStarted:
		return []string{frame(append([]string{"cast:start_game"}, timing(n.Start, n.Duration)...)...)}

	case Spectate:
		return []string{frame(append([]string{"cast:spectate_game"}, timing(n.Start, n.Duration)...)...)}

	case RoundEnded:
		return []string{"cast:end_game"}

	case LobbyList:
		return []string{frame(append([]string{"cast:list"}, n.Names...)...)}
	}
	return nil
}

func encodeSlash(n Notice) []string {
	switch n := n.(type) {
	case AssignedID:
		return []string{frame("/id", id(n.ID))}

	case Roster:
		lines := []string{"/join"}
		for _, e := range n.Entries {
			lines = append(lines, e.slashLine())
		}
		return []string{frame(lines...)}

	case PeerJoined:
		return []string{frame("/join", n.Entry.slashLine())}

	case PeerLeft:
		return []string{frame("/disconnect", id(n.ID))}

	case RoundStarted:
		return []string{frame(append([]string{"/start_game"}, timing(n.Start, n.Duration)...)...)}

	case Spectate:
		return []string{frame(append([]string{"/spectate_game"}, timing(n.Start, n.Duration)...)...)}

	case RoundEnded:
		return []string{"/game_end"}

	case LobbyList:
		return []string{frame(append([]string{"/list"}, n.Names...)...)}
	}
	return nil
}
