package protocol

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Command is a text command decoded from a client frame.
type Command interface {
	command()
}

type JoinGame struct {
	Name    string
	Variety string
	Color   string
}

// StartGame with an empty Lobby targets the sender's lobby; a zero Duration keeps the lobby's setting.
type StartGame struct {
	Lobby    string
	Duration time.Duration
}

type JoinLobby struct {
	Lobby string
}

type ListLobbies struct{}

func (JoinGame) command()    {}
func (StartGame) command()   {}
func (JoinLobby) command()   {}
func (ListLobbies) command() {}

// ParseCommand decodes one text frame and reports which dialect it was written in.
func ParseCommand(frame string) (Command, Dialect, error) {
	frame = strings.TrimSpace(frame)
	if frame == "" {
		return nil, DialectCast, fmt.Errorf("%w: empty text frame", ErrMalformed)
	}
	if strings.HasPrefix(frame, "/") {
		cmd, err := parseSlash(frame)
		return cmd, DialectSlash, err
	}
	cmd, err := parseCast(frame)
	return cmd, DialectCast, err
}

func parseCast(frame string) (Command, error) {
	fields := strings.Split(frame, "\n")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	switch fields[0] {
	case "join", "join_game":
		if len(fields) < 4 {
			return nil, fmt.Errorf("%w: %s wants name, variety and color, got %d fields", ErrMalformed, fields[0], len(fields)-1)
		}
		return JoinGame{Name: fields[1], Variety: fields[2], Color: fields[3]}, nil

	case "vote_start_game", "start_game":
		cmd := StartGame{}
		if len(fields) > 1 && fields[1] != "" {
			d, err := parseSeconds(fields[1])
			if err != nil {
				return nil, err
			}
			cmd.Duration = d
		}
		return cmd, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
	}
}

func parseSlash(frame string) (Command, error) {
	name, rest, _ := strings.Cut(frame, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "/list":
		return ListLobbies{}, nil

	case "/join":
		if rest == "" {
			return nil, fmt.Errorf("%w: /join needs a lobby name", ErrMalformed)
		}
		return JoinLobby{Lobby: rest}, nil

	case "/info":
		info := strings.SplitN(rest, " ", 3)
		if len(info) < 3 || info[0] == "" {
			return nil, fmt.Errorf("%w: /info wants name, variety and color", ErrMalformed)
		}
		return JoinGame{Name: info[0], Variety: info[1], Color: strings.TrimSpace(info[2])}, nil

	case "/start_game":
		lobby, secs, ok := strings.Cut(rest, " ")
		if !ok || lobby == "" {
			return nil, fmt.Errorf("%w: /start_game wants a lobby and a duration", ErrMalformed)
		}
		d, err := parseSeconds(strings.TrimSpace(secs))
		if err != nil {
			return nil, err
		}
		return StartGame{Lobby: lobby, Duration: d}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
}

func parseSeconds(s string) (time.Duration, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: duration %q: %v", ErrMalformed, s, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: duration must be positive", ErrMalformed)
	}
	return time.Duration(n) * time.Second, nil
}
