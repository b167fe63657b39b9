package protocol

import (
	"errors"
	"time"
)

const (
	TickInterval        = 50 * time.Millisecond
	BreadSpawnPerSecond = 3.0
	BreadLimit          = 500
)

// Every decode failure wraps one of these so the session layer can log and drop the frame.
var (
	ErrMalformed      = errors.New("malformed frame")
	ErrUnknownCommand = errors.New("unknown command")
)

// Dialect picks which family of text frames a connection speaks.
// The game client uses "join_game"/"cast:*", the lobby client uses "/..." commands.
type Dialect int32

const (
	DialectCast Dialect = iota
	DialectSlash
)

func (d Dialect) String() string {
	switch d {
	case DialectCast:
		return "cast"

	case DialectSlash:
		return "slash"

	default:
		return "unknown"
	}
}
