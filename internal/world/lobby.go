package world

import (
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/Scrimzay/breadducks/internal/protocol"
)

const (
	SpawnRadius = 11.5
	PodiumSize  = 3
)

var (
	WaitingSpot  = Vec3{X: 0, Y: 0, Z: 4}
	podiumStartX = float32(-1.25)
	podiumStepX  = float32(1.25)
	podiumZ      = float32(-0.5)
)

// Lobby is one room: who plays, who watches, the bread pool and the round clock.
// RoundStart is zero while the lobby is waiting.
type Lobby struct {
	Name          string
	Members       map[uint32]DuckInfo
	Spectators    map[uint32]DuckInfo
	Bread         []Vec3
	RoundStart    time.Time
	LastTick      time.Time
	RoundDuration time.Duration
}

type LobbyInfo struct {
	Name         string `json:"name"`
	Members      int    `json:"members"`
	Spectators   int    `json:"spectators"`
	Running      bool   `json:"running"`
	RoundSeconds int    `json:"roundSeconds"`
}

func NewLobby(name string, roundDuration time.Duration, now time.Time) *Lobby {
	return &Lobby{
		Name:          name,
		Members:       make(map[uint32]DuckInfo),
		Spectators:    make(map[uint32]DuckInfo),
		RoundDuration: roundDuration,
		LastTick:      now,
	}
}

func (l *Lobby) Running() bool {
	return !l.RoundStart.IsZero()
}

// Checked at tick boundaries, so a round can overrun by up to one tick.
func (l *Lobby) RoundOver(now time.Time) bool {
	return l.Running() && now.Sub(l.RoundStart) >= l.RoundDuration
}

func (l *Lobby) Info() LobbyInfo {
	return LobbyInfo{
		Name:         l.Name,
		Members:      len(l.Members),
		Spectators:   len(l.Spectators),
		Running:      l.Running(),
		RoundSeconds: int(l.RoundDuration / time.Second),
	}
}

func sortedIDs(m map[uint32]DuckInfo) []uint32 {
	ids := make([]uint32, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (l *Lobby) memberIDs() []uint32 {
	return sortedIDs(l.Members)
}

// members then spectators, each in id order
func (l *Lobby) participants() []uint32 {
	return append(sortedIDs(l.Members), sortedIDs(l.Spectators)...)
}

func (l *Lobby) roster() protocol.Roster {
	ids := l.memberIDs()
	r := protocol.Roster{Entries: make([]protocol.RosterEntry, 0, len(ids))}
	for _, id := range ids {
		r.Entries = append(r.Entries, l.Members[id].rosterEntry(id))
	}
	return r
}

// SpawnBread rolls the per-tick spawn chance and drops one bread from the launch height.
// Only running lobbies spawn, and never past the bread limit.
func (l *Lobby) SpawnBread(rng *rand.Rand) (Vec3, bool) {
	if !l.Running() {
		return Vec3{}, false
	}
	chance := protocol.BreadSpawnPerSecond * protocol.TickInterval.Seconds()
	if rng.Float64() > chance || len(l.Bread) >= protocol.BreadLimit {
		return Vec3{}, false
	}

	// radius is uniform, not area-uniform: bread is denser near the middle
	theta := rng.Float64() * 2 * math.Pi
	r := rng.Float64() * SpawnRadius
	b := Vec3{
		X: float32(math.Sin(theta) * r),
		Y: BreadLaunchHeight,
		Z: float32(math.Cos(theta) * r),
	}
	l.Bread = append(l.Bread, b)
	return b, true
}

// Podium picks the top PodiumSize ducks by score. Ties go to the lower id.
func Podium(ducks []*Duck) []*Duck {
	ranked := slices.Clone(ducks)
	slices.SortStableFunc(ranked, func(a, b *Duck) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	if len(ranked) > PodiumSize {
		ranked = ranked[:PodiumSize]
	}
	return ranked
}

// placeOnPodium sends everyone to the waiting spot, then lines the winners up left to right.
func placeOnPodium(ducks []*Duck) []*Duck {
	for _, d := range ducks {
		d.place(WaitingSpot, 0)
	}
	podium := Podium(ducks)
	for i, d := range podium {
		d.place(Vec3{X: podiumStartX + float32(i)*podiumStepX, Y: 0, Z: podiumZ}, 0)
	}
	return podium
}

// resetRound clears the round state only; membership survives into the next round.
func (l *Lobby) resetRound(now time.Time) {
	l.Bread = nil
	l.RoundStart = time.Time{}
	l.LastTick = now
}
