package world

import (
	"context"
	"log"
	"math/rand"
	"runtime/debug"
	"slices"
	"time"

	"github.com/Scrimzay/breadducks/internal/protocol"
)

const DefaultRoundDuration = 120 * time.Second

type Options struct {
	DefaultLobby  string
	RoundDuration time.Duration
	Seed          int64            // 0 seeds from the clock
	Clock         func() time.Time // nil means time.Now
}

// World is the single owner of every lobby, duck and sink. Its methods are not safe for
// concurrent use: in production only the Run goroutine calls them, everything else goes
// through Submit.
type World struct {
	Inbox chan Command

	broadcaster   *Broadcaster
	ducks         map[uint32]*Duck
	lobbies       map[string]*Lobby
	defaultLobby  string
	roundDuration time.Duration
	rng           *rand.Rand
	now           func() time.Time
	done          chan struct{}
}

func New(opts Options) *World {
	if opts.DefaultLobby == "" {
		opts.DefaultLobby = "main"
	}
	if opts.RoundDuration <= 0 {
		opts.RoundDuration = DefaultRoundDuration
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	w := &World{
		Inbox:         make(chan Command, 256),
		broadcaster:   NewBroadcaster(),
		ducks:         make(map[uint32]*Duck),
		lobbies:       make(map[string]*Lobby),
		defaultLobby:  opts.DefaultLobby,
		roundDuration: opts.RoundDuration,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		now:           opts.Clock,
		done:          make(chan struct{}),
	}
	w.lobby(w.defaultLobby)
	return w
}

// Run applies commands and ticks every protocol.TickInterval until ctx is done.
func (w *World) Run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(protocol.TickInterval)
	defer ticker.Stop()

	log.Printf("World running, default lobby %q, %v per tick", w.defaultLobby, protocol.TickInterval)
	for {
		select {
		case <-ctx.Done():
			log.Println("World stopped:", ctx.Err())
			return
		case cmd := <-w.Inbox:
			cmd.apply(w)
		case <-ticker.C:
			w.Tick()
		}
	}
}

// Submit queues cmd for the world goroutine. It returns false once Run has returned.
func (w *World) Submit(cmd Command) bool {
	select {
	case <-w.done:
		return false
	default:
	}

	select {
	case w.Inbox <- cmd:
		return true
	case <-w.done:
		return false
	}
}

// Done is closed when Run returns.
func (w *World) Done() <-chan struct{} {
	return w.done
}

func (w *World) DefaultLobby() string {
	return w.defaultLobby
}

// get or create
func (w *World) lobby(name string) *Lobby {
	if l, ok := w.lobbies[name]; ok {
		return l
	}
	l := NewLobby(name, w.roundDuration, w.now())
	w.lobbies[name] = l
	log.Printf("Lobby %q created", name)
	return l
}

func (w *World) lobbyNames() []string {
	names := make([]string, 0, len(w.lobbies))
	for name := range w.lobbies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// lobbyOf returns the lobby id plays or watches in, or "".
func (w *World) lobbyOf(id uint32) string {
	for _, name := range w.lobbyNames() {
		l := w.lobbies[name]
		if _, ok := l.Members[id]; ok {
			return name
		}
		if _, ok := l.Spectators[id]; ok {
			return name
		}
	}
	return ""
}

// Ids are random but never 0 (the "nobody" id) and never one already in use.
func (w *World) nextID() uint32 {
	for {
		id := w.rng.Uint32()
		if id == 0 || w.broadcaster.Has(id) {
			continue
		}
		if _, taken := w.ducks[id]; taken {
			continue
		}
		return id
	}
}

// Join registers sink and places the new participant in lobbyName ("" for the default).
// A running lobby takes the joiner as a spectator until the round ends.
func (w *World) Join(sink Sink, lobbyName, name, variety, color string) uint32 {
	if lobbyName == "" {
		lobbyName = w.defaultLobby
	}
	l := w.lobby(lobbyName)
	id := w.nextID()
	w.broadcaster.Register(id, sink)
	w.admit(l, id, DuckInfo{Name: name, Variety: variety, Color: color})
	return id
}

func (w *World) admit(l *Lobby, id uint32, info DuckInfo) {
	if l.Running() {
		l.Spectators[id] = info
		w.broadcaster.SendTo(id, protocol.Spectate{Start: l.RoundStart, Duration: l.RoundDuration})
		w.broadcaster.SendTo(id, protocol.AssignedID{ID: id})
		w.broadcaster.SendTo(id, l.roster())
		log.Printf("Duck %d (%s) is spectating lobby %q", id, info.Name, l.Name)
		return
	}

	w.broadcaster.SendTo(id, protocol.AssignedID{ID: id})
	w.broadcaster.SendTo(id, l.roster())
	w.activate(l, id, info)
	log.Printf("Duck %d (%s, %s, %s) joined lobby %q", id, info.Name, info.Variety, info.Color, l.Name)
}

// activate spawns a duck at the origin and tells the rest of the lobby about it.
func (w *World) activate(l *Lobby, id uint32, info DuckInfo) {
	d := newDuck(id, info)
	w.ducks[id] = d
	l.Members[id] = info
	w.Broadcast(l.Name, protocol.PeerJoined{Entry: d.rosterEntry()}, id)
}

// Leave forgets id everywhere. Unknown ids are ignored.
func (w *World) Leave(id uint32) {
	hadSink := w.broadcaster.Unregister(id)
	_, hadDuck := w.ducks[id]
	delete(w.ducks, id)
	if !hadSink && !hadDuck {
		return
	}

	var left []string
	for _, name := range w.lobbyNames() {
		l := w.lobbies[name]
		if _, ok := l.Members[id]; ok {
			delete(l.Members, id)
			left = append(left, name)
		}
		delete(l.Spectators, id)
	}
	for _, name := range left {
		w.Broadcast(name, protocol.PeerLeft{ID: id}, 0)
	}
	log.Printf("Duck %d left, %d still connected", id, w.broadcaster.Len())
}

// JoinLobby moves a connected participant into another lobby, creating it if needed.
func (w *World) JoinLobby(id uint32, lobbyName string) {
	if lobbyName == "" || !w.broadcaster.Has(id) {
		return
	}
	current := w.lobbyOf(id)
	if current == lobbyName {
		return
	}

	var info DuckInfo
	if current != "" {
		from := w.lobbies[current]
		if i, ok := from.Members[id]; ok {
			info = i
			delete(from.Members, id)
			delete(w.ducks, id)
			w.Broadcast(current, protocol.PeerLeft{ID: id}, id)
		} else {
			info = from.Spectators[id]
			delete(from.Spectators, id)
		}
	}
	w.admit(w.lobby(lobbyName), id, info)
}

// SubmitUpdate trusts the client's transform as is.
func (w *World) SubmitUpdate(id uint32, x, y, z, rotation float32) {
	d, ok := w.ducks[id]
	if !ok {
		return
	}
	d.place(Vec3{X: x, Y: y, Z: z}, rotation)
}

// StartRound sets the round length and, if the lobby is waiting, starts the clock.
// A zero duration keeps the current length.
func (w *World) StartRound(lobbyName string, duration time.Duration) {
	l, ok := w.lobbies[lobbyName]
	if !ok {
		return
	}
	if duration > 0 {
		l.RoundDuration = duration
	}
	if l.Running() {
		return
	}

	now := w.now()
	l.RoundStart = now
	l.LastTick = now
	w.Broadcast(lobbyName, protocol.RoundStarted{Start: now, Duration: l.RoundDuration}, 0)
	log.Printf("Started round in lobby %q with %d ducks for %v", lobbyName, len(l.Members), l.RoundDuration)
}

// Broadcast sends n to every member and spectator of the lobby except excludeID (0 = nobody).
func (w *World) Broadcast(lobbyName string, n protocol.Notice, excludeID uint32) {
	l, ok := w.lobbies[lobbyName]
	if !ok {
		return
	}
	w.broadcaster.Cast(l.participants(), n, excludeID)
}

func (w *World) ListLobbies() []LobbyInfo {
	names := w.lobbyNames()
	out := make([]LobbyInfo, 0, len(names))
	for _, name := range names {
		out = append(out, w.lobbies[name].Info())
	}
	return out
}

// Snapshot returns a copy of the duck's current state.
func (w *World) Snapshot(id uint32) (Duck, bool) {
	d, ok := w.ducks[id]
	if !ok {
		return Duck{}, false
	}
	return *d, true
}

// Lobby returns the named lobby or nil. The lobby belongs to the world goroutine.
func (w *World) Lobby(name string) *Lobby {
	return w.lobbies[name]
}

// lobbyDucks returns the lobby's live ducks in id order, skipping ids already cleaned up.
func (w *World) lobbyDucks(l *Lobby) []*Duck {
	ids := l.memberIDs()
	ducks := make([]*Duck, 0, len(ids))
	for _, id := range ids {
		if d, ok := w.ducks[id]; ok {
			ducks = append(ducks, d)
		}
	}
	return ducks
}

// Tick advances every lobby by one step and broadcasts its sync packet.
func (w *World) Tick() {
	now := w.now()
	for _, name := range w.lobbyNames() {
		w.tickLobby(name, now)
	}
}

func (w *World) tickLobby(name string, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in tick for lobby %q: %v\nStack trace:\n%s", name, r, debug.Stack())
		}
	}()

	l, ok := w.lobbies[name]
	if !ok {
		return
	}
	ducks := w.lobbyDucks(l)
	var sync protocol.UpdateSync

	over := l.RoundOver(now)
	if over {
		podium := placeOnPodium(ducks)
		for i, d := range podium {
			log.Printf("Lobby %q podium #%d: duck %d (%s) with %d bread", name, i+1, d.ID, d.Info.Name, d.Score)
		}
	} else {
		dt := now.Sub(l.LastTick).Seconds()
		if dt < 0 {
			dt = 0
		}
		l.LastTick = now

		FallBread(l.Bread, dt)
		l.Bread = ResolvePickups(ducks, l.Bread)
		if b, spawned := l.SpawnBread(w.rng); spawned {
			sync.Bread = &protocol.Point{X: b.X, Y: b.Y, Z: b.Z}
		}
	}

	sync.Ducks = make([]protocol.DuckState, 0, len(ducks))
	for _, d := range ducks {
		sync.Ducks = append(sync.Ducks, d.state())
	}
	w.broadcaster.CastSync(l.participants(), protocol.EncodeUpdateSync(sync), 0)

	if over {
		w.Broadcast(name, protocol.RoundEnded{}, 0)
		w.endRound(l, ducks, now)
	}
}

// endRound resets the lobby for the next round: scores go back to zero and
// spectators get a duck of their own.
func (w *World) endRound(l *Lobby, ducks []*Duck, now time.Time) {
	l.resetRound(now)
	for _, d := range ducks {
		d.Score = 0
	}

	for _, id := range sortedIDs(l.Spectators) {
		info := l.Spectators[id]
		delete(l.Spectators, id)
		if !w.broadcaster.Has(id) {
			continue
		}
		w.activate(l, id, info)
	}
	log.Printf("Ended round in lobby %q", l.Name)
}
