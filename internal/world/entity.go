package world

import "github.com/Scrimzay/breadducks/internal/protocol"

type Vec3 struct {
	X, Y, Z float32
}

// Display metadata picked by the player on join
type DuckInfo struct {
	Name    string
	Variety string
	Color   string
}

// this is the per-player avatar, keyed by id in the world's duck table
type Duck struct {
	ID       uint32
	Position Vec3
	Rotation float32 // radians around y
	Score    uint32
	Info     DuckInfo
}

func newDuck(id uint32, info DuckInfo) *Duck {
	return &Duck{ID: id, Info: info}
}

func (d *Duck) place(pos Vec3, rotation float32) {
	d.Position = pos
	d.Rotation = rotation
}

func (d *Duck) state() protocol.DuckState {
	return protocol.DuckState{
		ID:       d.ID,
		X:        d.Position.X,
		Y:        d.Position.Y,
		Z:        d.Position.Z,
		Rotation: d.Rotation,
		Score:    d.Score,
	}
}

func (d *Duck) rosterEntry() protocol.RosterEntry {
	return d.Info.rosterEntry(d.ID)
}

func (i DuckInfo) rosterEntry(id uint32) protocol.RosterEntry {
	return protocol.RosterEntry{ID: id, Name: i.Name, Variety: i.Variety, Color: i.Color}
}
