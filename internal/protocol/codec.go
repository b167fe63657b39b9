package protocol

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the protos shared with the browser client.
//
//	message Duck { uint32 id = 1; float x = 2; float y = 3; float z = 4; float rotation = 5; uint32 score = 6; }
//	message UpdateSync { repeated Duck ducks = 1; optional float bread_x = 2; optional float bread_y = 3; optional float bread_z = 4; }
const (
	duckID       protowire.Number = 1
	duckX        protowire.Number = 2
	duckY        protowire.Number = 3
	duckZ        protowire.Number = 4
	duckRotation protowire.Number = 5
	duckScore    protowire.Number = 6

	syncDucks  protowire.Number = 1
	syncBreadX protowire.Number = 2
	syncBreadY protowire.Number = 3
	syncBreadZ protowire.Number = 4
)

type DuckState struct {
	ID       uint32
	X        float32
	Y        float32
	Z        float32
	Rotation float32
	Score    uint32
}

type Point struct {
	X, Y, Z float32
}

// UpdateSync is the per-tick state of one lobby. Bread is only set on the tick it spawned.
type UpdateSync struct {
	Ducks []DuckState
	Bread *Point
}

func appendFloat(b []byte, num protowire.Number, v float32) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, math.Float32bits(v))
}

// Proto3 scalar fields are left out when zero.
func appendDuck(b []byte, d DuckState) []byte {
	if d.ID != 0 {
		b = protowire.AppendTag(b, duckID, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(d.ID))
	}
	for _, f := range []struct {
		num protowire.Number
		v   float32
	}{{duckX, d.X}, {duckY, d.Y}, {duckZ, d.Z}, {duckRotation, d.Rotation}} {
		if f.v != 0 {
			b = appendFloat(b, f.num, f.v)
		}
	}
	if d.Score != 0 {
		b = protowire.AppendTag(b, duckScore, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(d.Score))
	}
	return b
}

func EncodeDuck(d DuckState) []byte {
	return appendDuck(nil, d)
}

func EncodeUpdateSync(s UpdateSync) []byte {
	var b []byte
	for _, d := range s.Ducks {
		b = protowire.AppendTag(b, syncDucks, protowire.BytesType)
		b = protowire.AppendBytes(b, appendDuck(nil, d))
	}
	if s.Bread != nil {
		// optional fields are written even when zero
		b = appendFloat(b, syncBreadX, s.Bread.X)
		b = appendFloat(b, syncBreadY, s.Bread.Y)
		b = appendFloat(b, syncBreadZ, s.Bread.Z)
	}
	return b
}

func malformed(what string, n int) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformed, what, protowire.ParseError(n))
}

func consumeFloat(b []byte, typ protowire.Type) (float32, int) {
	if typ != protowire.Fixed32Type {
		return 0, -1
	}
	v, n := protowire.ConsumeFixed32(b)
	return math.Float32frombits(v), n
}

func consumeUint32(b []byte, typ protowire.Type) (uint32, int) {
	if typ != protowire.VarintType {
		return 0, -1
	}
	v, n := protowire.ConsumeVarint(b)
	if n >= 0 && v > math.MaxUint32 {
		return 0, -1
	}
	return uint32(v), n
}

// DecodeDuck parses a binary Duck frame sent by a client. It never panics on bad input.
// An empty frame is a duck with every field at zero.
func DecodeDuck(b []byte) (DuckState, error) {
	var d DuckState
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return DuckState{}, malformed("duck tag", n)
		}
		b = b[n:]

		switch num {
		case duckID:
			d.ID, n = consumeUint32(b, typ)
		case duckX:
			d.X, n = consumeFloat(b, typ)
		case duckY:
			d.Y, n = consumeFloat(b, typ)
		case duckZ:
			d.Z, n = consumeFloat(b, typ)
		case duckRotation:
			d.Rotation, n = consumeFloat(b, typ)
		case duckScore:
			d.Score, n = consumeUint32(b, typ)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return DuckState{}, malformed(fmt.Sprintf("duck field %d", num), n)
		}
		b = b[n:]
	}
	return d, nil
}

// DecodeUpdateSync is the client-side inverse of EncodeUpdateSync.
func DecodeUpdateSync(b []byte) (UpdateSync, error) {
	var s UpdateSync
	var bread Point
	breadFields := 0
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return UpdateSync{}, malformed("sync tag", n)
		}
		b = b[n:]

		switch num {
		case syncDucks:
			if typ != protowire.BytesType {
				return UpdateSync{}, fmt.Errorf("%w: ducks field has wire type %d", ErrMalformed, typ)
			}
			var raw []byte
			raw, n = protowire.ConsumeBytes(b)
			if n >= 0 {
				d, err := DecodeDuck(raw)
				if err != nil {
					return UpdateSync{}, err
				}
				s.Ducks = append(s.Ducks, d)
			}
		case syncBreadX:
			bread.X, n = consumeFloat(b, typ)
			breadFields++
		case syncBreadY:
			bread.Y, n = consumeFloat(b, typ)
			breadFields++
		case syncBreadZ:
			bread.Z, n = consumeFloat(b, typ)
			breadFields++
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return UpdateSync{}, malformed(fmt.Sprintf("sync field %d", num), n)
		}
		b = b[n:]
	}
	if breadFields > 0 {
		s.Bread = &bread
	}
	return s, nil
}

