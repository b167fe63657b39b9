package protocol

import (
	"errors"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func TestDecodeDuckReadsClientTransform(t *testing.T) {
	in := DuckState{ID: 7, X: 1, Y: 2, Z: 3, Rotation: 0.5}
	got, err := DecodeDuck(EncodeDuck(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != in {
		t.Fatalf("got %+v, want %+v", got, in)
	}
}

func TestDecodeDuckAtOrigin(t *testing.T) {
	b := EncodeDuck(DuckState{})
	if len(b) != 0 {
		t.Fatalf("zero duck encoded to %d bytes, want 0", len(b))
	}
	got, err := DecodeDuck(b)
	if err != nil {
		t.Fatalf("decode zero duck: %v", err)
	}
	if got != (DuckState{}) {
		t.Fatalf("got %+v, want zero duck", got)
	}
}

func TestDecodeDuckSkipsUnknownFields(t *testing.T) {
	b := EncodeDuck(DuckState{X: 4})
	b = protowire.AppendTag(b, 99, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte("future field"))

	got, err := DecodeDuck(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.X != 4 {
		t.Fatalf("X = %v, want 4", got.X)
	}
}

func TestDecodeDuckRejectsMalformedFrames(t *testing.T) {
	full := EncodeDuck(DuckState{ID: 1, X: 1, Y: 1, Z: 1, Rotation: 1})

	wrongType := protowire.AppendTag(nil, duckX, protowire.VarintType)
	wrongType = protowire.AppendVarint(wrongType, 3)

	cases := map[string][]byte{
		"truncated":  full[:len(full)-2],
		"bad tag":    {0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		"wrong type": wrongType,
	}
	for name, b := range cases {
		if _, err := DecodeDuck(b); !errors.Is(err, ErrMalformed) {
			t.Fatalf("%s: err = %v, want ErrMalformed", name, err)
		}
	}
}

func TestUpdateSyncBreadOnlyWhenSpawned(t *testing.T) {
	ducks := []DuckState{
		{ID: 1, X: 1, Y: 0, Z: -2, Rotation: 3.1, Score: 4},
		{ID: 2},
	}

	quiet, err := DecodeUpdateSync(EncodeUpdateSync(UpdateSync{Ducks: ducks}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if quiet.Bread != nil {
		t.Fatalf("expected no bread, got %+v", *quiet.Bread)
	}
	if len(quiet.Ducks) != 2 || quiet.Ducks[0] != ducks[0] || quiet.Ducks[1] != ducks[1] {
		t.Fatalf("ducks = %+v, want %+v", quiet.Ducks, ducks)
	}

	// bread at x=0 still has to come through: optional fields are always written
	spawned, err := DecodeUpdateSync(EncodeUpdateSync(UpdateSync{Ducks: ducks, Bread: &Point{X: 0, Y: 10, Z: -3}}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if spawned.Bread == nil {
		t.Fatalf("expected bread in sync")
	}
	if *spawned.Bread != (Point{X: 0, Y: 10, Z: -3}) {
		t.Fatalf("bread = %+v", *spawned.Bread)
	}
}

func TestEncodeUpdateSyncEmptyLobby(t *testing.T) {
	if b := EncodeUpdateSync(UpdateSync{}); len(b) != 0 {
		t.Fatalf("expected empty packet, got %d bytes", len(b))
	}
}
