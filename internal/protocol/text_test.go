package protocol

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		frame   string
		want    Command
		dialect Dialect
	}{
		{"join_game\nA\nmallard\nwhite", JoinGame{Name: "A", Variety: "mallard", Color: "white"}, DialectCast},
		{"join\nB\nteal\n#ff0000\n", JoinGame{Name: "B", Variety: "teal", Color: "#ff0000"}, DialectCast},
		{"vote_start_game", StartGame{}, DialectCast},
		{"start_game\n45", StartGame{Duration: 45 * time.Second}, DialectCast},
		{"/list", ListLobbies{}, DialectSlash},
		{"/join pond", JoinLobby{Lobby: "pond"}, DialectSlash},
		{"/info A mallard white", JoinGame{Name: "A", Variety: "mallard", Color: "white"}, DialectSlash},
		{"/start_game main 30", StartGame{Lobby: "main", Duration: 30 * time.Second}, DialectSlash},
	}
	for _, tc := range cases {
		got, dialect, err := ParseCommand(tc.frame)
		if err != nil {
			t.Fatalf("%q: %v", tc.frame, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%q: got %#v, want %#v", tc.frame, got, tc.want)
		}
		if dialect != tc.dialect {
			t.Fatalf("%q: dialect %v, want %v", tc.frame, dialect, tc.dialect)
		}
	}
}

func TestParseCommandRejectsBadFrames(t *testing.T) {
	malformed := []string{
		"",
		"join_game\nA\nmallard",
		"start_game\nsoon",
		"start_game\n0",
		"/join",
		"/info A mallard",
		"/start_game main",
		"/start_game main -5",
	}
	for _, frame := range malformed {
		if _, _, err := ParseCommand(frame); !errors.Is(err, ErrMalformed) {
			t.Fatalf("%q: err = %v, want ErrMalformed", frame, err)
		}
	}

	for _, frame := range []string{"dance", "/dance now"} {
		if _, _, err := ParseCommand(frame); !errors.Is(err, ErrUnknownCommand) {
			t.Fatalf("%q: err = %v, want ErrUnknownCommand", frame, err)
		}
	}
}

func TestEncodeNoticeCastDialect(t *testing.T) {
	start := time.Unix(1700000000, 0)
	a := RosterEntry{ID: 11, Name: "A", Variety: "mallard", Color: "white"}
	b := RosterEntry{ID: 12, Name: "B", Variety: "teal", Color: "red"}

	cases := []struct {
		n    Notice
		want []string
	}{
		{AssignedID{ID: 11}, []string{"re:join_game\n11"}},
		{Roster{Entries: []RosterEntry{a, b}}, []string{"cast:join_game\n11\nA\nmallard\nwhite", "cast:join_game\n12\nB\nteal\nred"}},
		{Roster{}, []string{}},
		{PeerJoined{Entry: a}, []string{"cast:join_game\n11\nA\nmallard\nwhite"}},
		{PeerLeft{ID: 11}, []string{"cast:leave_game\n11"}},
		{RoundStarted{Start: start, Duration: 90 * time.Second}, []string{"cast:start_game\n1700000000\n90"}},
		{RoundEnded{}, []string{"cast:end_game"}},
	}
	for _, tc := range cases {
		got := EncodeNotice(DialectCast, tc.n)
		if len(got) != len(tc.want) || (len(got) > 0 && !reflect.DeepEqual(got, tc.want)) {
			t.Fatalf("%#v: got %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestEncodeNoticeSlashDialect(t *testing.T) {
	start := time.Unix(1700000000, 0)
	a := RosterEntry{ID: 11, Name: "A", Variety: "mallard", Color: "white"}

	cases := []struct {
		n    Notice
		want string
	}{
		{AssignedID{ID: 11}, "/id\n11"},
		{Roster{Entries: []RosterEntry{a}}, "/join\n11 A mallard white"},
		{Roster{}, "/join"},
		{PeerLeft{ID: 11}, "/disconnect\n11"},
		{Spectate{Start: start, Duration: 2 * time.Minute}, "/spectate_game\n1700000000\n120"},
		{RoundStarted{Start: start, Duration: time.Second}, "/start_game\n1700000000\n1"},
		{RoundEnded{}, "/game_end"},
		{LobbyList{Names: []string{"main", "pond"}}, "/list\nmain\npond"},
	}
	for _, tc := range cases {
		got := EncodeNotice(DialectSlash, tc.n)
		if len(got) != 1 || got[0] != tc.want {
			t.Fatalf("%#v: got %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestDialectString(t *testing.T) {
	for d, want := range map[Dialect]string{DialectCast: "cast", DialectSlash: "slash", Dialect(9): "unknown"} {
		if got := d.String(); got != want {
			t.Fatalf("Dialect(%d).String() = %q, want %q", int32(d), got, want)
		}
	}
}
