package app

import (
	"testing"
	"time"

	"github.com/dkeye/CodeCurrent/internal/core"
	"github.com/dkeye/CodeCurrent/internal/domain"
)

var testSeed = domain.DefaultFile{Name: "main.js", Content: "// Welcome...\n"}

func newTestStore() *RoomStore {
	return NewRoomStore(NewRegistry(), testSeed)
}

func TestJoinRoomCreatesSeededRoomOnce(t *testing.T) {
	s := newTestStore()

	first := s.JoinRoom("c1", "demo", "alice")
	if !first.Created {
		t.Error("Expected first join to create the room")
	}
	if len(first.Files) != 1 || first.Files["main.js"] != "// Welcome...\n" {
		t.Errorf("Expected exactly the seeded file, got %v", first.Files)
	}

	second := s.JoinRoom("c2", "demo", "bob")
	if second.Created {
		t.Error("Expected second join to reuse the room")
	}
	if len(s.List()) != 1 {
		t.Errorf("Expected 1 room, got %d", len(s.List()))
	}
	files, _ := s.Snapshot("demo")
	if len(files) != 1 {
		t.Errorf("Expected still one file, got %d", len(files))
	}
}

func TestJoinRoomIsIdempotentPerConnection(t *testing.T) {
	s := newTestStore()
	first := s.JoinRoom("c1", "demo", "alice")
	s.SetVoice("demo", "c1", true)

	again := s.JoinRoom("c1", "demo", "alice2")
	if !again.WasInVoice {
		t.Error("Expected rejoin to report the reset voice flag")
	}
	if again.Color != first.Color {
		t.Errorf("Expected color %s to be kept, got %s", first.Color, again.Color)
	}

	members := s.ListMembers("demo")
	if len(members) != 1 {
		t.Fatalf("Expected a single member entry, got %d", len(members))
	}
	if members[0].DisplayName != "alice2" {
		t.Errorf("Expected overwritten name alice2, got %s", members[0].DisplayName)
	}
	if len(s.VoiceMembers("demo")) != 0 {
		t.Error("Expected rejoin to register the member with inVoice=false")
	}
}

func TestJoinAnotherRoomMovesConnection(t *testing.T) {
	s := newTestStore()
	s.JoinRoom("c1", "a", "alice")
	s.JoinRoom("c1", "b", "alice")

	if n := len(s.ListMembers("a")); n != 0 {
		t.Errorf("Expected room a to be empty, got %d members", n)
	}
	if n := len(s.ListMembers("b")); n != 1 {
		t.Errorf("Expected room b to have 1 member, got %d", n)
	}
	if room, ok := s.registry.RoomOf("c1"); !ok || room != "b" {
		t.Errorf("Expected registry to point at b, got %q", room)
	}
}

func TestColorsCycleByJoinOrder(t *testing.T) {
	s := newTestStore()
	n := len(domain.Palette) + 2
	for i := 0; i < n; i++ {
		res := s.JoinRoom(core.ConnID(rune('a'+i)), "demo", "user")
		if want := domain.Palette[i%len(domain.Palette)]; res.Color != want {
			t.Errorf("join %d: expected color %s, got %s", i, want, res.Color)
		}
	}
}

func TestMutateFileLastWriteWins(t *testing.T) {
	s := newTestStore()
	s.JoinRoom("c1", "demo", "alice")
	s.JoinRoom("c2", "demo", "bob")

	s.MutateFile("demo", "main.js", "A")
	s.MutateFile("demo", "main.js", "B")

	res := s.JoinRoom("c3", "demo", "carol")
	if got := res.Files["main.js"]; got != "B" {
		t.Errorf("Expected last write B, got %q", got)
	}
}

func TestMutateFileUnknownRoomIsNoop(t *testing.T) {
	s := newTestStore()
	s.MutateFile("ghost", "main.js", "x")
	if _, ok := s.Snapshot("ghost"); ok {
		t.Error("Expected mutate on unknown room not to create it")
	}
}

func TestCreateFileFirstWriterWins(t *testing.T) {
	s := newTestStore()
	s.JoinRoom("c1", "demo", "alice")
	s.MutateFile("demo", "util.js", "keep me")

	if s.CreateFile("demo", "util.js") {
		t.Error("Expected create on an existing name to be a no-op")
	}
	files, _ := s.Snapshot("demo")
	if files["util.js"] != "keep me" {
		t.Errorf("Expected content to survive, got %q", files["util.js"])
	}
	if !s.CreateFile("demo", "new.js") {
		t.Error("Expected create of a fresh name to succeed")
	}
}

func TestRenameFileOverwrites(t *testing.T) {
	s := newTestStore()
	s.JoinRoom("c1", "demo", "alice")
	s.MutateFile("demo", "a.js", "from a")
	s.MutateFile("demo", "b.js", "from b")

	if !s.RenameFile("demo", "a.js", "b.js") {
		t.Fatal("Expected rename to apply")
	}
	files, _ := s.Snapshot("demo")
	if _, ok := files["a.js"]; ok {
		t.Error("Expected a.js to be gone")
	}
	if files["b.js"] != "from a" {
		t.Errorf("Expected b.js to hold a.js content, got %q", files["b.js"])
	}

	if s.RenameFile("demo", "missing.js", "c.js") {
		t.Error("Expected rename of a missing file to be a no-op")
	}
}

func TestDeleteMissingFileIsNoop(t *testing.T) {
	s := newTestStore()
	s.JoinRoom("c1", "demo", "alice")
	before, _ := s.Snapshot("demo")

	if s.DeleteFile("demo", "nope.js") {
		t.Error("Expected delete of a missing file to report false")
	}
	after, _ := s.Snapshot("demo")
	if len(before) != len(after) || after["main.js"] != before["main.js"] {
		t.Errorf("Expected files unchanged, got %v", after)
	}

	if !s.DeleteFile("demo", "main.js") {
		t.Error("Expected delete of the last file to be allowed")
	}
}

func TestLeave(t *testing.T) {
	s := newTestStore()
	if _, ok := s.Leave("nobody"); ok {
		t.Error("Expected leave of an unknown connection to report false")
	}

	s.JoinRoom("c1", "demo", "alice")
	s.SetVoice("demo", "c1", true)
	room, ok := s.Leave("c1")
	if !ok || room != "demo" {
		t.Errorf("Expected leave to return demo, got %q %v", room, ok)
	}
	if len(s.VoiceMembers("demo")) != 0 {
		t.Error("Expected leave to drop voice membership")
	}
	if _, ok := s.Leave("c1"); ok {
		t.Error("Expected second leave to report false")
	}
	if _, ok := s.Snapshot("demo"); !ok {
		t.Error("Expected the room to be retained after the last member left")
	}
}

func TestListMembersJoinOrder(t *testing.T) {
	s := newTestStore()
	for _, id := range []core.ConnID{"z", "y", "x"} {
		s.JoinRoom(id, "demo", string(id))
	}
	got := s.ListMembers("demo")
	want := []core.ConnID{"z", "y", "x"}
	for i := range want {
		if got[i].ConnectionID != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i].ConnectionID)
		}
	}
}

func TestVoiceSubsetOfMembers(t *testing.T) {
	s := newTestStore()
	if s.SetVoice("demo", "c1", true) {
		t.Error("Expected voice on an unknown room to fail")
	}
	s.JoinRoom("c1", "demo", "alice")
	if s.SetVoice("demo", "stranger", true) {
		t.Error("Expected voice for a non-member to fail")
	}
	s.JoinRoom("c2", "demo", "bob")
	s.SetVoice("demo", "c2", true)
	s.SetVoice("demo", "c1", true)

	got := s.VoiceMembers("demo")
	if len(got) != 2 || got[0] != "c1" || got[1] != "c2" {
		t.Errorf("Expected [c1 c2] in join order, got %v", got)
	}
}

func TestSnapshotScenarioAliceBob(t *testing.T) {
	s := newTestStore()
	alice := s.JoinRoom("alice", "demo", "alice")
	if alice.Files["main.js"] != "// Welcome...\n" {
		t.Fatalf("Expected seeded main.js, got %v", alice.Files)
	}
	s.CreateFile("demo", "util.js")

	bob := s.JoinRoom("bob", "demo", "bob")
	for _, name := range []domain.Filename{"main.js", "util.js"} {
		if _, ok := bob.Files[name]; !ok {
			t.Errorf("Expected bob's snapshot to contain %s", name)
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newTestStore()
	res := s.JoinRoom("c1", "demo", "alice")
	res.Files["main.js"] = "tampered"
	files, _ := s.Snapshot("demo")
	if files["main.js"] == "tampered" {
		t.Error("Expected join snapshot not to alias store state")
	}
}

func TestEvictIdle(t *testing.T) {
	s := newTestStore()
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }

	s.JoinRoom("c1", "idle", "alice")
	s.JoinRoom("c2", "busy", "bob")
	s.Leave("c1")

	if got := s.EvictIdle(0); got != nil {
		t.Errorf("Expected disabled eviction, got %v", got)
	}
	now = now.Add(time.Minute)
	if got := s.EvictIdle(2 * time.Minute); len(got) != 0 {
		t.Errorf("Expected nothing evicted yet, got %v", got)
	}
	now = now.Add(2 * time.Minute)
	got := s.EvictIdle(2 * time.Minute)
	if len(got) != 1 || got[0] != "idle" {
		t.Errorf("Expected [idle] evicted, got %v", got)
	}
	if _, ok := s.RoomInfo("busy"); !ok {
		t.Error("Expected occupied room to survive")
	}
}
