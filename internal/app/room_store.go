package app

import (
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/dkeye/CodeCurrent/internal/core"
	"github.com/dkeye/CodeCurrent/internal/domain"
	"github.com/rs/zerolog/log"
)

type roomState struct {
	id      domain.RoomID
	files   map[domain.Filename]string
	members map[core.ConnID]*domain.Member
	// joins counts first-time joins; it drives both color and join order.
	joins     uint64
	createdAt time.Time
	idleSince time.Time
}

func (rs *roomState) info() core.RoomInfo {
	names := slices.Sorted(maps.Keys(rs.files))
	voice := 0
	for _, m := range rs.members {
		if m.InVoice {
			voice++
		}
	}
	return core.RoomInfo{
		ID:          rs.id,
		MemberCount: len(rs.members),
		VoiceCount:  voice,
		Files:       names,
		CreatedAt:   rs.createdAt,
		IdleSince:   rs.idleSince,
	}
}

// RoomStore is the in-memory authority for every room. Mutations are expected
// from the hub goroutine only; the lock lets HTTP handlers read snapshots.
type RoomStore struct {
	mu       sync.RWMutex
	rooms    map[domain.RoomID]*roomState
	registry *Registry
	seed     domain.DefaultFile
	now      func() time.Time
}

var _ core.RoomStore = (*RoomStore)(nil)

func NewRoomStore(registry *Registry, seed domain.DefaultFile) *RoomStore {
	return &RoomStore{
		rooms:    make(map[domain.RoomID]*roomState),
		registry: registry,
		seed:     seed,
		now:      time.Now,
	}
}

func (s *RoomStore) JoinRoom(conn core.ConnID, room domain.RoomID, displayName string) core.JoinResult {
	displayName = domain.NormalizeDisplayName(displayName)

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.registry.RoomOf(conn); ok && prev != room {
		s.removeMemberLocked(prev, conn)
	}

	res := core.JoinResult{}
	rs, ok := s.rooms[room]
	if !ok {
		rs = &roomState{
			id:        room,
			files:     map[domain.Filename]string{s.seed.Name: s.seed.Content},
			members:   make(map[core.ConnID]*domain.Member),
			createdAt: s.now(),
		}
		s.rooms[room] = rs
		res.Created = true
		log.Info().Str("module", "app.store").Str("room", string(room)).Msg("room created")
	}

	if m, ok := rs.members[conn]; ok {
		res.WasInVoice = m.InVoice
		m.DisplayName = displayName
		m.InVoice = false
	} else {
		rs.members[conn] = domain.NewMember(displayName, domain.ColorFor(rs.joins), rs.joins)
		rs.joins++
	}
	rs.idleSince = time.Time{}
	s.registry.SetRoom(conn, room)

	res.Color = rs.members[conn].Color
	res.Files = maps.Clone(rs.files)
	log.Info().Str("module", "app.store").Str("room", string(room)).Str("conn", string(conn)).Str("name", displayName).Msg("member joined")
	return res
}

func (s *RoomStore) MutateFile(room domain.RoomID, name domain.Filename, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.rooms[room]
	if !ok {
		log.Debug().Str("module", "app.store").Str("room", string(room)).Msg("mutate: no such room")
		return
	}
	rs.files[name] = content
}

// CreateFile reports whether a new entry was inserted; first writer wins on a name.
func (s *RoomStore) CreateFile(room domain.RoomID, name domain.Filename) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.rooms[room]
	if !ok {
		return false
	}
	if _, exists := rs.files[name]; exists {
		return false
	}
	rs.files[name] = ""
	return true
}

func (s *RoomStore) DeleteFile(room domain.RoomID, name domain.Filename) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.rooms[room]
	if !ok {
		return false
	}
	if _, exists := rs.files[name]; !exists {
		return false
	}
	delete(rs.files, name)
	return true
}

// RenameFile overwrites newName when it already exists.
func (s *RoomStore) RenameFile(room domain.RoomID, oldName, newName domain.Filename) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.rooms[room]
	if !ok {
		return false
	}
	content, exists := rs.files[oldName]
	if !exists {
		return false
	}
	delete(rs.files, oldName)
	rs.files[newName] = content
	return true
}

func (s *RoomStore) Leave(conn core.ConnID) (domain.RoomID, bool) {
	room, ok := s.registry.RoomOf(conn)
	if !ok {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.removeMemberLocked(room, conn) {
		return "", false
	}
	return room, true
}

func (s *RoomStore) removeMemberLocked(room domain.RoomID, conn core.ConnID) bool {
	s.registry.RemoveRoom(conn)
	rs, ok := s.rooms[room]
	if !ok {
		return false
	}
	if _, ok := rs.members[conn]; !ok {
		return false
	}
	delete(rs.members, conn)
	if len(rs.members) == 0 {
		rs.idleSince = s.now()
	}
	log.Info().Str("module", "app.store").Str("room", string(room)).Str("conn", string(conn)).Msg("member left")
	return true
}

// ListMembers returns the roster in join order.
func (s *RoomStore) ListMembers(room domain.RoomID) []core.MemberDTO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.rooms[room]
	if !ok {
		return []core.MemberDTO{}
	}
	ids := rs.orderedLocked(false)
	out := make([]core.MemberDTO, 0, len(ids))
	for _, id := range ids {
		m := rs.members[id]
		out = append(out, core.MemberDTO{ConnectionID: id, DisplayName: m.DisplayName, Color: m.Color})
	}
	return out
}

func (rs *roomState) orderedLocked(voiceOnly bool) []core.ConnID {
	ids := make([]core.ConnID, 0, len(rs.members))
	for id, m := range rs.members {
		if voiceOnly && !m.InVoice {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return rs.members[ids[i]].Seq < rs.members[ids[j]].Seq
	})
	return ids
}

func (s *RoomStore) Member(room domain.RoomID, conn core.ConnID) (domain.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.rooms[room]
	if !ok {
		return domain.Member{}, false
	}
	m, ok := rs.members[conn]
	if !ok {
		return domain.Member{}, false
	}
	return *m, true
}

// SetVoice only flips the flag of an existing member, keeping voice a subset of the roster.
func (s *RoomStore) SetVoice(room domain.RoomID, conn core.ConnID, inVoice bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.rooms[room]
	if !ok {
		return false
	}
	m, ok := rs.members[conn]
	if !ok {
		return false
	}
	m.InVoice = inVoice
	return true
}

func (s *RoomStore) VoiceMembers(room domain.RoomID) []core.ConnID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.rooms[room]
	if !ok {
		return []core.ConnID{}
	}
	return rs.orderedLocked(true)
}

func (s *RoomStore) Snapshot(room domain.RoomID) (map[domain.Filename]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.rooms[room]
	if !ok {
		return nil, false
	}
	return maps.Clone(rs.files), true
}

func (s *RoomStore) RoomInfo(room domain.RoomID) (core.RoomInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.rooms[room]
	if !ok {
		return core.RoomInfo{}, false
	}
	return rs.info(), true
}

func (s *RoomStore) List() []core.RoomInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(s.rooms))
	for _, rs := range s.rooms {
		out = append(out, rs.info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EvictIdle drops rooms that have had no members for at least olderThan.
// A non-positive duration disables eviction.
func (s *RoomStore) EvictIdle(olderThan time.Duration) []domain.RoomID {
	if olderThan <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var evicted []domain.RoomID
	for id, rs := range s.rooms {
		if len(rs.members) > 0 || rs.idleSince.IsZero() {
			continue
		}
		if now.Sub(rs.idleSince) >= olderThan {
			delete(s.rooms, id)
			evicted = append(evicted, id)
			log.Info().Str("module", "app.store").Str("room", string(id)).Msg("idle room evicted")
		}
	}
	slices.Sort(evicted)
	return evicted
}
