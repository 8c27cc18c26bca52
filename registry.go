package main

import (
	"fmt"
	"log"
	"sort"
	"sync"
)

// Registry owns every live room by code. Rooms are created on first join
// and dropped when they close (empty roster or a win).
// Lock order is registry then room.
type Registry struct {
	mu       sync.RWMutex
	rooms    map[string]*Room
	capacity int
	states   StateValidator
	damages  DamageValidator
}

// NewRegistry creates an empty registry whose rooms hold capacity players.
// A nil validator falls back to Validator{}.
func NewRegistry(capacity int, states StateValidator, damages DamageValidator) *Registry {
	return &Registry{
		rooms:    make(map[string]*Room),
		capacity: capacity,
		states:   states,
		damages:  damages,
	}
}

// JoinOrCreate admits m to roomID, creating the room if it doesn't exist.
// Returns ErrRoomFull (and notifies m) when the lobby is at capacity.
func (reg *Registry) JoinOrCreate(roomID, username string, m Member) (JoinResult, error) {
	var out Outbox
	res, err := reg.join(roomID, username, m, &out)
	out.Flush()
	return res, err
}

func (reg *Registry) join(roomID, username string, m Member, out *Outbox) (JoinResult, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[roomID]
	if ok {
		res, err := r.Join(m, username, out)
		if err != errRoomClosed {
			res.Room = r
			return res, err
		}
		// Closed but not yet dropped; replace it.
	}
	r = NewRoom(roomID, reg.capacity, reg.states, reg.damages)
	reg.rooms[roomID] = r
	log.Printf("room %s: created", roomID)
	res, err := r.Join(m, username, out)
	res.Room = r
	return res, err
}

// Remove takes playerID out of roomID. Missing rooms or players are ignored.
func (reg *Registry) Remove(roomID, playerID string) {
	if r := reg.Get(roomID); r != nil {
		reg.leave(r, playerID)
	}
}

// leave takes playerID out of r, dropping r from the registry if it closed.
func (reg *Registry) leave(r *Room, playerID string) {
	var out Outbox
	if r.Leave(playerID, &out) {
		reg.drop(r.ID, r)
	}
	out.Flush()
}

// StartGame moves roomID from LOBBY to PLAYING on behalf of playerID.
func (reg *Registry) StartGame(roomID, playerID string) error {
	r := reg.Get(roomID)
	if r == nil {
		return fmt.Errorf("start %s: %w", roomID, ErrUnknownRoom)
	}
	return reg.start(r, playerID)
}

func (reg *Registry) start(r *Room, playerID string) error {
	var out Outbox
	if err := r.Start(playerID, &out); err != nil {
		return fmt.Errorf("start %s: %w", r.ID, err)
	}
	out.Flush()
	return nil
}

// UpdateState forwards a player_state report to the room.
func (reg *Registry) UpdateState(roomID, playerID string, reported PlayerState) error {
	r := reg.Get(roomID)
	if r == nil {
		return ErrUnknownRoom
	}
	return r.UpdateState(playerID, reported)
}

// Damage forwards a player_damage report to the room.
func (reg *Registry) Damage(roomID, reporterID, targetID string, amount int) (bool, error) {
	r := reg.Get(roomID)
	if r == nil {
		return false, ErrUnknownRoom
	}
	return r.Damage(reporterID, targetID, amount)
}

// TickAll advances every room once, dropping those that close.
func (reg *Registry) TickAll() {
	for _, r := range reg.Rooms() {
		var out Outbox
		if r.Tick(&out) {
			reg.drop(r.ID, r)
		}
		out.Flush()
	}
}

// Get returns the room for roomID, or nil.
func (reg *Registry) Get(roomID string) *Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.rooms[roomID]
}

// Rooms returns a snapshot of all rooms
func (reg *Registry) Rooms() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	list := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		list = append(list, r)
	}
	return list
}

// Len returns the number of live rooms
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// List returns room summaries sorted by code.
func (reg *Registry) List() []RoomInfo {
	rooms := reg.Rooms()
	out := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		if r.Closed() {
			continue
		}
		out = append(out, r.Info())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Code < out[j].Code
	})
	return out
}

// drop deletes roomID if it still maps to r; a newer room with the same
// code is left alone.
func (reg *Registry) drop(roomID string, r *Room) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if cur, ok := reg.rooms[roomID]; ok && cur == r {
		delete(reg.rooms, roomID)
		log.Printf("room %s: removed from registry", roomID)
	}
}
