package main

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
)

var (
	ErrRoomFull         = errors.New("room full")
	ErrNotHost          = errors.New("only the host can start the game")
	ErrNotInLobby       = errors.New("room is not in lobby")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrNotPlaying       = errors.New("room is not playing")
	ErrNotPlayer        = errors.New("not a player in this room")
	ErrUnknownRoom      = errors.New("unknown room")

	// errRoomClosed is returned when a join races with the room being torn
	// down; the registry retries with a fresh room.
	errRoomClosed = errors.New("room closed")
)

// LifecycleState is the room's position in LOBBY → PLAYING → ENDED.
type LifecycleState int

const (
	Lobby LifecycleState = iota
	Playing
	Ended
)

func (s LifecycleState) String() string {
	switch s {
	case Lobby:
		return "lobby"
	case Playing:
		return "playing"
	case Ended:
		return "ended"
	}
	return fmt.Sprintf("LifecycleState(%d)", int(s))
}

// JoinResult describes a successful join.
type JoinResult struct {
	Roster    []PlayerState
	Capacity  int
	Spectator bool
	Room      *Room // set by the registry
}

// Room is one arena: roster, members, bubble and lifecycle.
// Every exported method takes mu; the clock and connection handlers
// never touch room fields directly.
type Room struct {
	mu sync.Mutex

	ID       string
	Capacity int

	state   LifecycleState
	players map[string]*PlayerState
	order   []string          // player ids in join order; order[0] is host
	members map[string]Member // players and spectators
	radius  float64
	ticks   int // ticks since PLAYING began, wraps at TickCounterWrap
	closed  bool

	states  StateValidator
	damages DamageValidator
}

// NewRoom creates an empty room in LOBBY.
func NewRoom(id string, capacity int, states StateValidator, damages DamageValidator) *Room {
	if capacity <= 0 {
		capacity = RoomCapacity
	}
	if states == nil || damages == nil {
		v := Validator{}
		if states == nil {
			states = v
		}
		if damages == nil {
			damages = v
		}
	}
	return &Room{
		ID:       id,
		Capacity: capacity,
		state:    Lobby,
		players:  make(map[string]*PlayerState),
		members:  make(map[string]Member),
		states:   states,
		damages:  damages,
	}
}

// Join admits m as a player while in LOBBY, or as a spectator once PLAYING.
// A full lobby returns ErrRoomFull without touching the room.
func (r *Room) Join(m Member, username string, out *Outbox) (JoinResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out.room = r

	if r.closed {
		return JoinResult{}, errRoomClosed
	}
	id := m.ID()
	if _, already := r.members[id]; already {
		res := JoinResult{Roster: r.rosterLocked(), Capacity: r.Capacity, Spectator: r.players[id] == nil}
		out.Send(joinAckMsg(res.Roster, res.Capacity, res.Spectator), m)
		return res, nil
	}

	if r.state != Lobby {
		r.members[id] = m
		res := JoinResult{Roster: r.rosterLocked(), Capacity: r.Capacity, Spectator: true}
		out.Send(joinAckMsg(res.Roster, res.Capacity, true), m)
		log.Printf("room %s: %s joined as spectator", r.ID, id)
		return res, nil
	}

	if len(r.players) >= r.Capacity {
		out.Send(roomFullMsg(), m)
		return JoinResult{}, ErrRoomFull
	}

	others := r.memberList()
	r.players[id] = NewPlayerState(id, username)
	r.order = append(r.order, id)
	r.members[id] = m

	res := JoinResult{Roster: r.rosterLocked(), Capacity: r.Capacity}
	out.Send(joinAckMsg(res.Roster, res.Capacity, false), m)
	out.Send(worldStateMsg(res.Roster), others...)
	log.Printf("room %s: %s (%s) joined, %d/%d", r.ID, username, id, len(r.players), r.Capacity)
	return res, nil
}

// Leave removes a member. It reports whether the room closed as a result.
// Leaving a PLAYING room with one survivor left fires the win immediately.
func (r *Room) Leave(id string, out *Outbox) (closed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out.room = r

	if r.closed {
		return true
	}
	if _, ok := r.members[id]; !ok {
		return false
	}
	delete(r.members, id)
	if _, isPlayer := r.players[id]; !isPlayer {
		return false
	}
	r.removePlayerLocked(id)
	out.Send(playerDisconnectedMsg(id), r.memberList()...)

	switch {
	case len(r.players) == 0:
		r.closeLocked(out)
	case r.state == Playing && len(r.players) == 1:
		r.winLocked(out)
	}
	return r.closed
}

// Start moves the room from LOBBY to PLAYING. Only the host may start,
// and only with at least MinPlayersToStart players.
func (r *Room) Start(requesterID string, out *Outbox) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out.room = r

	if r.closed || r.state != Lobby {
		return ErrNotInLobby
	}
	if r.hostLocked() != requesterID {
		return ErrNotHost
	}
	if len(r.players) < MinPlayersToStart {
		return fmt.Errorf("%w: have %d, need %d", ErrNotEnoughPlayers, len(r.players), MinPlayersToStart)
	}

	r.state = Playing
	r.radius = BubbleStartRadius
	r.ticks = 0
	for _, p := range r.players {
		p.Health = MaxHealth
	}
	members := r.memberList()
	out.Send(startGameMsg(r.rosterLocked()), members...)
	out.Send(bubbleRadiusMsg(r.radius), members...)
	log.Printf("room %s: game started with %d players", r.ID, len(r.players))
	return nil
}

// UpdateState replaces the reporting player's client-owned state.
// The report is checked by the room's StateValidator first.
func (r *Room) UpdateState(playerID string, reported PlayerState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return ErrNotPlayer
	}
	if err := r.states.ValidateState(p, reported); err != nil {
		return err
	}
	p.Replace(reported)
	return nil
}

// Damage applies a damage report from reporterID against targetID.
// Reports for targets no longer on the roster are dropped (applied=false).
func (r *Room) Damage(reporterID, targetID string, amount int) (applied bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Playing {
		return false, ErrNotPlaying
	}
	if _, ok := r.players[reporterID]; !ok {
		return false, ErrNotPlayer
	}
	if err := r.damages.ValidateDamage(reporterID, targetID, amount); err != nil {
		return false, err
	}
	_, applied = ApplyDamage(r.players, targetID, amount)
	return applied, nil
}

// Tick advances a PLAYING room by one step: win check, elimination sweep,
// bubble shrink, world snapshot. It reports whether the room closed.
func (r *Room) Tick(out *Outbox) (closed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out.room = r

	if r.closed {
		return true
	}
	if r.state != Playing {
		return false
	}

	if len(r.players) == 1 {
		r.winLocked(out)
		return true
	}

	for _, id := range append([]string(nil), r.order...) {
		if p := r.players[id]; p != nil && p.Dead() {
			// The eliminated player stays a member and watches as a spectator.
			r.removePlayerLocked(id)
			out.Send(playerDeadMsg(id), r.memberList()...)
			log.Printf("room %s: %s (%s) eliminated", r.ID, p.Username, id)
		}
	}
	switch len(r.players) {
	case 0:
		r.closeLocked(out)
		return true
	case 1:
		r.winLocked(out)
		return true
	}

	r.ticks = (r.ticks + 1) % TickCounterWrap
	if r.ticks%BubbleShrinkInterval == 0 {
		next := math.Max(r.radius-BubbleShrinkAmount, BubbleMinRadius)
		if next != r.radius {
			r.radius = next
			out.Send(bubbleRadiusMsg(r.radius), r.memberList()...)
		}
	}

	out.Send(worldStateMsg(r.rosterLocked()), r.memberList()...)
	return false
}

// Roster returns a copy of the current roster in join order.
func (r *Room) Roster() []PlayerState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rosterLocked()
}

// State returns the lifecycle state
func (r *Room) State() LifecycleState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Radius returns the current bubble radius (zero before PLAYING).
func (r *Room) Radius() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.radius
}

// Closed reports whether the room has been torn down.
func (r *Room) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Info summarises the room for the /rooms listing.
func (r *Room) Info() RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RoomInfo{
		Code:     r.ID,
		State:    r.state.String(),
		Players:  len(r.players),
		Capacity: r.Capacity,
		Radius:   r.radius,
	}
}

// winLocked notifies every member of the win, evicts them and closes the room.
func (r *Room) winLocked(out *Outbox) {
	for _, id := range r.order {
		log.Printf("room %s: %s (%s) wins", r.ID, r.players[id].Username, id)
	}
	out.Send(playerWinMsg(), r.memberList()...)
	r.state = Ended
	r.closeLocked(out)
}

// closeLocked evicts any remaining members and marks the room closed.
func (r *Room) closeLocked(out *Outbox) {
	out.Evict(r.memberList()...)
	r.closed = true
	r.players = make(map[string]*PlayerState)
	r.members = make(map[string]Member)
	r.order = nil
	log.Printf("room %s: closed", r.ID)
}

func (r *Room) removePlayerLocked(id string) {
	delete(r.players, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Room) hostLocked() string {
	if len(r.order) == 0 {
		return ""
	}
	return r.order[0]
}

func (r *Room) rosterLocked() []PlayerState {
	roster := make([]PlayerState, 0, len(r.order))
	for _, id := range r.order {
		roster = append(roster, r.players[id].Clone())
	}
	return roster
}

func (r *Room) memberList() []Member {
	list := make([]Member, 0, len(r.members))
	for _, m := range r.members {
		list = append(list, m)
	}
	return list
}
