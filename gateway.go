package main

import (
	"errors"
	"log"
	"strings"
	"unicode/utf8"
)

// Client is a connection as seen by the gateway: a room member that
// remembers which room it is bound to.
type Client interface {
	Member
	Room() *Room
	Bind(r *Room)
}

// Gateway routes inbound client messages to the room the client belongs to.
type Gateway struct {
	rooms *Registry
}

// NewGateway creates a gateway over rooms
func NewGateway(rooms *Registry) *Gateway {
	return &Gateway{rooms: rooms}
}

// Handle dispatches one decoded message. Nothing here is fatal: bad or
// stale messages are logged and dropped.
func (gw *Gateway) Handle(c Client, msg ClientMessage) {
	switch msg.Type {
	case MsgJoinRoom:
		gw.join(c, msg.RoomID, msg.Username)

	case MsgPlayerState:
		r, ok := gw.boundRoom(c, msg.RoomID)
		if !ok {
			return
		}
		if msg.GameData == nil {
			log.Printf("player_state from %s without gameData", c.ID())
			return
		}
		if err := r.UpdateState(c.ID(), *msg.GameData); err != nil && !errors.Is(err, ErrNotPlayer) {
			log.Printf("player_state from %s rejected: %v", c.ID(), err)
		}

	case MsgStartGame:
		r, ok := gw.boundRoom(c, msg.RoomID)
		if !ok {
			return
		}
		if err := gw.rooms.start(r, c.ID()); err != nil {
			log.Printf("start_game from %s rejected: %v", c.ID(), err)
		}

	case MsgPlayerDamage:
		r, ok := gw.boundRoom(c, msg.RoomID)
		if !ok {
			return
		}
		if _, err := r.Damage(c.ID(), msg.TargetID, msg.Amount); err != nil {
			log.Printf("player_damage from %s rejected: %v", c.ID(), err)
		}

	default:
		log.Printf("unknown message type %q from %s", msg.Type, c.ID())
	}
}

// Disconnect removes the client from the room instance it is bound to, if
// any. A newer room reusing the same code is never touched.
func (gw *Gateway) Disconnect(c Client) {
	if r := c.Room(); r != nil {
		c.Bind(nil)
		gw.rooms.leave(r, c.ID())
	}
}

func (gw *Gateway) join(c Client, roomID, username string) {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" || len(roomID) > MaxRoomIDLen {
		_ = c.Send(ErrorMsg{Type: MsgError, Message: "invalid room id"})
		return
	}
	username = cleanUsername(username)

	if prev := c.Room(); prev != nil && (prev.ID != roomID || prev.Closed()) {
		gw.Disconnect(c)
	}
	res, err := gw.rooms.JoinOrCreate(roomID, username, c)
	if err != nil {
		log.Printf("join %s by %s rejected: %v", roomID, c.ID(), err)
		return
	}
	c.Bind(res.Room)
	// The room may have ended between the join and the bind, in which case
	// its eviction has already gone out.
	if res.Room.Closed() {
		c.Evict(res.Room)
	}
	if res.Spectator {
		log.Printf("%s (%s) spectating room %s", username, c.ID(), roomID)
	}
}

// boundRoom returns the client's room. A message naming a different room
// than the one the client joined is dropped.
func (gw *Gateway) boundRoom(c Client, claimed string) (*Room, bool) {
	r := c.Room()
	if r == nil {
		return nil, false
	}
	if claimed != "" && claimed != r.ID {
		log.Printf("%s sent message for room %s while in %s", c.ID(), claimed, r.ID)
		return nil, false
	}
	return r, true
}

// cleanUsername trims the name, caps it at MaxUsernameLen runes and
// substitutes DefaultUsername for an empty one.
func cleanUsername(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxUsernameLen {
		name = string([]rune(name)[:MaxUsernameLen])
	}
	if name == "" {
		name = DefaultUsername
	}
	return name
}
