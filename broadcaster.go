package main

import (
	"log"
)

// Member is anything a room can deliver messages to: a live connection in
// production, a recorder in tests.
type Member interface {
	ID() string
	Send(msg any) error
	// Evict tells the member it no longer belongs to r. A member already
	// bound to another room (even one with the same code) ignores it.
	Evict(r *Room)
}

type delivery struct {
	msg any
	to  []Member
}

// Outbox collects messages and evictions produced while a room is locked.
// Flush delivers them in order once the lock is released so a slow socket
// never holds up a room.
type Outbox struct {
	deliveries []delivery
	evictions  []Member
	room       *Room
}

// Send queues msg for every member in to.
func (o *Outbox) Send(msg any, to ...Member) {
	if len(to) == 0 {
		return
	}
	o.deliveries = append(o.deliveries, delivery{msg: msg, to: to})
}

// Evict queues an eviction from the outbox's room, delivered after all messages.
func (o *Outbox) Evict(members ...Member) {
	o.evictions = append(o.evictions, members...)
}

// Len returns the number of queued deliveries
func (o *Outbox) Len() int {
	return len(o.deliveries)
}

// Flush delivers everything queued. Delivery is fire-and-forget: send
// errors are logged and otherwise ignored.
func (o *Outbox) Flush() {
	for _, d := range o.deliveries {
		for _, m := range d.to {
			if err := m.Send(d.msg); err != nil {
				log.Printf("send error to %s: %v", m.ID(), err)
			}
		}
	}
	for _, m := range o.evictions {
		m.Evict(o.room)
	}
	o.deliveries = nil
	o.evictions = nil
}

// Message constructors. Rosters are copied so the encoder never reads
// state the room may be mutating.

func worldStateMsg(roster []PlayerState) RosterMsg {
	return RosterMsg{Type: MsgWorldState, State: roster}
}

func startGameMsg(roster []PlayerState) RosterMsg {
	return RosterMsg{Type: MsgStartGame, State: roster}
}

func joinAckMsg(roster []PlayerState, capacity int, spectator bool) JoinAckMsg {
	t := MsgJoinRoom
	if spectator {
		t = MsgJoinSpectator
	}
	return JoinAckMsg{Type: t, State: roster, RoomSize: capacity}
}

func playerDeadMsg(id string) PlayerEventMsg {
	return PlayerEventMsg{Type: MsgPlayerDead, ID: id}
}

func playerDisconnectedMsg(id string) PlayerEventMsg {
	return PlayerEventMsg{Type: MsgPlayerDisconnected, ID: id}
}

func bubbleRadiusMsg(radius float64) BubbleRadiusMsg {
	return BubbleRadiusMsg{Type: MsgBubbleRadius, Radius: radius}
}

func roomFullMsg() SignalMsg {
	return SignalMsg{Type: MsgRoomFull}
}

func playerWinMsg() SignalMsg {
	return SignalMsg{Type: MsgPlayerWin}
}
