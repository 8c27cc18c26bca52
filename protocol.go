package main

// Every frame is one object; "t" carries the event name and the payload
// fields sit beside it.
//
//   Client → Server:
//     {"t":"join_room","roomId":"ABCD","username":"alice"}
//     {"t":"player_state","roomId":"ABCD","gameData":{PlayerState}}
//     {"t":"start_game","roomId":"ABCD"}
//     {"t":"player_damage","roomId":"ABCD","targetId":"id","amount":10}
//   Server → Client:
//     {"t":"join_room","state":[PlayerState],"roomSize":12}
//     {"t":"join_spectator","state":[PlayerState],"roomSize":12}
//     {"t":"room_full"}
//     {"t":"world_state","state":[PlayerState]}
//     {"t":"start_game","state":[PlayerState]}
//     {"t":"player_dead","id":"id"}
//     {"t":"player_disconnected","id":"id"}
//     {"t":"bubble_radius","radius":990}
//     {"t":"player_win"}
//     {"t":"error","message":"..."}

// Message type identifiers
const (
	MsgJoinRoom           = "join_room"
	MsgJoinSpectator      = "join_spectator"
	MsgRoomFull           = "room_full"
	MsgPlayerState        = "player_state"
	MsgWorldState         = "world_state"
	MsgStartGame          = "start_game"
	MsgPlayerDamage       = "player_damage"
	MsgPlayerDead         = "player_dead"
	MsgPlayerDisconnected = "player_disconnected"
	MsgBubbleRadius       = "bubble_radius"
	MsgPlayerWin          = "player_win"
	MsgError              = "error"
)

// ClientMessage is any inbound message. Only the fields relevant to Type are set.
type ClientMessage struct {
	Type     string       `json:"t"`
	RoomID   string       `json:"roomId,omitempty"`
	Username string       `json:"username,omitempty"`
	GameData *PlayerState `json:"gameData,omitempty"`
	TargetID string       `json:"targetId,omitempty"`
	Amount   int          `json:"amount,omitempty"`
}

// RosterMsg carries a full roster: world_state and start_game.
type RosterMsg struct {
	Type  string        `json:"t"`
	State []PlayerState `json:"state"`
}

// JoinAckMsg answers a successful join_room (or join_spectator).
type JoinAckMsg struct {
	Type     string        `json:"t"`
	State    []PlayerState `json:"state"`
	RoomSize int           `json:"roomSize"`
}

// PlayerEventMsg names a single player: player_dead and player_disconnected.
type PlayerEventMsg struct {
	Type string `json:"t"`
	ID   string `json:"id"`
}

// BubbleRadiusMsg announces a new safe-zone radius.
type BubbleRadiusMsg struct {
	Type   string  `json:"t"`
	Radius float64 `json:"radius"`
}

// SignalMsg is a payload-free message: room_full and player_win.
type SignalMsg struct {
	Type string `json:"t"`
}

// ErrorMsg is sent before the server refuses or closes a connection.
type ErrorMsg struct {
	Type    string `json:"t"`
	Message string `json:"message"`
}

// RoomInfo is returned by the /rooms listing.
type RoomInfo struct {
	Code     string  `json:"code"`
	State    string  `json:"state"`
	Players  int     `json:"players"`
	Capacity int     `json:"capacity"`
	Radius   float64 `json:"radius,omitempty"`
}
