package main

import (
	"math/rand"
)

// Direction is one of the eight compass headings a player or bolt can face.
type Direction string

const (
	North     Direction = "north"
	NorthEast Direction = "northeast"
	East      Direction = "east"
	SouthEast Direction = "southeast"
	South     Direction = "south"
	SouthWest Direction = "southwest"
	West      Direction = "west"
	NorthWest Direction = "northwest"
)

var directions = []Direction{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}

// Valid reports whether d is one of the eight headings.
func (d Direction) Valid() bool {
	for _, v := range directions {
		if d == v {
			return true
		}
	}
	return false
}

// Position is a 2D coordinate in map space
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bolt is a projectile owned by a player. Bolts travel with their owner's state.
type Bolt struct {
	ID       string    `json:"id"`
	Position Position  `json:"position"`
	Facing   Direction `json:"facing"`
	Alive    bool      `json:"alive"`
}

// PlayerState is the authoritative state of one player in a room.
type PlayerState struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Position Position  `json:"position"`
	Facing   Direction `json:"facing"`
	Health   int       `json:"health"`
	Bolts    []Bolt    `json:"bolts"`
}

// NewPlayerState creates a player at a random spawn inside the map,
// keeping SpawnPadding px away from every edge.
func NewPlayerState(id, username string) *PlayerState {
	return &PlayerState{
		ID:       id,
		Username: username,
		Position: randomSpawn(),
		Facing:   South,
		Health:   MaxHealth,
		Bolts:    []Bolt{},
	}
}

// randomSpawn picks a uniform point in the padded map rectangle
func randomSpawn() Position {
	return Position{
		X: SpawnPadding + rand.Float64()*(MapWidth-2*SpawnPadding),
		Y: SpawnPadding + rand.Float64()*(MapHeight-2*SpawnPadding),
	}
}

// Replace overwrites the client-owned fields with a reported state.
// id, username and health stay server-owned.
func (p *PlayerState) Replace(reported PlayerState) {
	p.Position = reported.Position
	p.Facing = reported.Facing
	bolts := make([]Bolt, len(reported.Bolts))
	copy(bolts, reported.Bolts)
	p.Bolts = bolts
}

// TakeDamage lowers health by amount, never below zero. Returns the new health.
func (p *PlayerState) TakeDamage(amount int) int {
	p.Health = clampInt(p.Health-amount, 0, MaxHealth)
	return p.Health
}

// Dead reports whether the player has no health left
func (p *PlayerState) Dead() bool {
	return p.Health <= 0
}

// Clone returns a deep copy safe to hand to encoders outside the room lock.
func (p *PlayerState) Clone() PlayerState {
	c := *p
	c.Bolts = make([]Bolt, len(p.Bolts))
	copy(c.Bolts, p.Bolts)
	return c
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
