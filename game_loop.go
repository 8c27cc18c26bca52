package main

import (
	"context"
	"log"
	"time"
)

// GameLoop is the simulation clock: one fixed-rate ticker driving every room.
type GameLoop struct {
	rooms     *Registry
	interval  time.Duration
	tickCount int // total ticks elapsed, wraps at TickCounterWrap
}

// NewGameLoop creates a loop that ticks rooms at TickRate.
func NewGameLoop(rooms *Registry) *GameLoop {
	return &GameLoop{
		rooms:    rooms,
		interval: time.Second / TickRate,
	}
}

// Run ticks until ctx is cancelled.
func (gl *GameLoop) Run(ctx context.Context) {
	ticker := time.NewTicker(gl.interval)
	defer ticker.Stop()
	log.Printf("game loop started at %d ticks/sec", TickRate)

	for {
		select {
		case <-ctx.Done():
			log.Printf("game loop stopped after %d ticks", gl.tickCount)
			return
		case <-ticker.C:
			gl.tick()
		}
	}
}

// tick executes a single simulation step across all rooms
func (gl *GameLoop) tick() {
	gl.tickCount = (gl.tickCount + 1) % TickCounterWrap
	gl.rooms.TickAll()

	if gl.tickCount%StatsLogEveryTicks == 0 {
		rooms := gl.rooms.List()
		players := 0
		for _, r := range rooms {
			players += r.Players
		}
		log.Printf("stats: %d rooms, %d players", len(rooms), players)
	}
}
