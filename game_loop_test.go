package main

import (
	"context"
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestGameLoopBroadcastsPlayingRooms(t *testing.T) {
	reg, _, m := playingRoom(t, "A", "B")
	lobby := newRecorder("L")
	mustJoin(t, reg, "lobby", lobby)
	lobby.reset()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewGameLoop(reg).Run(ctx)
		close(done)
	}()

	waitFor(t, time.Second, func() bool { return m[0].count(MsgWorldState) >= 3 }, "world_state snapshots")
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("game loop did not stop on cancel")
	}
	if lobby.count(MsgWorldState) != 0 {
		t.Fatalf("lobby room received snapshots: %v", lobby.types())
	}
}

func TestGameLoopRateRoughly60Hz(t *testing.T) {
	reg, _, m := playingRoom(t, "A", "B")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go NewGameLoop(reg).Run(ctx)

	time.Sleep(300 * time.Millisecond)
	// 60Hz for 0.3s => ~18 snapshots; accept a wide range to avoid flakes.
	if n := m[1].count(MsgWorldState); n < 5 || n > 30 {
		t.Fatalf("unexpected snapshot count in 300ms: %d", n)
	}
}

func TestGameLoopTickCounterWraps(t *testing.T) {
	gl := NewGameLoop(NewRegistry(RoomCapacity, nil, nil))
	gl.tickCount = TickCounterWrap - 1
	gl.tick()
	if gl.tickCount != 0 {
		t.Fatalf("tickCount = %d, want 0", gl.tickCount)
	}
}
