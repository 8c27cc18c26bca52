package main

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidState  = errors.New("invalid player state")
	ErrInvalidDamage = errors.New("invalid damage report")
)

// StateValidator checks a client-reported player state before it replaces
// the authoritative copy. prev is the current state.
type StateValidator interface {
	ValidateState(prev *PlayerState, next PlayerState) error
}

// DamageValidator checks a client-reported damage amount.
type DamageValidator interface {
	ValidateDamage(reporterID, targetID string, amount int) error
}

// Validator is the default trust boundary: reported positions and damage
// are accepted as long as they are well formed and inside the map.
type Validator struct {
	// Slack allows positions this far outside the map rectangle
	Slack float64
}

// ValidateState rejects non-finite or off-map positions, unknown headings
// and oversized bolt lists.
func (v Validator) ValidateState(prev *PlayerState, next PlayerState) error {
	if err := v.checkPosition(next.Position); err != nil {
		return err
	}
	if !next.Facing.Valid() {
		return fmt.Errorf("%w: facing %q", ErrInvalidState, next.Facing)
	}
	if len(next.Bolts) > MaxBolts {
		return fmt.Errorf("%w: %d bolts", ErrInvalidState, len(next.Bolts))
	}
	for _, b := range next.Bolts {
		if b.ID == "" {
			return fmt.Errorf("%w: bolt without id", ErrInvalidState)
		}
		if !b.Facing.Valid() {
			return fmt.Errorf("%w: bolt %s facing %q", ErrInvalidState, b.ID, b.Facing)
		}
		if !finite(b.Position.X) || !finite(b.Position.Y) {
			return fmt.Errorf("%w: bolt %s position", ErrInvalidState, b.ID)
		}
	}
	return nil
}

// ValidateDamage accepts any positive amount; ApplyDamage clamps health at
// zero. Players may report damage against themselves (bubble damage is
// evaluated by the victim's client).
func (v Validator) ValidateDamage(reporterID, targetID string, amount int) error {
	if targetID == "" {
		return fmt.Errorf("%w: empty target", ErrInvalidDamage)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount %d", ErrInvalidDamage, amount)
	}
	return nil
}

func (v Validator) checkPosition(p Position) error {
	if !finite(p.X) || !finite(p.Y) {
		return fmt.Errorf("%w: non-finite position", ErrInvalidState)
	}
	if p.X < -v.Slack || p.X > MapWidth+v.Slack || p.Y < -v.Slack || p.Y > MapHeight+v.Slack {
		return fmt.Errorf("%w: position (%.1f, %.1f) off map", ErrInvalidState, p.X, p.Y)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
