package main

// ApplyDamage lowers the target's health by amount, clamped at zero.
// A missing target (already eliminated or gone) is not an error: it returns
// applied=false and the report is dropped. Elimination is left to the next
// tick's sweep, so a freshly killed player can appear in one more snapshot.
// Caller must hold the room lock.
func ApplyDamage(players map[string]*PlayerState, targetID string, amount int) (health int, applied bool) {
	p, ok := players[targetID]
	if !ok {
		return 0, false
	}
	if amount < 0 {
		amount = 0
	}
	return p.TakeDamage(amount), true
}
