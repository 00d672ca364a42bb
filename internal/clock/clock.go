// Package clock holds the per-session countdown state. Each session owns its
// clocks; expiry callbacks never touch clock state directly, they post an
// epoch-stamped Fired message back to the session inbox, and the session
// discards messages whose epoch no longer matches. That keeps all clock
// mutation on the session goroutine and makes cancellation idempotent.
package clock

import "time"

type Kind string

const (
	KindTurn       Kind = "turn"
	KindTransition Kind = "transition"
	KindCombat     Kind = "combat"
)

// Fired is delivered when a scheduled expiry goes off. A Fired whose Epoch
// does not match the clock's current epoch is stale and must be ignored.
type Fired struct {
	Kind  Kind
	Epoch uint64
}

// TurnClock is a single-expiry countdown with pause/resume. Pausing clears
// the live handle and freezes the remaining duration; resuming restarts with
// exactly the frozen value, so a pause/resume round trip introduces no drift.
type TurnClock struct {
	kind Kind
	fire func(Fired)
	now  func() time.Time

	timer     *time.Timer
	startedAt time.Time
	duration  time.Duration
	frozen    time.Duration
	epoch     uint64
}

func NewTurnClock(kind Kind, fire func(Fired)) *TurnClock {
	return &TurnClock{kind: kind, fire: fire, now: time.Now}
}

// Start clears any existing handle and schedules a fresh expiry.
func (c *TurnClock) Start(d time.Duration) {
	c.cancel()
	c.epoch++
	c.startedAt = c.now()
	c.duration = d
	c.frozen = 0
	epoch := c.epoch
	c.timer = time.AfterFunc(d, func() {
		c.fire(Fired{Kind: c.kind, Epoch: epoch})
	})
}

// Remaining is a derived read: duration minus elapsed, floored at zero.
// While paused it reports the frozen value; idle clocks report zero.
func (c *TurnClock) Remaining() time.Duration {
	if c.timer == nil {
		return c.frozen
	}
	left := c.duration - c.now().Sub(c.startedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Pause cancels the pending expiry and freezes the remaining time. Pausing
// an idle clock freezes zero.
func (c *TurnClock) Pause() {
	c.frozen = c.Remaining()
	c.cancel()
}

// Resume restarts the clock with the frozen remaining time. A no-op when
// nothing was frozen.
func (c *TurnClock) Resume() {
	if c.frozen <= 0 {
		return
	}
	c.Start(c.frozen)
}

// Stop cancels the handle and discards any frozen time.
func (c *TurnClock) Stop() {
	c.cancel()
	c.frozen = 0
}

func (c *TurnClock) Active() bool { return c.timer != nil }

// Epoch reports the current generation; a Fired carrying an older epoch
// belongs to a cancelled handle.
func (c *TurnClock) Epoch() uint64 { return c.epoch }

func (c *TurnClock) cancel() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	// Bump so any in-flight AfterFunc that already ran becomes stale.
	c.epoch++
}

// CombatClock is a repeating round countdown: each natural expiry is
// reported and the caller re-arms it for the next round. Starting while
// already running resets the round rather than stacking a second handle.
type CombatClock struct {
	fire func(Fired)

	timer  *time.Timer
	round  time.Duration
	epoch  uint64
	active bool
}

func NewCombatClock(fire func(Fired)) *CombatClock {
	return &CombatClock{fire: fire}
}

func (c *CombatClock) Start(round time.Duration) {
	c.round = round
	c.active = true
	c.arm()
}

// Reset immediately re-arms a full round without waiting for natural expiry
// (both combatants have acted). No-op when combat is not running.
func (c *CombatClock) Reset() {
	if !c.active {
		return
	}
	c.arm()
}

func (c *CombatClock) Stop() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.epoch++
	c.active = false
}

func (c *CombatClock) Active() bool { return c.active }

func (c *CombatClock) Epoch() uint64 { return c.epoch }

func (c *CombatClock) arm() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.epoch++
	epoch := c.epoch
	c.timer = time.AfterFunc(c.round, func() {
		c.fire(Fired{Kind: KindCombat, Epoch: epoch})
	})
}
