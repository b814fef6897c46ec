// pkg/entity/entity.go
package entity

import (
	"context"

	"github.com/opd-ai/go-armada/pkg/config"
	"github.com/opd-ai/go-armada/pkg/event"
	"github.com/opd-ai/go-armada/pkg/logging"
	"github.com/opd-ai/go-armada/pkg/metrics"
	"github.com/opd-ai/go-armada/pkg/scene"
)

// Rules are the combat settings shared by every entity of a level
type Rules struct {
	AutoTargeting           config.AutoTargeting
	SelfFire                bool
	ThrusterBurstLengthMs   float64
	ProjectileBurstLengthMs float64
	HitImpulseBurstLengthMs float64
}

// RulesFromConfig extracts the rules from a game configuration. An invalid
// auto-targeting mode is logged and replaced by the default.
func RulesFromConfig(ctx context.Context, cfg *config.GameConfig, logger *logging.Logger) Rules {
	return Rules{
		AutoTargeting:           cfg.Combat.AutoTargetingMode(ctx, logger),
		SelfFire:                cfg.Combat.SelfFire,
		ThrusterBurstLengthMs:   cfg.Physics.ThrusterBurstLengthMs,
		ProjectileBurstLengthMs: cfg.Physics.ProjectileBurstLengthMs,
		HitImpulseBurstLengthMs: cfg.Physics.HitImpulseBurstLengthMs,
	}
}

// Runtime bundles the collaborators entities reach during simulation. One
// Runtime is owned by each level.
type Runtime struct {
	Ctx         context.Context
	Scene       scene.Scene
	Roster      *Roster
	Projectiles *ProjectileList
	Events      *event.Bus
	Metrics     *metrics.Combat
	Logger      *logging.Logger
	Rules       Rules
}

// NewRuntime creates a Runtime with an empty roster and projectile list.
// Events, Metrics and Logger may be nil.
func NewRuntime(ctx context.Context, scn scene.Scene, rules Rules, bus *event.Bus, m *metrics.Combat, logger *logging.Logger) *Runtime {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runtime{
		Ctx:         ctx,
		Scene:       scn,
		Roster:      NewRoster(),
		Projectiles: NewProjectileList(),
		Events:      bus,
		Metrics:     m,
		Logger:      logger,
		Rules:       rules,
	}
}

// Handle is a weak reference to a spacecraft in a Roster. The zero Handle
// refers to nothing.
type Handle struct {
	index      uint32
	generation uint32
}

// IsZero reports whether the handle refers to nothing.
func (h Handle) IsZero() bool {
	return h.generation == 0
}

type rosterSlot struct {
	craft      *Spacecraft
	generation uint32
}

// Roster is the generational arena holding the spacecraft of a level. It
// also keeps the order spacecraft were added in, which is the order they are
// simulated and hit-tested in.
type Roster struct {
	slots []rosterSlot
	free  []uint32
	order []*Spacecraft
}

// NewRoster creates an empty roster
func NewRoster() *Roster {
	return &Roster{}
}

// Add places s in a free slot and returns its handle.
func (r *Roster) Add(s *Spacecraft) Handle {
	var index uint32
	if n := len(r.free); n > 0 {
		index = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		index = uint32(len(r.slots))
		r.slots = append(r.slots, rosterSlot{})
	}
	slot := &r.slots[index]
	slot.generation++
	slot.craft = s
	h := Handle{index: index, generation: slot.generation}
	s.handle = h
	r.order = append(r.order, s)
	return h
}

// Get resolves a handle. It returns nil for the zero handle, for handles
// whose slot has been reused and for spacecraft that can be reused.
func (r *Roster) Get(h Handle) *Spacecraft {
	if h.IsZero() || int(h.index) >= len(r.slots) {
		return nil
	}
	slot := r.slots[h.index]
	if slot.generation != h.generation || slot.craft == nil || slot.craft.CanBeReused() {
		return nil
	}
	return slot.craft
}

// MustGet resolves a handle that the caller knows to be live.
func (r *Roster) MustGet(h Handle) *Spacecraft {
	s := r.Get(h)
	if s == nil {
		panic("entity: handle does not refer to a live spacecraft")
	}
	return s
}

// Spacecrafts returns the roster in order. The slice is owned by the roster
// and is only valid until the next Add or Compact.
func (r *Roster) Spacecrafts() []*Spacecraft {
	return r.order
}

// Len returns the number of spacecraft in the roster, including ones that
// wait for compaction.
func (r *Roster) Len() int {
	return len(r.order)
}

// Compact removes every spacecraft that can be reused, keeping the order of
// the rest, and invalidates their handles. It returns the removed spacecraft.
func (r *Roster) Compact() []*Spacecraft {
	var removed []*Spacecraft
	kept := r.order[:0]
	for _, s := range r.order {
		if s != nil && !s.CanBeReused() {
			kept = append(kept, s)
			continue
		}
		if s == nil {
			continue
		}
		removed = append(removed, s)
		slot := &r.slots[s.handle.index]
		slot.craft = nil
		slot.generation++
		r.free = append(r.free, s.handle.index)
	}
	for i := len(kept); i < len(r.order); i++ {
		r.order[i] = nil
	}
	r.order = kept
	return removed
}
