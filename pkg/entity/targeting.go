package entity

import (
	"github.com/opd-ai/go-armada/pkg/config"
	"github.com/opd-ai/go-armada/pkg/event"
)

// Target returns the selected target, or nil. A target that became
// reusable is dropped here.
func (s *Spacecraft) Target() *Spacecraft {
	if s.target.IsZero() {
		return nil
	}
	t := s.rt.Roster.Get(s.target)
	if t == nil {
		s.clearTarget()
	}
	return t
}

// TargetHandle returns the handle of the selected target without checking
// that it is still live.
func (s *Spacecraft) TargetHandle() Handle { return s.target }

// IsAutoTarget reports whether the target was picked by a hit rather than
// by the pilot.
func (s *Spacecraft) IsAutoTarget() bool { return s.autoTarget }

// SetTarget selects t manually. A nil t clears the selection.
func (s *Spacecraft) SetTarget(t *Spacecraft) {
	if t == nil {
		s.clearTarget()
		return
	}
	s.setTarget(t, false)
}

// TargetNext selects the next spacecraft in roster order after the current
// target, wrapping around. Destructing wrecks are included. Without a current target the first
// targetable spacecraft is selected.
func (s *Spacecraft) TargetNext() *Spacecraft {
	return s.cycleTarget(1)
}

// TargetPrevious is TargetNext in reverse roster order.
func (s *Spacecraft) TargetPrevious() *Spacecraft {
	return s.cycleTarget(-1)
}

func (s *Spacecraft) cycleTarget(step int) *Spacecraft {
	crafts := s.rt.Roster.Spacecrafts()
	n := len(crafts)
	if n == 0 {
		return nil
	}
	current := s.Target()
	start := -1
	if step < 0 {
		start = n
	}
	for i, c := range crafts {
		if c == current && current != nil {
			start = i
			break
		}
	}
	for k := 1; k <= n; k++ {
		i := ((start+step*k)%n + n) % n
		c := crafts[i]
		if c == s || !targetable(c) {
			continue
		}
		s.setTarget(c, false)
		return c
	}
	s.clearTarget()
	return nil
}

// targetable reports whether c still holds a roster slot. Destructing
// wrecks stay targetable until their destruction finishes.
func targetable(c *Spacecraft) bool {
	return c != nil && !c.CanBeReused()
}

// autoTargetFromHit applies the auto-targeting rule after one of the
// projectiles of s hit another spacecraft.
func (s *Spacecraft) autoTargetFromHit(hit *Spacecraft) {
	current := s.Target()
	switch s.rt.Rules.AutoTargeting {
	case config.Never:
		return
	case config.HitAndNoTarget:
		if current != nil {
			return
		}
	case config.HitAndAutoTarget:
		if current != nil && current != hit && !s.autoTarget {
			return
		}
	case config.AlwaysWhenHit:
	}
	s.setTarget(hit, true)
	s.rt.Logger.Debug(s.rt.Ctx, "auto target acquired", "id", s.ID(), "target", hit.ID())
}

func (s *Spacecraft) setTarget(t *Spacecraft, auto bool) {
	changed := s.target != t.handle || s.autoTarget != auto
	s.target = t.handle
	s.autoTarget = auto
	if changed {
		s.rt.Events.Publish(event.NewTargetEvent(s, s.ID(), t.ID(), auto))
	}
}

func (s *Spacecraft) clearTarget() {
	if s.target.IsZero() {
		return
	}
	s.target = Handle{}
	s.autoTarget = false
	s.rt.Events.Publish(event.NewTargetEvent(s, s.ID(), 0, false))
}
