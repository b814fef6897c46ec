// pkg/entity/projectile.go
package entity

import (
	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-armada/pkg/class"
	"github.com/opd-ai/go-armada/pkg/event"
	"github.com/opd-ai/go-armada/pkg/physics"
	"github.com/opd-ai/go-armada/pkg/scene"
)

// Projectile is a shot in flight. It is pooled by its ProjectileList and
// relaunched by weapons.
type Projectile struct {
	ecs.BasicEntity
	class    *class.ProjectileClass
	rt       *Runtime
	body     physics.Body
	timeLeft float64
	origin   Handle
	node     scene.Node
	removed  bool
}

// launch (re)initializes a pooled projectile. It starts with the velocity of
// the shooter and is pushed out of the barrel by force.
func (p *Projectile) launch(rt *Runtime, c *class.ProjectileClass, origin Handle, position physics.Vector3D, orientation physics.Mat3, velocity physics.Vector3D, force physics.Force) {
	p.BasicEntity = ecs.NewBasic()
	p.class = c
	p.rt = rt
	p.body.Reset(c.Mass, position, orientation, c.Size, physics.Vector3D{})
	p.body.SetVelocity(velocity)
	p.body.AddForce(force)
	p.timeLeft = c.DurationMs
	p.origin = origin
	p.removed = false
	p.node = nil
	if rt.Scene != nil {
		p.node = rt.Scene.AddObject(c.Name, position, orientation, c.Size)
	}
}

// Class returns the projectile class
func (p *Projectile) Class() *class.ProjectileClass { return p.class }

// TimeLeft returns the remaining flight time in milliseconds.
func (p *Projectile) TimeLeft() float64 { return p.timeLeft }

// Origin returns the handle of the spacecraft that fired the projectile.
func (p *Projectile) Origin() Handle { return p.origin }

// Position returns the world position.
func (p *Projectile) Position() physics.Vector3D { return p.body.Position() }

// Velocity returns the world velocity in m/s.
func (p *Projectile) Velocity() physics.Vector3D { return p.body.Velocity() }

// Body returns the physical body of the projectile.
func (p *Projectile) Body() *physics.Body { return &p.body }

// CanBeReused reports whether the projectile expired or hit something.
func (p *Projectile) CanBeReused() bool { return p.removed }

// Simulate advances the projectile by dt milliseconds and tests it against
// candidates in order. It resolves at most one hit.
func (p *Projectile) Simulate(dt float64, candidates []*Spacecraft) {
	if p.removed {
		return
	}
	p.timeLeft -= dt
	if p.timeLeft <= 0 {
		p.destroy()
		return
	}
	p.body.Simulate(dt)
	if p.node != nil {
		p.node.SetPosition(p.body.Position())
		p.node.SetOrientation(p.body.Orientation())
	}

	pos := p.body.Position()
	for _, s := range candidates {
		if s == nil || s.CanBeReused() {
			continue
		}
		if s.handle == p.origin && !p.rt.Rules.SelfFire {
			continue
		}
		if s.body.CheckHit(pos) {
			p.resolveHit(s)
			return
		}
	}
}

// resolveHit pushes the target, spawns the impact explosion, applies damage
// and runs the auto-targeting policy of the shooter.
func (p *Projectile) resolveHit(target *Spacecraft) {
	rt := p.rt
	pos := p.body.Position()
	relative := p.body.Velocity().Sub(target.body.Velocity())
	dir := relative.Normalize()
	if dir.IsZero() {
		dir = p.body.Direction()
	}

	if burst := rt.Rules.HitImpulseBurstLengthMs; burst > 0 {
		magnitude := relative.Length() * p.class.Mass * 1000 / burst
		if magnitude > 0 {
			target.body.AddForceAndTorque(pos.Sub(target.body.Position()), dir, magnitude, burst)
		}
	}

	if e := p.class.ExplosionClass(); e != nil && rt.Scene != nil {
		rt.Scene.SpawnEffect(scene.Explosion, e.Name, pos, dir.Neg(), e.DurationMs)
	}

	destroyed := target.Damage(p.class.Damage, target.body.ModelPosition(pos), target.body.WorldToLocal(dir))
	rt.Metrics.Hit(rt.Ctx, p.class.Name, p.class.Damage)

	shooter := rt.Roster.Get(p.origin)
	var shooterID uint64
	if shooter != nil {
		shooterID = shooter.ID()
	}
	rt.Events.Publish(event.NewHitEvent(p, p.ID(), shooterID, target.ID(), p.class.Damage, destroyed))

	if shooter != nil && shooter != target {
		shooter.autoTargetFromHit(target)
	}
	p.destroy()
}

// Destroy ends the flight without a hit.
func (p *Projectile) Destroy() {
	p.destroy()
}

func (p *Projectile) destroy() {
	p.removed = true
	if p.node != nil {
		p.node.MarkReusable()
		p.node = nil
	}
}

// ProjectileList holds the projectiles in flight in firing order, plus a
// pool of spent projectiles for reuse.
type ProjectileList struct {
	items []*Projectile
	pool  []*Projectile
}

// NewProjectileList creates an empty list.
func NewProjectileList() *ProjectileList {
	return &ProjectileList{}
}

// acquire takes a projectile from the pool, or allocates one, and appends it
// to the list.
func (l *ProjectileList) acquire() *Projectile {
	var p *Projectile
	if n := len(l.pool); n > 0 {
		p = l.pool[n-1]
		l.pool[n-1] = nil
		l.pool = l.pool[:n-1]
	} else {
		p = &Projectile{}
	}
	l.items = append(l.items, p)
	return p
}

// Items returns the projectiles in flight. The slice is only valid until
// the next acquire or Compact.
func (l *ProjectileList) Items() []*Projectile {
	return l.items
}

// Len returns the number of projectiles in the list.
func (l *ProjectileList) Len() int {
	return len(l.items)
}

// Pooled returns the number of spent projectiles waiting for reuse.
func (l *ProjectileList) Pooled() int {
	return len(l.pool)
}

// Compact moves every reusable projectile to the pool, keeping the order of
// the rest, and returns how many were moved.
func (l *ProjectileList) Compact() int {
	kept := l.items[:0]
	removed := 0
	for _, p := range l.items {
		if p.CanBeReused() {
			l.pool = append(l.pool, p)
			removed++
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(l.items); i++ {
		l.items[i] = nil
	}
	l.items = kept
	return removed
}
