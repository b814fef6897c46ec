// pkg/entity/spacecraft.go
package entity

import (
	"fmt"
	"math"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-armada/pkg/class"
	"github.com/opd-ai/go-armada/pkg/event"
	"github.com/opd-ai/go-armada/pkg/logging"
	"github.com/opd-ai/go-armada/pkg/physics"
	"github.com/opd-ai/go-armada/pkg/scene"
)

// damageIndicator is an active indicator effect anchored in model space.
type damageIndicator struct {
	effect   scene.Effect
	position physics.Vector3D
}

// Spacecraft is a hull with its weapons, propulsion and maneuvering
// computer. It is functioning while it has hitpoints, then destructing until
// a quarter of its explosion has played, then reusable.
type Spacecraft struct {
	ecs.BasicEntity
	class      *class.SpacecraftClass
	rt         *Runtime
	handle     Handle
	hitpoints  float64
	body       *physics.Body
	weapons    []*Weapon
	propulsion *Propulsion
	computer   *ManeuveringComputer

	target     Handle
	autoTarget bool

	alive         bool
	destructTimer float64 // -1 while functioning
	explosion     scene.Effect
	indicators    []damageIndicator
	node          scene.Node
	removed       bool
}

// NewSpacecraft creates a spacecraft of class c and adds it to the roster
// of rt. It carries no equipment until Equip, AddWeapon or SetPropulsion.
func NewSpacecraft(rt *Runtime, c *class.SpacecraftClass, position physics.Vector3D, orientation physics.Mat3) *Spacecraft {
	s := &Spacecraft{
		BasicEntity:   ecs.NewBasic(),
		class:         c,
		rt:            rt,
		hitpoints:     c.Hitpoints,
		body:          physics.NewBody(c.Mass, position, orientation, c.Scale, c.HitBox),
		alive:         true,
		destructTimer: -1,
	}
	s.computer = NewManeuveringComputer(s)
	if rt.Scene != nil {
		s.node = rt.Scene.AddObject(c.Model, position, orientation, s.body.Scale())
	}
	rt.Roster.Add(s)
	return s
}

// Equip mounts the loadout of the spacecraft class.
func (s *Spacecraft) Equip(registry *class.Registry) error {
	for _, name := range s.class.Loadout.Weapons {
		wc, err := registry.Weapon(name)
		if err != nil {
			return logging.WrapError(err, "failed to equip %s", s.class.Name)
		}
		if _, err := s.AddWeapon(wc); err != nil {
			return err
		}
	}
	if name := s.class.Loadout.Propulsion; name != "" {
		pc, err := registry.Propulsion(name)
		if err != nil {
			return logging.WrapError(err, "failed to equip %s", s.class.Name)
		}
		s.SetPropulsion(pc)
	}
	return nil
}

// AddWeapon mounts a weapon in the next free weapon slot.
func (s *Spacecraft) AddWeapon(c *class.WeaponClass) (*Weapon, error) {
	if len(s.weapons) >= len(s.class.WeaponSlots) {
		return nil, fmt.Errorf("spacecraft %s has no free weapon slot", s.class.Name)
	}
	w := newWeapon(c, s, s.class.WeaponSlots[len(s.weapons)])
	if s.rt.Scene != nil {
		pos, orient := w.worldTransform()
		w.node = s.rt.Scene.AddObject(c.Name, pos, orient, s.body.Scale())
	}
	s.weapons = append(s.weapons, w)
	return w, nil
}

// SetPropulsion replaces the propulsion system. A nil class removes it.
func (s *Spacecraft) SetPropulsion(c *class.PropulsionClass) {
	if s.propulsion != nil {
		s.propulsion.release()
		s.propulsion = nil
	}
	if c != nil {
		s.propulsion = newPropulsion(c, s.body, s.class.ThrusterSlots, s.rt.Scene)
	}
	s.computer.UpdateForNewPropulsion()
}

// AcquireResources requests the resources of the hull and its equipment.
func (s *Spacecraft) AcquireResources() {
	if s.rt.Scene == nil {
		return
	}
	s.class.AcquireResources(s.rt.Scene)
	for _, w := range s.weapons {
		w.class.AcquireResources(s.rt.Scene)
	}
	if s.propulsion != nil {
		s.propulsion.class.AcquireResources(s.rt.Scene)
	}
}

func (s *Spacecraft) Class() *class.SpacecraftClass { return s.class }
func (s *Spacecraft) Handle() Handle { return s.handle }
func (s *Spacecraft) Body() *physics.Body { return s.body }
func (s *Spacecraft) Position() physics.Vector3D { return s.body.Position() }
func (s *Spacecraft) Velocity() physics.Vector3D { return s.body.Velocity() }
func (s *Spacecraft) Weapons() []*Weapon { return s.weapons }
func (s *Spacecraft) Propulsion() *Propulsion { return s.propulsion }
func (s *Spacecraft) Maneuvering() *ManeuveringComputer { return s.computer }
func (s *Spacecraft) Hitpoints() float64 { return s.hitpoints }
func (s *Spacecraft) MaxHitpoints() float64 { return s.class.Hitpoints }

// HitpointsRatio returns the remaining hull integrity in [0, 1].
func (s *Spacecraft) HitpointsRatio() float64 {
	return s.hitpoints / s.class.Hitpoints
}

// IsAlive reports whether the spacecraft still functions.
func (s *Spacecraft) IsAlive() bool { return s.alive }

// DestructTimer returns the milliseconds since the hitpoints reached zero,
// or -1 while the spacecraft functions.
func (s *Spacecraft) DestructTimer() float64 { return s.destructTimer }

// CanBeReused reports whether the destruction sequence finished.
func (s *Spacecraft) CanBeReused() bool { return s.removed }

// ChangeFlightMode cycles the flight mode of the maneuvering computer.
func (s *Spacecraft) ChangeFlightMode() FlightMode {
	mode := s.computer.ChangeFlightMode()
	s.rt.Events.Publish(event.NewSpacecraftEvent(event.FlightModeChanged, s, s.ID(), s.class.Name))
	return mode
}

// Fire fires every weapon and returns the number of projectiles spawned.
func (s *Spacecraft) Fire() int {
	if !s.alive {
		return 0
	}
	fired := 0
	for _, w := range s.weapons {
		fired += w.Fire()
	}
	return fired
}

func (s *Spacecraft) addThrusterBurn(a Axis, value float64) {
	if s.propulsion != nil {
		s.propulsion.AddThrusterBurn(a, value)
	}
}

// Simulate advances the spacecraft by dt milliseconds.
func (s *Spacecraft) Simulate(dt float64) {
	if s.removed {
		return
	}
	if !s.alive {
		s.destructTimer += dt
		s.body.Simulate(dt)
		s.syncVisuals()
		if s.destructTimer > s.explosionDuration()/4 {
			s.destroy()
		}
		return
	}

	if !s.target.IsZero() && s.rt.Roster.Get(s.target) == nil {
		s.clearTarget()
	}
	for _, w := range s.weapons {
		w.Simulate(dt)
	}
	if s.propulsion != nil {
		s.computer.ControlThrusters()
		s.propulsion.Simulate(s.rt.Rules.ThrusterBurstLengthMs)
	}
	s.body.Simulate(dt)
	s.syncVisuals()
	if s.propulsion != nil {
		s.computer.UpdateSpeedIncrement(dt)
	}
}

func (s *Spacecraft) explosionDuration() float64 {
	if e := s.class.ExplosionClass(); e != nil {
		return e.DurationMs
	}
	return 0
}

func (s *Spacecraft) syncVisuals() {
	pos := s.body.Position()
	orient := s.body.Orientation()
	if s.node != nil {
		s.node.SetPosition(pos)
		s.node.SetOrientation(orient)
	}
	for _, w := range s.weapons {
		w.syncVisual()
	}
	if s.propulsion != nil {
		s.propulsion.syncVisuals(s.body.Scale())
	}
	for _, d := range s.indicators {
		d.effect.SetPosition(pos.Add(s.body.LocalToWorld(d.position.Scale(s.body.Scale()))))
	}
	if s.explosion != nil {
		s.explosion.SetPosition(pos)
	}
}

// Damage removes amount hitpoints. Position and direction are in model
// space. Every damage indicator threshold crossed by this hit spawns its
// effect once. It reports whether the hit started the destruction.
func (s *Spacecraft) Damage(amount float64, position, direction physics.Vector3D) bool {
	if !s.alive {
		return false
	}
	before := s.hitpoints
	s.hitpoints = math.Max(0, math.Min(s.class.Hitpoints, before-amount))
	if s.hitpoints > 0 {
		for i := range s.class.DamageIndicators {
			d := &s.class.DamageIndicators[i]
			threshold := d.HullIntegrity / 100 * s.class.Hitpoints
			if before > threshold && s.hitpoints <= threshold {
				s.spawnDamageIndicator(d, position, direction)
			}
		}
		return false
	}
	s.startDestruction()
	return true
}

func (s *Spacecraft) spawnDamageIndicator(d *class.DamageIndicator, position, direction physics.Vector3D) {
	e := d.ExplosionClass()
	if e == nil || s.rt.Scene == nil {
		return
	}
	worldPos := s.body.Position().Add(s.body.LocalToWorld(position.Scale(s.body.Scale())))
	effect := s.rt.Scene.SpawnEffect(scene.DamageIndicator, e.Name, worldPos, s.body.LocalToWorld(direction.Neg()), e.DurationMs)
	s.indicators = append(s.indicators, damageIndicator{effect: effect, position: position})
	s.rt.Events.Publish(event.NewSpacecraftEvent(event.DamageIndicatorSpawned, s, s.ID(), e.Name))
}

// DamageIndicators returns the number of indicator effects spawned.
func (s *Spacecraft) DamageIndicators() int {
	return len(s.indicators)
}

func (s *Spacecraft) startDestruction() {
	s.alive = false
	s.destructTimer = 0
	if e := s.class.ExplosionClass(); e != nil && s.rt.Scene != nil {
		s.explosion = s.rt.Scene.SpawnEffect(scene.Explosion, e.Name, s.body.Position(), s.body.Direction(), e.DurationMs)
	}
	for _, d := range s.indicators {
		d.effect.Finish()
	}
	s.rt.Metrics.Destroyed(s.rt.Ctx, s.class.Name)
	s.rt.Events.Publish(event.NewSpacecraftEvent(event.SpacecraftDestroyed, s, s.ID(), s.class.Name))
	s.rt.Logger.Info(s.rt.Ctx, "spacecraft destroyed", "id", s.ID(), "class", s.class.Name)
}

// Destroy removes the spacecraft without a destruction sequence. It becomes
// reusable immediately.
func (s *Spacecraft) Destroy() {
	if !s.removed {
		s.alive = false
		s.destroy()
	}
}

// destroy ends the destruction sequence and releases every visual.
func (s *Spacecraft) destroy() {
	s.removed = true
	s.target = Handle{}
	if s.node != nil {
		s.node.MarkReusable()
	}
	for _, w := range s.weapons {
		w.release()
	}
	if s.propulsion != nil {
		s.propulsion.release()
	}
	for _, d := range s.indicators {
		d.effect.MarkReusable()
	}
	s.indicators = nil
}
