// pkg/entity/weapon.go
package entity

import (
	"math"

	"github.com/opd-ai/go-armada/pkg/class"
	"github.com/opd-ai/go-armada/pkg/event"
	"github.com/opd-ai/go-armada/pkg/physics"
	"github.com/opd-ai/go-armada/pkg/scene"
)

// Weapon is a gun mounted in a weapon slot of a spacecraft. It fires only
// when its cooldown accumulator has reached the class cooldown.
type Weapon struct {
	class *class.WeaponClass
	craft *Spacecraft
	slot  class.WeaponSlot
	// slotOrientation turns weapon space into spacecraft model space.
	slotOrientation physics.Mat3
	cooldown        float64
	node            scene.Node
}

func newWeapon(c *class.WeaponClass, craft *Spacecraft, slot class.WeaponSlot) *Weapon {
	yaw := slot.Yaw * math.Pi / 180
	pitch := slot.Pitch * math.Pi / 180
	return &Weapon{
		class:           c,
		craft:           craft,
		slot:            slot,
		slotOrientation: physics.RotationZ(yaw).Mul(physics.RotationX(pitch)),
		cooldown:        c.CooldownMs,
	}
}

// Class returns the weapon class
func (w *Weapon) Class() *class.WeaponClass { return w.class }

// Slot returns the weapon slot the weapon is mounted in.
func (w *Weapon) Slot() class.WeaponSlot { return w.slot }

// Cooldown returns the cooldown accumulator in milliseconds.
func (w *Weapon) Cooldown() float64 { return w.cooldown }

// Ready reports whether the next Fire call spawns projectiles.
func (w *Weapon) Ready() bool { return w.cooldown >= w.class.CooldownMs }

// Simulate advances the cooldown accumulator by dt milliseconds.
func (w *Weapon) Simulate(dt float64) {
	w.cooldown = math.Min(w.class.CooldownMs, w.cooldown+dt)
}

func (w *Weapon) syncVisual() {
	if w.node == nil {
		return
	}
	pos, orient := w.worldTransform()
	w.node.SetPosition(pos)
	w.node.SetOrientation(orient)
}

// worldTransform returns the world position and orientation of the slot.
func (w *Weapon) worldTransform() (physics.Vector3D, physics.Mat3) {
	body := w.craft.body
	pos := body.Position().Add(body.LocalToWorld(w.slot.Position.Scale(body.Scale())))
	return pos, body.Orientation().Mul(w.slotOrientation)
}

// Fire spawns one projectile per barrel into the level's projectile list
// and pushes the spacecraft back by the same force. It returns the number of
// projectiles spawned, which is zero while the weapon cools down or the
// spacecraft is destructing.
func (w *Weapon) Fire() int {
	if !w.craft.alive || !w.Ready() {
		return 0
	}
	w.cooldown = 0

	rt := w.craft.rt
	body := w.craft.body
	scale := body.Scale()
	slotPos, orient := w.worldTransform()
	dir := orient.Column(1)
	burst := rt.Rules.ProjectileBurstLengthMs

	for i := range w.class.Barrels {
		barrel := &w.class.Barrels[i]
		pc := barrel.Projectile()
		pos := slotPos.Add(orient.MulVec(barrel.Position.Scale(scale)))

		if flash := pc.MuzzleFlashClass(); flash != nil && rt.Scene != nil {
			rt.Scene.SpawnEffect(scene.MuzzleFlash, flash.Name, pos, dir, flash.DurationMs)
		}

		p := rt.Projectiles.acquire()
		p.launch(rt, pc, w.craft.handle, pos, orient, body.Velocity(), physics.Force{
			Magnitude: barrel.Force,
			Direction: dir,
			LeftMs:    burst,
		})

		body.AddForceAndTorque(pos.Sub(body.Position()), dir.Neg(), barrel.Force, burst)

		rt.Metrics.ProjectileFired(rt.Ctx, pc.Name)
		rt.Events.Publish(event.NewSpacecraftEvent(event.ProjectileFired, p, w.craft.ID(), pc.Name))
	}
	return len(w.class.Barrels)
}

func (w *Weapon) release() {
	if w.node != nil {
		w.node.MarkReusable()
	}
}
