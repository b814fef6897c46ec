// pkg/ai/fighter.go
package ai

import (
	"math"

	"github.com/opd-ai/go-armada/pkg/entity"
	"github.com/opd-ai/go-armada/pkg/physics"
)

// Default tuning of a Fighter
const (
	DefaultCruiseSpeed   = 100.0 // m/s
	DefaultStandoffRange = 150.0 // m
	DefaultFireRange     = 1500.0
	DefaultFireCone      = 0.1 // rad off the nose
	DefaultTurnGain      = 0.05
	aimDeadband          = 0.001
)

// Fighter flies one spacecraft against the other spacecraft of its level
// through the same commands a pilot uses. It implements engine.Controller.
type Fighter struct {
	craft *entity.Spacecraft

	CruiseSpeed   float64
	StandoffRange float64
	FireRange     float64
	FireCone      float64
	TurnGain      float64 // turn intensity per radian of aiming error

	Fired int // projectiles fired so far
}

// NewFighter creates a Fighter with the default tuning.
func NewFighter(craft *entity.Spacecraft) *Fighter {
	return &Fighter{
		craft:         craft,
		CruiseSpeed:   DefaultCruiseSpeed,
		StandoffRange: DefaultStandoffRange,
		FireRange:     DefaultFireRange,
		FireCone:      DefaultFireCone,
		TurnGain:      DefaultTurnGain,
	}
}

// Craft returns the controlled spacecraft.
func (f *Fighter) Craft() *entity.Spacecraft {
	return f.craft
}

// Control issues the commands for the next tick. It returns false once the
// spacecraft has been destroyed.
func (f *Fighter) Control() bool {
	if f.craft == nil || !f.craft.IsAlive() {
		return false
	}
	m := f.craft.Maneuvering()
	m.SetFlightMode(entity.Compensated)

	target := f.craft.Target()
	if target == nil || !target.IsAlive() {
		target = f.acquire()
	}
	if target == nil {
		f.holdSpeed(0)
		return true
	}

	local := f.craft.Body().WorldToLocal(target.Position().Sub(f.craft.Position()))
	distance := local.Length()
	f.aim(local)

	if distance > f.StandoffRange {
		f.holdSpeed(f.CruiseSpeed)
	} else {
		f.holdSpeed(0)
	}

	if distance <= f.FireRange && offBoresight(local) <= f.FireCone {
		f.Fired += f.craft.Fire()
	}
	return true
}

// acquire cycles the targets of the craft until a functioning one comes up.
// It returns nil when only wrecks remain.
func (f *Fighter) acquire() *entity.Spacecraft {
	first := f.craft.TargetNext()
	for t := first; t != nil; {
		if t.IsAlive() {
			return t
		}
		if t = f.craft.TargetNext(); t == first {
			break
		}
	}
	return nil
}

// aim turns the nose toward a point given in model space.
func (f *Fighter) aim(local physics.Vector3D) {
	m := f.craft.Maneuvering()

	// yaw turns toward -X, pitch toward +Z
	yawError := math.Atan2(-local.X, local.Y)
	pitchError := math.Atan2(local.Z, math.Hypot(local.X, local.Y))

	switch {
	case yawError > aimDeadband:
		m.YawLeft(yawError * f.TurnGain)
	case yawError < -aimDeadband:
		m.YawRight(-yawError * f.TurnGain)
	}
	switch {
	case pitchError > aimDeadband:
		m.PitchUp(pitchError * f.TurnGain)
	case pitchError < -aimDeadband:
		m.PitchDown(-pitchError * f.TurnGain)
	}
}

// holdSpeed moves the speed target toward speed by at most one increment.
func (f *Fighter) holdSpeed(speed float64) {
	m := f.craft.Maneuvering()
	switch current := m.SpeedTarget(); {
	case current < speed:
		m.Forward(speed - current)
	case current > speed:
		m.Reverse(current - speed)
	}
}

// offBoresight returns the angle between the nose and a model space point.
func offBoresight(local physics.Vector3D) float64 {
	if local.IsZero() {
		return 0
	}
	return math.Acos(math.Max(-1, math.Min(1, local.Y/local.Length())))
}
