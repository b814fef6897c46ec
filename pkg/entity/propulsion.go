package entity

import (
	"math"

	"github.com/opd-ai/go-armada/pkg/class"
	"github.com/opd-ai/go-armada/pkg/physics"
	"github.com/opd-ai/go-armada/pkg/scene"
)

// Axis is a maneuvering axis a thruster can fire for.
type Axis int

const (
	Forward Axis = iota
	Reverse
	StrafeLeft
	StrafeRight
	Raise
	Lower
	YawLeft
	YawRight
	PitchUp
	PitchDown
	RollLeft
	RollRight
	axisCount
)

// AxisCount is the number of maneuvering axes.
const AxisCount = int(axisCount)

// axisNames match the thruster slot uses of class definitions.
var axisNames = [axisCount]string{
	Forward:     "forward",
	Reverse:     "reverse",
	StrafeLeft:  "strafeLeft",
	StrafeRight: "strafeRight",
	Raise:       "raise",
	Lower:       "lower",
	YawLeft:     "yawLeft",
	YawRight:    "yawRight",
	PitchUp:     "pitchUp",
	PitchDown:   "pitchDown",
	RollLeft:    "rollLeft",
	RollRight:   "rollRight",
}

// String returns the axis name used in class definitions.
func (a Axis) String() string {
	if a < 0 || a >= axisCount {
		return "unknown"
	}
	return axisNames[a]
}

// ParseAxis converts a thruster use name to an Axis.
func ParseAxis(name string) (Axis, bool) {
	for a, n := range axisNames {
		if n == name {
			return Axis(a), true
		}
	}
	return 0, false
}

// axisPair couples the two opposite axes driven by one force or torque.
type axisPair struct {
	name     string
	positive Axis
	negative Axis
	torque   bool
	// direction returns the world-space direction of the positive axis.
	direction func(b *physics.Body) physics.Vector3D
}

// Positive yaw turns left around model Z, positive pitch raises the nose
// around model X and positive roll banks right around model Y.
var axisPairs = [...]axisPair{
	{"linearY", Forward, Reverse, false, (*physics.Body).Direction},
	{"linearX", StrafeRight, StrafeLeft, false, (*physics.Body).Right},
	{"linearZ", Raise, Lower, false, (*physics.Body).Up},
	{"yaw", YawLeft, YawRight, true, (*physics.Body).Up},
	{"pitch", PitchUp, PitchDown, true, (*physics.Body).Right},
	{"roll", RollRight, RollLeft, true, (*physics.Body).Direction},
}

// Thruster is one visual nozzle. Its burn level is the sum of the burn of the
// axes it is assigned to.
type Thruster struct {
	slot class.ThrusterSlot
	node scene.Node
	burn float64
}

// Burn returns the visual burn level in [0, 1].
func (t *Thruster) Burn() float64 { return t.burn }

// axisChannel is the burn level of one axis and the thrusters firing for it.
type axisChannel struct {
	burn      float64
	thrusters []*Thruster
}

// Propulsion turns per-axis burn levels into forces and torques on the
// spacecraft body.
type Propulsion struct {
	class     *class.PropulsionClass
	body      *physics.Body
	channels  [axisCount]axisChannel
	thrusters []*Thruster
}

// newPropulsion creates a propulsion system driving body and assigns a
// thruster to every axis its slot lists.
func newPropulsion(c *class.PropulsionClass, body *physics.Body, slots []class.ThrusterSlot, scn scene.Scene) *Propulsion {
	p := &Propulsion{class: c, body: body}
	for _, slot := range slots {
		t := &Thruster{slot: slot}
		if scn != nil && c.Particle != "" {
			t.node = scn.AddObject(c.Particle, body.Position(), body.Orientation(), slot.Size)
		}
		p.thrusters = append(p.thrusters, t)
		for _, use := range slot.Uses {
			if a, ok := ParseAxis(use); ok {
				p.channels[a].thrusters = append(p.channels[a].thrusters, t)
			}
		}
	}
	return p
}

// Class returns the propulsion class
func (p *Propulsion) Class() *class.PropulsionClass { return p.class }

// Thrust returns the class thrust in newtons.
func (p *Propulsion) Thrust() float64 { return p.class.Thrust }

// AngularThrust returns the class angular thrust.
func (p *Propulsion) AngularThrust() float64 { return p.class.AngularThrust }

// Burn returns the accumulated burn level of an axis.
func (p *Propulsion) Burn(a Axis) float64 { return p.channels[a].burn }

// Thrusters returns the thrusters assigned to an axis.
func (p *Propulsion) Thrusters(a Axis) []*Thruster { return p.channels[a].thrusters }

// AddThrusterBurn accumulates burn on an axis and on its thrusters. Levels
// are kept within [0, 1].
func (p *Propulsion) AddThrusterBurn(a Axis, value float64) {
	ch := &p.channels[a]
	ch.burn = clamp01(ch.burn + value)
	for _, t := range ch.thrusters {
		t.burn = clamp01(t.burn + value)
	}
}

// ResetThrusterBurn zeroes every axis and every thruster.
func (p *Propulsion) ResetThrusterBurn() {
	for i := range p.channels {
		p.channels[i].burn = 0
	}
	for _, t := range p.thrusters {
		t.burn = 0
	}
}

// Simulate renews the force or torque of every axis pair for one burst.
// Magnitudes are twice the class thrust times the burn level, since a
// single request never exceeds half of the burn budget. A pair without burn
// is renewed with zero magnitude so an old burst stops with the decision
// that started it.
func (p *Propulsion) Simulate(burstLengthMs float64) {
	for _, pair := range axisPairs {
		net := p.channels[pair.positive].burn - p.channels[pair.negative].burn
		dir := pair.direction(p.body)
		if net < 0 {
			dir = dir.Neg()
		}
		if pair.torque {
			p.body.AddOrRenewTorque(pair.name, 2*p.class.AngularThrust*math.Abs(net), dir, burstLengthMs)
		} else {
			p.body.AddOrRenewForce(pair.name, 2*p.class.Thrust*math.Abs(net), dir, burstLengthMs)
		}
	}
}

// syncVisuals moves thruster nodes with the body.
func (p *Propulsion) syncVisuals(scale float64) {
	for _, t := range p.thrusters {
		if t.node == nil {
			continue
		}
		t.node.SetPosition(p.body.Position().Add(p.body.LocalToWorld(t.slot.Position.Scale(scale))))
		t.node.SetOrientation(p.body.Orientation())
	}
}

func (p *Propulsion) release() {
	for _, t := range p.thrusters {
		if t.node != nil {
			t.node.MarkReusable()
		}
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
