package entity

import (
	"math"
	"testing"

	"github.com/opd-ai/go-armada/pkg/physics"
)

func TestParseAxis(t *testing.T) {
	for a := Axis(0); a < axisCount; a++ {
		got, ok := ParseAxis(a.String())
		if !ok || got != a {
			t.Errorf("ParseAxis(%q) = %v, %v, want %v, true", a.String(), got, ok, a)
		}
	}
	if _, ok := ParseAxis("sideways"); ok {
		t.Error("ParseAxis(\"sideways\") succeeded")
	}
	if Axis(99).String() != "unknown" {
		t.Errorf("Axis(99).String() = %q, want unknown", Axis(99).String())
	}
}

func TestPropulsion_ThrusterAssignment(t *testing.T) {
	rt, _, reg := newTestRuntime(t)
	s := spawn(t, rt, reg, "falcon", physics.Vector3D{}, true)
	p := s.Propulsion()

	for a := Axis(0); a < axisCount; a++ {
		if len(p.Thrusters(a)) != 1 {
			t.Errorf("Thrusters(%v) = %d thrusters, want 1", a, len(p.Thrusters(a)))
		}
	}
	// strafeLeft and yawLeft share a nozzle
	if p.Thrusters(StrafeLeft)[0] != p.Thrusters(YawLeft)[0] {
		t.Error("StrafeLeft and YawLeft do not share their thruster")
	}
}

func TestPropulsion_AddAndResetBurn(t *testing.T) {
	rt, _, reg := newTestRuntime(t)
	s := spawn(t, rt, reg, "falcon", physics.Vector3D{}, true)
	p := s.Propulsion()

	p.AddThrusterBurn(StrafeLeft, 0.4)
	p.AddThrusterBurn(YawLeft, 0.4)
	if p.Burn(StrafeLeft) != 0.4 || p.Burn(YawLeft) != 0.4 {
		t.Errorf("Burn() = %v, %v, want 0.4, 0.4", p.Burn(StrafeLeft), p.Burn(YawLeft))
	}
	if got := p.Thrusters(YawLeft)[0].Burn(); math.Abs(got-0.8) > epsilon {
		t.Errorf("shared thruster Burn() = %v, want 0.8", got)
	}

	p.AddThrusterBurn(Forward, 0.7)
	p.AddThrusterBurn(Forward, 0.7)
	if p.Burn(Forward) != 1 {
		t.Errorf("Burn(Forward) = %v, want clamped to 1", p.Burn(Forward))
	}

	p.ResetThrusterBurn()
	for a := Axis(0); a < axisCount; a++ {
		if p.Burn(a) != 0 {
			t.Errorf("Burn(%v) = %v after reset, want 0", a, p.Burn(a))
		}
		for _, th := range p.Thrusters(a) {
			if th.Burn() != 0 {
				t.Errorf("thruster of %v burn = %v after reset, want 0", a, th.Burn())
			}
		}
	}
}

func TestPropulsion_SimulateForces(t *testing.T) {
	rt, _, reg := newTestRuntime(t)
	s := spawn(t, rt, reg, "falcon", physics.Vector3D{}, true)
	p := s.Propulsion()
	body := s.Body()

	p.AddThrusterBurn(Forward, 0.5)
	p.AddThrusterBurn(YawLeft, 0.25)
	p.Simulate(50)
	// renewing within the burst window must not stack
	p.Simulate(50)
	forces, torques := body.ActiveForces()
	if forces != 3 || torques != 3 {
		t.Errorf("ActiveForces() = %d, %d, want 3, 3", forces, torques)
	}

	body.Simulate(50)
	// 2 × 50000 N × 0.5 for 50 ms on 1000 kg
	if v := body.Velocity().Y; math.Abs(v-2.5) > epsilon {
		t.Errorf("forward speed = %v, want 2.5", v)
	}
	// 2 × 20000 × 0.25 / 1000 kg for 50 ms
	if w := body.AngularVelocity().Z; math.Abs(w-0.5) > epsilon {
		t.Errorf("yaw rate = %v, want 0.5", w)
	}
}

func TestPropulsion_OppositeAxisNetBurn(t *testing.T) {
	rt, _, reg := newTestRuntime(t)
	s := spawn(t, rt, reg, "falcon", physics.Vector3D{}, true)
	p := s.Propulsion()

	p.AddThrusterBurn(Reverse, 0.5)
	p.Simulate(50)
	s.Body().Simulate(50)
	if v := s.Body().RelativeVelocity().Y; math.Abs(v+2.5) > epsilon {
		t.Errorf("forward speed = %v, want -2.5", v)
	}
}
