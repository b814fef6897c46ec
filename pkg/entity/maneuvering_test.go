package entity

import (
	"math"
	"testing"

	"github.com/opd-ai/go-armada/pkg/physics"
)

const epsilon = 1e-9

func TestFlightMode_Cycle(t *testing.T) {
	rt, _, reg := newTestRuntime(t)
	s := spawn(t, rt, reg, "falcon", physics.Vector3D{}, true)

	want := []FlightMode{Compensated, Restricted, Free, Compensated}
	for i, mode := range want {
		if got := s.ChangeFlightMode(); got != mode {
			t.Errorf("ChangeFlightMode() #%d = %v, want %v", i+1, got, mode)
		}
	}
}

func TestManeuveringComputer_EnteringCompensatedHoldsSpeed(t *testing.T) {
	rt, _, reg := newTestRuntime(t)
	s := spawn(t, rt, reg, "falcon", physics.Vector3D{}, true)
	s.Body().SetVelocity(physics.Vector3D{Y: 30})

	m := s.Maneuvering()
	m.SetFlightMode(Compensated)
	if m.SpeedTarget() != 30 {
		t.Errorf("SpeedTarget() = %v, want 30", m.SpeedTarget())
	}
}

func TestManeuveringComputer_DerivedConstants(t *testing.T) {
	rt, _, reg := newTestRuntime(t)
	bare := spawn(t, rt, reg, "falcon", physics.Vector3D{}, false)
	equipped := spawn(t, rt, reg, "falcon", physics.Vector3D{X: 100}, true)

	tests := []struct {
		name          string
		craft         *Spacecraft
		wantIncrement float64
		wantLimit     float64
	}{
		// 50 m/s² over the default 20 ms step
		{"without propulsion", bare, 1, defaultTurningLimit},
		// 50000 N / 1000 kg, 20000 / 1000 × 0.2 s in rad/5ms
		{"light propulsion", equipped, 1, 0.02},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.craft.Maneuvering()
			if math.Abs(m.SpeedIncrement()-tt.wantIncrement) > epsilon {
				t.Errorf("SpeedIncrement() = %v, want %v", m.SpeedIncrement(), tt.wantIncrement)
			}
			if math.Abs(m.TurningLimit()-tt.wantLimit) > epsilon {
				t.Errorf("TurningLimit() = %v, want %v", m.TurningLimit(), tt.wantLimit)
			}
		})
	}
}

func TestManeuveringComputer_ForwardScenario(t *testing.T) {
	rt, _, reg := newTestRuntime(t)
	s := spawn(t, rt, reg, "falcon", physics.Vector3D{}, true)
	m := s.Maneuvering()
	m.SetFlightMode(Compensated)

	const dt = 50.0
	maxAcceleration := s.Propulsion().Thrust() / s.Body().Mass()
	previous := m.SpeedTarget()
	for tick := 1; tick <= 20; tick++ {
		m.Forward(FullIntensity)
		target := m.SpeedTarget()
		if target <= previous {
			t.Fatalf("tick %d: SpeedTarget() = %v, not above %v", tick, target, previous)
		}
		if limit := maxAcceleration * float64(tick) * dt / 1000; target > limit+epsilon {
			t.Fatalf("tick %d: SpeedTarget() = %v, exceeds %v", tick, target, limit)
		}
		previous = target
		s.Simulate(dt)
	}
	if v := s.Body().RelativeVelocity().Y; v <= 0 {
		t.Errorf("forward speed = %v, want > 0", v)
	}
}

func TestManeuveringComputer_ForwardIntensity(t *testing.T) {
	rt, _, reg := newTestRuntime(t)
	s := spawn(t, rt, reg, "falcon", physics.Vector3D{}, true)
	m := s.Maneuvering()
	m.SetFlightMode(Compensated)

	m.Forward(0.25)
	if m.SpeedTarget() != 0.25 {
		t.Errorf("SpeedTarget() = %v, want 0.25", m.SpeedTarget())
	}
	m.Reverse(FullIntensity)
	if want := 0.25 - m.SpeedIncrement(); math.Abs(m.SpeedTarget()-want) > epsilon {
		t.Errorf("SpeedTarget() = %v, want %v", m.SpeedTarget(), want)
	}
	m.ResetSpeed()
	if m.SpeedTarget() != 0 {
		t.Errorf("SpeedTarget() after ResetSpeed = %v, want 0", m.SpeedTarget())
	}
}

func TestManeuveringComputer_FreeModeForward(t *testing.T) {
	rt, _, reg := newTestRuntime(t)
	s := spawn(t, rt, reg, "falcon", physics.Vector3D{}, true)
	m := s.Maneuvering()

	m.Forward(FullIntensity)
	if m.SpeedTarget() != math.MaxFloat64 {
		t.Fatalf("SpeedTarget() = %v, want max", m.SpeedTarget())
	}
	s.Simulate(20)
	if burn := s.Propulsion().Burn(Forward); burn != maxBurnRequest {
		t.Errorf("Burn(Forward) = %v, want %v", burn, maxBurnRequest)
	}

	m.StopForward()
	if want := s.Body().RelativeVelocity().Y; m.SpeedTarget() != want {
		t.Errorf("SpeedTarget() after StopForward = %v, want %v", m.SpeedTarget(), want)
	}
	m.Reverse(FullIntensity)
	m.StopReverse()
	if want := s.Body().RelativeVelocity().Y; m.SpeedTarget() != want {
		t.Errorf("SpeedTarget() after StopReverse = %v, want %v", m.SpeedTarget(), want)
	}
}

func TestManeuveringComputer_TurnCommands(t *testing.T) {
	rt, _, reg := newTestRuntime(t)
	s := spawn(t, rt, reg, "falcon", physics.Vector3D{}, true)
	m := s.Maneuvering()
	limit := m.TurningLimit()

	tests := []struct {
		name     string
		commands func()
		wantYaw  float64
	}{
		{"full intensity", func() { m.YawLeft(FullIntensity) }, limit},
		{"capped intensity", func() { m.YawRight(limit / 2) }, -limit / 2},
		{"zero cancels same direction", func() { m.YawLeft(FullIntensity); m.YawLeft(0) }, 0},
		{"zero keeps other direction", func() { m.YawLeft(FullIntensity); m.YawRight(0) }, limit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.yawTarget = 0
			tt.commands()
			if yaw, _, _ := m.Targets(); math.Abs(yaw-tt.wantYaw) > epsilon {
				t.Errorf("yaw target = %v, want %v", yaw, tt.wantYaw)
			}
		})
	}
}

func TestManeuveringComputer_RestrictedTurning(t *testing.T) {
	rt, _, reg := newTestRuntime(t)
	s := spawn(t, rt, reg, "falcon", physics.Vector3D{}, true)
	m := s.Maneuvering()
	m.SetFlightMode(Restricted)

	m.PitchUp(FullIntensity)
	if _, pitch, _ := m.Targets(); pitch != m.TurningLimit() {
		t.Errorf("pitch target at rest = %v, want %v", pitch, m.TurningLimit())
	}

	s.Body().SetVelocity(physics.Vector3D{Y: 100})
	m.PitchUp(FullIntensity)
	m.RollLeft(FullIntensity)
	// 50000 N / (1000 kg × 100 m/s) in rad/5ms
	want := 0.5 / 200
	yaw, pitch, roll := m.Targets()
	if math.Abs(pitch-want) > epsilon {
		t.Errorf("pitch target = %v, want %v", pitch, want)
	}
	if roll != -m.TurningLimit() {
		t.Errorf("roll target = %v, want %v", roll, -m.TurningLimit())
	}
	if yaw != 0 {
		t.Errorf("yaw target = %v, want 0", yaw)
	}
}

func TestControlThrusters_BurnNeverExceedsHalf(t *testing.T) {
	rt, _, reg := newTestRuntime(t)
	s := spawn(t, rt, reg, "falcon", physics.Vector3D{}, true)
	m := s.Maneuvering()
	m.SetFlightMode(Compensated)
	s.Body().SetVelocity(physics.Vector3D{X: -40, Y: 500, Z: 3})
	s.Body().SetAngularVelocity(physics.Vector3D{X: 2, Y: -3, Z: 1})

	for i := 0; i < 10; i++ {
		m.Forward(FullIntensity)
		m.YawRight(FullIntensity)
		m.PitchUp(FullIntensity)
		m.RollLeft(FullIntensity)
		m.StrafeRight(FullIntensity)
		m.Lower(FullIntensity)
		m.ControlThrusters()

		for a := Axis(0); a < axisCount; a++ {
			if burn := s.Propulsion().Burn(a); burn > maxBurnRequest {
				t.Fatalf("Burn(%v) = %v, exceeds %v", a, burn, maxBurnRequest)
			}
		}
	}
}

func TestControlThrusters_ConsumesTargets(t *testing.T) {
	rt, _, reg := newTestRuntime(t)
	s := spawn(t, rt, reg, "falcon", physics.Vector3D{}, true)
	m := s.Maneuvering()
	m.SetFlightMode(Compensated)

	m.Forward(FullIntensity)
	m.YawLeft(FullIntensity)
	m.PitchDown(FullIntensity)
	m.RollRight(FullIntensity)
	m.StrafeLeft(FullIntensity)
	m.Raise(FullIntensity)
	speed := m.SpeedTarget()
	m.ControlThrusters()

	p := s.Propulsion()
	for _, a := range []Axis{Forward, YawLeft, PitchDown, RollRight, StrafeLeft, Raise} {
		if p.Burn(a) <= 0 {
			t.Errorf("Burn(%v) = 0, want > 0", a)
		}
	}
	yaw, pitch, roll := m.Targets()
	target, strafe, lift := m.LinearTargets()
	if yaw != 0 || pitch != 0 || roll != 0 || strafe != 0 || lift != 0 {
		t.Errorf("targets after ControlThrusters = %v %v %v %v %v, want all 0", yaw, pitch, roll, strafe, lift)
	}
	if target != speed {
		t.Errorf("SpeedTarget() = %v, want held %v", target, speed)
	}
}

func TestControlThrusters_DriftCompensation(t *testing.T) {
	tests := []struct {
		name     string
		mode     FlightMode
		wantBurn bool
	}{
		{"free mode drifts", Free, false},
		{"compensated mode corrects", Compensated, true},
		{"restricted mode corrects", Restricted, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, _, reg := newTestRuntime(t)
			s := spawn(t, rt, reg, "falcon", physics.Vector3D{}, true)
			m := s.Maneuvering()
			m.SetFlightMode(tt.mode)
			s.Body().SetVelocity(physics.Vector3D{X: 5})
			m.ControlThrusters()

			burn := s.Propulsion().Burn(StrafeLeft)
			if (burn > 0) != tt.wantBurn {
				t.Errorf("Burn(StrafeLeft) = %v, want burn %v", burn, tt.wantBurn)
			}
			if s.Propulsion().Burn(StrafeRight) != 0 {
				t.Errorf("Burn(StrafeRight) = %v, want 0", s.Propulsion().Burn(StrafeRight))
			}
		})
	}
}

func TestControlThrusters_BelowThreshold(t *testing.T) {
	rt, _, reg := newTestRuntime(t)
	s := spawn(t, rt, reg, "falcon", physics.Vector3D{}, true)
	m := s.Maneuvering()
	m.SetFlightMode(Compensated)
	s.Body().SetVelocity(physics.Vector3D{X: 0.005, Y: -0.005})
	s.Body().SetAngularVelocity(physics.Vector3D{Z: 0.001})

	m.ControlThrusters()
	for a := Axis(0); a < axisCount; a++ {
		if burn := s.Propulsion().Burn(a); burn != 0 {
			t.Errorf("Burn(%v) = %v, want 0", a, burn)
		}
	}
}

func TestControlThrusters_PanicsWithoutPropulsion(t *testing.T) {
	rt, _, reg := newTestRuntime(t)
	s := spawn(t, rt, reg, "falcon", physics.Vector3D{}, false)

	defer func() {
		if recover() == nil {
			t.Error("ControlThrusters() did not panic")
		}
	}()
	s.Maneuvering().ControlThrusters()
}

func TestNewManeuveringComputer_PanicsWithoutSpacecraft(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewManeuveringComputer(nil) did not panic")
		}
	}()
	NewManeuveringComputer(nil)
}
