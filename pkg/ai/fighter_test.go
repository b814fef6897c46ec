package ai

import (
	"math"
	"testing"

	"github.com/opd-ai/go-armada/pkg/class"
	"github.com/opd-ai/go-armada/pkg/config"
	"github.com/opd-ai/go-armada/pkg/engine"
	"github.com/opd-ai/go-armada/pkg/entity"
	"github.com/opd-ai/go-armada/pkg/logging"
	"github.com/opd-ai/go-armada/pkg/physics"
)

func newTestLevel(t *testing.T) *engine.Level {
	t.Helper()
	return engine.NewLevel(config.DefaultConfig(), class.DefaultRegistry(), nil, engine.WithLogger(logging.Discard()))
}

func add(t *testing.T, l *engine.Level, pos physics.Vector3D) *entity.Spacecraft {
	t.Helper()
	s, err := l.AddSpacecraft("falcon", pos, physics.Identity())
	if err != nil {
		t.Fatalf("AddSpacecraft() error = %v", err)
	}
	return s
}

func TestFighter_Aim(t *testing.T) {
	tests := []struct {
		name      string
		target    physics.Vector3D
		wantYaw   float64 // sign
		wantPitch float64
	}{
		{"left", physics.Vector3D{X: -500}, 1, 0},
		{"right", physics.Vector3D{X: 500, Y: 10}, -1, 0},
		{"above", physics.Vector3D{Y: 500, Z: 500}, 0, 1},
		{"below", physics.Vector3D{Y: 500, Z: -100}, 0, -1},
		{"dead ahead", physics.Vector3D{Y: 500}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLevel(t)
			s := add(t, l, physics.Vector3D{})
			add(t, l, tt.target)

			f := NewFighter(s)
			if !f.Control() {
				t.Fatal("Control() = false for a live craft")
			}
			yaw, pitch, _ := s.Maneuvering().Targets()
			if sign(yaw) != tt.wantYaw || sign(pitch) != tt.wantPitch {
				t.Errorf("Targets() yaw = %v, pitch = %v, want signs %v, %v", yaw, pitch, tt.wantYaw, tt.wantPitch)
			}
			if limit := s.Maneuvering().TurningLimit(); math.Abs(yaw) > limit || math.Abs(pitch) > limit {
				t.Errorf("turn targets exceed the turning limit %v", limit)
			}
		})
	}
}

func TestFighter_SelectsTargetAndMode(t *testing.T) {
	l := newTestLevel(t)
	s := add(t, l, physics.Vector3D{})
	other := add(t, l, physics.Vector3D{Y: 1000})

	NewFighter(s).Control()

	if s.Target() != other {
		t.Errorf("Target() = %v, want the other craft", s.Target())
	}
	if s.Maneuvering().FlightMode() != entity.Compensated {
		t.Errorf("FlightMode() = %v, want %v", s.Maneuvering().FlightMode(), entity.Compensated)
	}
	if s.Maneuvering().SpeedTarget() <= 0 {
		t.Errorf("SpeedTarget() = %v, want acceleration toward cruise speed", s.Maneuvering().SpeedTarget())
	}
}

func TestFighter_Fire(t *testing.T) {
	tests := []struct {
		name     string
		target   physics.Vector3D
		wantShot bool
	}{
		{"in cone and range", physics.Vector3D{Y: 200}, true},
		{"behind", physics.Vector3D{Y: -200}, false},
		{"out of range", physics.Vector3D{Y: 5000}, false},
		{"off the nose", physics.Vector3D{X: 100, Y: 200}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLevel(t)
			s := add(t, l, physics.Vector3D{})
			add(t, l, tt.target)

			f := NewFighter(s)
			f.Control()
			if got := len(l.Projectiles()) > 0; got != tt.wantShot {
				t.Errorf("fired = %v, want %v", got, tt.wantShot)
			}
			if tt.wantShot && f.Fired != 2 {
				t.Errorf("Fired = %d, want 2", f.Fired)
			}
		})
	}
}

func TestFighter_Alone(t *testing.T) {
	l := newTestLevel(t)
	s := add(t, l, physics.Vector3D{})
	f := NewFighter(s)

	if !f.Control() {
		t.Error("Control() = false without a target")
	}
	if s.Target() != nil || len(l.Projectiles()) != 0 {
		t.Error("lone fighter targeted or fired")
	}
}

func TestFighter_SkipsWrecks(t *testing.T) {
	l := newTestLevel(t)
	s := add(t, l, physics.Vector3D{})
	wreck := add(t, l, physics.Vector3D{Y: 200})
	wreck.Damage(wreck.MaxHitpoints(), physics.Vector3D{}, physics.UnitY)
	f := NewFighter(s)

	if !f.Control() {
		t.Fatal("Control() = false")
	}
	if got := s.Target(); got != wreck {
		t.Fatalf("Target() = %v, want the wreck while nothing else is left", got)
	}
	if len(l.Projectiles()) != 0 {
		t.Error("fighter fired at a wreck")
	}

	live := add(t, l, physics.Vector3D{X: 200})
	f.Control()
	if got := s.Target(); got != live {
		t.Errorf("Target() = %v, want the functioning spacecraft", got)
	}
}

func TestFighter_DoneAfterDestruction(t *testing.T) {
	l := newTestLevel(t)
	s := add(t, l, physics.Vector3D{})
	f := NewFighter(s)
	l.AddController(f)

	s.Damage(s.MaxHitpoints(), physics.Vector3D{}, physics.UnitY)
	if f.Control() {
		t.Error("Control() = true for a destroyed craft")
	}
}

func TestFighter_EngagesThroughLevel(t *testing.T) {
	l := newTestLevel(t)
	a := add(t, l, physics.Vector3D{})
	b := add(t, l, physics.Vector3D{X: -300, Y: 300})
	l.AddController(NewFighter(a))

	start := offBoresight(a.Body().WorldToLocal(b.Position().Sub(a.Position())))
	for i := 0; i < 50; i++ {
		l.Tick(20)
	}
	end := offBoresight(a.Body().WorldToLocal(b.Position().Sub(a.Position())))
	if end >= start {
		t.Errorf("off-boresight angle = %v after 1 s, want below %v", end, start)
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
