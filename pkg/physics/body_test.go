// pkg/physics/body_test.go
package physics

import (
	"math"
	"testing"
)

func TestBody_ForceAppliedForItsDuration(t *testing.T) {
	b := NewBody(10, Vector3D{}, Identity(), 1, Vector3D{X: 1, Y: 1, Z: 1})
	// 100 N for 50 ms on 10 kg: 0.5 m/s
	b.AddForce(Force{Magnitude: 100, Direction: UnitY, LeftMs: 50})

	b.Simulate(20)
	if !vectorsEqual(b.Velocity(), Vector3D{Y: 0.2}) {
		t.Errorf("Velocity() after 20 ms = %v, expected (0, 0.2, 0)", b.Velocity())
	}
	b.Simulate(20)
	b.Simulate(20) // only 10 ms of the force left
	if !vectorsEqual(b.Velocity(), Vector3D{Y: 0.5}) {
		t.Errorf("Velocity() after 60 ms = %v, expected (0, 0.5, 0)", b.Velocity())
	}
	if forces, torques := b.ActiveForces(); forces != 0 || torques != 0 {
		t.Errorf("ActiveForces() = %d, %d, expected 0, 0", forces, torques)
	}
	b.Simulate(1000)
	if math.Abs(b.Position().Y-(0.2*0.02+0.4*0.02+0.5*0.02+0.5)) > epsilon {
		t.Errorf("Position().Y = %v", b.Position().Y)
	}
}

func TestBody_RenewReplacesNamedForce(t *testing.T) {
	b := NewBody(1, Vector3D{}, Identity(), 1, Vector3D{})
	b.AddOrRenewForce("thrust", 10, UnitX, 50)
	b.Simulate(40)
	b.AddOrRenewForce("thrust", 20, UnitY, 50)

	if forces, _ := b.ActiveForces(); forces != 1 {
		t.Fatalf("ActiveForces() = %d, expected 1", forces)
	}
	b.Simulate(50)
	// 10 N × 40 ms on X, then 20 N × 50 ms on Y
	if !vectorsEqual(b.Velocity(), Vector3D{X: 0.4, Y: 1}) {
		t.Errorf("Velocity() = %v, expected (0.4, 1, 0)", b.Velocity())
	}
}

func TestBody_TorqueTurnsBody(t *testing.T) {
	b := NewBody(2, Vector3D{}, Identity(), 1, Vector3D{})
	// 4 N·m for 100 ms on 2 kg: 0.2 rad/s around Z
	b.AddOrRenewTorque("yaw", 4, UnitZ, 100)
	b.Simulate(100)

	if !vectorsEqual(b.AngularVelocity(), Vector3D{Z: 0.2}) {
		t.Fatalf("AngularVelocity() = %v, expected (0, 0, 0.2)", b.AngularVelocity())
	}
	b.Simulate(1000)
	// 0.2 rad/s for 1.1 s
	want := RotationZ(0.22).Column(1)
	if !vectorsEqual(b.Direction(), want) {
		t.Errorf("Direction() = %v, expected %v", b.Direction(), want)
	}
	if !vectorsEqual(b.RelativeAngularVelocity(), Vector3D{Z: 0.2}) {
		t.Errorf("RelativeAngularVelocity() = %v, expected (0, 0, 0.2)", b.RelativeAngularVelocity())
	}
}

func TestBody_AddForceAndTorque(t *testing.T) {
	b := NewBody(1, Vector3D{}, Identity(), 1, Vector3D{})
	// pushing the right wing forward turns the body left
	b.AddForceAndTorque(Vector3D{X: 2}, UnitY, 5, 100)

	forces, torques := b.ActiveForces()
	if forces != 1 || torques != 1 {
		t.Fatalf("ActiveForces() = %d, %d, expected 1, 1", forces, torques)
	}
	b.Simulate(100)
	if b.AngularVelocity().Z <= 0 {
		t.Errorf("AngularVelocity() = %v, expected positive yaw", b.AngularVelocity())
	}

	centered := NewBody(1, Vector3D{}, Identity(), 1, Vector3D{})
	centered.AddForceAndTorque(Vector3D{Y: 3}, UnitY, 5, 100)
	if _, torques := centered.ActiveForces(); torques != 0 {
		t.Errorf("force through the center produced %d torques", torques)
	}
}

func TestBody_FrameConversions(t *testing.T) {
	b := NewBody(1, Vector3D{X: 10}, RotationZ(math.Pi/2), 2, Vector3D{X: 1, Y: 2, Z: 1})
	b.SetVelocity(Vector3D{X: -3})

	if !vectorsEqual(b.RelativeVelocity(), Vector3D{Y: 3}) {
		t.Errorf("RelativeVelocity() = %v, expected forward 3", b.RelativeVelocity())
	}
	if !vectorsEqual(b.Right(), UnitY) || !vectorsEqual(b.Up(), UnitZ) {
		t.Errorf("Right() = %v, Up() = %v", b.Right(), b.Up())
	}
	if got := b.LocalToWorld(b.WorldToLocal(Vector3D{X: 1, Y: 2, Z: 3})); !vectorsEqual(got, Vector3D{X: 1, Y: 2, Z: 3}) {
		t.Errorf("LocalToWorld(WorldToLocal(v)) = %v", got)
	}
	// 4 m ahead of a body scaled by 2 is 2 model units forward
	if got := b.ModelPosition(Vector3D{X: 6}); !vectorsEqual(got, Vector3D{Y: 2}) {
		t.Errorf("ModelPosition() = %v, expected (0, 2, 0)", got)
	}
}

func TestBody_CheckHit(t *testing.T) {
	b := NewBody(1, Vector3D{Y: 100}, Identity(), 2, Vector3D{X: 1, Y: 2, Z: 0.5})

	tests := []struct {
		name     string
		point    Vector3D
		expected bool
	}{
		{"center", Vector3D{Y: 100}, true},
		{"inside scaled box", Vector3D{X: 1.9, Y: 103.9, Z: 0.9}, true},
		{"on the boundary", Vector3D{X: 2, Y: 104}, true},
		{"beyond forward extent", Vector3D{Y: 104.1}, false},
		{"beyond vertical extent", Vector3D{Y: 100, Z: 1.1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.CheckHit(tt.point); got != tt.expected {
				t.Errorf("CheckHit(%v) = %v, expected %v", tt.point, got, tt.expected)
			}
		})
	}
}

func TestBody_Reset(t *testing.T) {
	b := NewBody(1, Vector3D{}, Identity(), 1, Vector3D{})
	b.SetVelocity(Vector3D{X: 5})
	b.AddForce(Force{Magnitude: 1, Direction: UnitX, LeftMs: 100})

	b.Reset(3, Vector3D{Z: 1}, RotationX(1), 0, Vector3D{X: 1})
	if !b.Velocity().IsZero() || b.Mass() != 3 || b.Scale() != 1 {
		t.Errorf("Reset() left velocity %v, mass %v, scale %v", b.Velocity(), b.Mass(), b.Scale())
	}
	if forces, _ := b.ActiveForces(); forces != 0 {
		t.Errorf("Reset() kept %d forces", forces)
	}
}
