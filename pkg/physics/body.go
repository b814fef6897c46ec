package physics

import "math"

// Force is a force or torque applied to a body for a limited time. Forces
// with a non-empty name can be renewed.
type Force struct {
	Name      string
	Magnitude float64
	Direction Vector3D // unit vector in world space
	LeftMs    float64
}

// Vector returns the force vector.
func (f Force) Vector() Vector3D {
	return f.Direction.Scale(f.Magnitude)
}

// Body is a rigid body simulated with timed forces and torques. Angular
// acceleration is torque divided by mass.
type Body struct {
	mass            float64
	position        Vector3D
	orientation     Mat3
	scale           float64
	velocity        Vector3D // m/s, world space
	angularVelocity Vector3D // rad/s, world space
	halfExtents     Vector3D // hit box in model space
	forces          []Force
	torques         []Force
}

// NewBody creates a body at rest.
func NewBody(mass float64, position Vector3D, orientation Mat3, scale float64, halfExtents Vector3D) *Body {
	if scale == 0 {
		scale = 1
	}
	return &Body{
		mass:        mass,
		position:    position,
		orientation: orientation,
		scale:       scale,
		halfExtents: halfExtents,
	}
}

// Reset re-initializes a pooled body.
func (b *Body) Reset(mass float64, position Vector3D, orientation Mat3, scale float64, halfExtents Vector3D) {
	*b = Body{
		mass:        mass,
		position:    position,
		orientation: orientation,
		scale:       scale,
		halfExtents: halfExtents,
		forces:      b.forces[:0],
		torques:     b.torques[:0],
	}
	if b.scale == 0 {
		b.scale = 1
	}
}

func (b *Body) Mass() float64 { return b.mass }
func (b *Body) Position() Vector3D { return b.position }
func (b *Body) Orientation() Mat3 { return b.orientation }
func (b *Body) Scale() float64 { return b.scale }
func (b *Body) Velocity() Vector3D { return b.velocity }
func (b *Body) AngularVelocity() Vector3D { return b.angularVelocity }
func (b *Body) SetVelocity(v Vector3D) { b.velocity = v }
func (b *Body) SetAngularVelocity(w Vector3D) { b.angularVelocity = w }
func (b *Body) SetPosition(p Vector3D) { b.position = p }
func (b *Body) SetOrientation(m Mat3) { b.orientation = m }

// Direction returns the forward (model Y) axis in world space.
func (b *Body) Direction() Vector3D { return b.orientation.Column(1) }

// Right returns the model X axis in world space.
func (b *Body) Right() Vector3D { return b.orientation.Column(0) }

// Up returns the model Z axis in world space.
func (b *Body) Up() Vector3D { return b.orientation.Column(2) }

// LocalToWorld rotates a model-space direction into world space.
func (b *Body) LocalToWorld(v Vector3D) Vector3D {
	return b.orientation.MulVec(v)
}

// WorldToLocal rotates a world-space direction into model space.
func (b *Body) WorldToLocal(v Vector3D) Vector3D {
	return b.orientation.Transpose().MulVec(v)
}

// RelativeVelocity returns the velocity expressed along the model axes.
func (b *Body) RelativeVelocity() Vector3D {
	return b.WorldToLocal(b.velocity)
}

// RelativeAngularVelocity returns the angular velocity (rad/s) around the
// model axes.
func (b *Body) RelativeAngularVelocity() Vector3D {
	return b.WorldToLocal(b.angularVelocity)
}

// AddForce adds an unnamed force for its duration.
func (b *Body) AddForce(f Force) {
	b.forces = append(b.forces, f)
}

// AddOrRenewForce adds a named force or, when one with the same name is still
// active, replaces its magnitude and direction and restarts its duration.
func (b *Body) AddOrRenewForce(name string, magnitude float64, direction Vector3D, durationMs float64) {
	b.forces = addOrRenew(b.forces, name, magnitude, direction, durationMs)
}

// AddOrRenewTorque is AddOrRenewForce for torques. The axis is in world space.
func (b *Body) AddOrRenewTorque(name string, magnitude float64, axis Vector3D, durationMs float64) {
	b.torques = addOrRenew(b.torques, name, magnitude, axis, durationMs)
}

func addOrRenew(list []Force, name string, magnitude float64, direction Vector3D, durationMs float64) []Force {
	for i := range list {
		if list[i].Name == name {
			list[i].Magnitude = magnitude
			list[i].Direction = direction
			list[i].LeftMs = durationMs
			return list
		}
	}
	return append(list, Force{Name: name, Magnitude: magnitude, Direction: direction, LeftMs: durationMs})
}

// AddForceAndTorque applies a force at a point given relative to the center of
// mass (world space). The off-center component produces a torque.
func (b *Body) AddForceAndTorque(relativePosition, direction Vector3D, magnitude, durationMs float64) {
	b.AddForce(Force{Magnitude: magnitude, Direction: direction, LeftMs: durationMs})
	torque := relativePosition.Cross(direction.Scale(magnitude))
	if length := torque.Length(); length > 0 {
		b.torques = append(b.torques, Force{Magnitude: length, Direction: torque.Scale(1 / length), LeftMs: durationMs})
	}
}

// ActiveForces returns the number of active forces and torques.
func (b *Body) ActiveForces() (forces, torques int) {
	return len(b.forces), len(b.torques)
}

// Simulate integrates the body over dt milliseconds.
func (b *Body) Simulate(dt float64) {
	if dt <= 0 {
		return
	}
	var impulse, angularImpulse Vector3D
	impulse, b.forces = consume(b.forces, dt)
	angularImpulse, b.torques = consume(b.torques, dt)
	if b.mass > 0 {
		b.velocity = b.velocity.Add(impulse.Scale(1 / b.mass))
		b.angularVelocity = b.angularVelocity.Add(angularImpulse.Scale(1 / b.mass))
	}
	seconds := dt / 1000
	b.position = b.position.Add(b.velocity.Scale(seconds))
	if rate := b.angularVelocity.Length(); rate > 0 {
		rotation := AxisAngle(b.angularVelocity.Scale(1/rate), rate*seconds)
		b.orientation = rotation.Mul(b.orientation).Orthonormalize()
	}
}

// consume sums force × active seconds and drops expired forces in place.
func consume(list []Force, dt float64) (Vector3D, []Force) {
	var sum Vector3D
	kept := list[:0]
	for _, f := range list {
		active := math.Min(dt, f.LeftMs)
		sum = sum.Add(f.Vector().Scale(active / 1000))
		f.LeftMs -= dt
		if f.LeftMs > 0 {
			kept = append(kept, f)
		}
	}
	return sum, kept
}

// ModelPosition converts a world-space point into unscaled model space.
func (b *Body) ModelPosition(point Vector3D) Vector3D {
	return b.WorldToLocal(point.Sub(b.position)).Scale(1 / b.scale)
}

// CheckHit reports whether a world-space point lies inside the hit box.
func (b *Body) CheckHit(point Vector3D) bool {
	local := b.ModelPosition(point)
	return math.Abs(local.X) <= b.halfExtents.X &&
		math.Abs(local.Y) <= b.halfExtents.Y &&
		math.Abs(local.Z) <= b.halfExtents.Z
}
