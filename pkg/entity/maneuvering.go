package entity

import (
	"math"
)

// FlightMode governs whether drift is compensated and whether turning is
// limited by the current speed.
type FlightMode int

const (
	// Free only fires thrusters for explicit commands. Drift is not corrected.
	Free FlightMode = iota
	// Compensated holds the speed target and cancels unwanted drift.
	Compensated
	// Restricted is Compensated with turn rates limited so the craft keeps
	// centripetal control at its current speed.
	Restricted
)

// nextFlightMode is the transition table used by ChangeFlightMode.
var nextFlightMode = map[FlightMode]FlightMode{
	Free:        Compensated,
	Compensated: Restricted,
	Restricted:  Free,
}

// String returns the mode name
func (m FlightMode) String() string {
	switch m {
	case Free:
		return "free"
	case Compensated:
		return "compensated"
	case Restricted:
		return "restricted"
	default:
		return "unknown"
	}
}

// FullIntensity requests the largest value a command allows.
const FullIntensity = math.MaxFloat64

const (
	// Angular targets are in radians per 5 ms.
	angularUnitsPerSecond = 200
	angularThreshold      = 0.00002
	linearThreshold       = 0.01
	// maxBurnRequest leaves room for the opposite axis of a pair.
	maxBurnRequest = 0.5

	// TurnAccelerationDurationS is the time full angular thrust needs to
	// reach the turning limit.
	TurnAccelerationDurationS = 0.2

	defaultSpeedIncrementPerSecond = 50
	defaultTurningLimit            = 0.01
	defaultStepMs                  = 20
)

// freeSpeedTarget is the sentinel speed target of free mode forward and
// reverse commands.
const freeSpeedTarget = math.MaxFloat64

// ManeuveringComputer turns pilot and AI commands into thruster burn
// requests. Strafe, lift and turn targets are consumed every tick by
// ControlThrusters, so callers re-issue them every tick to keep them.
// The speed target is held until changed.
type ManeuveringComputer struct {
	craft *Spacecraft
	mode  FlightMode

	yawTarget    float64 // rad/5ms, positive turns left
	pitchTarget  float64 // rad/5ms, positive raises the nose
	rollTarget   float64 // rad/5ms, positive banks right
	speedTarget  float64 // m/s along the forward axis
	strafeTarget float64 // m/s, positive is right
	liftTarget   float64 // m/s, positive is up

	speedIncrementPerSecond float64
	speedIncrement          float64
	turningLimit            float64
}

// NewManeuveringComputer creates the computer of a spacecraft in free mode.
func NewManeuveringComputer(craft *Spacecraft) *ManeuveringComputer {
	if craft == nil {
		panic("entity: maneuvering computer needs a spacecraft")
	}
	m := &ManeuveringComputer{craft: craft}
	m.UpdateForNewPropulsion()
	return m
}

// UpdateForNewPropulsion recomputes the constants derived from the
// propulsion class and the hull mass.
func (m *ManeuveringComputer) UpdateForNewPropulsion() {
	p := m.craft.propulsion
	mass := m.craft.body.Mass()
	if p == nil || mass <= 0 {
		m.speedIncrementPerSecond = defaultSpeedIncrementPerSecond
		m.turningLimit = defaultTurningLimit
	} else {
		m.speedIncrementPerSecond = p.Thrust() / mass
		m.turningLimit = p.AngularThrust() / mass * TurnAccelerationDurationS / angularUnitsPerSecond
	}
	m.speedIncrement = m.speedIncrementPerSecond * defaultStepMs / 1000
}

// UpdateSpeedIncrement scales the per-command speed step to the last tick.
func (m *ManeuveringComputer) UpdateSpeedIncrement(dt float64) {
	m.speedIncrement = dt * m.speedIncrementPerSecond / 1000
}

// FlightMode returns the current flight mode.
func (m *ManeuveringComputer) FlightMode() FlightMode { return m.mode }

// SpeedTarget returns the held forward speed target in m/s. In free mode
// forward and reverse commands set it to ±math.MaxFloat64.
func (m *ManeuveringComputer) SpeedTarget() float64 { return m.speedTarget }

// SpeedIncrement returns the speed added by one compensated forward command.
func (m *ManeuveringComputer) SpeedIncrement() float64 { return m.speedIncrement }

// TurningLimit returns the largest turn target in rad/5ms.
func (m *ManeuveringComputer) TurningLimit() float64 { return m.turningLimit }

// Targets returns the pending yaw, pitch and roll targets in rad/5ms.
func (m *ManeuveringComputer) Targets() (yaw, pitch, roll float64) {
	return m.yawTarget, m.pitchTarget, m.rollTarget
}

// LinearTargets returns the speed, strafe and lift targets in m/s.
func (m *ManeuveringComputer) LinearTargets() (speed, strafe, lift float64) {
	return m.speedTarget, m.strafeTarget, m.liftTarget
}

// ChangeFlightMode cycles free, compensated and restricted modes.
func (m *ManeuveringComputer) ChangeFlightMode() FlightMode {
	m.SetFlightMode(nextFlightMode[m.mode])
	return m.mode
}

// SetFlightMode switches to mode. Leaving free mode holds the current speed.
func (m *ManeuveringComputer) SetFlightMode(mode FlightMode) {
	if mode == m.mode {
		return
	}
	if m.mode == Free {
		m.speedTarget = m.craft.body.RelativeVelocity().Y
	}
	m.mode = mode
}

// Forward accelerates. In free mode the craft burns forward until stopped;
// otherwise the speed target grows by at most one speed increment.
func (m *ManeuveringComputer) Forward(intensity float64) {
	if m.mode == Free {
		m.speedTarget = freeSpeedTarget
		return
	}
	m.speedTarget += math.Min(intensity, m.speedIncrement)
}

// Reverse is Forward in the opposite direction.
func (m *ManeuveringComputer) Reverse(intensity float64) {
	if m.mode == Free {
		m.speedTarget = -freeSpeedTarget
		return
	}
	m.speedTarget -= math.Min(intensity, m.speedIncrement)
}

// StopForward ends a free mode forward burn at the current speed.
func (m *ManeuveringComputer) StopForward() {
	if m.mode == Free {
		m.speedTarget = math.Min(m.speedTarget, m.craft.body.RelativeVelocity().Y)
	}
}

// StopReverse ends a free mode reverse burn at the current speed.
func (m *ManeuveringComputer) StopReverse() {
	if m.mode == Free {
		m.speedTarget = math.Max(m.speedTarget, m.craft.body.RelativeVelocity().Y)
	}
}

// ResetSpeed sets the speed target to zero.
func (m *ManeuveringComputer) ResetSpeed() {
	m.speedTarget = 0
}

// StrafeLeft requests a leftward speed for the next tick.
func (m *ManeuveringComputer) StrafeLeft(intensity float64) {
	m.strafeTarget = -math.Min(intensity, m.speedIncrementPerSecond)
}

// StrafeRight requests a rightward speed for the next tick.
func (m *ManeuveringComputer) StrafeRight(intensity float64) {
	m.strafeTarget = math.Min(intensity, m.speedIncrementPerSecond)
}

// StopLeftStrafe cancels a pending leftward strafe.
func (m *ManeuveringComputer) StopLeftStrafe() {
	if m.strafeTarget < 0 {
		m.strafeTarget = 0
	}
}

// StopRightStrafe cancels a pending rightward strafe.
func (m *ManeuveringComputer) StopRightStrafe() {
	if m.strafeTarget > 0 {
		m.strafeTarget = 0
	}
}

// Raise requests an upward speed for the next tick.
func (m *ManeuveringComputer) Raise(intensity float64) {
	m.liftTarget = math.Min(intensity, m.speedIncrementPerSecond)
}

// Lower requests a downward speed for the next tick.
func (m *ManeuveringComputer) Lower(intensity float64) {
	m.liftTarget = -math.Min(intensity, m.speedIncrementPerSecond)
}

// StopRaise cancels a pending upward lift.
func (m *ManeuveringComputer) StopRaise() {
	if m.liftTarget > 0 {
		m.liftTarget = 0
	}
}

// StopLower cancels a pending downward lift.
func (m *ManeuveringComputer) StopLower() {
	if m.liftTarget < 0 {
		m.liftTarget = 0
	}
}

// restrictedTurningLimit returns the yaw and pitch limit of the current mode.
// In restricted mode the turn rate is capped at the rate the thrusters can
// hold at the current speed. A craft at rest is not restricted.
func (m *ManeuveringComputer) restrictedTurningLimit() float64 {
	if m.mode != Restricted {
		return m.turningLimit
	}
	speed := m.craft.body.Velocity().Length()
	if speed == 0 {
		return m.turningLimit
	}
	thrust := m.speedIncrementPerSecond * m.craft.body.Mass()
	if m.craft.propulsion != nil {
		thrust = m.craft.propulsion.Thrust()
	}
	return math.Min(m.turningLimit, thrust/(m.craft.body.Mass()*speed)/angularUnitsPerSecond)
}

// turn applies a turn command to target. A positive intensity sets the
// target, capped at limit. Otherwise only a target pointing in the same
// direction is canceled, so one control cannot cancel another's input.
func turn(target *float64, sign, intensity, limit float64) {
	if intensity > 0 {
		*target = sign * math.Min(intensity, limit)
		return
	}
	if *target*sign > 0 {
		*target = 0
	}
}

// YawLeft turns left. FullIntensity requests the turning limit.
func (m *ManeuveringComputer) YawLeft(intensity float64) {
	turn(&m.yawTarget, 1, intensity, m.restrictedTurningLimit())
}

// YawRight turns right.
func (m *ManeuveringComputer) YawRight(intensity float64) {
	turn(&m.yawTarget, -1, intensity, m.restrictedTurningLimit())
}

// PitchUp raises the nose.
func (m *ManeuveringComputer) PitchUp(intensity float64) {
	turn(&m.pitchTarget, 1, intensity, m.restrictedTurningLimit())
}

// PitchDown lowers the nose.
func (m *ManeuveringComputer) PitchDown(intensity float64) {
	turn(&m.pitchTarget, -1, intensity, m.restrictedTurningLimit())
}

// RollLeft banks left.
func (m *ManeuveringComputer) RollLeft(intensity float64) {
	turn(&m.rollTarget, -1, intensity, m.turningLimit)
}

// RollRight banks right.
func (m *ManeuveringComputer) RollRight(intensity float64) {
	turn(&m.rollTarget, 1, intensity, m.turningLimit)
}

// ControlThrusters compares the targets with the current motion of the body
// and requests burn on the axes whose error exceeds the thresholds. It then
// clears every target except the speed target. It panics when the
// spacecraft has no propulsion.
func (m *ManeuveringComputer) ControlThrusters() {
	p := m.craft.propulsion
	if p == nil {
		panic("entity: ControlThrusters called without propulsion")
	}
	p.ResetThrusterBurn()

	body := m.craft.body
	burstS := m.craft.rt.Rules.ThrusterBurstLengthMs / 1000
	mass := body.Mass()
	angularFactor := angularUnitsPerSecond * mass / p.AngularThrust() / 2 / burstS
	linearFactor := mass / p.Thrust() / 2 / burstS

	spin := body.RelativeAngularVelocity().Scale(1.0 / angularUnitsPerSecond)
	velocity := body.RelativeVelocity()

	m.request(m.yawTarget-spin.Z, angularThreshold, angularFactor, YawLeft, YawRight)
	m.request(m.pitchTarget-spin.X, angularThreshold, angularFactor, PitchUp, PitchDown)
	m.request(m.rollTarget-spin.Y, angularThreshold, angularFactor, RollRight, RollLeft)

	compensated := m.mode != Free
	if compensated || math.Abs(m.speedTarget) == freeSpeedTarget {
		m.request(m.speedTarget-velocity.Y, linearThreshold, linearFactor, Forward, Reverse)
	}
	if compensated || m.strafeTarget != 0 {
		m.request(m.strafeTarget-velocity.X, linearThreshold, linearFactor, StrafeRight, StrafeLeft)
	}
	if compensated || m.liftTarget != 0 {
		m.request(m.liftTarget-velocity.Z, linearThreshold, linearFactor, Raise, Lower)
	}

	m.yawTarget, m.pitchTarget, m.rollTarget = 0, 0, 0
	m.strafeTarget, m.liftTarget = 0, 0
}

// request adds burn on positive or negative depending on the sign of delta.
func (m *ManeuveringComputer) request(delta, threshold, factor float64, positive, negative Axis) {
	switch {
	case delta > threshold:
		m.craft.addThrusterBurn(positive, math.Min(maxBurnRequest, delta*factor))
	case delta < -threshold:
		m.craft.addThrusterBurn(negative, math.Min(maxBurnRequest, -delta*factor))
	}
}
