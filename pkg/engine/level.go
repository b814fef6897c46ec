// pkg/engine/level.go
package engine

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/EngoEngine/ecs"
	"github.com/google/uuid"

	"github.com/opd-ai/go-armada/pkg/class"
	"github.com/opd-ai/go-armada/pkg/config"
	"github.com/opd-ai/go-armada/pkg/entity"
	"github.com/opd-ai/go-armada/pkg/event"
	"github.com/opd-ai/go-armada/pkg/logging"
	"github.com/opd-ai/go-armada/pkg/metrics"
	"github.com/opd-ai/go-armada/pkg/physics"
	"github.com/opd-ai/go-armada/pkg/scene"
)

// LevelStatus is the lifecycle state of a level
type LevelStatus int

const (
	LevelStatusWaiting LevelStatus = iota
	LevelStatusActive
	LevelStatusEnded
)

// Environment is the background simulation advanced at the start of every
// tick.
type Environment interface {
	Simulate(dt float64)
}

// Controller issues commands to a spacecraft before every tick. Control
// returns false once the controller is done and should be dropped.
type Controller interface {
	Control() bool
}

// Level owns the spacecraft and projectiles of a battle and advances them
// in fixed steps.
type Level struct {
	ID          string
	Config      *config.GameConfig
	Registry    *class.Registry
	EventBus    *event.Bus
	Status      LevelStatus
	CurrentTick uint64
	ElapsedMs   float64
	Removed     uint64 // spacecraft removed after their destruction

	runtime     *entity.Runtime
	environment Environment
	controllers []Controller
	piloted     entity.Handle
	rng         *rand.Rand
	logger      *logging.Logger
	metrics     *metrics.Combat
	accumulator float64
}

// Option configures a Level.
type Option func(*Level)

// WithEnvironment sets the environment advanced every tick.
func WithEnvironment(env Environment) Option {
	return func(l *Level) { l.environment = env }
}

// WithEventBus publishes level events on bus instead of a private bus.
func WithEventBus(bus *event.Bus) Option {
	return func(l *Level) { l.EventBus = bus }
}

// WithMetrics records combat metrics into m.
func WithMetrics(m *metrics.Combat) Option {
	return func(l *Level) { l.metrics = m }
}

// WithLogger sets the logger. Every entry carries the level ID.
func WithLogger(logger *logging.Logger) Option {
	return func(l *Level) { l.logger = logger }
}

// NewLevel creates an empty level. Visual nodes are created through scn,
// which may be nil for a purely numerical simulation.
func NewLevel(cfg *config.GameConfig, registry *class.Registry, scn scene.Scene, opts ...Option) *Level {
	l := &Level{
		ID:       uuid.NewString(),
		Config:   cfg,
		Registry: registry,
		EventBus: event.NewEventBus(),
		logger:   logging.NewLogger(),
		rng:      rand.New(rand.NewPCG(cfg.Level.Seed, cfg.Level.Seed^0x9e3779b97f4a7c15)),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With("level_id", l.ID)

	ctx := logging.WithCorrelationID(context.Background(), l.ID)
	rules := entity.RulesFromConfig(ctx, cfg, l.logger)
	l.runtime = entity.NewRuntime(ctx, scn, rules, l.EventBus, l.metrics, l.logger)
	return l
}

// Runtime returns the entity runtime of the level.
func (l *Level) Runtime() *entity.Runtime {
	return l.runtime
}

// Start activates the fixed-step loop driven by Update.
func (l *Level) Start() {
	l.Status = LevelStatusActive
	l.EventBus.Publish(&event.BaseEvent{
		EventType: event.LevelStarted,
		Source:    l,
	})
	l.logger.Info(l.runtime.Ctx, "level started", "spacecraft", l.runtime.Roster.Len())
}

// Stop ends the level.
func (l *Level) Stop() {
	l.Status = LevelStatusEnded
	l.EventBus.Publish(&event.BaseEvent{
		EventType: event.LevelEnded,
		Source:    l,
	})
	l.logger.Info(l.runtime.Ctx, "level ended", "tick", l.CurrentTick, "removed", l.Removed)
}

// AddSpacecraft creates a spacecraft of the named class with its loadout.
func (l *Level) AddSpacecraft(className string, position physics.Vector3D, orientation physics.Mat3) (*entity.Spacecraft, error) {
	c, err := l.Registry.Spacecraft(className)
	if err != nil {
		return nil, fmt.Errorf("failed to add spacecraft: %w", err)
	}
	s := entity.NewSpacecraft(l.runtime, c, position, orientation)
	if err := s.Equip(l.Registry); err != nil {
		s.Destroy()
		return nil, err
	}
	l.EventBus.Publish(event.NewSpacecraftEvent(event.SpacecraftAdded, l, s.ID(), c.Name))
	return s, nil
}

// SpawnRandom adds count spacecraft of the named class at positions drawn
// from the level's seeded generator, within Level.SpawnRadius of the origin.
// The same seed always yields the same placement.
func (l *Level) SpawnRandom(className string, count int) ([]*entity.Spacecraft, error) {
	radius := l.Config.Level.SpawnRadius
	crafts := make([]*entity.Spacecraft, 0, count)
	for i := 0; i < count; i++ {
		pos := physics.Vector3D{
			X: (l.rng.Float64()*2 - 1) * radius,
			Y: (l.rng.Float64()*2 - 1) * radius,
			Z: (l.rng.Float64()*2 - 1) * radius,
		}
		orientation := physics.RotationZ(l.rng.Float64() * 2 * math.Pi)
		s, err := l.AddSpacecraft(className, pos, orientation)
		if err != nil {
			return crafts, err
		}
		crafts = append(crafts, s)
	}
	return crafts, nil
}

// AddController registers a controller run before every tick.
func (l *Level) AddController(c Controller) {
	l.controllers = append(l.controllers, c)
}

// Spacecrafts returns the spacecraft of the level in roster order.
func (l *Level) Spacecrafts() []*entity.Spacecraft {
	return l.runtime.Roster.Spacecrafts()
}

// Projectiles returns the projectiles in flight.
func (l *Level) Projectiles() []*entity.Projectile {
	return l.runtime.Projectiles.Items()
}

// Spacecraft resolves a handle, returning nil for stale handles.
func (l *Level) Spacecraft(h entity.Handle) *entity.Spacecraft {
	return l.runtime.Roster.Get(h)
}

// SetPiloted selects the spacecraft flown by the player. A nil s clears
// the selection. It panics if s is not live in this level.
func (l *Level) SetPiloted(s *entity.Spacecraft) {
	if s == nil {
		l.piloted = entity.Handle{}
		return
	}
	l.piloted = l.runtime.Roster.MustGet(s.Handle()).Handle()
}

// Piloted returns the spacecraft flown by the player, or nil.
func (l *Level) Piloted() *entity.Spacecraft {
	return l.runtime.Roster.Get(l.piloted)
}

// AcquireResources requests the resources of every registered class, so
// that spacecraft spawned later need no loading, and of every live
// spacecraft and its equipment.
func (l *Level) AcquireResources() {
	if l.Registry != nil && l.runtime.Scene != nil {
		l.Registry.AcquireAll(l.runtime.Scene)
	}
	for _, s := range l.Spacecrafts() {
		s.AcquireResources()
	}
}

// Tick advances the level by dt milliseconds. Spacecraft are simulated in
// roster order, then the finished ones are removed, then projectiles are
// simulated against the remaining spacecraft.
func (l *Level) Tick(dt float64) {
	ctx := l.runtime.Ctx
	l.runControllers()

	if l.environment != nil {
		l.environment.Simulate(dt)
	}

	for _, s := range l.runtime.Roster.Spacecrafts() {
		if !s.CanBeReused() {
			s.Simulate(dt)
		}
	}
	for _, s := range l.runtime.Roster.Compact() {
		l.Removed++
		l.EventBus.Publish(event.NewSpacecraftEvent(event.SpacecraftRemoved, l, s.ID(), s.Class().Name))
	}

	candidates := l.runtime.Roster.Spacecrafts()
	for _, p := range l.runtime.Projectiles.Items() {
		p.Simulate(dt, candidates)
	}
	for i := l.runtime.Projectiles.Compact(); i > 0; i-- {
		l.metrics.ProjectileRemoved(ctx)
	}

	l.CurrentTick++
	l.ElapsedMs += dt
	l.metrics.Tick(ctx)
	if l.CurrentTick%1000 == 0 {
		l.logger.Debug(ctx, "tick", "tick", l.CurrentTick,
			"spacecraft", l.runtime.Roster.Len(), "projectiles", l.runtime.Projectiles.Len())
	}
}

func (l *Level) runControllers() {
	kept := l.controllers[:0]
	for _, c := range l.controllers {
		if c.Control() {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(l.controllers); i++ {
		l.controllers[i] = nil
	}
	l.controllers = kept
}

const stepToleranceMs = 1e-3

// Update implements ecs.System. It converts the frame time in seconds into
// fixed ticks of Level.TickMs and keeps the remainder for the next frame.
func (l *Level) Update(dt float32) {
	step := l.Config.Level.TickMs
	if l.Status != LevelStatusActive || step <= 0 {
		return
	}
	l.accumulator += float64(dt) * 1000
	// float32 frame times are not exact multiples of the step
	for l.accumulator >= step-stepToleranceMs {
		l.Tick(step)
		l.accumulator -= step
	}
}

// Remove implements ecs.System by destroying the spacecraft or projectile
// with the entity's ID.
func (l *Level) Remove(e ecs.BasicEntity) {
	for _, s := range l.runtime.Roster.Spacecrafts() {
		if s.ID() == e.ID() {
			s.Destroy()
			return
		}
	}
	for _, p := range l.runtime.Projectiles.Items() {
		if p.ID() == e.ID() {
			p.Destroy()
			return
		}
	}
}
