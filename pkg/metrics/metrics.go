// Package metrics exposes the combat counters through OpenTelemetry.
package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/opd-ai/go-armada/pkg/metrics"

// Combat holds the instruments updated by the simulation loop. A nil
// *Combat is valid and records nothing.
type Combat struct {
	projectilesFired    metric.Int64Counter
	projectileHits      metric.Int64Counter
	damageDealt         metric.Float64Counter
	spacecraftDestroyed metric.Int64Counter
	liveProjectiles     metric.Int64UpDownCounter
	ticks               metric.Int64Counter
}

// New creates the instruments from the global meter provider, or from a
// no-op meter when disabled.
func New(enabled bool) (*Combat, error) {
	if !enabled {
		return NewWithMeter(noop.Meter{})
	}
	return NewWithMeter(otel.Meter(instrumentationName))
}

// NewWithMeter creates the instruments from m.
func NewWithMeter(m metric.Meter) (*Combat, error) {
	var c Combat
	var err error

	if c.projectilesFired, err = m.Int64Counter("armada.projectiles.fired",
		metric.WithDescription("Projectiles spawned by weapons")); err != nil {
		return nil, err
	}
	if c.projectileHits, err = m.Int64Counter("armada.projectiles.hits",
		metric.WithDescription("Projectiles that hit a spacecraft")); err != nil {
		return nil, err
	}
	if c.damageDealt, err = m.Float64Counter("armada.damage",
		metric.WithDescription("Hitpoints removed by projectile hits")); err != nil {
		return nil, err
	}
	if c.spacecraftDestroyed, err = m.Int64Counter("armada.spacecraft.destroyed",
		metric.WithDescription("Spacecraft whose hitpoints reached zero")); err != nil {
		return nil, err
	}
	if c.liveProjectiles, err = m.Int64UpDownCounter("armada.projectiles.live",
		metric.WithDescription("Projectiles currently in flight")); err != nil {
		return nil, err
	}
	if c.ticks, err = m.Int64Counter("armada.ticks",
		metric.WithDescription("Simulation steps executed")); err != nil {
		return nil, err
	}
	return &c, nil
}

// ProjectileFired records a spawned projectile of the given class.
func (c *Combat) ProjectileFired(ctx context.Context, class string) {
	if c == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("projectile", class))
	c.projectilesFired.Add(ctx, 1, attrs)
	c.liveProjectiles.Add(ctx, 1)
}

// ProjectileRemoved records a projectile leaving the level.
func (c *Combat) ProjectileRemoved(ctx context.Context) {
	if c == nil {
		return
	}
	c.liveProjectiles.Add(ctx, -1)
}

// Hit records a projectile hit and its damage.
func (c *Combat) Hit(ctx context.Context, class string, damage float64) {
	if c == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("projectile", class))
	c.projectileHits.Add(ctx, 1, attrs)
	c.damageDealt.Add(ctx, damage, attrs)
}

// Destroyed records a spacecraft entering its destruction sequence.
func (c *Combat) Destroyed(ctx context.Context, class string) {
	if c == nil {
		return
	}
	c.spacecraftDestroyed.Add(ctx, 1, metric.WithAttributes(attribute.String("spacecraft", class)))
}

// Tick records one simulation step.
func (c *Combat) Tick(ctx context.Context) {
	if c == nil {
		return
	}
	c.ticks.Add(ctx, 1)
}
