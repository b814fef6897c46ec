// Package class holds the immutable stat blocks that spacecraft, weapons,
// propulsion systems, projectiles and explosions are instantiated from.
package class

import (
	"errors"

	"github.com/opd-ai/go-armada/pkg/physics"
	"github.com/opd-ai/go-armada/pkg/scene"
)

var (
	// ErrUnknownClass is returned when a lookup names a class that is not registered.
	ErrUnknownClass = errors.New("unknown class")
	// ErrInvalidClass is returned when a class definition fails validation.
	ErrInvalidClass = errors.New("invalid class")
)

// Resource kinds requested through scene.ResourceLoader.
const (
	ResourceModel    = "model"
	ResourceParticle = "particle"
)

// resources tracks whether a class already requested its resources.
type resources struct {
	acquired bool
}

func (r *resources) acquire(loader scene.ResourceLoader, request func(scene.ResourceLoader)) {
	if r.acquired || loader == nil {
		return
	}
	r.acquired = true
	request(loader)
}

// ExplosionClass describes a particle explosion.
type ExplosionClass struct {
	resources
	Name       string  `mapstructure:"name"`
	DurationMs float64 `mapstructure:"durationMs"`
}

// AcquireResources requests the particle system of the explosion.
func (c *ExplosionClass) AcquireResources(loader scene.ResourceLoader) {
	c.acquire(loader, func(l scene.ResourceLoader) {
		l.RequestResource(ResourceParticle, c.Name)
	})
}

// ProjectileClass describes a projectile fired by a weapon barrel.
type ProjectileClass struct {
	resources
	Name        string  `mapstructure:"name"`
	Mass        float64 `mapstructure:"mass"`
	Size        float64 `mapstructure:"size"`
	DurationMs  float64 `mapstructure:"durationMs"`
	Damage      float64 `mapstructure:"damage"`
	Explosion   string  `mapstructure:"explosion"`
	MuzzleFlash string  `mapstructure:"muzzleFlash"`

	explosion   *ExplosionClass
	muzzleFlash *ExplosionClass
}

// ExplosionClass returns the resolved explosion spawned on impact.
func (c *ProjectileClass) ExplosionClass() *ExplosionClass { return c.explosion }

// MuzzleFlashClass returns the resolved muzzle flash, which may be nil.
func (c *ProjectileClass) MuzzleFlashClass() *ExplosionClass { return c.muzzleFlash }

// AcquireResources requests the projectile model and its effects.
func (c *ProjectileClass) AcquireResources(loader scene.ResourceLoader) {
	c.acquire(loader, func(l scene.ResourceLoader) {
		l.RequestResource(ResourceModel, c.Name)
		if c.explosion != nil {
			c.explosion.AcquireResources(l)
		}
		if c.muzzleFlash != nil {
			c.muzzleFlash.AcquireResources(l)
		}
	})
}

// Barrel is one muzzle of a weapon, positioned in weapon space.
type Barrel struct {
	Position        physics.Vector3D `mapstructure:"position"`
	ProjectileClass string           `mapstructure:"projectile"`
	Force           float64          `mapstructure:"force"`

	projectile *ProjectileClass
}

// Projectile returns the resolved projectile class.
func (b *Barrel) Projectile() *ProjectileClass { return b.projectile }

// WeaponClass describes a weapon that can be mounted in a weapon slot.
type WeaponClass struct {
	resources
	Name       string   `mapstructure:"name"`
	CooldownMs float64  `mapstructure:"cooldownMs"`
	Barrels    []Barrel `mapstructure:"barrels"`
}

// AcquireResources requests the weapon model and every projectile it fires.
func (c *WeaponClass) AcquireResources(loader scene.ResourceLoader) {
	c.acquire(loader, func(l scene.ResourceLoader) {
		l.RequestResource(ResourceModel, c.Name)
		for i := range c.Barrels {
			if p := c.Barrels[i].projectile; p != nil {
				p.AcquireResources(l)
			}
		}
	})
}

// PropulsionClass describes the thrust a propulsion system provides.
type PropulsionClass struct {
	resources
	Name          string  `mapstructure:"name"`
	Thrust        float64 `mapstructure:"thrust"`
	AngularThrust float64 `mapstructure:"angularThrust"`
	Particle      string  `mapstructure:"particle"`
}

// AcquireResources requests the thruster particle.
func (c *PropulsionClass) AcquireResources(loader scene.ResourceLoader) {
	c.acquire(loader, func(l scene.ResourceLoader) {
		if c.Particle != "" {
			l.RequestResource(ResourceParticle, c.Particle)
		}
	})
}

// WeaponSlot is a hardpoint on a spacecraft. Yaw and pitch are in degrees.
type WeaponSlot struct {
	Position physics.Vector3D `mapstructure:"position"`
	Yaw      float64          `mapstructure:"yaw"`
	Pitch    float64          `mapstructure:"pitch"`
}

// ThrusterSlot is a thruster nozzle together with the maneuvering axes it
// fires for, e.g. "forward" or "yawLeft".
type ThrusterSlot struct {
	Position physics.Vector3D `mapstructure:"position"`
	Size     float64          `mapstructure:"size"`
	Uses     []string         `mapstructure:"uses"`
}

// DamageIndicator is an effect shown once hull integrity drops below
// HullIntegrity percent.
type DamageIndicator struct {
	HullIntegrity float64 `mapstructure:"hullIntegrity"`
	Explosion     string  `mapstructure:"explosion"`

	explosion *ExplosionClass
}

// ExplosionClass returns the resolved indicator effect.
func (d *DamageIndicator) ExplosionClass() *ExplosionClass { return d.explosion }

// Loadout is the default equipment of a spacecraft class.
type Loadout struct {
	Weapons    []string `mapstructure:"weapons"`
	Propulsion string   `mapstructure:"propulsion"`
}

// SpacecraftClass describes a spacecraft hull.
type SpacecraftClass struct {
	resources
	Name             string            `mapstructure:"name"`
	Model            string            `mapstructure:"model"`
	Mass             float64           `mapstructure:"mass"`
	Hitpoints        float64           `mapstructure:"hitpoints"`
	HitBox           physics.Vector3D  `mapstructure:"hitBox"`
	Scale            float64           `mapstructure:"scale"`
	Explosion        string            `mapstructure:"explosion"`
	WeaponSlots      []WeaponSlot      `mapstructure:"weaponSlots"`
	ThrusterSlots    []ThrusterSlot    `mapstructure:"thrusterSlots"`
	DamageIndicators []DamageIndicator `mapstructure:"damageIndicators"`
	Loadout          Loadout           `mapstructure:"loadout"`

	explosion *ExplosionClass
}

// ExplosionClass returns the resolved hull explosion.
func (c *SpacecraftClass) ExplosionClass() *ExplosionClass { return c.explosion }

// AcquireResources requests the hull model, its explosion and its damage
// indicator effects.
func (c *SpacecraftClass) AcquireResources(loader scene.ResourceLoader) {
	c.acquire(loader, func(l scene.ResourceLoader) {
		l.RequestResource(ResourceModel, c.Model)
		if c.explosion != nil {
			c.explosion.AcquireResources(l)
		}
		for i := range c.DamageIndicators {
			if e := c.DamageIndicators[i].explosion; e != nil {
				e.AcquireResources(l)
			}
		}
	})
}
