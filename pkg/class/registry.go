package class

import (
	"fmt"
	"sort"

	"github.com/spf13/viper"

	"github.com/opd-ai/go-armada/pkg/logging"
	"github.com/opd-ai/go-armada/pkg/scene"
)

// Definitions is the on-disk layout of a class file.
type Definitions struct {
	Explosions  []ExplosionClass  `mapstructure:"explosions"`
	Projectiles []ProjectileClass `mapstructure:"projectiles"`
	Weapons     []WeaponClass     `mapstructure:"weapons"`
	Propulsions []PropulsionClass `mapstructure:"propulsions"`
	Spacecraft  []SpacecraftClass `mapstructure:"spacecraft"`
}

// Registry resolves class names to stat blocks. It is built once and only
// read afterwards.
type Registry struct {
	explosions  map[string]*ExplosionClass
	projectiles map[string]*ProjectileClass
	weapons     map[string]*WeaponClass
	propulsions map[string]*PropulsionClass
	spacecraft  map[string]*SpacecraftClass
}

// LoadRegistry reads class definitions from a JSON, YAML or TOML file.
func LoadRegistry(path string) (*Registry, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, logging.WrapError(err, "failed to read class file")
	}

	var defs Definitions
	if err := v.Unmarshal(&defs); err != nil {
		return nil, logging.WrapError(err, "failed to parse class file")
	}

	return NewRegistry(defs)
}

// NewRegistry builds a registry and resolves all cross references.
func NewRegistry(defs Definitions) (*Registry, error) {
	r := &Registry{
		explosions:  make(map[string]*ExplosionClass),
		projectiles: make(map[string]*ProjectileClass),
		weapons:     make(map[string]*WeaponClass),
		propulsions: make(map[string]*PropulsionClass),
		spacecraft:  make(map[string]*SpacecraftClass),
	}

	for i := range defs.Explosions {
		c := &defs.Explosions[i]
		if err := register(r.explosions, c.Name, c); err != nil {
			return nil, err
		}
	}
	for i := range defs.Projectiles {
		c := &defs.Projectiles[i]
		if err := register(r.projectiles, c.Name, c); err != nil {
			return nil, err
		}
	}
	for i := range defs.Weapons {
		c := &defs.Weapons[i]
		if err := register(r.weapons, c.Name, c); err != nil {
			return nil, err
		}
	}
	for i := range defs.Propulsions {
		c := &defs.Propulsions[i]
		if err := register(r.propulsions, c.Name, c); err != nil {
			return nil, err
		}
	}
	for i := range defs.Spacecraft {
		c := &defs.Spacecraft[i]
		if err := register(r.spacecraft, c.Name, c); err != nil {
			return nil, err
		}
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func register[T any](m map[string]*T, name string, c *T) error {
	if name == "" {
		return fmt.Errorf("%w: class without a name", ErrInvalidClass)
	}
	if _, exists := m[name]; exists {
		return fmt.Errorf("%w: duplicate class %q", ErrInvalidClass, name)
	}
	m[name] = c
	return nil
}

func lookup[T any](m map[string]*T, kind, name string) (*T, error) {
	c, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", ErrUnknownClass, kind, name)
	}
	return c, nil
}

// Explosion returns the explosion class with the given name.
func (r *Registry) Explosion(name string) (*ExplosionClass, error) {
	return lookup(r.explosions, "explosion", name)
}

// Projectile returns the projectile class with the given name.
func (r *Registry) Projectile(name string) (*ProjectileClass, error) {
	return lookup(r.projectiles, "projectile", name)
}

// Weapon returns the weapon class with the given name.
func (r *Registry) Weapon(name string) (*WeaponClass, error) {
	return lookup(r.weapons, "weapon", name)
}

// Propulsion returns the propulsion class with the given name.
func (r *Registry) Propulsion(name string) (*PropulsionClass, error) {
	return lookup(r.propulsions, "propulsion", name)
}

// Spacecraft returns the spacecraft class with the given name.
func (r *Registry) Spacecraft(name string) (*SpacecraftClass, error) {
	return lookup(r.spacecraft, "spacecraft", name)
}

// SpacecraftNames returns the registered spacecraft class names, sorted.
func (r *Registry) SpacecraftNames() []string {
	names := make([]string, 0, len(r.spacecraft))
	for name := range r.spacecraft {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AcquireAll requests the resources of every registered class.
func (r *Registry) AcquireAll(loader scene.ResourceLoader) {
	for _, c := range r.spacecraft {
		c.AcquireResources(loader)
	}
	for _, c := range r.weapons {
		c.AcquireResources(loader)
	}
	for _, c := range r.propulsions {
		c.AcquireResources(loader)
	}
}
