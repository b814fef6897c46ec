package class

import "fmt"

// Validate checks value ranges and resolves the references between classes.
func (r *Registry) Validate() error {
	for name, c := range r.explosions {
		if c.DurationMs < 0 {
			return fmt.Errorf("%w: explosion %q has negative duration", ErrInvalidClass, name)
		}
	}

	for name, c := range r.projectiles {
		if c.Mass <= 0 {
			return fmt.Errorf("%w: projectile %q mass must be positive", ErrInvalidClass, name)
		}
		if c.DurationMs <= 0 {
			return fmt.Errorf("%w: projectile %q duration must be positive", ErrInvalidClass, name)
		}
		if c.Damage < 0 {
			return fmt.Errorf("%w: projectile %q has negative damage", ErrInvalidClass, name)
		}
		e, err := r.Explosion(c.Explosion)
		if err != nil {
			return fmt.Errorf("projectile %q: %w", name, err)
		}
		c.explosion = e
		if c.MuzzleFlash != "" {
			if c.muzzleFlash, err = r.Explosion(c.MuzzleFlash); err != nil {
				return fmt.Errorf("projectile %q: %w", name, err)
			}
		}
	}

	for name, c := range r.weapons {
		if c.CooldownMs < 0 {
			return fmt.Errorf("%w: weapon %q has negative cooldown", ErrInvalidClass, name)
		}
		if len(c.Barrels) == 0 {
			return fmt.Errorf("%w: weapon %q has no barrels", ErrInvalidClass, name)
		}
		for i := range c.Barrels {
			b := &c.Barrels[i]
			p, err := r.Projectile(b.ProjectileClass)
			if err != nil {
				return fmt.Errorf("weapon %q barrel %d: %w", name, i, err)
			}
			if b.Force <= 0 {
				return fmt.Errorf("%w: weapon %q barrel %d force must be positive", ErrInvalidClass, name, i)
			}
			b.projectile = p
		}
	}

	for name, c := range r.propulsions {
		if c.Thrust <= 0 || c.AngularThrust <= 0 {
			return fmt.Errorf("%w: propulsion %q thrust must be positive", ErrInvalidClass, name)
		}
	}

	for name, c := range r.spacecraft {
		if err := r.validateSpacecraft(name, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) validateSpacecraft(name string, c *SpacecraftClass) error {
	if c.Mass <= 0 {
		return fmt.Errorf("%w: spacecraft %q mass must be positive", ErrInvalidClass, name)
	}
	if c.Hitpoints <= 0 {
		return fmt.Errorf("%w: spacecraft %q hitpoints must be positive", ErrInvalidClass, name)
	}
	if c.Scale == 0 {
		c.Scale = 1
	}
	if c.Model == "" {
		c.Model = c.Name
	}
	e, err := r.Explosion(c.Explosion)
	if err != nil {
		return fmt.Errorf("spacecraft %q: %w", name, err)
	}
	c.explosion = e

	for i := range c.DamageIndicators {
		d := &c.DamageIndicators[i]
		if d.HullIntegrity <= 0 || d.HullIntegrity >= 100 {
			return fmt.Errorf("%w: spacecraft %q damage indicator %d threshold out of range", ErrInvalidClass, name, i)
		}
		if d.explosion, err = r.Explosion(d.Explosion); err != nil {
			return fmt.Errorf("spacecraft %q damage indicator %d: %w", name, i, err)
		}
	}

	for i, slot := range c.ThrusterSlots {
		for _, use := range slot.Uses {
			if !validThrusterUse(use) {
				return fmt.Errorf("%w: spacecraft %q thruster slot %d has unknown use %q", ErrInvalidClass, name, i, use)
			}
		}
	}

	if len(c.Loadout.Weapons) > len(c.WeaponSlots) {
		return fmt.Errorf("%w: spacecraft %q loadout has %d weapons for %d slots",
			ErrInvalidClass, name, len(c.Loadout.Weapons), len(c.WeaponSlots))
	}
	for _, w := range c.Loadout.Weapons {
		if _, err := r.Weapon(w); err != nil {
			return fmt.Errorf("spacecraft %q loadout: %w", name, err)
		}
	}
	if c.Loadout.Propulsion != "" {
		if _, err := r.Propulsion(c.Loadout.Propulsion); err != nil {
			return fmt.Errorf("spacecraft %q loadout: %w", name, err)
		}
	}
	return nil
}

// ThrusterUses lists the maneuvering axis names a thruster slot may name.
var ThrusterUses = []string{
	"forward", "reverse",
	"strafeLeft", "strafeRight",
	"raise", "lower",
	"yawLeft", "yawRight",
	"pitchUp", "pitchDown",
	"rollLeft", "rollRight",
}

func validThrusterUse(use string) bool {
	for _, u := range ThrusterUses {
		if u == use {
			return true
		}
	}
	return false
}
