package class

import "github.com/opd-ai/go-armada/pkg/physics"

// DefaultDefinitions returns the built-in class set used when no class file
// is configured.
func DefaultDefinitions() Definitions {
	return Definitions{
		Explosions: []ExplosionClass{
			{Name: "flash", DurationMs: 80},
			{Name: "spark", DurationMs: 400},
			{Name: "blast", DurationMs: 2000},
			{Name: "smoke", DurationMs: 0},
			{Name: "fire", DurationMs: 0},
		},
		Projectiles: []ProjectileClass{
			{Name: "laser", Mass: 1, Size: 1, DurationMs: 2000, Damage: 10, Explosion: "spark", MuzzleFlash: "flash"},
			{Name: "plasma", Mass: 2, Size: 2, DurationMs: 2500, Damage: 25, Explosion: "spark", MuzzleFlash: "flash"},
		},
		Weapons: []WeaponClass{
			{
				Name:       "pulse-laser",
				CooldownMs: 200,
				Barrels: []Barrel{
					{Position: physics.Vector3D{Y: 1}, ProjectileClass: "laser", Force: 20000},
				},
			},
			{
				Name:       "twin-plasma",
				CooldownMs: 500,
				Barrels: []Barrel{
					{Position: physics.Vector3D{X: -0.5, Y: 1}, ProjectileClass: "plasma", Force: 30000},
					{Position: physics.Vector3D{X: 0.5, Y: 1}, ProjectileClass: "plasma", Force: 30000},
				},
			},
		},
		Propulsions: []PropulsionClass{
			{Name: "light", Thrust: 50000, AngularThrust: 20000, Particle: "thruster-blue"},
			{Name: "heavy", Thrust: 200000, AngularThrust: 150000, Particle: "thruster-red"},
		},
		Spacecraft: []SpacecraftClass{
			{
				Name:      "falcon",
				Mass:      1000,
				Hitpoints: 100,
				HitBox:    physics.Vector3D{X: 3, Y: 5, Z: 1.5},
				Explosion: "blast",
				WeaponSlots: []WeaponSlot{
					{Position: physics.Vector3D{X: -2, Y: 3}},
					{Position: physics.Vector3D{X: 2, Y: 3}},
				},
				ThrusterSlots: defaultThrusterSlots(3, 5, 1.5),
				DamageIndicators: []DamageIndicator{
					{HullIntegrity: 50, Explosion: "smoke"},
					{HullIntegrity: 25, Explosion: "fire"},
				},
				Loadout: Loadout{Weapons: []string{"pulse-laser", "pulse-laser"}, Propulsion: "light"},
			},
			{
				Name:      "viper",
				Mass:      2500,
				Hitpoints: 300,
				HitBox:    physics.Vector3D{X: 5, Y: 8, Z: 2.5},
				Explosion: "blast",
				WeaponSlots: []WeaponSlot{
					{Position: physics.Vector3D{Y: 6}},
					{Position: physics.Vector3D{X: -4, Y: 2}, Yaw: 5},
					{Position: physics.Vector3D{X: 4, Y: 2}, Yaw: -5},
				},
				ThrusterSlots: defaultThrusterSlots(5, 8, 2.5),
				DamageIndicators: []DamageIndicator{
					{HullIntegrity: 60, Explosion: "smoke"},
					{HullIntegrity: 30, Explosion: "fire"},
				},
				Loadout: Loadout{Weapons: []string{"twin-plasma", "pulse-laser", "pulse-laser"}, Propulsion: "heavy"},
			},
		},
	}
}

// defaultThrusterSlots places one nozzle group per axis pair on the hull box.
func defaultThrusterSlots(x, y, z float64) []ThrusterSlot {
	return []ThrusterSlot{
		{Position: physics.Vector3D{Y: -y}, Size: 1, Uses: []string{"forward"}},
		{Position: physics.Vector3D{Y: y}, Size: 0.5, Uses: []string{"reverse"}},
		{Position: physics.Vector3D{X: x, Y: y / 2}, Size: 0.5, Uses: []string{"strafeLeft", "yawLeft"}},
		{Position: physics.Vector3D{X: -x, Y: y / 2}, Size: 0.5, Uses: []string{"strafeRight", "yawRight"}},
		{Position: physics.Vector3D{Y: y / 2, Z: -z}, Size: 0.5, Uses: []string{"raise", "pitchUp"}},
		{Position: physics.Vector3D{Y: y / 2, Z: z}, Size: 0.5, Uses: []string{"lower", "pitchDown"}},
		{Position: physics.Vector3D{X: -x, Z: z}, Size: 0.5, Uses: []string{"rollRight"}},
		{Position: physics.Vector3D{X: x, Z: z}, Size: 0.5, Uses: []string{"rollLeft"}},
	}
}

// DefaultRegistry returns a registry built from DefaultDefinitions.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultDefinitions())
	if err != nil {
		panic("class: default definitions are invalid: " + err.Error())
	}
	return r
}
