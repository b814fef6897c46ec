// Package scene defines the boundary between the combat core and the
// renderer. The core only creates, moves and releases opaque handles.
package scene

import "github.com/opd-ai/go-armada/pkg/physics"

// EffectKind identifies a particle effect requested by the core.
type EffectKind int

const (
	Explosion EffectKind = iota
	MuzzleFlash
	DamageIndicator
)

// String returns the effect kind name.
func (k EffectKind) String() string {
	switch k {
	case Explosion:
		return "explosion"
	case MuzzleFlash:
		return "muzzle_flash"
	case DamageIndicator:
		return "damage_indicator"
	default:
		return "unknown"
	}
}

// Node is a visual handle owned by a simulated object.
type Node interface {
	SetPosition(p physics.Vector3D)
	SetOrientation(m physics.Mat3)
	MarkReusable()
	Reusable() bool
}

// Effect is a particle system node. Finish stops further emission and lets
// already emitted particles play out.
type Effect interface {
	Node
	Finish()
	Finished() bool
}

// ResourceLoader receives resource requests issued by class definitions
// before their first visual use.
type ResourceLoader interface {
	RequestResource(kind, name string)
}

// Scene is the renderer-side collaborator used by the combat core.
type Scene interface {
	ResourceLoader
	AddObject(model string, position physics.Vector3D, orientation physics.Mat3, scale float64) Node
	SpawnEffect(kind EffectKind, class string, position, direction physics.Vector3D, durationMs float64) Effect
}
