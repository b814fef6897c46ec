package scene

import (
	"testing"

	"github.com/opd-ai/go-armada/pkg/physics"
)

func TestRecorder_ObjectsAndEffects(t *testing.T) {
	r := NewRecorder()
	var _ Scene = r

	hull := r.AddObject("falcon", physics.Vector3D{X: 1}, physics.Identity(), 1)
	r.SpawnEffect(Explosion, "spark", physics.Vector3D{}, physics.UnitY, 400)
	r.SpawnEffect(MuzzleFlash, "flash", physics.Vector3D{}, physics.UnitY, 80)
	r.SpawnEffect(Explosion, "blast", physics.Vector3D{}, physics.UnitY, 2000)

	if got := len(r.Objects()); got != 1 {
		t.Errorf("Objects() = %d, want 1", got)
	}
	explosions := r.Effects(Explosion)
	if len(explosions) != 2 || explosions[0].Class != "spark" || explosions[1].Class != "blast" {
		t.Errorf("Effects(Explosion) = %v, want spark then blast", explosions)
	}
	if r.Len() != 4 {
		t.Errorf("Len() = %d, want 4", r.Len())
	}

	hull.SetPosition(physics.Vector3D{Y: 5})
	if r.Objects()[0].Position != (physics.Vector3D{Y: 5}) {
		t.Errorf("Position = %v, want moved node", r.Objects()[0].Position)
	}
}

func TestRecorder_AdvanceAndCleanup(t *testing.T) {
	r := NewRecorder()
	flash := r.SpawnEffect(MuzzleFlash, "flash", physics.Vector3D{}, physics.UnitY, 80)
	smoke := r.SpawnEffect(DamageIndicator, "smoke", physics.Vector3D{}, physics.UnitY, 0)
	hull := r.AddObject("falcon", physics.Vector3D{}, physics.Identity(), 1)

	r.Advance(60)
	if flash.Reusable() {
		t.Error("flash expired after 60 of 80 ms")
	}
	r.Advance(20)
	if !flash.Reusable() {
		t.Error("flash not expired after 80 ms")
	}
	r.Advance(10000)
	if smoke.Reusable() {
		t.Error("untimed effect expired")
	}

	smoke.Finish()
	if !smoke.Finished() || smoke.Reusable() {
		t.Error("Finish() should stop emission without releasing the node")
	}
	hull.MarkReusable()

	if dropped := r.Cleanup(); dropped != 2 {
		t.Errorf("Cleanup() = %d, want 2", dropped)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRecorder_ResourceRequests(t *testing.T) {
	r := NewRecorder()
	r.RequestResource("model", "falcon")
	r.RequestResource("model", "falcon")
	r.RequestResource("particle", "falcon")

	if got := r.ResourceRequests("model", "falcon"); got != 2 {
		t.Errorf("ResourceRequests(model, falcon) = %d, want 2", got)
	}
	if got := r.ResourceRequests("particle", "falcon"); got != 1 {
		t.Errorf("ResourceRequests(particle, falcon) = %d, want 1", got)
	}
}

func TestEffectKind_String(t *testing.T) {
	tests := []struct {
		kind EffectKind
		want string
	}{
		{Explosion, "explosion"},
		{MuzzleFlash, "muzzle_flash"},
		{DamageIndicator, "damage_indicator"},
		{EffectKind(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
