package scene

import (
	"sync"

	"github.com/opd-ai/go-armada/pkg/physics"
)

// RecordedNode is the in-memory node created by a Recorder.
type RecordedNode struct {
	Model       string
	Kind        EffectKind
	Class       string
	Position    physics.Vector3D
	Direction   physics.Vector3D
	Orientation physics.Mat3
	DurationMs  float64
	IsEffect    bool
	age         float64
	reusable    bool
	finished    bool
}

func (n *RecordedNode) SetPosition(p physics.Vector3D) { n.Position = p }
func (n *RecordedNode) SetOrientation(m physics.Mat3) { n.Orientation = m }
func (n *RecordedNode) MarkReusable() { n.reusable = true }
func (n *RecordedNode) Reusable() bool { return n.reusable }
func (n *RecordedNode) Finish() { n.finished = true }
func (n *RecordedNode) Finished() bool { return n.finished }

// Recorder is a headless Scene that keeps every node it hands out. It backs
// the simulator binary and the tests.
type Recorder struct {
	mu        sync.Mutex
	nodes     []*RecordedNode
	resources map[string]int
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{resources: make(map[string]int)}
}

// RequestResource implements ResourceLoader.
func (r *Recorder) RequestResource(kind, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resources[kind+"/"+name]++
}

// ResourceRequests returns how many times a resource was requested.
func (r *Recorder) ResourceRequests(kind, name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resources[kind+"/"+name]
}

// AddObject implements Scene.
func (r *Recorder) AddObject(model string, position physics.Vector3D, orientation physics.Mat3, scale float64) Node {
	n := &RecordedNode{Model: model, Position: position, Orientation: orientation}
	r.add(n)
	return n
}

// SpawnEffect implements Scene.
func (r *Recorder) SpawnEffect(kind EffectKind, class string, position, direction physics.Vector3D, durationMs float64) Effect {
	n := &RecordedNode{
		Kind:       kind,
		Class:      class,
		Position:   position,
		Direction:  direction,
		DurationMs: durationMs,
		IsEffect:   true,
	}
	r.add(n)
	return n
}

func (r *Recorder) add(n *RecordedNode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes = append(r.nodes, n)
}

// Effects returns the effects of the given kind spawned so far, including
// reusable ones that were not cleaned up yet.
func (r *Recorder) Effects(kind EffectKind) []*RecordedNode {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*RecordedNode
	for _, n := range r.nodes {
		if n.IsEffect && n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Objects returns the non-effect nodes still held by the recorder.
func (r *Recorder) Objects() []*RecordedNode {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*RecordedNode
	for _, n := range r.nodes {
		if !n.IsEffect {
			out = append(out, n)
		}
	}
	return out
}

// Cleanup drops nodes marked reusable and returns how many were dropped.
func (r *Recorder) Cleanup() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.nodes[:0]
	for _, n := range r.nodes {
		if !n.reusable {
			kept = append(kept, n)
		}
	}
	dropped := len(r.nodes) - len(kept)
	for i := len(kept); i < len(r.nodes); i++ {
		r.nodes[i] = nil
	}
	r.nodes = kept
	return dropped
}

// Len returns the number of nodes held.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.nodes)
}

// Advance ages timed effects by dt milliseconds and marks expired ones
// reusable. Effects spawned with a zero duration live until marked reusable.
func (r *Recorder) Advance(dt float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.nodes {
		if !n.IsEffect || n.DurationMs <= 0 || n.reusable {
			continue
		}
		n.age += dt
		if n.age >= n.DurationMs {
			n.reusable = true
		}
	}
}
