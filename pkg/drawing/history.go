package drawing

import (
	"time"

	deepcopy "github.com/tiendc/go-deepcopy"
)

// snapshot is one independent deep copy of the scene graph.
type snapshot struct {
	objects []*Object
	takenAt time.Time
}

// history holds the bounded undo and redo stacks. Every committed
// mutation pushes the pre-mutation scene; snapshots are never coalesced,
// so one discrete gesture is one entry.
type history struct {
	depth int
	undo  []snapshot
	redo  []snapshot
}

func newHistory(depth int) *history {
	if depth < 1 {
		depth = 1
	}
	return &history{depth: depth}
}

// cloneObjects deep-copies a scene graph. A copy failure for a single
// object must not lose the rest, so objects are copied one at a time and
// a failed one falls back to a shallow copy of its value.
func cloneObjects(objects []*Object) []*Object {
	out := make([]*Object, 0, len(objects))

	for _, obj := range objects {
		var cloned Object
		if err := deepcopy.Copy(&cloned, obj); err != nil {
			cloned = *obj
		}
		out = append(out, &cloned)
	}

	return out
}

// push records the given scene as the new undo top and clears the redo
// stack. The oldest entry is evicted past the depth bound.
func (h *history) push(objects []*Object) {
	h.undo = append(h.undo, snapshot{objects: cloneObjects(objects), takenAt: time.Now()})
	if len(h.undo) > h.depth {
		h.undo = h.undo[1:]
	}
	h.redo = nil
}

// popUndo moves the current scene onto the redo stack and returns the
// previous scene. ok is false when there is nothing to undo.
func (h *history) popUndo(current []*Object) (previous []*Object, ok bool) {
	if len(h.undo) == 0 {
		return nil, false
	}

	h.redo = append(h.redo, snapshot{objects: cloneObjects(current), takenAt: time.Now()})

	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	return top.objects, true
}

// popRedo is the mirror of popUndo.
func (h *history) popRedo(current []*Object) (next []*Object, ok bool) {
	if len(h.redo) == 0 {
		return nil, false
	}

	h.undo = append(h.undo, snapshot{objects: cloneObjects(current), takenAt: time.Now()})

	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	return top.objects, true
}

// CanUndo reports whether an undo step is available.
func (h *history) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo step is available.
func (h *history) CanRedo() bool { return len(h.redo) > 0 }
