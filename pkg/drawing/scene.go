package drawing

import (
	"sort"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Objects returns the scene graph in insertion order. Callers must treat
// the result as read-only; mutations go through the engine operations so
// history and events stay consistent.
func (e *Engine) Objects() []*Object { return e.objects }

// ObjectCount returns the number of persisted objects.
func (e *Engine) ObjectCount() int { return len(e.objects) }

// findObject returns the object with the given id, or nil.
func (e *Engine) findObject(id string) *Object {
	obj, _ := lo.Find(e.objects, func(o *Object) bool { return o.ID == id })
	return obj
}

// Selected returns the currently selected object, or nil.
func (e *Engine) Selected() *Object {
	if e.selectedID == "" {
		return nil
	}
	return e.findObject(e.selectedID)
}

// SelectObject selects the object with the given id; an unknown id or an
// empty string clears the selection.
func (e *Engine) SelectObject(id string) {
	if id != "" && e.findObject(id) == nil {
		id = ""
	}
	if id == e.selectedID {
		return
	}

	e.selectedID = id
	e.events.emitObjectSelected(id)
	e.invalidate()
}

// AddObject appends a finalized object to the scene graph, pushing
// history. Objects beyond the configured cap are refused.
func (e *Engine) AddObject(obj *Object) bool {
	if obj == nil {
		return false
	}

	tool := toolFor(obj.Type)
	if tool == nil {
		e.log.WithField("type", obj.Type).Warn("refusing object of unknown type")
		return false
	}
	if len(obj.Points) < tool.MinPoints() {
		return false
	}
	if len(e.objects) >= e.cfg.MaxObjects {
		e.log.WithField("max", e.cfg.MaxObjects).Warn("scene graph full, object dropped")
		return false
	}

	if obj.ID == "" {
		obj.ID = uuid.NewString()
	}

	e.sanitizeObject(obj)
	e.history.push(e.objects)

	e.nextZ++
	obj.ZIndex = e.nextZ
	e.objects = append(e.objects, obj)

	e.markDirty(obj.ID)
	e.events.emitObjectCreated(obj)
	e.invalidate()
	return true
}

// UpdateObject applies a mutation to an object by id, pushing history.
// This is also the path the UI uses to supply deferred content such as
// the final text of a label.
func (e *Engine) UpdateObject(id string, mutate func(*Object)) bool {
	obj := e.findObject(id)
	if obj == nil || mutate == nil {
		return false
	}

	e.history.push(e.objects)
	mutate(obj)
	e.sanitizeObject(obj)

	e.markDirty(obj.ID)
	e.events.emitObjectUpdated(obj)
	e.invalidate()
	return true
}

// DeleteObject removes an object by id, pushing history.
func (e *Engine) DeleteObject(id string) bool {
	if e.findObject(id) == nil {
		return false
	}

	e.history.push(e.objects)
	e.objects = lo.Reject(e.objects, func(o *Object, _ int) bool { return o.ID == id })

	if e.selectedID == id {
		e.selectedID = ""
		e.events.emitObjectSelected("")
	}

	e.markDirty(id)
	e.events.emitObjectDeleted(id)
	e.invalidate()
	return true
}

// DeleteSelected removes the selected object, if any.
func (e *Engine) DeleteSelected() bool {
	if e.selectedID == "" {
		return false
	}
	return e.DeleteObject(e.selectedID)
}

// ClearAll removes every object, pushing a single history entry.
func (e *Engine) ClearAll() {
	if len(e.objects) == 0 {
		return
	}

	e.history.push(e.objects)

	removed := lo.Map(e.objects, func(o *Object, _ int) string { return o.ID })
	e.objects = nil

	if e.selectedID != "" {
		e.selectedID = ""
		e.events.emitObjectSelected("")
	}

	for _, id := range removed {
		e.markDirty(id)
		e.events.emitObjectDeleted(id)
	}
	e.invalidate()
}

// SetLocked toggles the locked flag of an object. Locked objects are
// skipped by hit testing, so they cannot be selected or dragged.
func (e *Engine) SetLocked(id string, locked bool) bool {
	return e.UpdateObject(id, func(o *Object) { o.Locked = locked })
}

// SetVisible toggles the visibility of an object.
func (e *Engine) SetVisible(id string, visible bool) bool {
	return e.UpdateObject(id, func(o *Object) { o.Visible = visible })
}

// BringToFront raises an object above every other.
func (e *Engine) BringToFront(id string) bool {
	top := e.nextZ + 1
	ok := e.UpdateObject(id, func(o *Object) { o.ZIndex = top })
	if ok {
		e.nextZ = top
	}
	return ok
}

// objectsByZAscending returns the render order: lowest z first, insertion
// order breaking ties.
func (e *Engine) objectsByZAscending() []*Object {
	out := append([]*Object(nil), e.objects...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// objectsByZDescending returns the hit-test order: highest z first, so
// the most recently drawn object wins ties.
func (e *Engine) objectsByZDescending() []*Object {
	out := append([]*Object(nil), e.objects...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex > out[j].ZIndex })
	return out
}

// markDirty records a changed object id for consumers doing partial
// repaints or change logging.
func (e *Engine) markDirty(id string) {
	e.dirty.Add(id)
}

// DirtyObjectIDs drains and returns the ids changed since the last call,
// in first-change order.
func (e *Engine) DirtyObjectIDs() []string {
	if e.dirty.Length() == 0 {
		return nil
	}

	out := make([]string, 0, e.dirty.Length())
	for id := range e.dirty.Iter() {
		out = append(out, id)
	}
	e.dirty = newDirtySet()

	return out
}
