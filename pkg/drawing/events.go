package drawing

// Events is a typed callback registry for engine notifications. Callbacks
// run synchronously, in the order mutations occurred; consumers must not
// assume anything beyond that ordering.
type Events struct {
	objectCreated  []func(*Object)
	objectUpdated  []func(*Object)
	objectDeleted  []func(string)
	objectSelected []func(string)
	toolChanged    []func(ToolID)
	needsRender    []func()
}

// OnObjectCreated registers a callback for finalized objects joining the
// scene graph.
func (e *Events) OnObjectCreated(fn func(*Object)) {
	e.objectCreated = append(e.objectCreated, fn)
}

// OnObjectUpdated registers a callback for committed object mutations.
func (e *Events) OnObjectUpdated(fn func(*Object)) {
	e.objectUpdated = append(e.objectUpdated, fn)
}

// OnObjectDeleted registers a callback for object removals; it receives
// the removed id.
func (e *Events) OnObjectDeleted(fn func(string)) {
	e.objectDeleted = append(e.objectDeleted, fn)
}

// OnObjectSelected registers a callback for selection changes; an empty
// id means the selection was cleared.
func (e *Events) OnObjectSelected(fn func(string)) {
	e.objectSelected = append(e.objectSelected, fn)
}

// OnToolChanged registers a callback for active-tool changes.
func (e *Events) OnToolChanged(fn func(ToolID)) {
	e.toolChanged = append(e.toolChanged, fn)
}

// OnNeedsRender registers a render-invalidation callback. The engine does
// not schedule frames; the consumer is expected to repaint on the next
// frame after this fires.
func (e *Events) OnNeedsRender(fn func()) {
	e.needsRender = append(e.needsRender, fn)
}

func (e *Events) emitObjectCreated(obj *Object) {
	for _, fn := range e.objectCreated {
		fn(obj)
	}
}

func (e *Events) emitObjectUpdated(obj *Object) {
	for _, fn := range e.objectUpdated {
		fn(obj)
	}
}

func (e *Events) emitObjectDeleted(id string) {
	for _, fn := range e.objectDeleted {
		fn(id)
	}
}

func (e *Events) emitObjectSelected(id string) {
	for _, fn := range e.objectSelected {
		fn(id)
	}
}

func (e *Events) emitToolChanged(id ToolID) {
	for _, fn := range e.toolChanged {
		fn(id)
	}
}

func (e *Events) emitNeedsRender() {
	for _, fn := range e.needsRender {
		fn()
	}
}
