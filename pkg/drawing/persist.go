package drawing

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// LayoutVersion is the wire-format version written by ExportObjects.
// Compatibility across versions rides on this field.
const LayoutVersion = "1"

// Layout is the on-wire shape of a persisted scene graph. It is the only
// durable contract the engine exposes.
type Layout struct {
	Version   string    `json:"version"`
	Timestamp int64     `json:"timestamp"`
	Objects   []*Object `json:"objects"`
}

// ExportObjects returns a deep copy of the scene graph wrapped in the
// wire format, safe to hold across later mutations.
func (e *Engine) ExportObjects() Layout {
	return Layout{
		Version:   LayoutVersion,
		Timestamp: time.Now().UnixMilli(),
		Objects:   cloneObjects(e.objects),
	}
}

// ExportJSON marshals the layout wire format.
func (e *Engine) ExportJSON() ([]byte, error) {
	data, err := json.Marshal(e.ExportObjects())
	if err != nil {
		return nil, errors.Wrap(err, "exporting drawing layout")
	}
	return data, nil
}

// ImportObjects replaces the scene graph from a wire-format payload. The
// replacement happens if and only if the payload's objects field is an
// array; any malformed payload is a no-op that leaves the existing scene
// untouched. The return value is the only error signal.
func (e *Engine) ImportObjects(data []byte) bool {
	var envelope struct {
		Version   string          `json:"version"`
		Timestamp int64           `json:"timestamp"`
		Objects   json.RawMessage `json:"objects"`
	}

	if err := json.Unmarshal(data, &envelope); err != nil {
		e.log.WithError(err).Warn("drawing import rejected: malformed payload")
		return false
	}

	trimmed := bytes.TrimSpace(envelope.Objects)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		e.log.Warn("drawing import rejected: objects is not an array")
		return false
	}

	var objects []*Object
	if err := json.Unmarshal(trimmed, &objects); err != nil {
		e.log.WithError(err).Warn("drawing import rejected: bad object list")
		return false
	}

	e.history.push(e.objects)
	e.objects = e.restoreObjects(objects)

	if e.selectedID != "" {
		e.selectedID = ""
		e.events.emitObjectSelected("")
	}

	e.nextZ = 0
	for _, obj := range e.objects {
		if obj.ZIndex > e.nextZ {
			e.nextZ = obj.ZIndex
		}
		e.markDirty(obj.ID)
	}

	e.invalidate()
	return true
}

// restoreObjects repairs an imported object list: objects of unknown type
// are dropped, non-finite coordinates are substituted, and point-count
// rules are enforced so no half-built object enters the scene graph.
func (e *Engine) restoreObjects(objects []*Object) []*Object {
	out := make([]*Object, 0, len(objects))

	for _, obj := range objects {
		if obj == nil {
			continue
		}

		tool := toolFor(obj.Type)
		if tool == nil {
			e.log.WithField("type", obj.Type).Warn("dropping imported object of unknown type")
			continue
		}
		if len(obj.Points) < tool.MinPoints() {
			e.log.WithField("id", obj.ID).Warn("dropping imported object with too few points")
			continue
		}

		e.sanitizeObject(obj)
		if obj.Meta == nil {
			obj.Meta = map[string]any{}
		}
		out = append(out, obj)

		if len(out) >= e.cfg.MaxObjects {
			break
		}
	}

	return out
}
