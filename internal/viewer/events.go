package viewer

// EventKind identifies a viewer notification.
type EventKind string

const (
	// EventModelSourceChanged fires when a new model source is scheduled.
	EventModelSourceChanged EventKind = "model-source-changed"
	// EventModelProcessed fires when a loaded model has been mounted.
	EventModelProcessed EventKind = "model-processed"
	// EventGeometryLoaded fires after mounting, once geometry is in the scene.
	EventGeometryLoaded EventKind = "geometry-loaded"
	// EventJointAngleChanged fires when a joint's effective value changed.
	EventJointAngleChanged EventKind = "joint-angle-changed"
)

// Event carries notification details. Joint and Values are set for
// joint-angle-changed only.
type Event struct {
	Kind   EventKind
	Joint  string
	Values []float32
}

// Subscribe registers a callback for one event kind. Callbacks run
// synchronously on the tick goroutine.
func (v *Viewer) Subscribe(kind EventKind, fn func(Event)) {
	v.subscribers[kind] = append(v.subscribers[kind], fn)
}

func (v *Viewer) emit(ev Event) {
	for _, fn := range v.subscribers[ev.Kind] {
		fn(ev)
	}
}
