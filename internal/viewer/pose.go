package viewer

// SetJointValue poses one joint. Returns whether the effective value
// changed; unknown joints and unchanged values are no-ops.
func (v *Viewer) SetJointValue(name string, values ...float32) bool {
	node, ok := v.joints[name]
	if !ok {
		return false
	}
	if !node.SetJointValue(values...) {
		return false
	}
	v.dirty = true
	v.emit(Event{
		Kind:   EventJointAngleChanged,
		Joint:  name,
		Values: node.Joint.Values(),
	})
	return true
}

// SetJointValues poses several joints at once. Returns whether any
// effective value changed.
func (v *Viewer) SetJointValues(values map[string]float32) bool {
	changed := false
	for name, value := range values {
		if v.SetJointValue(name, value) {
			changed = true
		}
	}
	return changed
}

// JointValues returns the effective value of every movable joint.
func (v *Viewer) JointValues() map[string][]float32 {
	out := make(map[string][]float32, len(v.joints))
	for name, node := range v.joints {
		out[name] = node.Joint.Values()
	}
	return out
}

// SetIgnoreLimits toggles joint limit clamping. Previously requested
// values are re-derived under the new policy, so a value clamped earlier
// reaches its requested target when limits come off, and returns inside
// the limits when they come back on.
func (v *Viewer) SetIgnoreLimits(ignore bool) {
	v.ignoreLimits = ignore
	for name, node := range v.joints {
		node.Joint.IgnoreLimits = ignore
		if node.ReapplyJointValue() {
			v.dirty = true
			v.emit(Event{
				Kind:   EventJointAngleChanged,
				Joint:  name,
				Values: node.Joint.Values(),
			})
		}
	}
}

// IgnoreLimits reports whether limit clamping is disabled.
func (v *Viewer) IgnoreLimits() bool {
	return v.ignoreLimits
}
