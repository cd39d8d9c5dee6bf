package scenegraph

import (
	"github.com/Faultbox/roboview/pkg/math"
)

// JointType enumerates the supported joint motion models.
type JointType int

const (
	JointFixed JointType = iota
	JointRevolute
	JointContinuous
	JointPrismatic
	JointPlanar
	JointFloating
)

// String returns a human-readable joint type name.
func (t JointType) String() string {
	switch t {
	case JointFixed:
		return "fixed"
	case JointRevolute:
		return "revolute"
	case JointContinuous:
		return "continuous"
	case JointPrismatic:
		return "prismatic"
	case JointPlanar:
		return "planar"
	case JointFloating:
		return "floating"
	default:
		return "unknown"
	}
}

// Joint carries the motion state of a joint node. The rest transform is
// the node's pose at zero value; applying a value derives the node's
// Position/Rotation from it.
type Joint struct {
	Type JointType
	Axis math.Vec3

	// Motion limits for revolute and prismatic joints.
	Lower, Upper float32
	HasLimits    bool

	// IgnoreLimits disables clamping. The originally requested values are
	// kept so toggling the policy can re-derive the effective value.
	IgnoreLimits bool

	RestPosition math.Vec3
	RestRotation math.Quat

	requested []float32
	applied   []float32
}

// Values returns a copy of the joint's effective (post-clamp) values.
func (j *Joint) Values() []float32 {
	out := make([]float32, len(j.applied))
	copy(out, j.applied)
	return out
}

// SetJointValue applies values to a joint node under its limit policy and
// updates the node transform. Returns whether the effective value changed.
// No-op (false) for non-joint nodes and fixed joints.
func (n *Node) SetJointValue(values ...float32) bool {
	if n.Joint == nil || len(values) == 0 {
		return false
	}
	n.Joint.requested = append(n.Joint.requested[:0], values...)
	return n.applyJointValues(values)
}

// ReapplyJointValue re-derives the effective value from the originally
// requested one under the current limit policy. Used when the policy
// changes so a previously clamped value can reach its requested target.
func (n *Node) ReapplyJointValue() bool {
	if n.Joint == nil || len(n.Joint.requested) == 0 {
		return false
	}
	return n.applyJointValues(n.Joint.requested)
}

func (n *Node) applyJointValues(values []float32) bool {
	j := n.Joint

	switch j.Type {
	case JointFixed:
		return false

	case JointRevolute, JointPrismatic:
		v := values[0]
		if !j.IgnoreLimits && j.HasLimits {
			v = clamp(v, j.Lower, j.Upper)
		}
		return n.applyScalar(v)

	case JointContinuous:
		return n.applyScalar(values[0])

	case JointPlanar, JointFloating:
		// Vector-valued joints store their state but have no transform
		// model here; the value is still observable and change-tracked.
		if floatsEqual(j.applied, values) {
			return false
		}
		j.applied = append(j.applied[:0], values...)
		return true
	}
	return false
}

func (n *Node) applyScalar(v float32) bool {
	j := n.Joint
	if len(j.applied) == 1 && j.applied[0] == v {
		return false
	}
	j.applied = append(j.applied[:0], v)

	axis := j.Axis.Normalize()
	switch j.Type {
	case JointRevolute, JointContinuous:
		n.Rotation = j.RestRotation.Mul(math.QuatFromAxisAngle(axis, v))
	case JointPrismatic:
		n.Position = j.RestPosition.Add(j.RestRotation.Rotate(axis.Scale(v)))
	}
	return true
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func floatsEqual(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
