package document

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/pathcarve/pkg/math"
)

// Vec3 is a document coordinate. It reads either as a sequence [x, y, z]
// or as a mapping {x: .., y: .., z: ..} and is written as a sequence.
type Vec3 math.Vec3

// MarshalYAML writes v as [x, y, z].
func (v Vec3) MarshalYAML() (any, error) {
	return []float32{v.X, v.Y, v.Z}, nil
}

// UnmarshalYAML accepts both the sequence and the mapping form.
func (v *Vec3) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var xyz []float32
		if err := node.Decode(&xyz); err != nil {
			return err
		}
		if len(xyz) != 3 {
			return fmt.Errorf("line %d: vector needs 3 components, got %d", node.Line, len(xyz))
		}
		*v = Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	case yaml.MappingNode:
		var m struct {
			X float32 `yaml:"x"`
			Y float32 `yaml:"y"`
			Z float32 `yaml:"z"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		*v = Vec3{X: m.X, Y: m.Y, Z: m.Z}
	default:
		return fmt.Errorf("line %d: vector must be [x, y, z] or {x, y, z}", node.Line)
	}
	return nil
}

// Vec returns v as a math vector.
func (v Vec3) Vec() math.Vec3 {
	return math.Vec3(v)
}

// vecPtr converts an optional document vector.
func vecPtr(v *Vec3) *math.Vec3 {
	if v == nil {
		return nil
	}
	m := v.Vec()
	return &m
}

// docPtr converts an optional math vector.
func docPtr(v *math.Vec3) *Vec3 {
	if v == nil {
		return nil
	}
	d := Vec3(*v)
	return &d
}
