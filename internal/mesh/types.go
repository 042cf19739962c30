// Package mesh extrudes a profile along a spine into a ribbon mesh.
package mesh

import "github.com/Faultbox/pathcarve/pkg/math"

// LayerGroup is the index range of one profile segment's sub-mesh.
type LayerGroup struct {
	Segment    int    // index into the profile
	Name       string // segment name, if any
	StartIndex int32
	IndexCount int32
}

// TriangleCount returns the number of triangles in the group.
func (g LayerGroup) TriangleCount() int {
	return int(g.IndexCount) / 3
}

// Mesh holds the ribbon buffers. Vertices, Normals and UVs are parallel arrays.
type Mesh struct {
	Vertices []math.Vec3
	Normals  []math.Vec3
	UVs      []math.Vec2
	Indices  []uint32
	Groups   []LayerGroup
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Empty reports whether the mesh has no triangles.
func (m *Mesh) Empty() bool {
	return m == nil || len(m.Indices) == 0
}

// GroupIndices returns the index slice of group g.
func (m *Mesh) GroupIndices(g LayerGroup) []uint32 {
	return m.Indices[g.StartIndex : g.StartIndex+g.IndexCount]
}

func computeBounds(vertices []math.Vec3) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: vertices[0], Max: vertices[0]}
	for _, v := range vertices[1:] {
		b.Min = math.Vec3{X: min(b.Min.X, v.X), Y: min(b.Min.Y, v.Y), Z: min(b.Min.Z, v.Z)}
		b.Max = math.Vec3{X: max(b.Max.X, v.X), Y: max(b.Max.Y, v.Y), Z: max(b.Max.Z, v.Z)}
	}
	return b
}
