package mesh

import (
	"go.uber.org/zap"

	"github.com/Faultbox/pathcarve/internal/logger"
	"github.com/Faultbox/pathcarve/internal/parallel"
	"github.com/Faultbox/pathcarve/internal/profile"
	"github.com/Faultbox/pathcarve/internal/spine"
	"github.com/Faultbox/pathcarve/pkg/math"
)

// Extrude builds the ribbon mesh for sp and prof.
//
// Each sample i emits two vertices per active segment j at index
// (i*L+j)*2 and (i*L+j)*2+1, spanning the segment's width along the sample's
// right vector. Consecutive samples are joined into two triangles per layer,
// wound counter-clockwise when seen from the up side. Layer j's indices
// occupy [j*(S-1)*6, (j+1)*(S-1)*6) of the index buffer.
//
// An empty spine or a profile without active segments gives an empty mesh.
func Extrude(sp spine.Spine, prof profile.Profile, pool *parallel.Pool) *Mesh {
	var layers []int
	for j, seg := range prof {
		if seg.Active() {
			layers = append(layers, j)
		}
	}
	if len(sp) == 0 || len(layers) == 0 {
		logger.Warn("nothing to extrude", zap.Int("samples", len(sp)), zap.Int("layers", len(layers)))
		return &Mesh{}
	}

	S, L := len(sp), len(layers)
	perLayer := (S - 1) * 6

	m := &Mesh{
		Vertices: make([]math.Vec3, S*L*2),
		Normals:  make([]math.Vec3, S*L*2),
		UVs:      make([]math.Vec2, S*L*2),
		Indices:  make([]uint32, L*perLayer),
		Groups:   make([]LayerGroup, L),
	}
	for j, seg := range layers {
		m.Groups[j] = LayerGroup{
			Segment:    seg,
			Name:       prof[seg].Name,
			StartIndex: int32(j * perLayer),
			IndexCount: int32(perLayer),
		}
	}

	pool.For(S, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			smp := sp[i]
			right := smp.Right()
			for j, segIdx := range layers {
				seg := prof[segIdx]
				base := smp.Position.Add(smp.Up.Scale(seg.VerticalOffset))
				a := (i*L + j) * 2
				m.Vertices[a] = base.Add(right.Scale(seg.HorizontalOffset - seg.HalfWidth()))
				m.Vertices[a+1] = base.Add(right.Scale(seg.HorizontalOffset + seg.HalfWidth()))
				m.Normals[a] = smp.Up
				m.Normals[a+1] = smp.Up
				m.UVs[a] = math.Vec2{X: 0, Y: smp.Param}
				m.UVs[a+1] = math.Vec2{X: 1, Y: smp.Param}

				if i == 0 {
					continue
				}
				prevA := uint32(((i-1)*L + j) * 2)
				prevB := prevA + 1
				curA := uint32(a)
				curB := curA + 1
				tri := m.Indices[j*perLayer+(i-1)*6:]
				tri[0], tri[1], tri[2] = prevA, prevB, curA
				tri[3], tri[4], tri[5] = prevB, curB, curA
			}
		}
	})

	m.Bounds = computeBounds(m.Vertices)
	logger.Debug("extruded mesh",
		zap.Int("samples", S),
		zap.Int("layers", L),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("indices", len(m.Indices)))
	return m
}
