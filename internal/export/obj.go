package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Faultbox/pathcarve/internal/mesh"
)

// WriteOBJ writes m as a Wavefront OBJ object with one group per layer.
func WriteOBJ(w io.Writer, m *mesh.Mesh, name string) error {
	if m == nil {
		m = &mesh.Mesh{}
	}
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# pathcarve ribbon: %d vertices, %d layers\n", len(m.Vertices), len(m.Groups))
	if name != "" {
		fmt.Fprintf(bw, "o %s\n", name)
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z)
	}
	for _, uv := range m.UVs {
		fmt.Fprintf(bw, "vt %g %g\n", uv.X, uv.Y)
	}
	for _, n := range m.Normals {
		fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
	}

	for j, g := range m.Groups {
		group := g.Name
		if group == "" {
			group = fmt.Sprintf("layer%d", j)
		}
		fmt.Fprintf(bw, "g %s\n", group)

		idx := m.GroupIndices(g)
		for t := 0; t+2 < len(idx); t += 3 {
			// OBJ indices are 1-based
			a, b, c := idx[t]+1, idx[t+1]+1, idx[t+2]+1
			fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write obj: %w", err)
	}
	return nil
}
