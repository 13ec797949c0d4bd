package primitive

import "github.com/guglielmo-pathtracer/raytracer/pkg/core"

// TriangleMesh is a flat collection of triangles sharing one material and
// one set of vertex attributes, expanded to world-space triangles once at
// load time by a loader (see internal/loader).
type TriangleMesh struct {
	Triangles []*Triangle
}

// NewTriangleMesh builds a mesh from the given triangle indices into verts,
// applying objectToWorld to every vertex position and its normal matrix to
// every vertex normal.
func NewTriangleMesh(objectToWorld core.M4, verts []Vertex, indices [][3]int, material int, smoothShading bool) *TriangleMesh {
	xform := NewTransform(objectToWorld)
	world := make([]Vertex, len(verts))
	for i, v := range verts {
		world[i] = Vertex{
			Position:  xform.ObjectToWorld.TransformPoint(v.Position),
			Normal:    xform.NormalMatrix.TransformVector(v.Normal).Normalize(),
			Tangent:   xform.ObjectToWorld.TransformVector(v.Tangent),
			Bitangent: xform.ObjectToWorld.TransformVector(v.Bitangent),
			UV:        v.UV,
			HasUV:     v.HasUV,
		}
	}

	mesh := &TriangleMesh{Triangles: make([]*Triangle, 0, len(indices))}
	for _, tri := range indices {
		mesh.Triangles = append(mesh.Triangles, NewTriangle(world[tri[0]], world[tri[1]], world[tri[2]], material, smoothShading))
	}
	return mesh
}
