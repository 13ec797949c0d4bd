package loader

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
	"github.com/guglielmo-pathtracer/raytracer/pkg/primitive"
	"github.com/guglielmo-pathtracer/raytracer/pkg/scene"
)

// GltfResult is the flattened form of a glTF document: every mesh
// primitive, already baked by its node's world transform, paired with the
// scene.Material approximated from its glTF PBR metallic-roughness
// parameters (metallic folded into specular/reflectivity, the way a
// path tracer with a Cook-Torrance-over-Lambertian split, rather than a
// full metallic-roughness BRDF, wants it).
type GltfResult struct {
	Groups    []ObjGroup
	Materials map[string]scene.Material
}

// AddToScene mirrors ObjResult.AddToScene.
func (r *GltfResult) AddToScene(s *scene.Scene, fallback scene.Material) {
	(&ObjResult{Groups: r.Groups, Materials: r.Materials}).AddToScene(s, fallback)
}

// LoadGLTF opens a .gltf or .glb file, transforms every primitive's
// vertices into world space by its node's accumulated transform, and
// returns one ObjGroup-shaped triangle set per primitive plus the approximated
// materials, keyed by a synthetic "material_<index>" name.
func LoadGLTF(path string, baseTransform core.M4) (*GltfResult, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)

	materials := map[string]scene.Material{}
	matName := func(i int) string { return fmt.Sprintf("material_%d", i) }
	for i, gm := range doc.Materials {
		mat := scene.DefaultMaterial()
		mat.Name = gm.Name

		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			mat.Diffuse = core.NewVec3(float64(cf[0]), float64(cf[1]), float64(cf[2]))

			if pbr.BaseColorTexture != nil {
				idx := pbr.BaseColorTexture.Index
				if img, ok := decodeTextureIndex(doc, idx, dir); ok {
					mat.DiffuseTexture = scene.NewImageTexture(img)
				}
			}

			roughness := float64(pbr.RoughnessFactorOrDefault())
			metallic := float64(pbr.MetallicFactorOrDefault())
			mat.Roughness = roughness
			mat.Reflectivity = metallic
			mat.Glossiness = 1 - roughness
			mat.Specular = core.NewVec3(metallic, metallic, metallic)
		}
		materials[matName(i)] = mat
	}

	nodeWorld := make([]core.M4, len(doc.Nodes))
	propagateParents(doc, nodeWorld, baseTransform)

	var groups []ObjGroup
	for ni, gn := range doc.Nodes {
		if gn.Mesh == nil {
			continue
		}
		world := nodeWorld[ni]
		normalMatrix := world.NormalMatrix()
		mesh := doc.Meshes[*gn.Mesh]

		for pi, prim := range mesh.Primitives {
			group, err := loadGLTFPrimitiveGroup(doc, mesh.Name, pi, *prim, world, normalMatrix)
			if err != nil {
				continue
			}
			if prim.Material != nil {
				group.MaterialName = matName(*prim.Material)
			}
			groups = append(groups, group)
		}
	}

	return &GltfResult{Groups: groups, Materials: materials}, nil
}

// propagateParents re-walks the node tree applying each node's world
// transform (already computed from its own local transform against
// baseTransform) composed through its parent chain, since glTF stores
// transforms relative to the parent rather than pre-baked to world space.
func propagateParents(doc *gltf.Document, nodeWorld []core.M4, baseTransform core.M4) {
	parent := make([]int, len(doc.Nodes))
	for i := range parent {
		parent[i] = -1
	}
	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if int(c) < len(parent) {
				parent[c] = i
			}
		}
	}

	var resolve func(i int) core.M4
	resolved := make([]bool, len(doc.Nodes))
	resolve = func(i int) core.M4 {
		if resolved[i] {
			return nodeWorld[i]
		}
		local := localTransform(doc.Nodes[i])
		if parent[i] < 0 {
			nodeWorld[i] = baseTransform.Mul(local)
		} else {
			nodeWorld[i] = resolve(parent[i]).Mul(local)
		}
		resolved[i] = true
		return nodeWorld[i]
	}
	for i := range doc.Nodes {
		resolve(i)
	}
}

func localTransform(gn *gltf.Node) core.M4 {
	t := gn.TranslationOrDefault()
	s := gn.ScaleOrDefault()
	r := gn.RotationOrDefault() // [x, y, z, w]

	translation := core.Translate4(core.NewVec3(float64(t[0]), float64(t[1]), float64(t[2])))
	scale := core.Scale4(core.NewVec3(float64(s[0]), float64(s[1]), float64(s[2])))
	rotation := quatToM4(float64(r[0]), float64(r[1]), float64(r[2]), float64(r[3]))
	return translation.Mul(rotation).Mul(scale)
}

// quatToM4 converts a unit quaternion (x, y, z, w) to a rotation matrix.
func quatToM4(x, y, z, w float64) core.M4 {
	m := core.Identity4()
	m[0][0] = 1 - 2*(y*y+z*z)
	m[0][1] = 2 * (x*y - z*w)
	m[0][2] = 2 * (x*z + y*w)
	m[1][0] = 2 * (x*y + z*w)
	m[1][1] = 1 - 2*(x*x+z*z)
	m[1][2] = 2 * (y*z - x*w)
	m[2][0] = 2 * (x*z - y*w)
	m[2][1] = 2 * (y*z + x*w)
	m[2][2] = 1 - 2*(x*x+y*y)
	return m
}

func loadGLTFPrimitiveGroup(doc *gltf.Document, meshName string, primIdx int, prim gltf.Primitive, world, normalMatrix core.M4) (ObjGroup, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return ObjGroup{}, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return ObjGroup{}, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	verts := make([]primitive.Vertex, len(positions))
	for i, p := range positions {
		v := primitive.Vertex{Position: core.NewVec3(float64(p[0]), float64(p[1]), float64(p[2]))}
		if i < len(normals) {
			n := normals[i]
			v.Normal = core.NewVec3(float64(n[0]), float64(n[1]), float64(n[2]))
		}
		if i < len(uvs) {
			v.UV = core.NewVec2(float64(uvs[i][0]), float64(uvs[i][1]))
			v.HasUV = true
		}
		verts[i] = v
	}

	var rawIndices []uint32
	if prim.Indices != nil {
		rawIndices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return ObjGroup{}, fmt.Errorf("indices: %w", err)
		}
	} else {
		rawIndices = make([]uint32, len(verts))
		for i := range rawIndices {
			rawIndices[i] = uint32(i)
		}
	}

	hasNormals := len(normals) > 0
	indices := make([][3]int, 0, len(rawIndices)/3)
	for i := 0; i+2 < len(rawIndices); i += 3 {
		triIdx := [3]int{int(rawIndices[i]), int(rawIndices[i+1]), int(rawIndices[i+2])}
		if !hasNormals {
			v0, v1, v2 := verts[triIdx[0]], verts[triIdx[1]], verts[triIdx[2]]
			faceNormal := v1.Position.Subtract(v0.Position).Cross(v2.Position.Subtract(v0.Position)).Normalize()
			verts[triIdx[0]].Normal, verts[triIdx[1]].Normal, verts[triIdx[2]].Normal = faceNormal, faceNormal, faceNormal
		}
		indices = append(indices, triIdx)
	}

	mesh := primitive.NewTriangleMesh(world, verts, indices, 0, hasNormals)
	return ObjGroup{Name: name, Triangles: mesh.Triangles}, nil
}

func decodeTextureIndex(doc *gltf.Document, idx uint32, dir string) (image.Image, bool) {
	if int(idx) >= len(doc.Textures) {
		return nil, false
	}
	gt := doc.Textures[idx]
	if gt.Source == nil {
		return nil, false
	}
	img := doc.Images[*gt.Source]

	if img.BufferView != nil {
		raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		if err != nil {
			return nil, false
		}
		decoded, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, false
		}
		return decoded, true
	}
	if img.URI != "" && !img.IsEmbeddedResource() {
		decoded, err := LoadTexture(filepath.Join(dir, img.URI))
		if err != nil {
			return nil, false
		}
		return decoded, true
	}
	return nil, false
}
