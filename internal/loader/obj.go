// Package loader parses Wavefront OBJ/MTL files and glTF assets into
// triangles and materials ready to hand to pkg/scene.
package loader

import (
	"bufio"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/guglielmo-pathtracer/raytracer/pkg/core"
	"github.com/guglielmo-pathtracer/raytracer/pkg/primitive"
	"github.com/guglielmo-pathtracer/raytracer/pkg/scene"
)

type objFace struct {
	vIdx, vtIdx, vnIdx [3]int
}

type objObject struct {
	name    string
	matName string
	faces   []objFace
}

// ObjGroup is one "o"/"g" object's triangles, tagged with the MTL material
// name it referenced (empty if none). Triangle.Material is left at 0 until
// AddToScene resolves it against the scene's registered material indices.
type ObjGroup struct {
	Name         string
	MaterialName string
	Triangles    []*primitive.Triangle
}

// ObjResult is the parsed form of an OBJ file: one group of triangles per
// named object/group, plus the named materials declared by any referenced
// MTL file.
type ObjResult struct {
	Groups    []ObjGroup
	Materials map[string]scene.Material
}

// AddToScene registers every material referenced by result (falling back to
// fallback for groups with no MTL match), resolves each group's triangles
// against the resulting material index, and adds them to s.
func (r *ObjResult) AddToScene(s *scene.Scene, fallback scene.Material) {
	indices := map[string]int{}
	fallbackIdx := -1

	for _, g := range r.Groups {
		idx, ok := indices[g.MaterialName]
		if !ok {
			if mat, found := r.Materials[g.MaterialName]; found {
				idx = s.AddMaterial(mat)
			} else {
				if fallbackIdx < 0 {
					fallbackIdx = s.AddMaterial(fallback)
				}
				idx = fallbackIdx
			}
			indices[g.MaterialName] = idx
		}
		for _, tri := range g.Triangles {
			tri.Material = idx
			s.AddPrimitive(tri)
		}
	}
}

// LoadOBJ parses path into a shared object-space vertex pool and builds one
// primitive.TriangleMesh per "o"/"g" object via transform, so every
// triangle's vertices already live in world space. smoothShading controls
// whether triangles interpolate vertex normals or use the flat face normal.
func LoadOBJ(path string, transform core.M4, smoothShading bool) (*ObjResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	dir := filepath.Dir(path)

	var positions []core.Vec3
	var normals []core.Vec3
	var uvs []core.Vec2
	materials := map[string]scene.Material{}

	var objects []objObject
	cur := &objObject{name: "default"}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				continue
			}
			x, _ := strconv.ParseFloat(fields[1], 64)
			y, _ := strconv.ParseFloat(fields[2], 64)
			z, _ := strconv.ParseFloat(fields[3], 64)
			positions = append(positions, core.NewVec3(x, y, z))

		case "vn":
			if len(fields) < 4 {
				continue
			}
			x, _ := strconv.ParseFloat(fields[1], 64)
			y, _ := strconv.ParseFloat(fields[2], 64)
			z, _ := strconv.ParseFloat(fields[3], 64)
			normals = append(normals, core.NewVec3(x, y, z))

		case "vt":
			if len(fields) < 3 {
				continue
			}
			u, _ := strconv.ParseFloat(fields[1], 64)
			v, _ := strconv.ParseFloat(fields[2], 64)
			uvs = append(uvs, core.NewVec2(u, v))

		case "o", "g":
			if len(cur.faces) > 0 {
				objects = append(objects, *cur)
			}
			name := "default"
			if len(fields) > 1 {
				name = fields[1]
			}
			cur = &objObject{name: name, matName: cur.matName}

		case "usemtl":
			if len(fields) > 1 {
				cur.matName = fields[1]
			}

		case "mtllib":
			if len(fields) > 1 {
				mtlPath := filepath.Join(dir, fields[1])
				loaded, err := loadMTL(mtlPath, dir)
				if err == nil {
					for k, v := range loaded {
						materials[k] = v
					}
				}
			}

		case "f":
			if len(fields) < 4 {
				continue
			}
			type fv struct{ v, vt, vn int }
			fverts := make([]fv, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				v, vt, vn := parseFaceVertex(tok)
				fverts = append(fverts, fv{v, vt, vn})
			}
			for i := 1; i+1 < len(fverts); i++ {
				f0, f1, f2 := fverts[0], fverts[i], fverts[i+1]
				cur.faces = append(cur.faces, objFace{
					vIdx:  [3]int{f0.v, f1.v, f2.v},
					vtIdx: [3]int{f0.vt, f1.vt, f2.vt},
					vnIdx: [3]int{f0.vn, f1.vn, f2.vn},
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}
	if len(cur.faces) > 0 {
		objects = append(objects, *cur)
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("no geometry found in %q", path)
	}

	hasNormals := len(normals) > 0

	safePos := func(i int) core.Vec3 {
		if i >= 0 && i < len(positions) {
			return positions[i]
		}
		return core.Vec3{}
	}
	safeNorm := func(i int) core.Vec3 {
		if i >= 0 && i < len(normals) {
			return normals[i]
		}
		return core.Vec3{}
	}
	safeUV := func(i int) (core.Vec2, bool) {
		if i >= 0 && i < len(uvs) {
			return uvs[i], true
		}
		return core.Vec2{}, false
	}

	// dedupe object-space vertices by (position, normal, uv) index triple so
	// NewTriangleMesh's shared vertex pool stays small, matching the
	// teacher's vertex-map keying.
	type key struct{ v, vt, vn int }

	var groups []ObjGroup
	for _, obj := range objects {
		vertMap := map[key]int{}
		var verts []primitive.Vertex
		indices := make([][3]int, 0, len(obj.faces))

		for _, face := range obj.faces {
			var triIdx [3]int
			for c := 0; c < 3; c++ {
				k := key{face.vIdx[c], face.vtIdx[c], face.vnIdx[c]}
				if idx, ok := vertMap[k]; ok {
					triIdx[c] = idx
					continue
				}
				uv, hasUV := safeUV(k.vt)
				v := primitive.Vertex{Position: safePos(k.v), Normal: safeNorm(k.vn), UV: uv, HasUV: hasUV}
				idx := len(verts)
				verts = append(verts, v)
				vertMap[k] = idx
				triIdx[c] = idx
			}
			if !hasNormals {
				v0, v1, v2 := verts[triIdx[0]], verts[triIdx[1]], verts[triIdx[2]]
				faceNormal := v1.Position.Subtract(v0.Position).Cross(v2.Position.Subtract(v0.Position)).Normalize()
				verts[triIdx[0]].Normal = faceNormal
				verts[triIdx[1]].Normal = faceNormal
				verts[triIdx[2]].Normal = faceNormal
			}
			indices = append(indices, triIdx)
		}

		mesh := primitive.NewTriangleMesh(transform, verts, indices, 0, smoothShading && hasNormals)
		groups = append(groups, ObjGroup{Name: obj.name, MaterialName: obj.matName, Triangles: mesh.Triangles})
	}

	return &ObjResult{Groups: groups, Materials: materials}, nil
}

func parseFaceVertex(tok string) (v, vt, vn int) {
	parseIdx := func(s string) int {
		if s == "" {
			return -1
		}
		n, _ := strconv.Atoi(s)
		if n > 0 {
			return n - 1
		}
		return n
	}
	parts := strings.Split(tok, "/")
	v, vt, vn = -1, -1, -1
	if len(parts) > 0 {
		v = parseIdx(parts[0])
	}
	if len(parts) > 1 {
		vt = parseIdx(parts[1])
	}
	if len(parts) > 2 {
		vn = parseIdx(parts[2])
	}
	return v, vt, vn
}

func loadMTL(path, dir string) (map[string]scene.Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mats := map[string]scene.Material{}
	var curName string
	var cur scene.Material

	flush := func() {
		if curName != "" {
			mats[curName] = cur
		}
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "newmtl":
			flush()
			curName = ""
			if len(fields) > 1 {
				curName = fields[1]
				cur = scene.DefaultMaterial()
				cur.Name = curName
			}
		case "Kd":
			if len(fields) >= 4 {
				r, _ := strconv.ParseFloat(fields[1], 64)
				g, _ := strconv.ParseFloat(fields[2], 64)
				b, _ := strconv.ParseFloat(fields[3], 64)
				cur.Diffuse = core.NewVec3(r, g, b)
			}
		case "Ks":
			if len(fields) >= 4 {
				r, _ := strconv.ParseFloat(fields[1], 64)
				g, _ := strconv.ParseFloat(fields[2], 64)
				b, _ := strconv.ParseFloat(fields[3], 64)
				cur.Specular = core.NewVec3(r, g, b)
			}
		case "Ns":
			if len(fields) >= 2 {
				ns, _ := strconv.ParseFloat(fields[1], 64)
				cur.Roughness = shininessToRoughness(ns)
			}
		case "Ni":
			if len(fields) >= 2 {
				ni, _ := strconv.ParseFloat(fields[1], 64)
				cur.RefractionIndex = ni
			}
		case "d":
			if len(fields) >= 2 {
				d, _ := strconv.ParseFloat(fields[1], 64)
				cur.Transparency = 1 - d
			}
		case "map_Kd":
			if len(fields) >= 2 {
				texPath := filepath.Join(dir, fields[1])
				img, err := LoadTexture(texPath)
				if err == nil {
					cur.DiffuseTexture = scene.NewImageTexture(img)
				}
			}
		}
	}
	flush()
	return mats, scanner.Err()
}

// shininessToRoughness converts a Phong specular exponent (Ns, typically
// 1..1000) to an approximate GGX roughness in [0, 1].
func shininessToRoughness(ns float64) float64 {
	if ns <= 0 {
		return 1
	}
	r := 1.0 / (1.0 + ns/64.0)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// LoadTexture decodes a PNG or JPEG file from disk.
func LoadTexture(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}
