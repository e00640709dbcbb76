package scene

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/orb/pkg/math3d"
)

// LoadGLTF loads a GLTF or GLB file and converts its mesh nodes into spheres.
//
// Each node that references a mesh becomes one sphere centered on the
// node's world-space origin, with a radius of half the largest extent of
// the mesh positions times the largest scale of the node's world transform.
// World transforms compose the node hierarchy, honoring either the node
// matrix or its translation, rotation and scale. Materials are taken from
// the PBR metallic-roughness factors of the first primitive.
func LoadGLTF(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	s, err := FromGLTF(doc)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}

// FromGLTF converts an already decoded GLTF document.
func FromGLTF(doc *gltf.Document) (*Scene, error) {
	world, err := worldTransforms(doc)
	if err != nil {
		return nil, err
	}

	s := New()

	// GLTF material index -> scene material index, filled lazily
	materials := make(map[int]int)
	fallback := -1

	for ni, node := range doc.Nodes {
		if node.Mesh == nil {
			continue
		}
		if *node.Mesh < 0 || *node.Mesh >= len(doc.Meshes) {
			return nil, fmt.Errorf("node %d: mesh %d: %w", ni, *node.Mesh, ErrIndexOutOfRange)
		}
		m := doc.Meshes[*node.Mesh]

		radius, err := meshRadius(doc, m)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
		}

		w := world[ni]
		radius *= maxAxisScale(w)
		if !(radius > 0) {
			continue
		}

		var matIdx int
		if gm := primitiveMaterial(m); gm >= 0 && gm < len(doc.Materials) {
			idx, ok := materials[gm]
			if !ok {
				idx = s.AddMaterial(convertMaterial(doc.Materials[gm]))
				materials[gm] = idx
			}
			matIdx = idx
		} else {
			if fallback < 0 {
				fallback = s.AddMaterial(Material{Albedo: math3d.V3(1, 1, 1), Roughness: 1})
			}
			matIdx = fallback
		}

		s.AddSphere(Sphere{
			Position:      w.MulVec4(math3d.V4(0, 0, 0, 1)).Vec3(),
			Radius:        radius,
			MaterialIndex: matIdx,
		})
	}

	return s, nil
}

// worldTransforms returns the world matrix of every node, walking the
// hierarchy from the nodes that are nobody's child.
func worldTransforms(doc *gltf.Document) ([]math3d.Mat4, error) {
	n := len(doc.Nodes)
	world := make([]math3d.Mat4, n)
	isChild := make([]bool, n)
	for ni, node := range doc.Nodes {
		for _, c := range node.Children {
			if c < 0 || c >= n {
				return nil, fmt.Errorf("node %d: child %d: %w", ni, c, ErrIndexOutOfRange)
			}
			isChild[c] = true
		}
	}

	visited := make([]bool, n)
	var walk func(ni int, parent math3d.Mat4) error
	walk = func(ni int, parent math3d.Mat4) error {
		if visited[ni] {
			return fmt.Errorf("node %d: %w", ni, ErrNodeCycle)
		}
		visited[ni] = true
		world[ni] = parent.Mul(localTransform(doc.Nodes[ni]))
		for _, c := range doc.Nodes[ni].Children {
			if err := walk(c, world[ni]); err != nil {
				return err
			}
		}
		return nil
	}

	for ni := range doc.Nodes {
		if isChild[ni] {
			continue
		}
		if err := walk(ni, math3d.Identity()); err != nil {
			return nil, err
		}
	}
	// Nodes left unvisited only hang off a cycle
	for ni, ok := range visited {
		if !ok {
			return nil, fmt.Errorf("node %d: %w", ni, ErrNodeCycle)
		}
	}
	return world, nil
}

// localTransform returns the node matrix when one is set, otherwise T*R*S.
// An unset rotation or scale is treated as identity.
func localTransform(node *gltf.Node) math3d.Mat4 {
	m := math3d.Mat4(node.Matrix)
	if m != (math3d.Mat4{}) && m != math3d.Identity() {
		return m
	}

	t := math3d.V3(node.Translation[0], node.Translation[1], node.Translation[2])
	r := math3d.V4(node.Rotation[0], node.Rotation[1], node.Rotation[2], node.Rotation[3])
	return math3d.Translate(t).Mul(math3d.FromQuat(r)).Mul(math3d.Scale(nodeScale(node)))
}

// maxAxisScale returns the largest length of the transformed unit axes.
func maxAxisScale(m math3d.Mat4) float64 {
	return max(
		m.MulVec3Dir(math3d.V3(1, 0, 0)).Len(),
		m.MulVec3Dir(math3d.V3(0, 1, 0)).Len(),
		m.MulVec3Dir(math3d.V3(0, 0, 1)).Len(),
	)
}

// nodeScale returns the node scale, treating an unset scale as identity.
func nodeScale(node *gltf.Node) math3d.Vec3 {
	sc := math3d.V3(node.Scale[0], node.Scale[1], node.Scale[2])
	if sc == math3d.Zero3() {
		return math3d.V3(1, 1, 1)
	}
	return sc
}

// primitiveMaterial returns the material of the first primitive that has one.
func primitiveMaterial(m *gltf.Mesh) int {
	for _, prim := range m.Primitives {
		if prim.Material != nil {
			return *prim.Material
		}
	}
	return -1
}

func convertMaterial(gm *gltf.Material) Material {
	mat := Material{Albedo: math3d.V3(1, 1, 1), Roughness: 1, Metallic: 1}
	pbr := gm.PBRMetallicRoughness
	if pbr == nil {
		return mat
	}
	if pbr.BaseColorFactor != nil {
		c := *pbr.BaseColorFactor
		mat.Albedo = math3d.V3(c[0], c[1], c[2])
	}
	if pbr.RoughnessFactor != nil {
		mat.Roughness = *pbr.RoughnessFactor
	}
	if pbr.MetallicFactor != nil {
		mat.Metallic = *pbr.MetallicFactor
	}
	return mat
}

// meshRadius returns half the largest bounding-box extent over all
// triangle primitives of the mesh.
func meshRadius(doc *gltf.Document, m *gltf.Mesh) (float64, error) {
	var bmin, bmax math3d.Vec3
	seen := false

	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readPositions(doc, posIdx)
		if err != nil {
			return 0, fmt.Errorf("read positions: %w", err)
		}
		for _, p := range positions {
			if !seen {
				bmin, bmax = p, p
				seen = true
				continue
			}
			bmin = bmin.Min(p)
			bmax = bmax.Max(p)
		}
	}

	if !seen {
		return 0, nil
	}
	return bmax.Sub(bmin).MaxComponent() / 2, nil
}

// readPositions reads VEC3 float positions from an accessor backed by an
// embedded buffer.
func readPositions(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", accessorIdx, ErrIndexOutOfRange)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}
	if accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float components, got %v", accessor.ComponentType)
	}
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}

	bvIdx := *accessor.BufferView
	if bvIdx < 0 || bvIdx >= len(doc.BufferViews) {
		return nil, fmt.Errorf("buffer view %d: %w", bvIdx, ErrIndexOutOfRange)
	}
	bufferView := doc.BufferViews[bvIdx]
	if bufferView.Buffer < 0 || bufferView.Buffer >= len(doc.Buffers) {
		return nil, fmt.Errorf("buffer %d: %w", bufferView.Buffer, ErrIndexOutOfRange)
	}
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.URI != "" && len(buffer.Data) == 0 {
		return nil, fmt.Errorf("external buffers not supported")
	}
	data := buffer.Data

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	if stride == 0 {
		stride = 12 // 3 floats * 4 bytes
	}
	if start < 0 || stride < 12 {
		return nil, fmt.Errorf("accessor %d: offset %d, stride %d: %w", accessorIdx, start, stride, ErrIndexOutOfRange)
	}
	count := accessor.Count
	if count < 0 {
		return nil, fmt.Errorf("accessor %d: count %d: %w", accessorIdx, count, ErrIndexOutOfRange)
	}
	if count > 0 && start+(count-1)*stride+12 > len(data) {
		return nil, fmt.Errorf("accessor %d overruns buffer (%d bytes)", accessorIdx, len(data))
	}

	result := make([]math3d.Vec3, count)
	for i := range count {
		off := start + i*stride
		result[i] = math3d.V3(
			float64(readFloat32(data[off:])),
			float64(readFloat32(data[off+4:])),
			float64(readFloat32(data[off+8:])),
		)
	}
	return result, nil
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
