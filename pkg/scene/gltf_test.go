package scene

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/orb/pkg/math3d"
)

func float32Bytes(vals ...float32) []byte {
	b := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// testDocument builds a GLTF document with one mesh spanning [-1,1] on X and
// two nodes using it, plus one node without a mesh.
func testDocument() *gltf.Document {
	data := float32Bytes(
		-1, 0, 0,
		1, 0.5, 0,
	)
	zero := 0
	roughness := 0.25
	metallic := 0.0

	return &gltf.Document{
		Buffers:     []*gltf.Buffer{{ByteLength: len(data), Data: data}},
		BufferViews: []*gltf.BufferView{{Buffer: 0, ByteLength: len(data)}},
		Accessors: []*gltf.Accessor{{
			BufferView:    &zero,
			ComponentType: gltf.ComponentFloat,
			Count:         2,
			Type:          gltf.AccessorVec3,
		}},
		Materials: []*gltf.Material{{
			Name: "red",
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float64{1, 0, 0, 1},
				RoughnessFactor: &roughness,
				MetallicFactor:  &metallic,
			},
		}},
		Meshes: []*gltf.Mesh{{
			Name: "ball",
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]int{gltf.POSITION: 0},
				Material:   &zero,
			}},
		}},
		Nodes: []*gltf.Node{
			{Name: "a", Mesh: &zero, Translation: [3]float64{1, 2, 3}, Scale: [3]float64{1, 1, 1}},
			{Name: "empty"},
			{Name: "b", Mesh: &zero, Scale: [3]float64{3, 1, 1}},
		},
	}
}

func TestFromGLTF(t *testing.T) {
	s, err := FromGLTF(testDocument())
	if err != nil {
		t.Fatalf("FromGLTF: %v", err)
	}

	if s.SphereCount() != 2 {
		t.Fatalf("SphereCount = %d, want 2", s.SphereCount())
	}
	if s.MaterialCount() != 1 {
		t.Fatalf("MaterialCount = %d, want 1 (shared material added once)", s.MaterialCount())
	}

	a := s.Spheres[0]
	if a.Position != math3d.V3(1, 2, 3) {
		t.Errorf("sphere a position = %v, want (1, 2, 3)", a.Position)
	}
	if math.Abs(a.Radius-1) > 1e-6 {
		t.Errorf("sphere a radius = %f, want 1", a.Radius)
	}

	b := s.Spheres[1]
	if math.Abs(b.Radius-3) > 1e-6 {
		t.Errorf("sphere b radius = %f, want 3 (scaled)", b.Radius)
	}

	m := s.Materials[0]
	if m.Albedo != math3d.V3(1, 0, 0) || m.Roughness != 0.25 || m.Metallic != 0 {
		t.Errorf("material = %+v", m)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("imported scene should validate: %v", err)
	}
}

func TestFromGLTFDefaultMaterial(t *testing.T) {
	doc := testDocument()
	doc.Meshes[0].Primitives[0].Material = nil

	s, err := FromGLTF(doc)
	if err != nil {
		t.Fatalf("FromGLTF: %v", err)
	}
	if s.MaterialCount() != 1 {
		t.Fatalf("MaterialCount = %d, want 1 fallback material", s.MaterialCount())
	}
	if s.Materials[0].Albedo != math3d.V3(1, 1, 1) {
		t.Errorf("fallback albedo = %v, want white", s.Materials[0].Albedo)
	}
}

func TestFromGLTFBadMesh(t *testing.T) {
	doc := testDocument()
	bad := 5
	doc.Nodes[0].Mesh = &bad

	if _, err := FromGLTF(doc); err == nil {
		t.Error("expected error for node referencing a missing mesh")
	}
}

func TestFromGLTFBadBufferView(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc *gltf.Document)
	}{
		{"buffer view out of range", func(doc *gltf.Document) {
			bad := 7
			doc.Accessors[0].BufferView = &bad
		}},
		{"negative buffer view", func(doc *gltf.Document) {
			bad := -1
			doc.Accessors[0].BufferView = &bad
		}},
		{"buffer out of range", func(doc *gltf.Document) {
			doc.BufferViews[0].Buffer = 3
		}},
		{"negative offset", func(doc *gltf.Document) {
			doc.Accessors[0].ByteOffset = -24
		}},
		{"negative count", func(doc *gltf.Document) {
			doc.Accessors[0].Count = -1
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := testDocument()
			tc.mutate(doc)

			_, err := FromGLTF(doc)
			if !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("err = %v, want ErrIndexOutOfRange", err)
			}
		})
	}
}

func TestFromGLTFNodeHierarchy(t *testing.T) {
	doc := testDocument()
	zero := 0
	// Parent moved to x=10 and scaled by 2, rotated 90 degrees about Y;
	// its child sits one unit down its local -Z.
	s45 := math.Sqrt(0.5)
	doc.Nodes = []*gltf.Node{
		{
			Name:        "parent",
			Translation: [3]float64{10, 0, 0},
			Rotation:    [4]float64{0, s45, 0, s45},
			Scale:       [3]float64{2, 2, 2},
			Children:    []int{1},
		},
		{Name: "child", Mesh: &zero, Translation: [3]float64{0, 0, -1}},
	}

	s, err := FromGLTF(doc)
	if err != nil {
		t.Fatalf("FromGLTF: %v", err)
	}
	if s.SphereCount() != 1 {
		t.Fatalf("SphereCount = %d, want 1", s.SphereCount())
	}

	got := s.Spheres[0]
	// Local -Z turns into -X under the parent rotation, doubled by its scale
	want := math3d.V3(8, 0, 0)
	if d := got.Position.Sub(want).Len(); d > 1e-9 {
		t.Errorf("position = %v, want %v", got.Position, want)
	}
	if math.Abs(got.Radius-2) > 1e-9 {
		t.Errorf("radius = %f, want 2", got.Radius)
	}
}

func TestFromGLTFNodeMatrix(t *testing.T) {
	doc := testDocument()
	zero := 0
	doc.Nodes = []*gltf.Node{{
		Name: "placed",
		Mesh: &zero,
		Matrix: [16]float64{
			4, 0, 0, 0,
			0, 4, 0, 0,
			0, 0, 4, 0,
			-2, 5, 1, 1,
		},
		// Ignored when a matrix is set
		Translation: [3]float64{100, 100, 100},
	}}

	s, err := FromGLTF(doc)
	if err != nil {
		t.Fatalf("FromGLTF: %v", err)
	}
	if got := s.Spheres[0].Position; got != math3d.V3(-2, 5, 1) {
		t.Errorf("position = %v, want (-2, 5, 1)", got)
	}
	if got := s.Spheres[0].Radius; math.Abs(got-4) > 1e-9 {
		t.Errorf("radius = %f, want 4", got)
	}
}

func TestFromGLTFBadHierarchy(t *testing.T) {
	t.Run("child out of range", func(t *testing.T) {
		doc := testDocument()
		doc.Nodes[1].Children = []int{9}
		if _, err := FromGLTF(doc); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("err = %v, want ErrIndexOutOfRange", err)
		}
	})

	t.Run("cycle", func(t *testing.T) {
		doc := testDocument()
		doc.Nodes[0].Children = []int{2}
		doc.Nodes[2].Children = []int{0}
		if _, err := FromGLTF(doc); !errors.Is(err, ErrNodeCycle) {
			t.Errorf("err = %v, want ErrNodeCycle", err)
		}
	})
}

func TestFromGLTFTruncatedBuffer(t *testing.T) {
	doc := testDocument()
	doc.Accessors[0].Count = 10

	if _, err := FromGLTF(doc); err == nil {
		t.Error("expected error for accessor overrunning its buffer")
	}
}

func TestLoadGLTFInvalidPath(t *testing.T) {
	if _, err := LoadGLTF("/nonexistent/path.glb"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}
