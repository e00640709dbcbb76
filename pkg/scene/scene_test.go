package scene

import (
	"errors"
	"testing"

	"github.com/taigrr/orb/pkg/math3d"
)

func TestAddAndUpdate(t *testing.T) {
	s := New()

	mi := s.AddMaterial(Material{Albedo: math3d.V3(1, 0, 0)})
	if mi != 0 {
		t.Errorf("first material index = %d, want 0", mi)
	}
	si := s.AddSphere(Sphere{Radius: 1, MaterialIndex: mi})
	if si != 0 {
		t.Errorf("first sphere index = %d, want 0", si)
	}

	if err := s.UpdateSphere(0, Sphere{Position: math3d.V3(1, 2, 3), Radius: 2}); err != nil {
		t.Fatalf("UpdateSphere: %v", err)
	}
	if s.Spheres[0].Position != math3d.V3(1, 2, 3) || s.Spheres[0].Radius != 2 {
		t.Errorf("sphere not updated: %+v", s.Spheres[0])
	}

	if err := s.UpdateMaterial(0, Material{Albedo: math3d.V3(0, 1, 0), Roughness: 0.5}); err != nil {
		t.Fatalf("UpdateMaterial: %v", err)
	}
	if s.Materials[0].Roughness != 0.5 {
		t.Errorf("material not updated: %+v", s.Materials[0])
	}
}

func TestUpdateOutOfRange(t *testing.T) {
	s := New()
	if err := s.UpdateSphere(0, Sphere{}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("UpdateSphere on empty scene: got %v, want ErrIndexOutOfRange", err)
	}
	if err := s.UpdateMaterial(-1, Material{}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("UpdateMaterial(-1): got %v, want ErrIndexOutOfRange", err)
	}
}

func TestAddDoesNotValidate(t *testing.T) {
	s := New()
	s.AddSphere(Sphere{Radius: 1, MaterialIndex: 7})
	if s.SphereCount() != 1 {
		t.Fatalf("SphereCount = %d, want 1", s.SphereCount())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		scene   *Scene
		wantErr error
	}{
		{"empty", New(), nil},
		{"default", Default(), nil},
		{
			"material out of range",
			&Scene{Spheres: []Sphere{{Radius: 1, MaterialIndex: 1}}, Materials: []Material{{}}},
			ErrInvalidMaterial,
		},
		{
			"negative material",
			&Scene{Spheres: []Sphere{{Radius: 1, MaterialIndex: -1}}, Materials: []Material{{}}},
			ErrInvalidMaterial,
		},
		{
			"zero radius",
			&Scene{Spheres: []Sphere{{Radius: 0}}, Materials: []Material{{}}},
			ErrInvalidRadius,
		},
		{
			"shared material",
			&Scene{Spheres: []Sphere{{Radius: 1}, {Radius: 2}}, Materials: []Material{{}}},
			nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.scene.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestMaterialLookup(t *testing.T) {
	s := Default()
	if got := s.Material(2); got != s.Materials[2] {
		t.Errorf("Material(2) = %+v, want %+v", got, s.Materials[2])
	}
}

func TestClone(t *testing.T) {
	s := Default()
	clone := s.Clone()

	clone.Spheres[0].Radius = 42
	clone.Materials[0].Albedo = math3d.V3(0, 0, 0)

	if s.Spheres[0].Radius == 42 {
		t.Error("Clone should not share sphere storage")
	}
	if s.Materials[0].Albedo == math3d.V3(0, 0, 0) {
		t.Error("Clone should not share material storage")
	}
	if clone.SphereCount() != s.SphereCount() || clone.MaterialCount() != s.MaterialCount() {
		t.Error("Clone should preserve counts")
	}
}
