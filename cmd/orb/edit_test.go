package main

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/orb/pkg/math3d"
	"github.com/taigrr/orb/pkg/render"
	"github.com/taigrr/orb/pkg/scene"
)

func TestPickSphere(t *testing.T) {
	s := scene.Default()
	cam := render.NewCamera()
	cam.SetPosition(math3d.V3(0, 0, 6))

	i, ok := pickSphere(s, cam)
	if !ok || i != 0 {
		t.Errorf("pickSphere = %d, %v; want sphere 0", i, ok)
	}

	cam.SetRotation(1.2, 0) // looking up, over everything
	if _, ok := pickSphere(s, cam); ok {
		t.Error("looking at the sky should pick nothing")
	}
}

func TestCycleMaterial(t *testing.T) {
	s := scene.Default()
	for _, want := range []int{1, 2, 0} {
		if err := cycleMaterial(s, 0); err != nil {
			t.Fatalf("cycleMaterial: %v", err)
		}
		if got := s.Spheres[0].MaterialIndex; got != want {
			t.Errorf("material = %d, want %d", got, want)
		}
	}

	if err := cycleMaterial(s, 9); !errors.Is(err, scene.ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
	if err := cycleMaterial(scene.New(), 0); !errors.Is(err, scene.ErrInvalidMaterial) {
		t.Errorf("err = %v, want ErrInvalidMaterial", err)
	}
}

func TestScaleRadius(t *testing.T) {
	s := scene.Default()
	if err := scaleRadius(s, 1, 2); err != nil {
		t.Fatalf("scaleRadius: %v", err)
	}
	if got := s.Spheres[1].Radius; got != 2 {
		t.Errorf("radius = %f, want 2", got)
	}

	if err := scaleRadius(s, 1, -1); !errors.Is(err, scene.ErrInvalidRadius) {
		t.Errorf("err = %v, want ErrInvalidRadius", err)
	}
	if s.Spheres[1].Radius != 2 {
		t.Error("rejected edit changed the sphere")
	}
	if err := scaleRadius(s, -1, 2); !errors.Is(err, scene.ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestScaleAlbedo(t *testing.T) {
	s := scene.New()
	m := s.AddMaterial(scene.Material{Albedo: math3d.V3(0.5, 0.25, 0.9)})
	s.AddSphere(scene.Sphere{Radius: 1, MaterialIndex: m})

	if err := scaleAlbedo(s, 0, 2); err != nil {
		t.Fatalf("scaleAlbedo: %v", err)
	}
	got := s.Materials[m].Albedo
	if math.Abs(got.X-1) > 1e-12 || math.Abs(got.Y-0.5) > 1e-12 || got.Z != 1 {
		t.Errorf("albedo = %v, want (1, 0.5, 1) after clamping", got)
	}

	s.Spheres[0].MaterialIndex = 4
	if err := scaleAlbedo(s, 0, 2); !errors.Is(err, scene.ErrInvalidMaterial) {
		t.Errorf("err = %v, want ErrInvalidMaterial", err)
	}
}
