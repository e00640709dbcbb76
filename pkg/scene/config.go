package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/taigrr/orb/pkg/math3d"
)

// SphereCfg is the JSON form of a Sphere.
type SphereCfg struct {
	Position [3]float64 `json:"position"`
	Radius   float64    `json:"radius"`
	Material int        `json:"material"`
}

// MaterialCfg is the JSON form of a Material.
type MaterialCfg struct {
	Albedo    [3]float64 `json:"albedo"`
	Roughness float64    `json:"roughness,omitempty"`
	Metallic  float64    `json:"metallic,omitempty"`
}

// Config is the on-disk scene description.
type Config struct {
	Spheres   []SphereCfg   `json:"spheres"`
	Materials []MaterialCfg `json:"materials"`
}

// Load reads a JSON scene file.
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}

// Decode parses a JSON scene and validates it.
func Decode(r io.Reader) (*Scene, error) {
	var cfg Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}

	s := FromConfig(cfg)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// FromConfig converts a Config into a Scene without validating it.
func FromConfig(cfg Config) *Scene {
	s := New()
	for _, m := range cfg.Materials {
		s.AddMaterial(Material{
			Albedo:    math3d.V3(m.Albedo[0], m.Albedo[1], m.Albedo[2]),
			Roughness: m.Roughness,
			Metallic:  m.Metallic,
		})
	}
	for _, sp := range cfg.Spheres {
		s.AddSphere(Sphere{
			Position:      math3d.V3(sp.Position[0], sp.Position[1], sp.Position[2]),
			Radius:        sp.Radius,
			MaterialIndex: sp.Material,
		})
	}
	return s
}

// Config returns the JSON form of the scene.
func (s *Scene) Config() Config {
	cfg := Config{
		Spheres:   make([]SphereCfg, 0, len(s.Spheres)),
		Materials: make([]MaterialCfg, 0, len(s.Materials)),
	}
	for _, sp := range s.Spheres {
		cfg.Spheres = append(cfg.Spheres, SphereCfg{
			Position: [3]float64{sp.Position.X, sp.Position.Y, sp.Position.Z},
			Radius:   sp.Radius,
			Material: sp.MaterialIndex,
		})
	}
	for _, m := range s.Materials {
		cfg.Materials = append(cfg.Materials, MaterialCfg{
			Albedo:    [3]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z},
			Roughness: m.Roughness,
			Metallic:  m.Metallic,
		})
	}
	return cfg
}

// Encode writes the scene as indented JSON.
func (s *Scene) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Config()); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}

// Save writes the scene to a JSON file.
func (s *Scene) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scene file: %w", err)
	}
	if err := s.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
