package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/artglb/internal/asset"
	"github.com/Faultbox/artglb/pkg/names"
)

// ErrInvalidManifest is returned for manifests that parse but cannot be used.
var ErrInvalidManifest = errors.New("invalid manifest")

// DefaultOutputDir is used when a manifest sets no output_dir.
const DefaultOutputDir = "models"

// Manifest lists the paintings of a batch.
type Manifest struct {
	OutputDir string     `yaml:"output_dir"`
	Paintings []Painting `yaml:"paintings"`
}

// Painting is one manifest entry.
type Painting struct {
	Title    string  `yaml:"title"`
	Image    string  `yaml:"image"`
	WidthCM  float64 `yaml:"width_cm"`
	HeightCM float64 `yaml:"height_cm"`
	Output   string  `yaml:"output,omitempty"`
}

// ParseManifest decodes a manifest. Relative paths in it resolve against
// baseDir.
func ParseManifest(data []byte, baseDir string) ([]asset.Request, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if len(m.Paintings) == 0 {
		return nil, fmt.Errorf("%w: no paintings", ErrInvalidManifest)
	}

	outDir := m.OutputDir
	if outDir == "" {
		outDir = DefaultOutputDir
	}
	outDir = resolve(baseDir, outDir)

	reqs := make([]asset.Request, 0, len(m.Paintings))
	owner := make(map[string]int, len(m.Paintings))
	for i, p := range m.Paintings {
		if p.Image == "" {
			return nil, fmt.Errorf("%w: painting %d has no image", ErrInvalidManifest, i)
		}

		// Dimensions are validated by the builder so a bad entry fails alone.
		req := asset.Request{
			Name:     names.Normalize(p.Title),
			Source:   resolve(baseDir, p.Image),
			WidthCM:  p.WidthCM,
			HeightCM: p.HeightCM,
		}

		if p.Output != "" {
			req.Destination = resolve(baseDir, p.Output)
		} else {
			stem := req.Name
			if stem == "" {
				stem = strings.TrimSuffix(filepath.Base(p.Image), filepath.Ext(p.Image))
			}
			req.Destination = filepath.Join(outDir, OutputName(stem))
		}

		key := filepath.Clean(req.Destination)
		if j, dup := owner[key]; dup {
			return nil, fmt.Errorf("%w: paintings %d and %d both write %s", ErrInvalidManifest, j, i, req.Destination)
		}
		owner[key] = i
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// LoadManifest reads and decodes the manifest at path.
func LoadManifest(path string) ([]asset.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return ParseManifest(data, filepath.Dir(path))
}

// OutputName returns the default GLB file name for a painting title.
func OutputName(title string) string {
	return "painting_" + names.Slug(title) + ".glb"
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
