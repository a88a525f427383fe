package batch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseManifest(t *testing.T) {
	base := filepath.FromSlash("/srv/gallery")
	data := []byte(`
output_dir: models
paintings:
  - title: Starry Night
    image: images/starry_night.jpg
    width_cm: 92
    height_cm: 73
  - title: "Café Terrace at Night"
    image: images/cafe.jpg
    width_cm: 65.7
    height_cm: 81
  - image: /abs/untitled_04.png
    width_cm: 30
    height_cm: 20
  - title: The Scream
    image: images/scream.tga
    width_cm: 73.5
    height_cm: 91
    output: custom/scream.glb
`)

	reqs, err := ParseManifest(data, base)
	if err != nil {
		t.Fatalf("ParseManifest failed: %v", err)
	}
	if len(reqs) != 4 {
		t.Fatalf("expected 4 requests, got %d", len(reqs))
	}

	tests := []struct {
		name, source, dest string
		w, h               float64
	}{
		{"Starry Night", "images/starry_night.jpg", "models/painting_starry_night.glb", 92, 73},
		{"Caf\u00e9 Terrace at Night", "images/cafe.jpg", "models/painting_cafe_terrace_at_night.glb", 65.7, 81},
		{"", "/abs/untitled_04.png", "models/painting_untitled_04.glb", 30, 20},
		{"The Scream", "images/scream.tga", "custom/scream.glb", 73.5, 91},
	}

	for i, tc := range tests {
		r := reqs[i]
		wantSource := resolve(base, filepath.FromSlash(tc.source))
		wantDest := filepath.Join(base, filepath.FromSlash(tc.dest))
		if r.Name != tc.name {
			t.Errorf("%d: expected name %q, got %q", i, tc.name, r.Name)
		}
		if r.Source != wantSource {
			t.Errorf("%d: expected source %s, got %s", i, wantSource, r.Source)
		}
		if r.Destination != wantDest {
			t.Errorf("%d: expected destination %s, got %s", i, wantDest, r.Destination)
		}
		if r.WidthCM != tc.w || r.HeightCM != tc.h {
			t.Errorf("%d: expected %vx%v, got %vx%v", i, tc.w, tc.h, r.WidthCM, r.HeightCM)
		}
	}
}

func TestParseManifest_DefaultOutputDir(t *testing.T) {
	reqs, err := ParseManifest([]byte("paintings:\n  - image: a.jpg\n    width_cm: 1\n    height_cm: 1\n"), "base")
	if err != nil {
		t.Fatalf("ParseManifest failed: %v", err)
	}
	want := filepath.Join("base", DefaultOutputDir, "painting_a.glb")
	if reqs[0].Destination != want {
		t.Errorf("expected %s, got %s", want, reqs[0].Destination)
	}
}

func TestParseManifest_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not yaml", "paintings: [unclosed"},
		{"no paintings", "output_dir: models\n"},
		{"missing image", "paintings:\n  - title: Blank\n    width_cm: 10\n    height_cm: 10\n"},
		{"wrong type", "paintings:\n  - image: a.jpg\n    width_cm: wide\n"},
		{"same image stem", "paintings:\n  - image: a/sunset.jpg\n  - image: b/sunset.jpg\n"},
		{"same title", "paintings:\n  - title: Sunset\n    image: one.jpg\n  - title: \" sunset \"\n    image: two.jpg\n"},
		{"explicit output clash", "paintings:\n  - title: Dawn\n    image: dawn.jpg\n  - image: x.jpg\n    output: models/painting_dawn.glb\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseManifest([]byte(tc.data), "."); !errors.Is(err, ErrInvalidManifest) {
				t.Errorf("expected ErrInvalidManifest, got %v", err)
			}
		})
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	content := "paintings:\n  - title: Mona Lisa\n    image: mona.jpg\n    width_cm: 53\n    height_cm: 77\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	reqs, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if reqs[0].Source != filepath.Join(dir, "mona.jpg") {
		t.Errorf("source not resolved against manifest dir: %s", reqs[0].Source)
	}
	if reqs[0].Destination != filepath.Join(dir, "models", "painting_mona_lisa.glb") {
		t.Errorf("unexpected destination %s", reqs[0].Destination)
	}

	if _, err := LoadManifest(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing manifest")
	}
}

func TestOutputName(t *testing.T) {
	tests := map[string]string{
		"Starry Night":      "painting_starry_night.glb",
		"Girl with a Pearl": "painting_girl_with_a_pearl.glb",
		"":                  "painting_untitled.glb",
		"???":               "painting_untitled.glb",
	}
	for in, want := range tests {
		if got := OutputName(in); got != want {
			t.Errorf("OutputName(%q) = %s, expected %s", in, got, want)
		}
	}
}
