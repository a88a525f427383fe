package asset

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/artglb/pkg/glb"
	"github.com/Faultbox/artglb/pkg/mesh"
)

// writeJPEG writes a solid w x h JPEG to dir/name and returns its path.
func writeJPEG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 180, 140, 60, 255
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("failed to encode JPEG: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write JPEG: %v", err)
	}
	return path
}

func TestBuild_StarryNight(t *testing.T) {
	dir := t.TempDir()
	src := writeJPEG(t, dir, "starry_night.jpg", 50, 50)
	dst := filepath.Join(dir, "models", "painting_starry_night.glb")

	res, err := NewBuilder(DefaultOptions(), nil).Build(Request{
		Source:      src,
		Destination: dst,
		WidthCM:     92,
		HeightCM:    73,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("destination not written: %v", err)
	}
	if res.Bytes != int64(len(data)) {
		t.Errorf("result reports %d bytes, file has %d", res.Bytes, len(data))
	}
	if res.TextureWidth != 50 || res.TextureHeight != 50 {
		t.Errorf("expected 50x50 texture, got %dx%d", res.TextureWidth, res.TextureHeight)
	}
	if res.Name != "Painting" {
		t.Errorf("expected default node name, got %q", res.Name)
	}

	if got := binary.LittleEndian.Uint32(data[0:]); got != 0x46546C67 {
		t.Errorf("bad magic 0x%08X", got)
	}
	if got := binary.LittleEndian.Uint32(data[4:]); got != 2 {
		t.Errorf("expected version 2, got %d", got)
	}
	if got := binary.LittleEndian.Uint32(data[8:]); int(got) != len(data) {
		t.Errorf("header length %d, file length %d", got, len(data))
	}

	f, err := glb.Parse(data)
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	doc := f.Document

	if doc.Accessors[0].Count != 4 {
		t.Errorf("expected 4 positions, got %d", doc.Accessors[0].Count)
	}
	if doc.Accessors[3].Count != 6 {
		t.Errorf("expected 6 indices, got %d", doc.Accessors[3].Count)
	}

	indices, err := f.Indices()
	if err != nil {
		t.Fatalf("Indices failed: %v", err)
	}
	want := []uint16{0, 1, 2, 0, 2, 3}
	for i := range want {
		if indices[i] != want[i] {
			t.Fatalf("expected indices %v, got %v", want, indices)
		}
	}

	hw := float32(mesh.CentimetersToMeters(92) / 2)
	hh := float32(mesh.CentimetersToMeters(73) / 2)
	lo, hi := doc.Accessors[0].Min, doc.Accessors[0].Max
	if lo[0] != -hw || lo[1] != -hh || lo[2] != 0 || hi[0] != hw || hi[1] != hh || hi[2] != 0 {
		t.Errorf("bounds %v..%v, expected ±(%v, %v, 0)", lo, hi, hw, hh)
	}

	if len(f.JSON)%4 != 0 || len(f.BIN)%4 != 0 {
		t.Errorf("chunks not aligned: JSON %d, BIN %d", len(f.JSON), len(f.BIN))
	}

	tex, err := f.ViewBytes(4)
	if err != nil {
		t.Fatalf("image view: %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(tex)); err != nil {
		t.Errorf("embedded texture is not a JPEG: %v", err)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	dir := t.TempDir()
	src := writeJPEG(t, dir, "a.jpg", 64, 48)

	b := NewBuilder(DefaultOptions(), nil)
	var outputs [][]byte
	for _, name := range []string{"one.glb", "two.glb"} {
		dst := filepath.Join(dir, name)
		if _, err := b.Build(Request{Source: src, Destination: dst, WidthCM: 40, HeightCM: 30}); err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		data, _ := os.ReadFile(dst)
		outputs = append(outputs, data)
	}

	if !bytes.Equal(outputs[0], outputs[1]) {
		t.Error("identical requests produced different files")
	}
}

func TestBuild_NodeName(t *testing.T) {
	dir := t.TempDir()
	src := writeJPEG(t, dir, "nympheas.jpg", 8, 8)
	dst := filepath.Join(dir, "out.glb")

	// Decomposed e + combining acute is stored precomposed.
	res, err := NewBuilder(DefaultOptions(), nil).Build(Request{
		Name:        "  Nymphe\u0301as ",
		Source:      src,
		Destination: dst,
		WidthCM:     200,
		HeightCM:    100,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if res.Name != "Nymph\u00e9as" {
		t.Errorf("unexpected result name %q", res.Name)
	}

	f, err := glb.ParseFile(dst)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if f.Document.Nodes[0].Name != "Nymph\u00e9as" {
		t.Errorf("unexpected node name %q", f.Document.Nodes[0].Name)
	}
}

func TestBuild_Failures(t *testing.T) {
	dir := t.TempDir()
	valid := writeJPEG(t, dir, "valid.jpg", 50, 50)

	empty := filepath.Join(dir, "empty.jpg")
	os.WriteFile(empty, nil, 0644)

	data, _ := os.ReadFile(valid)
	truncated := filepath.Join(dir, "truncated.jpg")
	os.WriteFile(truncated, data[:len(data)/3], 0644)

	blocker := filepath.Join(dir, "blocker")
	os.WriteFile(blocker, []byte("file, not a directory"), 0644)

	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"empty source", Request{Source: empty, WidthCM: 50, HeightCM: 40}, ErrImageDecode},
		{"truncated source", Request{Source: truncated, WidthCM: 50, HeightCM: 40}, ErrImageDecode},
		{"missing source", Request{Source: filepath.Join(dir, "nope.jpg"), WidthCM: 50, HeightCM: 40}, ErrSourceNotFound},
		{"zero width", Request{Source: valid, WidthCM: 0, HeightCM: 40}, ErrGeometry},
		{"negative height", Request{Source: valid, WidthCM: 50, HeightCM: -1}, ErrGeometry},
		{"geometry checked before source", Request{Source: filepath.Join(dir, "nope.jpg"), WidthCM: 0, HeightCM: 0}, ErrGeometry},
		{"width overflows float32", Request{Source: valid, WidthCM: 1e41, HeightCM: 40}, ErrGeometry},
		{"width underflows float32", Request{Source: valid, WidthCM: 1e-44, HeightCM: 40}, ErrGeometry},
		{"overflow checked before source", Request{Source: filepath.Join(dir, "nope.jpg"), WidthCM: 1e41, HeightCM: 40}, ErrGeometry},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dst := filepath.Join(dir, "existing.glb")
			if err := os.WriteFile(dst, []byte("previous"), 0644); err != nil {
				t.Fatalf("failed to seed destination: %v", err)
			}
			tc.req.Destination = dst

			_, err := NewBuilder(DefaultOptions(), nil).Build(tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}

			got, _ := os.ReadFile(dst)
			if string(got) != "previous" {
				t.Errorf("existing destination was modified: %q", got)
			}
		})
	}

	t.Run("unwritable destination", func(t *testing.T) {
		dst := filepath.Join(blocker, "out.glb")
		_, err := NewBuilder(DefaultOptions(), nil).Build(Request{Source: valid, Destination: dst, WidthCM: 50, HeightCM: 40})
		if !errors.Is(err, ErrDestinationWrite) {
			t.Errorf("expected ErrDestinationWrite, got %v", err)
		}
	})

	t.Run("no temp files left", func(t *testing.T) {
		entries, _ := os.ReadDir(dir)
		for _, e := range entries {
			if filepath.Ext(e.Name()) == ".tmp" {
				t.Errorf("temporary file left behind: %s", e.Name())
			}
		}
	})
}

func TestEncode(t *testing.T) {
	g, err := mesh.Quad(1, 0.5)
	if err != nil {
		t.Fatalf("Quad failed: %v", err)
	}
	img := glb.ImageData{Data: []byte{0xFF, 0xD8, 0xFF, 0xE0, 1, 2, 3}, MIMEType: "image/jpeg"}

	data, err := Encode(g, img, glb.DefaultDocumentOptions())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(data)%4 != 0 {
		t.Errorf("file length %d not aligned", len(data))
	}
	if int(binary.LittleEndian.Uint32(data[8:])) != len(data) {
		t.Error("header length does not match output")
	}

	again, _ := Encode(g, img, glb.DefaultDocumentOptions())
	if !bytes.Equal(data, again) {
		t.Error("Encode is not deterministic")
	}

	broken := *g
	broken.Indices = []uint16{0, 1, 9}
	if _, err := Encode(&broken, img, glb.DefaultDocumentOptions()); !errors.Is(err, ErrGeometry) || !errors.Is(err, mesh.ErrIndexOutOfRange) {
		t.Errorf("expected ErrGeometry wrapping ErrIndexOutOfRange, got %v", err)
	}
}
