package batch

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/artglb/internal/asset"
	"github.com/Faultbox/artglb/pkg/glb"
)

func writeJPEG(t *testing.T, path string) {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 50, 50)), nil); err != nil {
		t.Fatalf("failed to encode JPEG: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write JPEG: %v", err)
	}
}

func TestRun_IsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "first.jpg"))
	writeJPEG(t, filepath.Join(dir, "third.jpg"))

	reqs := []asset.Request{
		{Source: filepath.Join(dir, "first.jpg"), Destination: filepath.Join(dir, "out", "first.glb"), WidthCM: 92, HeightCM: 73},
		{Source: filepath.Join(dir, "second.jpg"), Destination: filepath.Join(dir, "out", "second.glb"), WidthCM: 50, HeightCM: 50},
		{Source: filepath.Join(dir, "third.jpg"), Destination: filepath.Join(dir, "out", "third.glb"), WidthCM: 77, HeightCM: 53},
	}

	report := NewDriver(asset.NewBuilder(asset.DefaultOptions(), nil), 2, nil).Run(reqs)

	if report.Succeeded != 2 || report.Failed != 1 {
		t.Fatalf("expected 2 succeeded and 1 failed, got %d and %d", report.Succeeded, report.Failed)
	}
	for _, name := range []string{"first.glb", "third.glb"} {
		if _, err := glb.ParseFile(filepath.Join(dir, "out", name)); err != nil {
			t.Errorf("%s not written correctly: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "second.glb")); !os.IsNotExist(err) {
		t.Error("failed request left a destination file")
	}

	failures := report.Failures()
	if len(failures) != 1 || failures[0].Request.Source != reqs[1].Source {
		t.Fatalf("unexpected failures %+v", failures)
	}
	if !errors.Is(failures[0].Err, asset.ErrSourceNotFound) {
		t.Errorf("expected ErrSourceNotFound, got %v", failures[0].Err)
	}

	err := report.Err()
	if err == nil || !strings.Contains(err.Error(), "second.jpg") {
		t.Errorf("combined error should name the failing source, got %v", err)
	}
	if !errors.Is(err, asset.ErrSourceNotFound) {
		t.Errorf("combined error lost its cause: %v", err)
	}
}

// stubBuilder fails or panics for selected sources.
type stubBuilder struct {
	fail  map[string]error
	panic map[string]bool
}

func (s stubBuilder) Build(req asset.Request) (*asset.Result, error) {
	if s.panic[req.Source] {
		panic("decoder exploded")
	}
	if err := s.fail[req.Source]; err != nil {
		return nil, err
	}
	return &asset.Result{Source: req.Source, Destination: req.Destination, Bytes: 4}, nil
}

func TestRun_PanicBecomesFailure(t *testing.T) {
	b := stubBuilder{
		fail:  map[string]error{"b": asset.ErrImageDecode},
		panic: map[string]bool{"c": true},
	}

	var reqs []asset.Request
	for _, src := range []string{"a", "b", "c", "d", "e"} {
		reqs = append(reqs, asset.Request{Source: src, Destination: src + ".glb"})
	}

	report := NewDriver(b, 3, nil).Run(reqs)

	if report.Succeeded != 3 || report.Failed != 2 {
		t.Fatalf("expected 3 succeeded and 2 failed, got %d and %d", report.Succeeded, report.Failed)
	}
	for i, o := range report.Outcomes {
		if o.Request.Source != reqs[i].Source {
			t.Errorf("outcome %d out of order: %s", i, o.Request.Source)
		}
		if (o.Err == nil) == (o.Result == nil) {
			t.Errorf("outcome %d must have exactly one of result and error", i)
		}
	}
	if !errors.Is(report.Outcomes[2].Err, ErrPanic) {
		t.Errorf("expected ErrPanic, got %v", report.Outcomes[2].Err)
	}
	if !errors.Is(report.Outcomes[1].Err, asset.ErrImageDecode) {
		t.Errorf("expected ErrImageDecode, got %v", report.Outcomes[1].Err)
	}
}

func TestRun_AllSucceed(t *testing.T) {
	reqs := make([]asset.Request, 40)
	for i := range reqs {
		reqs[i] = asset.Request{Source: string(rune('a' + i%26)), Destination: fmt.Sprintf("out/%02d.glb", i)}
	}

	report := NewDriver(stubBuilder{}, 0, nil).Run(reqs)
	if report.Succeeded != len(reqs) || report.Failed != 0 {
		t.Errorf("expected all %d to succeed, got %+v", len(reqs), report)
	}
	if report.Err() != nil {
		t.Errorf("expected nil error, got %v", report.Err())
	}
	if len(report.Failures()) != 0 {
		t.Error("expected no failures")
	}
}

func TestRun_Empty(t *testing.T) {
	report := NewDriver(stubBuilder{}, 2, nil).Run(nil)
	if len(report.Outcomes) != 0 || report.Err() != nil {
		t.Errorf("unexpected report for empty batch: %+v", report)
	}
}

func TestRun_DuplicateDestinationFailsAlone(t *testing.T) {
	reqs := []asset.Request{
		{Source: "a/sunset.jpg", Destination: "models/painting_sunset.glb"},
		{Source: "b/sunset.jpg", Destination: "models/./painting_sunset.glb"},
		{Source: "c/dawn.jpg", Destination: "models/painting_dawn.glb"},
	}

	report := NewDriver(stubBuilder{}, 2, nil).Run(reqs)

	if report.Succeeded != 2 || report.Failed != 1 {
		t.Fatalf("expected 2 succeeded and 1 failed, got %d and %d", report.Succeeded, report.Failed)
	}
	if !errors.Is(report.Outcomes[1].Err, ErrDuplicateDestination) {
		t.Errorf("expected ErrDuplicateDestination for the second request, got %v", report.Outcomes[1].Err)
	}
	if report.Outcomes[0].Err != nil || report.Outcomes[2].Err != nil {
		t.Errorf("unique destinations should build: %v, %v", report.Outcomes[0].Err, report.Outcomes[2].Err)
	}
}

func TestRun_ReleasesWorkers(t *testing.T) {
	baseline := runtime.NumGoroutine()

	reqs := make([]asset.Request, 16)
	for i := range reqs {
		reqs[i] = asset.Request{Source: "src", Destination: fmt.Sprintf("out/%02d.glb", i)}
	}
	d := NewDriver(stubBuilder{}, 8, nil)
	for i := 0; i < 3; i++ {
		d.Run(reqs)
	}

	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > baseline+2 {
		if time.Now().After(deadline) {
			t.Fatalf("worker goroutines left running: %d, baseline %d", runtime.NumGoroutine(), baseline)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
