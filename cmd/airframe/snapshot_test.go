package main

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/taigrr/airframe/internal/config"
)

// quadJSON is a 2x2 quad in the three.js v3 model format.
const quadJSON = `{
	"metadata": {"formatVersion": 3},
	"vertices": [-1,-1,0, 1,-1,0, 1,1,0, -1,1,0],
	"faces": [1, 0,1,2,3]
}`

const defaultTestTimeout = 10 * time.Second

func TestRunSnapshot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "quad_x.json"), []byte(quadJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Viewer.AssetDir = dir
	cfg.Viewer.Mixer = 3

	out := filepath.Join(dir, "out.png")
	so := snapshotOptions{out: out, width: 64, height: 48, yaw: 30, timeout: defaultTestTimeout}
	if err := runSnapshot(context.Background(), cfg, so); err != nil {
		t.Fatalf("runSnapshot() error = %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("image size = %dx%d, want 64x48", b.Dx(), b.Dy())
	}
	if _, _, _, a := img.At(32, 24).RGBA(); a == 0 {
		t.Error("model not drawn at image center")
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Error("corner should stay transparent")
	}
}

func TestRunSnapshotErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Viewer.AssetDir = dir
	cfg.Viewer.Mixer = 3

	tests := []struct {
		name string
		so   snapshotOptions
	}{
		{"invalid size", snapshotOptions{out: filepath.Join(dir, "a.png"), width: 0, height: 10, timeout: defaultTestTimeout}},
		{"missing asset", snapshotOptions{out: filepath.Join(dir, "b.png"), width: 10, height: 10, timeout: defaultTestTimeout}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runSnapshot(context.Background(), cfg, tt.so); err == nil {
				t.Error("expected error")
			}
			if _, err := os.Stat(tt.so.out); err == nil {
				t.Error("output written despite error")
			}
		})
	}
}
