package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Faultbox/viscull/internal/engine/cull"
)

func TestDefaultMatchesEngineDefaults(t *testing.T) {
	cfg := Default()

	got := cfg.Culling.ToCull()
	want := cull.DefaultConfig()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("default culling section diverged from the engine defaults (-want +got):\n%s", diff)
	}

	if cfg.Bench.StaticObjects != 5000 || cfg.Bench.Frames != 600 {
		t.Errorf("bench defaults = %+v", cfg.Bench)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default log level = %q, want info", cfg.Logging.Level)
	}
}

func TestCullRoundTrip(t *testing.T) {
	in := cull.DefaultConfig()
	in.MaxDistance = 750
	in.UseOcclusionCulling = true
	in.CullingBudget = 2 * time.Millisecond

	out := FromCull(in).ToCull()
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("ToCull(FromCull(c)) != c (-want +got):\n%s", diff)
	}
}

func TestLoadFromFileMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `culling:
  max_distance: 250
  spatial_grid_cell_size: 64
bench:
  frames: 42
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}

	if cfg.Culling.MaxDistance != 250 {
		t.Errorf("MaxDistance = %v, want 250 from file", cfg.Culling.MaxDistance)
	}
	if cfg.Culling.GridCellSize != 64 {
		t.Errorf("GridCellSize = %v, want 64 from file", cfg.Culling.GridCellSize)
	}
	if cfg.Bench.Frames != 42 {
		t.Errorf("Frames = %d, want 42 from file", cfg.Bench.Frames)
	}

	// Untouched keys keep their defaults.
	if cfg.Culling.MinPixelSize != Default().Culling.MinPixelSize {
		t.Error("keys absent from the file must keep their defaults")
	}
	if cfg.Bench.StaticObjects != 5000 {
		t.Error("bench keys absent from the file must keep their defaults")
	}
}

func TestLoadFromFileRejectsBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("culling: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := loadFromFile(Default(), path); err == nil {
		t.Error("malformed yaml should fail to load")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	orig := Default()
	orig.Culling.MaxDistance = 333
	orig.Culling.DebugMode = true
	orig.Logging.Level = "debug"

	if err := orig.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if diff := cmp.Diff(orig, loaded); diff != "" {
		t.Errorf("config changed across save/load (-want +got):\n%s", diff)
	}
}
