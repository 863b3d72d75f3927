package terrain

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stride/crc"
	"stride/math/vec"

	"github.com/vmihailenco/msgpack/v5"
)

func TestTileRoundtrip(t *testing.T) {
	tr, err := Generate(8, 6, 2.5, vec.Vec3{X: -4, Y: 1, Z: -4}, 7, 5, 3)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	path := filepath.Join(t.TempDir(), "tile.bin")
	if err := tr.SaveTile(path); err != nil {
		t.Fatalf("SaveTile: %v", err)
	}
	got, err := LoadTile(path)
	if err != nil {
		t.Fatalf("LoadTile: %v", err)
	}
	if got.width != tr.width || got.depth != tr.depth {
		t.Errorf("dimensions %dx%d want %dx%d", got.width, got.depth, tr.width, tr.depth)
	}
	if got.spacing != tr.spacing {
		t.Errorf("spacing %v want %v", got.spacing, tr.spacing)
	}
	if got.origin != tr.origin {
		t.Errorf("origin %v want %v", got.origin, tr.origin)
	}
	for i := range tr.heights {
		if got.heights[i] != tr.heights[i] {
			t.Fatalf("height %d = %v want %v", i, got.heights[i], tr.heights[i])
		}
	}
}

func TestLoadTileChecksum(t *testing.T) {
	heights := []float32{0, 1, 2, 3}
	f := tileFile{
		Width:   2,
		Depth:   2,
		Spacing: 1,
		Heights: heights,
		Sum:     crc.Floats(heights) + 1,
	}
	raw, err := msgpack.Marshal(&f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "bad.bin")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadTile(path); !errors.Is(err, ErrBadChecksum) {
		t.Errorf("LoadTile err = %v want ErrBadChecksum", err)
	}
}

func TestLoadTileMissing(t *testing.T) {
	if _, err := LoadTile(filepath.Join(t.TempDir(), "nope.bin")); err == nil {
		t.Errorf("LoadTile on a missing file succeeded")
	}
}

func TestLoadTileGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.bin")
	if err := os.WriteFile(path, []byte("not a tile"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadTile(path); err == nil {
		t.Errorf("LoadTile on garbage succeeded")
	}
}
