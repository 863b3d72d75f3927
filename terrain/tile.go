package terrain

import (
	goerrors "errors"
	"os"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"stride/crc"
	"stride/math/vec"
)

// ErrBadChecksum means a tile file's height payload does not match its
// recorded checksum.
var ErrBadChecksum = goerrors.New("tile checksum mismatch")

type tileFile struct {
	Width   int        `msgpack:"w"`
	Depth   int        `msgpack:"d"`
	Spacing float32    `msgpack:"s"`
	Origin  [3]float32 `msgpack:"o"`
	Heights []float32  `msgpack:"h"`
	Sum     uint16     `msgpack:"c"`
}

// SaveTile writes the terrain as a checksummed msgpack tile.
func (t *Terrain) SaveTile(path string) error {
	f := tileFile{
		Width:   t.width,
		Depth:   t.depth,
		Spacing: t.spacing,
		Origin:  [3]float32{t.origin.X, t.origin.Y, t.origin.Z},
		Heights: t.heights,
		Sum:     crc.Floats(t.heights),
	}
	raw, err := msgpack.Marshal(&f)
	if err != nil {
		return errors.Wrapf(err, "encode tile %s", path)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return errors.Wrapf(err, "write tile %s", path)
	}
	return nil
}

// LoadTile reads a tile written by SaveTile, verifying its checksum.
func LoadTile(path string) (*Terrain, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read tile %s", path)
	}
	var f tileFile
	if err := msgpack.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrapf(err, "decode tile %s", path)
	}
	if crc.Floats(f.Heights) != f.Sum {
		return nil, errors.Wrapf(ErrBadChecksum, "tile %s", path)
	}
	t, err := New(f.Width, f.Depth, f.Spacing,
		vec.Vec3{X: f.Origin[0], Y: f.Origin[1], Z: f.Origin[2]}, f.Heights)
	if err != nil {
		return nil, errors.Wrapf(err, "tile %s", path)
	}
	return t, nil
}
