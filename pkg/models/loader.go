package models

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

var (
	// ErrAssetNotFound is returned when no file exists for a logical asset name.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrUnsupportedFormat is returned for file extensions with no loader.
	ErrUnsupportedFormat = errors.New("unsupported model format")
)

// Extensions lists the asset file extensions in resolution order.
var Extensions = []string{".json", ".glb", ".obj"}

// Resolve finds the file backing a logical asset name in fsys.
func Resolve(fsys fs.FS, name string) (string, error) {
	for _, ext := range Extensions {
		file := name + ext
		if _, err := fs.Stat(fsys, file); err == nil {
			return file, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", file, err)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrAssetNotFound, name)
}

// Load resolves a logical asset name and decodes it.
func Load(ctx context.Context, fsys fs.FS, name string) (*Mesh, error) {
	file, err := Resolve(fsys, name)
	if err != nil {
		return nil, err
	}
	return LoadFile(ctx, fsys, file)
}

// LoadFile decodes a model file, picking the loader by extension.
func LoadFile(ctx context.Context, fsys fs.FS, file string) (*Mesh, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(path.Ext(file))
	switch ext {
	case ".glb", ".gltf":
		return LoadGLB(fsys, file)
	case ".json", ".obj":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	f, err := fsys.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()

	if ext == ".obj" {
		return LoadOBJ(f, file)
	}
	return LoadThreeJSON(f, file)
}
