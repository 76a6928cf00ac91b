package writer

import (
	"io"
	"os"
	"path/filepath"
)

// Dir is a Sink backed by a real directory, the concrete sink the root
// package's Compile uses for an actual compile run.
type Dir struct {
	Path string
}

func (d Dir) Create(name string) (io.WriteCloser, error) {
	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(d.Path, name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
}

func (d Dir) Remove(name string) error {
	err := os.Remove(filepath.Join(d.Path, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
