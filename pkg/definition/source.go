package definition

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// Source locates a definition document.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Location() string
}

type fileSource struct {
	path string
}

// SourceFromFile reads the definition from a path on disk.
func SourceFromFile(path string) Source {
	return fileSource{path: strings.TrimSpace(path)}
}

func (s fileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.path == "" {
		return nil, errors.New("definition: file path is empty")
	}
	return os.Open(s.path)
}

func (s fileSource) Location() string {
	return s.path
}

type fsSource struct {
	fsys fs.FS
	path string
}

// SourceFromFS reads the definition from an fs.FS.
func SourceFromFS(fsys fs.FS, path string) Source {
	return fsSource{fsys: fsys, path: strings.TrimSpace(path)}
}

func (s fsSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.fsys == nil {
		return nil, errors.New("definition: filesystem is nil")
	}
	return s.fsys.Open(s.path)
}

func (s fsSource) Location() string {
	return s.path
}

type bytesSource struct {
	name string
	data []byte
}

// SourceFromBytes wraps an in-memory document. name is used in errors.
func SourceFromBytes(name string, data []byte) Source {
	return bytesSource{name: name, data: data}
}

func (s bytesSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func (s bytesSource) Location() string {
	return s.name
}

// LoadSource opens src and loads the definition it holds.
func LoadSource(ctx context.Context, src Source) (*Definition, error) {
	if src == nil {
		return nil, errors.New("definition: source is nil")
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("definition: open %q: %w", src.Location(), err)
	}
	defer rc.Close()

	def, err := Load(rc)
	if err != nil {
		return nil, fmt.Errorf("%w (source %q)", err, src.Location())
	}
	return def, nil
}
