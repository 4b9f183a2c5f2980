package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/logging"
)

var log = logging.NewLogger("source")

// Source produces a JSON document. Load may be called again to reload.
type Source interface {
	Name() string
	Load(ctx context.Context) (jsondoc.Value, error)
}

// FileSource reads a document from a file on every Load
type FileSource struct {
	Path string
}

// NewFileSource returns a source for path
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string {
	return filepath.Base(s.Path)
}

// Load reads and parses the file
func (s *FileSource) Load(ctx context.Context) (jsondoc.Value, error) {
	if err := ctx.Err(); err != nil {
		return jsondoc.Value{}, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return jsondoc.Value{}, fmt.Errorf("failed to open %s: %w", s.Path, err)
	}
	defer f.Close()

	v, err := jsondoc.Decode(f)
	if err != nil {
		return jsondoc.Value{}, fmt.Errorf("failed to parse %s: %w", s.Path, err)
	}
	log.WithField("path", s.Path).Debug("document loaded")
	return v, nil
}

// ReaderSource reads a stream once and serves the parsed document on every Load
type ReaderSource struct {
	name string
	r    io.Reader

	once  sync.Once
	value jsondoc.Value
	err   error
}

// NewReaderSource wraps a one-shot stream such as stdin
func NewReaderSource(name string, r io.Reader) *ReaderSource {
	return &ReaderSource{name: name, r: r}
}

func (s *ReaderSource) Name() string {
	return s.name
}

// Load parses the stream on first use
func (s *ReaderSource) Load(ctx context.Context) (jsondoc.Value, error) {
	if err := ctx.Err(); err != nil {
		return jsondoc.Value{}, err
	}
	s.once.Do(func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, s.r); err != nil {
			s.err = fmt.Errorf("failed to read %s: %w", s.name, err)
			return
		}
		s.value, s.err = jsondoc.Parse(buf.Bytes())
		if s.err != nil {
			s.err = fmt.Errorf("failed to parse %s: %w", s.name, s.err)
		}
	})
	return s.value, s.err
}

// StaticSource serves a document that is already in memory
type StaticSource struct {
	name  string
	value jsondoc.Value
}

// NewStaticSource wraps an in-memory document
func NewStaticSource(name string, v jsondoc.Value) *StaticSource {
	return &StaticSource{name: name, value: v}
}

func (s *StaticSource) Name() string {
	return s.name
}

func (s *StaticSource) Load(ctx context.Context) (jsondoc.Value, error) {
	return s.value, ctx.Err()
}

// StdinIsPiped reports whether stdin carries data rather than a terminal
func StdinIsPiped() bool {
	fd := os.Stdin.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}
