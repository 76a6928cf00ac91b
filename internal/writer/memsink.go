package writer

import (
	"bytes"
	"io"
)

// MemSink is an in-memory Sink, used by tests that don't want to touch disk.
type MemSink struct {
	Files map[string][]byte
}

func NewMemSink() *MemSink {
	return &MemSink{Files: make(map[string][]byte)}
}

type memFile struct {
	sink *MemSink
	name string
	buf  bytes.Buffer
}

func (f *memFile) Write(p []byte) (int, error) { return f.buf.Write(p) }
func (f *memFile) Close() error {
	f.sink.Files[f.name] = f.buf.Bytes()
	return nil
}

func (s *MemSink) Create(name string) (io.WriteCloser, error) {
	return &memFile{sink: s, name: name}, nil
}

func (s *MemSink) Remove(name string) error {
	if _, ok := s.Files[name]; !ok {
		return nil
	}
	delete(s.Files, name)
	return nil
}
