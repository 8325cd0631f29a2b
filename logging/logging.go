package logging

import (
	"io"
	"log"
	"os"
	"sync"
)

const maxLogSize = 4 * 1024 * 1024 // 4MB, one backup kept

// FileSink tees the standard logger into a size-capped file.
type FileSink struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	written int64
}

// Setup routes the default log package output to stdout plus a rotating
// file at logPath. Returns the sink so the caller can close it.
func Setup(logPath string) (*FileSink, error) {
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	var written int64
	if info, err := f.Stat(); err == nil {
		written = info.Size()
	}

	sink := &FileSink{file: f, path: logPath, written: written}
	log.SetOutput(io.MultiWriter(os.Stdout, sink))
	return sink, nil
}

func (s *FileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.file.Write(p)
	s.written += int64(n)
	if s.written > maxLogSize {
		s.rotate()
	}
	return n, err
}

func (s *FileSink) rotate() {
	s.file.Close()
	os.Rename(s.path, s.path+".1")

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return
	}
	s.file = f
	s.written = 0
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
