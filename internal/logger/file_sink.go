package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/scriptdeck/scriptdeck/internal/model"
)

// FileSink appends log entries as JSON lines to one file per (type, date)
// pair. Writes to the same file are serialized by a per-path mutex and use
// append-mode file I/O, so concurrent appends never clobber each other.
type FileSink struct {
	dir   string
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *FileSink) Append(entry model.Log) error {
	name := fmt.Sprintf("%s-%s.log", entry.Type, entry.Timestamp.UTC().Format("2006-01-02"))
	path := filepath.Join(s.dir, name)

	lock := s.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode log entry: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}
	return nil
}

// Prune removes log files whose date component is older than the cutoff and
// returns how many were deleted.
func (s *FileSink) Prune(cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read log directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".log")
		if len(name) < len("2006-01-02") {
			continue
		}
		date, err := time.Parse("2006-01-02", name[len(name)-len("2006-01-02"):])
		if err != nil {
			continue
		}
		if date.Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
				return removed, fmt.Errorf("failed to remove log file %s: %w", entry.Name(), err)
			}
			removed++
		}
	}
	return removed, nil
}

func (s *FileSink) lockFor(path string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[path]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[path] = lock
	}
	return lock
}
