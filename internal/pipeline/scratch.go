package pipeline

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Scratch owns the temporary artifacts of one pipeline run: a uniquely named
// directory plus every file registered into it. Close removes everything,
// on success and failure alike.
type Scratch struct {
	dir string

	mu     sync.Mutex
	files  []string // reverse-creation removal order
	closed bool
}

// NewScratch creates a fresh run-scoped directory under baseDir.
func NewScratch(baseDir string) (*Scratch, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create scratch base: %w", err)
	}
	dir := filepath.Join(baseDir, "run-"+uuid.New().String())
	if err := os.Mkdir(dir, 0755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &Scratch{dir: dir}, nil
}

// Dir returns the scratch directory path.
func (s *Scratch) Dir() string {
	return s.dir
}

// Path returns the path for a named artifact inside the scratch directory.
// The file is not created or registered; pair with Register once it exists.
func (s *Scratch) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Register records a temp file for removal at Close. Artifacts are removed
// in reverse registration order.
func (s *Scratch) Register(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = append(s.files, path)
}

// Close deletes every registered file and then the scratch directory.
// Removal failures are logged, never returned: cleanup must not mask the
// run's primary error. Safe to call more than once.
func (s *Scratch) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true

	for i := len(s.files) - 1; i >= 0; i-- {
		if err := os.Remove(s.files[i]); err != nil && !os.IsNotExist(err) {
			log.Printf("[pipeline] cleanup: remove %s: %v", s.files[i], err)
		}
	}
	if err := os.RemoveAll(s.dir); err != nil {
		log.Printf("[pipeline] cleanup: remove dir %s: %v", s.dir, err)
	}
}
