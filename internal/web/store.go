package web

import (
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/tabulr/timetabler/pkg/errors"
)

const scheduleSuffix = "-schedule.csv"

// Store keeps exported schedules on disk, one CSV per run id.
type Store struct {
	dir string
}

// NewStore creates the storage directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+scheduleSuffix)
}

// Save writes the exported CSV under the given run id.
func (s *Store) Save(id, csvData string) error {
	return os.WriteFile(s.path(id), []byte(csvData), 0o644)
}

// Get returns the stored CSV for a run id.
func (s *Store) Get(id string) (string, error) {
	content, err := os.ReadFile(s.path(id))
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrNotFound.Code,
			apperrors.ErrNotFound.Status, "schedule not found")
	}
	return string(content), nil
}

// List returns every stored run id.
func (s *Store) List() ([]string, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	ids := []string{}
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if id, ok := strings.CutSuffix(file.Name(), scheduleSuffix); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
