package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fmuoria/interview-coach/internal/models"
	"github.com/google/uuid"
)

const (
	filePrefix = "interview_"
	fileSuffix = ".json"
)

// FileStore keeps one JSON file per record in a directory
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a store rooted at dir, creating the directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id uuid.UUID) string {
	return filepath.Join(s.dir, filePrefix+id.String()+fileSuffix)
}

// Save writes the record to its file, replacing any previous version
func (s *FileStore) Save(_ context.Context, rec models.InterviewRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Write to a temp file first so readers never see a partial record
	tmp := s.path(rec.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write record file: %w", err)
	}
	if err := os.Rename(tmp, s.path(rec.ID)); err != nil {
		return fmt.Errorf("failed to move record file into place: %w", err)
	}

	return nil
}

// Get reads the record with the given id
func (s *FileStore) Get(_ context.Context, id uuid.UUID) (models.InterviewRecord, error) {
	return s.readFile(s.path(id))
}

func (s *FileStore) readFile(path string) (models.InterviewRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.InterviewRecord{}, ErrNotFound
		}
		return models.InterviewRecord{}, fmt.Errorf("failed to read record file %s: %w", path, err)
	}

	var rec models.InterviewRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.InterviewRecord{}, fmt.Errorf("failed to parse record file %s: %w", path, err)
	}

	return rec, nil
}

// List reads every record file in the directory, newest first
func (s *FileStore) List(_ context.Context) ([]models.InterviewRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.InterviewRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read results directory %s: %w", s.dir, err)
	}

	list := make([]models.InterviewRecord, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}

		rec, err := s.readFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	sortNewestFirst(list)

	return list, nil
}

// Delete removes the record file
func (s *FileStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete record file: %w", err)
	}
	return nil
}

// Close is a no-op for the file store
func (s *FileStore) Close() error {
	return nil
}
