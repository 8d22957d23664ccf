// Package results stores evaluated interviews and answers queries over them.
package results

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/fmuoria/interview-coach/internal/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no record exists for an id
var ErrNotFound = errors.New("record not found")

// Store persists interview records keyed by id
type Store interface {
	// Save inserts the record or replaces the one with the same id
	Save(ctx context.Context, rec models.InterviewRecord) error
	Get(ctx context.Context, id uuid.UUID) (models.InterviewRecord, error)
	// List returns all records, newest first
	List(ctx context.Context) ([]models.InterviewRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Close() error
}

// MemoryStore keeps records in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]models.InterviewRecord
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[uuid.UUID]models.InterviewRecord),
	}
}

// Save stores a copy of rec
func (s *MemoryStore) Save(_ context.Context, rec models.InterviewRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.ID] = cloneRecord(rec)
	return nil
}

// Get returns a copy of the record with the given id
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (models.InterviewRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return models.InterviewRecord{}, ErrNotFound
	}
	return cloneRecord(rec), nil
}

// List returns copies of all records, newest first
func (s *MemoryStore) List(_ context.Context) ([]models.InterviewRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]models.InterviewRecord, 0, len(s.records))
	for _, rec := range s.records {
		list = append(list, cloneRecord(rec))
	}
	sortNewestFirst(list)

	return list, nil
}

// Delete removes the record with the given id
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// Close is a no-op for the memory store
func (s *MemoryStore) Close() error {
	return nil
}

// cloneRecord copies the slices of rec so callers cannot mutate stored data
func cloneRecord(rec models.InterviewRecord) models.InterviewRecord {
	out := rec
	out.QuestionsAndAnswers = append([]models.QAPair(nil), rec.QuestionsAndAnswers...)
	out.Comments = append([]models.Comment(nil), rec.Comments...)
	out.Result.Strengths = append([]string(nil), rec.Result.Strengths...)
	out.Result.AreasForImprovement = append([]string(nil), rec.Result.AreasForImprovement...)
	out.Result.DetailedFeedback = append([]models.QuestionFeedback(nil), rec.Result.DetailedFeedback...)
	return out
}

// sortNewestFirst orders records by creation time, breaking ties by id for a stable order
func sortNewestFirst(list []models.InterviewRecord) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID.String() < list[j].ID.String()
	})
}
