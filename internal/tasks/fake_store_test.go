package tasks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/tgienger/tasks/internal/models"
)

var errBackend = errors.New("backend unavailable")

// fakeStore is an in-memory Store. Records are kept oldest first, the same
// way a table would hold them.
type fakeStore struct {
	mu      sync.Mutex
	records []models.Task
	seq     int
	clock   time.Time

	failList   error
	failInsert error
	failUpdate error
	failDelete error

	// gate, when set, is called after an update has been applied to the
	// records and before its response is returned
	gate func(id string, result models.Task)

	listCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{clock: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)}
}

func (s *fakeStore) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}

func (s *fakeStore) seed(owner string, titles ...string) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for _, title := range titles {
		s.seq++
		now := s.tick()
		t := models.Task{
			ID:        fmt.Sprintf("task-%d", s.seq),
			UserID:    owner,
			Title:     title,
			Priority:  models.PriorityMedium,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.records = append(s.records, t)
		out = append(out, t)
	}
	return out
}

func (s *fakeStore) ListByOwner(_ context.Context, owner string) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.failList != nil {
		return nil, s.failList
	}
	var out []models.Task
	for _, t := range slices.Backward(s.records) {
		if t.UserID == owner {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeStore) Insert(_ context.Context, owner string, d models.Draft) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsert != nil {
		return nil, s.failInsert
	}
	s.seq++
	now := s.tick()
	t := models.Task{
		ID:          fmt.Sprintf("task-%d", s.seq),
		UserID:      owner,
		Title:       d.Title,
		Description: d.Description,
		Priority:    d.Priority,
		DueDate:     d.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.records = append(s.records, t)
	return &t, nil
}

func (s *fakeStore) Update(_ context.Context, owner, id string, p models.Patch, at time.Time) (*models.Task, error) {
	s.mu.Lock()
	if s.failUpdate != nil {
		s.mu.Unlock()
		return nil, s.failUpdate
	}
	i := slices.IndexFunc(s.records, func(t models.Task) bool { return t.ID == id && t.UserID == owner })
	if i < 0 {
		s.mu.Unlock()
		return nil, errors.New("not found")
	}
	s.records[i] = p.Apply(s.records[i], at)
	result := s.records[i]
	gate := s.gate
	s.mu.Unlock()

	if gate != nil {
		gate(id, result)
	}
	return &result, nil
}

func (s *fakeStore) Delete(_ context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete != nil {
		return s.failDelete
	}
	s.records = slices.DeleteFunc(s.records, func(t models.Task) bool { return t.ID == id && t.UserID == owner })
	return nil
}

func (s *fakeStore) get(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.records, func(t models.Task) bool { return t.ID == id })
	if i < 0 {
		return models.Task{}, false
	}
	return s.records[i], true
}
