package tasks

import (
	"slices"
	"sync"

	"github.com/tgienger/tasks/internal/models"
)

// State is the in-memory task list of one signed-in session, newest first.
//
// Readers get copies; every mutation replaces the list under the lock in a
// single step, so a reader never observes a half-applied result. Only the
// Repository mutates it.
type State struct {
	mu     sync.RWMutex
	owner  string
	tasks  []models.Task
	loaded bool
}

// NewState returns an empty state with no owner
func NewState() *State {
	return &State{}
}

// Snapshot returns a copy of the current list
func (s *State) Snapshot() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

// Len returns the number of tasks held
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Owner returns the identity the list belongs to
func (s *State) Owner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner
}

// Loaded reports whether a Load has succeeded since the last reset
func (s *State) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Get returns the task with the given id
func (s *State) Get(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return models.Task{}, false
}

// Reset empties the list and binds it to owner. Used on identity change.
func (s *State) Reset(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = owner
	s.tasks = nil
	s.loaded = false
}

// replace swaps in a freshly loaded list. It reports false and does nothing
// when the state has moved on to a different owner.
func (s *State) replace(owner string, list []models.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner != owner {
		return false
	}
	s.tasks = slices.Clone(list)
	s.loaded = true
	return true
}

// prepend inserts a newly created task at the front
func (s *State) prepend(owner string, t models.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner != owner {
		return false
	}
	next := make([]models.Task, 0, len(s.tasks)+1)
	next = append(next, t)
	next = append(next, s.tasks...)
	s.tasks = next
	return true
}

// put replaces the entry with t's id in place. Absent ids are ignored.
func (s *State) put(t models.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(t.ID)
	if i < 0 {
		return false
	}
	next := slices.Clone(s.tasks)
	next[i] = t
	s.tasks = next
	return true
}

// remove drops the entry with the given id
func (s *State) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks = slices.Delete(slices.Clone(s.tasks), i, i+1)
	return true
}

// indexOf must be called with the lock held
func (s *State) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
}
