package repo

import (
	"context"
	"sort"
	"sync"

	dom "Taskboard/internal/domain"

	"github.com/google/uuid"
)

// MemoryStore is the in-process storage engine. It owns users and tasks,
// each behind its own lock, and only ever hands out copies.
// It implements both TaskRepo and UserRepo; errors are always nil.
type MemoryStore struct {
	usersMu   sync.RWMutex
	users     map[string]dom.User
	userOrder []string

	tasksMu   sync.RWMutex
	tasks     map[string]dom.Task
	taskOrder []string

	newID func() string
}

var (
	_ TaskRepo = (*MemoryStore)(nil)
	_ UserRepo = (*MemoryStore)(nil)
)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]dom.User),
		tasks: make(map[string]dom.Task),
		newID: uuid.NewString,
	}
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (dom.User, bool, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()
	u, ok := s.users[id]
	return u, ok, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (dom.User, bool, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()
	for _, id := range s.userOrder {
		if u := s.users[id]; u.Username == username {
			return u, true, nil
		}
	}
	return dom.User{}, false, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, username, password string) (dom.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	u := dom.User{ID: s.freshID(func(id string) bool { _, ok := s.users[id]; return ok }), Username: username, Password: password}
	s.users[u.ID] = u
	s.userOrder = append(s.userOrder, u.ID)
	return u, nil
}

func (s *MemoryStore) ListTasks(_ context.Context) ([]dom.Task, error) {
	s.tasksMu.RLock()
	defer s.tasksMu.RUnlock()
	out := make([]dom.Task, 0, len(s.taskOrder))
	for _, id := range s.taskOrder {
		out = append(out, s.tasks[id].Clone())
	}
	return out, nil
}

func (s *MemoryStore) GetTask(_ context.Context, id string) (dom.Task, bool, error) {
	s.tasksMu.RLock()
	defer s.tasksMu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return dom.Task{}, false, nil
	}
	return t.Clone(), true, nil
}

func (s *MemoryStore) CreateTask(_ context.Context, d dom.TaskDraft) (dom.Task, error) {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()
	t := d.Materialize(s.freshID(func(id string) bool { _, ok := s.tasks[id]; return ok }))
	s.tasks[t.ID] = t
	s.taskOrder = append(s.taskOrder, t.ID)
	return t.Clone(), nil
}

func (s *MemoryStore) UpdateTask(_ context.Context, id string, patch dom.TaskPatch) (dom.Task, bool, error) {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()
	existing, ok := s.tasks[id]
	if !ok {
		return dom.Task{}, false, nil
	}
	merged := patch.Apply(existing)
	s.tasks[id] = merged
	return merged.Clone(), true, nil
}

func (s *MemoryStore) DeleteTask(_ context.Context, id string) (bool, error) {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return false, nil
	}
	delete(s.tasks, id)
	for i, v := range s.taskOrder {
		if v == id {
			s.taskOrder = append(s.taskOrder[:i], s.taskOrder[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *MemoryStore) Categories(_ context.Context) ([]string, error) {
	s.tasksMu.RLock()
	seen := make(map[string]struct{})
	for _, t := range s.tasks {
		if t.Category != nil {
			seen[*t.Category] = struct{}{}
		}
	}
	s.tasksMu.RUnlock()

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

// freshID draws ids until taken reports false. Caller holds the write lock.
func (s *MemoryStore) freshID(taken func(string) bool) string {
	for {
		if id := s.newID(); !taken(id) {
			return id
		}
	}
}
