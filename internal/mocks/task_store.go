package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/taskpulse/taskpulse-api/internal/domain"
	"github.com/taskpulse/taskpulse-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn  func(ctx context.Context, task *domain.Task) error
	FindAllFn func(ctx context.Context, ownerID int64) ([]*domain.Task, error)
	FindOneFn func(ctx context.Context, id, ownerID int64) (*domain.Task, error)
	UpdateFn  func(ctx context.Context, id, ownerID int64, update domain.TaskUpdate) (*domain.Task, error)
	DeleteFn  func(ctx context.Context, id, ownerID int64) error

	// Data for default in-memory implementation
	mu     sync.Mutex
	Tasks  map[int64]*domain.Task
	nextID int64
}

// Ensure MockTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks:  make(map[int64]*domain.Task),
		nextID: 1,
	}
}

// Seed inserts a task directly, assigning it the next free id.
// Returns the stored task for convenience.
func (m *MockTaskStore) Seed(task *domain.Task) *domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	task.ID = m.nextID
	m.nextID++
	m.Tasks[task.ID] = task
	return task
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task.ID = m.nextID
	m.nextID++
	copied := *task
	m.Tasks[task.ID] = &copied
	return nil
}

// FindAll implements the TaskStore interface
func (m *MockTaskStore) FindAll(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	if m.FindAllFn != nil {
		return m.FindAllFn(ctx, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Task
	for _, task := range m.Tasks {
		if task.UserID == ownerID {
			copied := *task
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// FindOne implements the TaskStore interface
func (m *MockTaskStore) FindOne(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
	if m.FindOneFn != nil {
		return m.FindOneFn(ctx, id, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.Tasks[id]
	if !ok || task.UserID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, id, ownerID int64, update domain.TaskUpdate) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, ownerID, update)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.Tasks[id]
	if !ok || task.UserID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	if err := update.Apply(task); err != nil {
		return nil, err
	}
	copied := *task
	return &copied, nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id, ownerID int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.Tasks[id]
	if !ok || task.UserID != ownerID {
		return store.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	return nil
}
