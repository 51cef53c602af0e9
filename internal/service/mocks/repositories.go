package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/SergeiKhy/todo-shorturl/internal/models"
	"github.com/SergeiKhy/todo-shorturl/internal/repository"
)

// MockLinkRepository implements repository.LinkRepository for testing.
// Both unique constraints of the links table are enforced.
type MockLinkRepository struct {
	mu            sync.RWMutex
	byShortID     map[string]*models.Link
	byDestination map[string]*models.Link
	nextID        int64
	inserts       int
	err           error
}

func NewMockLinkRepository() *MockLinkRepository {
	return &MockLinkRepository{
		byShortID:     make(map[string]*models.Link),
		byDestination: make(map[string]*models.Link),
		nextID:        1,
	}
}

// FailWith makes every following call return err
func (m *MockLinkRepository) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockLinkRepository) Insert(ctx context.Context, link *models.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.inserts++
	if m.err != nil {
		return m.err
	}
	if _, exists := m.byDestination[link.DestinationURL]; exists {
		return repository.ErrDestinationExists
	}
	if _, exists := m.byShortID[link.ShortID]; exists {
		return repository.ErrShortIDTaken
	}

	link.ID = m.nextID
	link.ClickCount = 0
	m.nextID++

	stored := *link
	m.byShortID[link.ShortID] = &stored
	m.byDestination[link.DestinationURL] = &stored
	return nil
}

func (m *MockLinkRepository) GetByShortID(ctx context.Context, shortID string) (*models.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, m.err
	}
	link, exists := m.byShortID[shortID]
	if !exists {
		return nil, repository.ErrLinkNotFound
	}
	copied := *link
	return &copied, nil
}

func (m *MockLinkRepository) GetByDestinationURL(ctx context.Context, destinationURL string) (*models.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, m.err
	}
	link, exists := m.byDestination[destinationURL]
	if !exists {
		return nil, repository.ErrLinkNotFound
	}
	copied := *link
	return &copied, nil
}

func (m *MockLinkRepository) IncrementClicks(ctx context.Context, shortID string) (*models.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	link, exists := m.byShortID[shortID]
	if !exists {
		return nil, repository.ErrLinkNotFound
	}
	link.ClickCount++
	copied := *link
	return &copied, nil
}

// Seed stores a link as is, bypassing constraint checks
func (m *MockLinkRepository) Seed(link models.Link) {
	m.mu.Lock()
	defer m.mu.Unlock()
	link.ID = m.nextID
	m.nextID++
	m.byShortID[link.ShortID] = &link
	m.byDestination[link.DestinationURL] = &link
}

func (m *MockLinkRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byShortID)
}

// Inserts returns the number of Insert calls, successful or not
func (m *MockLinkRepository) Inserts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inserts
}

func (m *MockLinkRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byShortID = make(map[string]*models.Link)
	m.byDestination = make(map[string]*models.Link)
	m.nextID = 1
	m.inserts = 0
	m.err = nil
}

// MockTaskRepository implements repository.TaskRepository for testing
type MockTaskRepository struct {
	mu     sync.RWMutex
	tasks  map[int64]*models.Task
	nextID int64
}

func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		tasks:  make(map[int64]*models.Task),
		nextID: 1,
	}
}

func (m *MockTaskRepository) Create(ctx context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	task.ID = m.nextID
	m.nextID++
	stored := *task
	m.tasks[task.ID] = &stored
	return nil
}

func (m *MockTaskRepository) List(ctx context.Context) ([]models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tasks := make([]models.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		tasks = append(tasks, *task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID > tasks[j].ID
	})
	return tasks, nil
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	task, exists := m.tasks[id]
	if !exists {
		return nil, repository.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (m *MockTaskRepository) Update(ctx context.Context, id int64, input *models.UpdateTaskInput) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.tasks[id]
	if !exists {
		return nil, repository.ErrTaskNotFound
	}
	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		description := *input.Description
		task.Description = &description
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}
	copied := *task
	return &copied, nil
}

func (m *MockTaskRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tasks[id]; !exists {
		return repository.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *MockTaskRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = make(map[int64]*models.Task)
	m.nextID = 1
}
