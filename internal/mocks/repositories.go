package mocks

import (
	"context"
	"sync"

	"github.com/comments-api/internal/models"
	"github.com/comments-api/internal/repository"
)

// MockCommentRepository is an in-memory implementation of CommentRepository
type MockCommentRepository struct {
	mu       sync.Mutex
	Comments map[string]*models.Comment
	order    []string

	FindError   error
	DeleteError error
	CountError  error
	PingError   error

	// Arguments received, in call order
	FindCalls   []string
	DeleteCalls []string
}

// Verify interface compliance
var _ repository.CommentRepository = (*MockCommentRepository)(nil)

// NewMockCommentRepository creates an empty mock store
func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		Comments: make(map[string]*models.Comment),
	}
}

// Add stores comments in insertion order
func (m *MockCommentRepository) Add(comments ...*models.Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range comments {
		if _, exists := m.Comments[c.ID]; !exists {
			m.order = append(m.order, c.ID)
		}
		m.Comments[c.ID] = c
	}
}

// FindByPostID returns matching comments in insertion order
func (m *MockCommentRepository) FindByPostID(ctx context.Context, postID string) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindCalls = append(m.FindCalls, postID)
	if m.FindError != nil {
		return nil, m.FindError
	}
	comments := make([]*models.Comment, 0)
	for _, id := range m.order {
		if c, ok := m.Comments[id]; ok && c.PostID == postID {
			comments = append(comments, c)
		}
	}
	return comments, nil
}

// FindByIDAndDelete removes and returns the comment, or (nil, nil) when absent
func (m *MockCommentRepository) FindByIDAndDelete(ctx context.Context, id string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, id)
	if m.DeleteError != nil {
		return nil, m.DeleteError
	}
	c, ok := m.Comments[id]
	if !ok {
		return nil, nil
	}
	delete(m.Comments, id)
	return c, nil
}

func (m *MockCommentRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountError != nil {
		return 0, m.CountError
	}
	return len(m.Comments), nil
}

func (m *MockCommentRepository) Ping(ctx context.Context) error {
	return m.PingError
}
