package mocks

import (
	"context"

	"github.com/comments-api/internal/models"
	"github.com/comments-api/internal/repository"
	"github.com/stretchr/testify/mock"
)

// StoreMock is a testify mock of CommentRepository for call expectations
type StoreMock struct {
	mock.Mock
}

var _ repository.CommentRepository = (*StoreMock)(nil)

func (m *StoreMock) FindByPostID(ctx context.Context, postID string) ([]*models.Comment, error) {
	args := m.Called(ctx, postID)
	comments, _ := args.Get(0).([]*models.Comment)
	return comments, args.Error(1)
}

func (m *StoreMock) FindByIDAndDelete(ctx context.Context, id string) (*models.Comment, error) {
	args := m.Called(ctx, id)
	comment, _ := args.Get(0).(*models.Comment)
	return comment, args.Error(1)
}

func (m *StoreMock) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *StoreMock) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
