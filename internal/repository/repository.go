package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/comments-api/internal/database"
	"github.com/comments-api/internal/models"
)

// ErrMalformedID is returned when a store rejects the format of a comment identifier
var ErrMalformedID = errors.New("malformed comment id")

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	// FindByPostID returns every comment whose post id equals postID.
	// An empty, non-nil slice is returned when nothing matches.
	FindByPostID(ctx context.Context, postID string) ([]*models.Comment, error)
	// FindByIDAndDelete atomically removes the comment and returns it,
	// or (nil, nil) when no comment has that id.
	FindByIDAndDelete(ctx context.Context, id string) (*models.Comment, error)
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// New creates the SQL-backed comment repository for the database dialect
func New(db *database.DB) (CommentRepository, error) {
	switch db.Dialect {
	case database.DialectPostgres, database.DialectSQLite:
		return NewCommentRepo(db), nil
	default:
		return nil, fmt.Errorf("no comment repository for dialect %q", db.Dialect)
	}
}

var (
	_ CommentRepository = (*CommentRepo)(nil)
	_ CommentRepository = (*MongoCommentRepo)(nil)
)
