package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/comments-api/internal/database"
	"github.com/comments-api/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// invalid_text_representation, raised for a non-UUID value on the id column
const pqInvalidTextRepresentation = "22P02"

const commentColumns = "id, post_id, author, content, created_at, updated_at"

type commentQueries struct {
	findByPostID string
	deleteByID   string
	insert       string
	count        string
}

var dialectQueries = map[string]commentQueries{
	database.DialectPostgres: {
		findByPostID: `SELECT ` + commentColumns + ` FROM comments WHERE post_id = $1 ORDER BY created_at, id`,
		deleteByID:   `DELETE FROM comments WHERE id = $1 RETURNING ` + commentColumns,
		insert: `
			INSERT INTO comments (id, post_id, author, content, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
		count: `SELECT COUNT(*) FROM comments`,
	},
	database.DialectSQLite: {
		findByPostID: `SELECT ` + commentColumns + ` FROM comments WHERE post_id = ? ORDER BY created_at, id`,
		deleteByID:   `DELETE FROM comments WHERE id = ? RETURNING ` + commentColumns,
		insert: `
			INSERT INTO comments (id, post_id, author, content, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
		count: `SELECT COUNT(*) FROM comments`,
	},
}

// CommentRepo is the SQL implementation of CommentRepository (PostgreSQL or SQLite)
type CommentRepo struct {
	db *database.DB
	q  commentQueries
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) *CommentRepo {
	return &CommentRepo{db: db, q: dialectQueries[db.Dialect]}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// sqlTime accepts timestamps as time.Time, text or unix seconds. SQLite only
// converts columns with a declared time type, which RETURNING results may lack.
// Unrecognized values scan as the zero time: a DELETE ... RETURNING row is
// already removed when it is scanned.
type sqlTime struct{ t *time.Time }

var sqlTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (s sqlTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*s.t = v
	case []byte:
		*s.t = parseSQLTime(string(v))
	case string:
		*s.t = parseSQLTime(v)
	case int64:
		*s.t = time.Unix(v, 0).UTC()
	case float64:
		*s.t = time.Unix(int64(v), 0).UTC()
	default:
		*s.t = time.Time{}
	}
	return nil
}

func parseSQLTime(value string) time.Time {
	for _, layout := range sqlTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var comment models.Comment
	err := row.Scan(
		&comment.ID, &comment.PostID, &comment.Author, &comment.Content,
		sqlTime{&comment.CreatedAt}, sqlTime{&comment.UpdatedAt},
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindByPostID retrieves all comments for a post, oldest first
func (r *CommentRepo) FindByPostID(ctx context.Context, postID string) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, r.q.findByPostID, postID)
	if err != nil {
		return nil, fmt.Errorf("query comments by post: %w", err)
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}

// FindByIDAndDelete deletes a comment in a single statement and returns the removed row
func (r *CommentRepo) FindByIDAndDelete(ctx context.Context, id string) (*models.Comment, error) {
	comment, err := scanComment(r.db.QueryRowContext(ctx, r.q.deleteByID, id))
	if err != nil {
		return nil, mapDeleteErr(id, err)
	}
	return comment, nil
}

// mapDeleteErr translates a find-and-delete failure. A missing row is not an
// error (nil is returned); a Postgres cast failure on the id is ErrMalformedID.
func mapDeleteErr(id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqInvalidTextRepresentation {
		return fmt.Errorf("%w %q: %v", ErrMalformedID, id, err)
	}
	return fmt.Errorf("delete comment: %w", err)
}

// Create inserts a comment, assigning an id and timestamps when they are unset
func (r *CommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now
	}
	comment.CreatedAt = comment.CreatedAt.UTC()
	comment.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, r.q.insert,
		comment.ID, comment.PostID, comment.Author, comment.Content,
		comment.CreatedAt, comment.UpdatedAt,
	)
	return err
}

// Count returns the total number of comments
func (r *CommentRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, r.q.count).Scan(&count)
	return count, err
}

// Ping checks the underlying database connection
func (r *CommentRepo) Ping(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}
