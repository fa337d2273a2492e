package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comments-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// commentDocument is the stored shape of a comment in MongoDB
type commentDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	PostID    string             `bson:"postId"`
	Author    string             `bson:"author"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *commentDocument) toModel() *models.Comment {
	return &models.Comment{
		ID:        d.ID.Hex(),
		PostID:    d.PostID,
		Author:    d.Author,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// MongoCommentRepo is the MongoDB implementation of CommentRepository
type MongoCommentRepo struct {
	coll *mongo.Collection
}

// NewMongoCommentRepo creates a comment repository over a collection
func NewMongoCommentRepo(coll *mongo.Collection) *MongoCommentRepo {
	return &MongoCommentRepo{coll: coll}
}

// FindByPostID retrieves all comments for a post, oldest first
func (r *MongoCommentRepo) FindByPostID(ctx context.Context, postID string) ([]*models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"postId": postID}, opts)
	if err != nil {
		return nil, fmt.Errorf("query comments by post: %w", err)
	}

	var docs []commentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	comments := make([]*models.Comment, 0, len(docs))
	for i := range docs {
		comments = append(comments, docs[i].toModel())
	}
	return comments, nil
}

// FindByIDAndDelete removes a comment with findOneAndDelete and returns it
func (r *MongoCommentRepo) FindByIDAndDelete(ctx context.Context, id string) (*models.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrMalformedID, id, err)
	}

	var doc commentDocument
	err = r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete comment: %w", err)
	}
	return doc.toModel(), nil
}

// Create inserts a comment and sets its generated id
func (r *MongoCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	now := time.Now().UTC()
	doc := commentDocument{
		PostID:    comment.PostID,
		Author:    comment.Author,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: now,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		comment.ID = oid.Hex()
	}
	comment.CreatedAt = doc.CreatedAt
	comment.UpdatedAt = doc.UpdatedAt
	return nil
}

// Count returns the total number of comments
func (r *MongoCommentRepo) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	return int(n), err
}

// Ping checks the server behind the collection
func (r *MongoCommentRepo) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}
