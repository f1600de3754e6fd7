package repository

import (
	"context"
	"errors"
	"fmt"

	"learnos/internal/domain"
	"learnos/internal/repository/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// LessonMongoAdapter implements domain.LessonRepository on a MongoDB collection.
type LessonMongoAdapter struct {
	col *mongo.Collection
}

// NewLessonMongoAdapter creates a new instance of LessonMongoAdapter
func NewLessonMongoAdapter(col *mongo.Collection) domain.LessonRepository {
	return &LessonMongoAdapter{col: col}
}

// EnsureLessonIndexes creates the unique topic index that InsertIfAbsent relies on.
func EnsureLessonIndexes(ctx context.Context, col *mongo.Collection) error {
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "topic", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uq_lessonplans_topic"),
	})
	if err != nil {
		return fmt.Errorf("failed to create lesson topic index: %w", err)
	}
	return nil
}

// FindByKey implements domain.LessonRepository
func (a *LessonMongoAdapter) FindByKey(ctx context.Context, key string) (*domain.Lesson, error) {
	var doc models.LessonDocument
	err := a.col.FindOne(ctx, bson.M{"topic": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find lesson %q: %w", key, err)
	}
	return doc.ToDomain(), nil
}

// InsertIfAbsent implements domain.LessonRepository
func (a *LessonMongoAdapter) InsertIfAbsent(ctx context.Context, lesson *domain.Lesson) error {
	if lesson == nil {
		return fmt.Errorf("cannot insert nil lesson")
	}
	if _, err := a.col.InsertOne(ctx, models.NewLessonDocument(lesson)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrLessonAlreadyExists
		}
		return fmt.Errorf("failed to insert lesson %q: %w", lesson.TopicKey, err)
	}
	return nil
}

// ListSummaries implements domain.LessonRepository
func (a *LessonMongoAdapter) ListSummaries(ctx context.Context) ([]domain.LessonSummary, error) {
	opts := options.Find().
		SetProjection(bson.M{"topic": 1, "createdAt": 1}).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cur, err := a.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	defer cur.Close(ctx)

	var docs []models.LessonDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode lessons: %w", err)
	}

	summaries := make([]domain.LessonSummary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, domain.LessonSummary{Topic: d.Topic, CreatedAt: d.CreatedAt})
	}
	return summaries, nil
}

// Ping implements domain.LessonRepository
func (a *LessonMongoAdapter) Ping(ctx context.Context) error {
	return a.col.Database().Client().Ping(ctx, readpref.Primary())
}
