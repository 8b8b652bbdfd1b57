package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dkeye/peerview/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const questionsCollection = "questions"

type QuestionRepository struct {
	coll *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{coll: db.Collection(questionsCollection)}
}

type questionDoc struct {
	ID         string `bson:"_id"`
	Domain     string `bson:"domain"`
	Title      string `bson:"title"`
	Difficulty string `bson:"difficulty,omitempty"`
	Position   int    `bson:"position"`
}

// FetchQuestionSet returns up to count questions of a domain in position order.
func (r *QuestionRepository) FetchQuestionSet(ctx context.Context, domainName string, count int) ([]domain.QuestionSummary, error) {
	if count <= 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(count))
	cur, err := r.coll.Find(ctx, bson.M{"domain": strings.ToLower(domainName)}, opts)
	if err != nil {
		return nil, fmt.Errorf("find questions: %w", err)
	}
	defer cur.Close(ctx)

	var docs []questionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	out := make([]domain.QuestionSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.QuestionSummary{ID: d.ID, Title: d.Title, Difficulty: d.Difficulty})
	}
	return out, nil
}

// EnsureIndexes creates necessary indexes on the questions collection.
func (r *QuestionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "domain", Value: 1}, {Key: "position", Value: 1}},
	})
	return err
}
