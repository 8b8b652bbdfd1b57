package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/peerview/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID              string   `bson:"_id"`
	Name            string   `bson:"name"`
	Domain          string   `bson:"domain,omitempty"`
	Skills          []string `bson:"skills,omitempty"`
	Rating          float64  `bson:"rating"`
	TotalInterviews int      `bson:"total_interviews"`
	UpdatedAt       int64    `bson:"updated_at"`
}

func (r *UserRepository) FetchUserSummary(ctx context.Context, uid domain.UserID) (domain.UserSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"_id": string(uid)}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.UserSummary{ID: uid}, nil
		}
		return domain.UserSummary{}, fmt.Errorf("find user: %w", err)
	}
	return domain.UserSummary{
		ID:              uid,
		Name:            mu.Name,
		Domain:          mu.Domain,
		Skills:          mu.Skills,
		Rating:          mu.Rating,
		TotalInterviews: mu.TotalInterviews,
	}, nil
}

// UpdateUserRating sets the aggregate, creating the user document if needed.
func (r *UserRepository) UpdateUserRating(ctx context.Context, uid domain.UserID, rating float64, total int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"rating":           rating,
		"total_interviews": total,
		"updated_at":       time.Now().UTC().Unix(),
	}}
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": string(uid)}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("update user rating: %w", err)
	}
	return nil
}
