// Package mongo implements the collaborator ports on MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, client.Database(cfg.Database), nil
}

// Store bundles the repositories backed by one database.
type Store struct {
	*UserRepository
	*RoomRepository
	*QuestionRepository
}

func New(db *mongo.Database) *Store {
	return &Store{
		UserRepository:     NewUserRepository(db),
		RoomRepository:     NewRoomRepository(db),
		QuestionRepository: NewQuestionRepository(db),
	}
}

// EnsureIndexes creates the indexes every repository relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if err := s.RoomRepository.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("room indexes: %w", err)
	}
	if err := s.QuestionRepository.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("question indexes: %w", err)
	}
	return nil
}
