package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dkeye/peerview/internal/adapters/store/memory"
	mongostore "github.com/dkeye/peerview/internal/adapters/store/mongo"
	redisstore "github.com/dkeye/peerview/internal/adapters/store/redis"
	sqlitestore "github.com/dkeye/peerview/internal/adapters/store/sqlite"
	"github.com/dkeye/peerview/internal/app/orch"
	"github.com/dkeye/peerview/internal/config"
	"github.com/rs/zerolog/log"
)

// openStores builds the collaborators named by cfg. The returned func
// releases every connection that was opened.
func openStores(ctx context.Context, cfg *config.Config) (orch.Collaborators, func(), error) {
	var (
		c       orch.Collaborators
		closers []func()
		sqlDB   *sql.DB
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	openSQLite := func() (*sqlitestore.Store, error) {
		if sqlDB == nil {
			db, err := sqlitestore.Open(cfg.Store.SQLitePath)
			if err != nil {
				return nil, err
			}
			sqlDB = db
			closers = append(closers, func() { _ = db.Close() })
		}
		return sqlitestore.New(sqlDB), nil
	}

	switch cfg.Store.Driver {
	case "sqlite":
		s, err := openSQLite()
		if err != nil {
			closeAll()
			return c, nil, fmt.Errorf("open sqlite: %w", err)
		}
		c.Users, c.Archive, c.Questions = s, s, s
	case "mongo":
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Store.MongoURI,
			Database: cfg.Store.MongoDatabase,
		})
		if err != nil {
			closeAll()
			return c, nil, err
		}
		closers = append(closers, func() { _ = client.Disconnect(context.Background()) })
		s := mongostore.New(db)
		if err := s.EnsureIndexes(ctx); err != nil {
			closeAll()
			return c, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		c.Users, c.Archive, c.Questions = s, s, s
	default:
		c.Users, c.Archive, c.Questions = memory.NewUsers(), memory.NewArchive(), memory.NewQuestions()
	}

	switch cfg.Ledger.Driver {
	case "sqlite":
		s, err := openSQLite()
		if err != nil {
			closeAll()
			return c, nil, fmt.Errorf("open sqlite: %w", err)
		}
		c.Ledger = s
	case "redis":
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr: cfg.Ledger.RedisAddr,
			DB:   cfg.Ledger.RedisDB,
		})
		if err != nil {
			closeAll()
			return c, nil, err
		}
		closers = append(closers, func() { _ = client.Close() })
		c.Ledger = redisstore.NewLedger(client)
	default:
		c.Ledger = memory.NewLedger()
	}

	log.Info().
		Str("module", "main").
		Str("store", cfg.Store.Driver).
		Str("ledger", cfg.Ledger.Driver).
		Msg("collaborators ready")
	return c, closeAll, nil
}
