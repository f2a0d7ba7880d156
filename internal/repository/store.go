// Package repository assembles the storage backends behind the domain
// repository interfaces. The relational store is sqlite (single-user) or
// postgres (multi-user); event logs optionally go to Mongo instead.
package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/openloom/workspace-chat/internal/config"
	"github.com/openloom/workspace-chat/internal/domain"
	mongorepo "github.com/openloom/workspace-chat/internal/repository/mongo"
	"github.com/openloom/workspace-chat/internal/repository/postgres"
	"github.com/openloom/workspace-chat/internal/repository/sqlite"
)

// Store bundles the repositories for the configured backend
type Store struct {
	Users      domain.UserRepository
	Workspaces domain.WorkspaceRepository
	Threads    domain.ThreadRepository
	Messages   domain.MessageRepository
	EventLogs  domain.EventLogRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// New opens the configured storage backend and wires up all repositories
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	store, err := newRelational(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.EventLog.Store == "mongo" {
		events, err := mongorepo.NewEventLogRepository(ctx, cfg.EventLog.MongoURI, cfg.EventLog.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("failed to open mongo event log store: %w", err)
		}
		store.EventLogs = events

		relationalClose := store.close
		store.close = func(ctx context.Context) error {
			if err := events.Close(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to close mongo event log store")
			}
			return relationalClose(ctx)
		}
	}

	return store, nil
}

func newRelational(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Database.Driver {
	case "sqlite", "":
		db, err := sqlite.NewStore(ctx, cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return &Store{
			Users:      sqlite.NewUserRepository(db),
			Workspaces: sqlite.NewWorkspaceRepository(db),
			Threads:    sqlite.NewThreadRepository(db),
			Messages:   sqlite.NewMessageRepository(db),
			EventLogs:  sqlite.NewEventLogRepository(db),
			ping:       db.Ping,
			close: func(context.Context) error {
				return db.Close()
			},
		}, nil

	case "postgres":
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return &Store{
			Users:      postgres.NewUserRepository(db),
			Workspaces: postgres.NewWorkspaceRepository(db),
			Threads:    postgres.NewThreadRepository(db),
			Messages:   postgres.NewMessageRepository(db),
			EventLogs:  postgres.NewEventLogRepository(db),
			ping:       db.Ping,
			close: func(context.Context) error {
				db.Close()
				return nil
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// Ping verifies connectivity to the relational backend
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases all storage connections
func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}
