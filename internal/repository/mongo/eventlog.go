// Package mongo provides an optional MongoDB sink for event logs. Relational
// storage remains the default; this backend suits deployments that ship audit
// events to a shared cluster.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openloom/workspace-chat/internal/domain"
)

const eventLogCollection = "event_logs"

// EventLogRepository implements domain.EventLogRepository on MongoDB
type EventLogRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type eventLogDoc struct {
	ID         string         `bson:"_id"`
	Event      string         `bson:"event"`
	Metadata   map[string]any `bson:"metadata,omitempty"`
	UserID     *string        `bson:"user_id,omitempty"`
	OccurredAt time.Time      `bson:"occurred_at"`
}

// NewEventLogRepository connects to MongoDB and returns an event log repository
func NewEventLogRepository(ctx context.Context, uri, database string) (*EventLogRepository, error) {
	clientOpts := options.Client().ApplyURI(uri).SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &EventLogRepository{
		client: client,
		coll:   client.Database(database).Collection(eventLogCollection),
	}, nil
}

func (r *EventLogRepository) Create(ctx context.Context, entry *domain.EventLog) error {
	doc := eventLogDoc{
		ID:         entry.ID.String(),
		Event:      entry.Event,
		Metadata:   entry.Metadata,
		OccurredAt: entry.OccurredAt,
	}
	if entry.UserID != nil {
		id := entry.UserID.String()
		doc.UserID = &id
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert event log: %w", err)
	}
	return nil
}

func (r *EventLogRepository) ListRecent(ctx context.Context, limit int) ([]domain.EventLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query event logs: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []domain.EventLog
	for cursor.Next(ctx) {
		var doc eventLogDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode event log: %w", err)
		}

		entry := domain.EventLog{
			Event:      doc.Event,
			Metadata:   doc.Metadata,
			OccurredAt: doc.OccurredAt,
		}
		if entry.ID, err = uuid.Parse(doc.ID); err != nil {
			return nil, fmt.Errorf("invalid event log id %q: %w", doc.ID, err)
		}
		if doc.UserID != nil {
			parsed, err := uuid.Parse(*doc.UserID)
			if err != nil {
				return nil, fmt.Errorf("invalid user id %q: %w", *doc.UserID, err)
			}
			entry.UserID = &parsed
		}
		entries = append(entries, entry)
	}
	return entries, cursor.Err()
}

// Close disconnects the underlying client
func (r *EventLogRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
