package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskledger/taskledger/internal/domain"
)

// storedEventColumns is the shared list of columns for stored event queries.
var storedEventColumns = []string{
	"id", "aggregate_id", "event_name", "payload", "occurred_on", "stored_on",
}

// PostgresEventStore is the durable, append-only event log backed by PostgreSQL.
type PostgresEventStore struct {
	pool *pgxpool.Pool
}

// NewPostgresEventStore creates a new PostgresEventStore.
func NewPostgresEventStore(pool *pgxpool.Pool) *PostgresEventStore {
	return &PostgresEventStore{pool: pool}
}

// Append writes one durable record; stored_on is stamped by the database.
func (s *PostgresEventStore) Append(ctx context.Context, event domain.DomainEvent) error {
	payload, err := event.Payload()
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event.EventName(), err)
	}

	query, args, err := psql.
		Insert("stored_events").
		Columns("aggregate_id", "event_name", "payload", "occurred_on").
		Values(event.AggregateID(), event.EventName(), payload, event.OccurredOn()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Append query for event: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("append event: %w", err)
	}

	return nil
}

// EventsForAggregate retrieves all events for one aggregate, occurred-on
// ascending with append order breaking ties.
func (s *PostgresEventStore) EventsForAggregate(ctx context.Context, aggregateID string) ([]domain.StoredEvent, error) {
	query, args, err := psql.
		Select(storedEventColumns...).
		From("stored_events").
		Where(sq.Eq{"aggregate_id": aggregateID}).
		OrderBy("occurred_on ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build EventsForAggregate query: %w", err)
	}

	return s.queryEvents(ctx, query, args...)
}

// AllEvents retrieves every event across all aggregates.
func (s *PostgresEventStore) AllEvents(ctx context.Context) ([]domain.StoredEvent, error) {
	query, args, err := psql.
		Select(storedEventColumns...).
		From("stored_events").
		OrderBy("occurred_on ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build AllEvents query: %w", err)
	}

	return s.queryEvents(ctx, query, args...)
}

func (s *PostgresEventStore) queryEvents(ctx context.Context, query string, args ...any) ([]domain.StoredEvent, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stored events: %w", err)
	}
	defer rows.Close()

	events := []domain.StoredEvent{}
	for rows.Next() {
		event, err := scanStoredEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return events, nil
}

func scanStoredEvent(row pgx.Row) (domain.StoredEvent, error) {
	var event domain.StoredEvent
	err := row.Scan(
		&event.ID,
		&event.AggregateID,
		&event.EventName,
		&event.Payload,
		&event.OccurredOn,
		&event.StoredOn,
	)
	if err != nil {
		return domain.StoredEvent{}, fmt.Errorf("scan stored event: %w", err)
	}
	return event, nil
}
