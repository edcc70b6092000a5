package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

const eventColumns = `
	id, title, slug, description, starts_at, ends_at,
	capacity, price_minor, currency, created_at, updated_at`

type eventRepository struct {
	db *sql.DB
}

// NewEventRepository создаёт PostgreSQL-реализацию EventRepository.
func NewEventRepository(store *Store) domain.EventRepository {
	return &eventRepository{db: store.DB()}
}

func (r *eventRepository) Create(event domain.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (
			id, title, slug, description, starts_at, ends_at,
			capacity, price_minor, currency, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,NULLIF($6, '0001-01-01T00:00:00Z'::timestamptz),$7,$8,$9,$10,$11)
	`,
		event.ID, event.Title, event.Slug, event.Description, event.StartsAt, event.EndsAt,
		event.Capacity, event.PriceMinor, event.Currency, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *eventRepository) Get(id string) (domain.Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE id = $1
	`, id)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("select event: %w", err)
	}
	return event, nil
}

func (r *eventRepository) List(upcomingOnly bool, limit int) ([]domain.Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE (NOT $1 OR starts_at >= NOW())
		ORDER BY starts_at ASC, id ASC
	`

	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+" LIMIT $2", upcomingOnly, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query, upcomingOnly)
	}
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}

	return events, nil
}

func (r *eventRepository) Save(event domain.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET title = $1,
		    slug = $2,
		    description = $3,
		    starts_at = $4,
		    ends_at = NULLIF($5, '0001-01-01T00:00:00Z'::timestamptz),
		    capacity = $6,
		    price_minor = $7,
		    currency = $8,
		    updated_at = $9
		WHERE id = $10
	`,
		event.Title, event.Slug, event.Description, event.StartsAt, event.EndsAt,
		event.Capacity, event.PriceMinor, event.Currency, event.UpdatedAt, event.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("update event: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func scanEvent(row rowScanner) (domain.Event, error) {
	var (
		event  domain.Event
		endsAt sql.NullTime
	)

	err := row.Scan(
		&event.ID, &event.Title, &event.Slug, &event.Description, &event.StartsAt, &endsAt,
		&event.Capacity, &event.PriceMinor, &event.Currency, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		return domain.Event{}, err
	}
	if endsAt.Valid {
		event.EndsAt = endsAt.Time
	}
	return event, nil
}

var _ domain.EventRepository = (*eventRepository)(nil)
