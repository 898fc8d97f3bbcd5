package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatherly/events-api/internal/core/domain"
)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

const eventColumns = `id, title, description, location, date, time, image_url, created_by, created_at, updated_at`

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var (
		id        int64
		createdBy int64
		event     domain.Event
	)
	err := row.Scan(
		&id, &event.Title, &event.Description, &event.Location, &event.Date,
		&event.Time, &event.ImageURL, &createdBy, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	event.ID = formatID(id)
	event.CreatedBy = formatID(createdBy)
	return &event, nil
}

func (r *EventRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (r *EventRepository) FindEventByID(ctx context.Context, id string) (*domain.Event, error) {
	eventID, err := parseID(id, domain.ErrEventNotFound)
	if err != nil {
		return nil, err
	}

	event, err := scanEvent(r.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	createdBy, err := parseID(event.CreatedBy, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	created, err := scanEvent(r.pool.QueryRow(ctx,
		`INSERT INTO events (title, description, location, date, time, image_url, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+eventColumns,
		event.Title, event.Description, event.Location, event.Date,
		event.Time, event.ImageURL, createdBy, event.CreatedAt, event.UpdatedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			// created_by must reference an existing user.
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return created, nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	eventID, err := parseID(event.ID, domain.ErrEventNotFound)
	if err != nil {
		return nil, err
	}

	updated, err := scanEvent(r.pool.QueryRow(ctx,
		`UPDATE events
		 SET title = $2, description = $3, location = $4, date = $5, time = $6, image_url = $7, updated_at = $8
		 WHERE id = $1
		 RETURNING `+eventColumns,
		eventID, event.Title, event.Description, event.Location, event.Date,
		event.Time, event.ImageURL, event.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, id string) error {
	eventID, err := parseID(id, domain.ErrEventNotFound)
	if err != nil {
		return err
	}

	// Registrations cascade via the event_registrations foreign key.
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, eventID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) InsertRegistration(ctx context.Context, eventID, userID string) error {
	eid, err := parseID(eventID, domain.ErrEventNotFound)
	if err != nil {
		return err
	}
	uid, err := parseID(userID, domain.ErrUserNotFound)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO event_registrations (event_id, user_id) VALUES ($1, $2)`,
		eid, uid,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolation:
				return domain.ErrAlreadyRegistered
			case foreignKeyViolation:
				// The event was deleted between the existence check and the insert.
				return domain.ErrEventNotFound
			}
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (r *EventRepository) DeleteRegistration(ctx context.Context, eventID, userID string) error {
	eid, err := parseID(eventID, domain.ErrEventNotFound)
	if err != nil {
		return err
	}
	uid, err := parseID(userID, domain.ErrUserNotFound)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx,
		`DELETE FROM event_registrations WHERE event_id = $1 AND user_id = $2`,
		eid, uid,
	)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	// Zero rows affected is a domain conflict, not a silent no-op.
	if tag.RowsAffected() == 0 {
		return domain.ErrNotRegistered
	}
	return nil
}

func (r *EventRepository) IsRegistered(ctx context.Context, eventID, userID string) (bool, error) {
	eid, err := parseID(eventID, domain.ErrEventNotFound)
	if err != nil {
		return false, err
	}
	uid, err := parseID(userID, domain.ErrUserNotFound)
	if err != nil {
		return false, err
	}

	var registered bool
	err = r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM event_registrations WHERE event_id = $1 AND user_id = $2
		)`,
		eid, uid,
	).Scan(&registered)
	if err != nil {
		return false, fmt.Errorf("registration status: %w", err)
	}
	return registered, nil
}

func (r *EventRepository) ListAttendees(ctx context.Context, eventID string) ([]domain.Attendee, error) {
	eid, err := parseID(eventID, domain.ErrEventNotFound)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.username, u.email, r.registered_at
		 FROM event_registrations r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.event_id = $1
		 ORDER BY r.registered_at`,
		eid,
	)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()

	attendees := make([]domain.Attendee, 0)
	for rows.Next() {
		var (
			userID   int64
			attendee domain.Attendee
		)
		if err := rows.Scan(&userID, &attendee.Username, &attendee.Email, &attendee.RegisteredAt); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		attendee.UserID = formatID(userID)
		attendees = append(attendees, attendee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	return attendees, nil
}

func (r *EventRepository) ListRegisteredEvents(ctx context.Context, userID string) ([]domain.RegisteredEvent, error) {
	uid, err := parseID(userID, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.title, e.description, e.location, e.date, e.time, e.image_url,
		        e.created_by, e.created_at, e.updated_at, r.registered_at
		 FROM event_registrations r
		 JOIN events e ON e.id = r.event_id
		 WHERE r.user_id = $1
		 ORDER BY r.registered_at`,
		uid,
	)
	if err != nil {
		return nil, fmt.Errorf("list registered events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.RegisteredEvent, 0)
	for rows.Next() {
		var (
			id        int64
			createdBy int64
			re        domain.RegisteredEvent
		)
		err := rows.Scan(
			&id, &re.Title, &re.Description, &re.Location, &re.Date, &re.Time,
			&re.ImageURL, &createdBy, &re.CreatedAt, &re.UpdatedAt, &re.RegisteredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan registered event: %w", err)
		}
		re.ID = formatID(id)
		re.CreatedBy = formatID(createdBy)
		events = append(events, re)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list registered events: %w", err)
	}
	return events, nil
}

func (r *EventRepository) ListImageURLs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT image_url FROM events WHERE image_url <> ''`)
	if err != nil {
		return nil, fmt.Errorf("list image urls: %w", err)
	}
	defer rows.Close()

	urls := make([]string, 0)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan image url: %w", err)
		}
		urls = append(urls, url)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list image urls: %w", err)
	}
	return urls, nil
}
