package postgres

import (
	"context"
	"database/sql"
	"errors"

	"youthevents/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, name, date, description, location, capacity, age_group, price, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (id, name, date, description, location, capacity, age_group, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Name, e.Date, e.Description, e.Location, nullInt(e.Capacity), e.AgeGroup, nullFloat(e.Price),
		e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// List returns one page of events ordered by date together with the total number of events.
func (r *eventRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + eventColumns + ` FROM events ORDER BY date ASC, name ASC`
	args := []any{}
	if limit := params.Limit(); limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, params.Offset())
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET name = $1, date = $2, description = $3, location = $4, capacity = $5, age_group = $6, price = $7, updated_at = $8
		WHERE id = $9
	`
	res, err := r.DB.ExecContext(ctx, query,
		e.Name, e.Date, e.Description, e.Location, nullInt(e.Capacity), e.AgeGroup, nullFloat(e.Price), e.UpdatedAt, e.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var desc, location, ageGroup sql.NullString
	var capacity sql.NullInt64
	var price sql.NullFloat64
	err := row.Scan(
		&e.ID, &e.Name, &e.Date, &desc, &location, &capacity, &ageGroup, &price, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Date = domain.DateOnly(e.Date)
	e.Description = desc.String
	e.Location = location.String
	e.AgeGroup = ageGroup.String
	e.Capacity = intPtr(capacity)
	e.Price = floatPtr(price)
	return e, nil
}

// requireAffected maps a zero-row update or delete to domain.ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
