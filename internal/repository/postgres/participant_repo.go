package postgres

import (
	"context"
	"database/sql"
	"errors"

	"youthevents/internal/domain"
)

type participantRepository struct {
	DB *sql.DB
}

func NewParticipantRepository(db *sql.DB) domain.ParticipantRepository {
	return &participantRepository{DB: db}
}

const participantColumns = `id, user_id, event_id, child_name, registration_date, status, child_age, allergies,
	emergency_contact, needs_food, medical_concerns, additional_information, created_at`

// WithEventLock locks the event row with SELECT ... FOR UPDATE so that concurrent registrations for
// the same event are serialised. The transaction is rolled back when fn fails.
func (r *participantRepository) WithEventLock(ctx context.Context, eventID string, fn func(*domain.Event, domain.RegistrationTx) error) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	event, err := scanEvent(tx.QueryRowContext(ctx, query, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if err = fn(event, &registrationTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *participantRepository) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`
	p, err := scanParticipant(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *participantRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE event_id = $1 ORDER BY created_at ASC`
	return r.list(ctx, query, eventID)
}

// ListByUserID returns the user's registrations, newest first.
func (r *participantRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *participantRepository) list(ctx context.Context, query string, arg string) ([]*domain.Participant, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]*domain.Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *participantRepository) UpdateStatus(ctx context.Context, id string, status domain.ParticipantStatus) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE participants SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *participantRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *participantRepository) CountByEvents(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT event_id, COUNT(*)
		FROM participants
		GROUP BY event_id
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var eventID string
		var n int
		if err := rows.Scan(&eventID, &n); err != nil {
			return nil, err
		}
		counts[eventID] = n
	}
	return counts, rows.Err()
}

// registrationTx runs participant statements inside the transaction opened by WithEventLock.
type registrationTx struct {
	tx *sql.Tx
}

func (t *registrationTx) CountByEventAndUser(ctx context.Context, eventID, userID string) (int, error) {
	var n int
	err := t.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participants WHERE event_id = $1 AND user_id = $2`, eventID, userID,
	).Scan(&n)
	return n, err
}

func (t *registrationTx) CountByEvent(ctx context.Context, eventID string) (int, error) {
	var n int
	err := t.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM participants WHERE event_id = $1`, eventID).Scan(&n)
	return n, err
}

func (t *registrationTx) Create(ctx context.Context, p *domain.Participant) error {
	query := `
		INSERT INTO participants (id, user_id, event_id, child_name, registration_date, status, child_age, allergies,
			emergency_contact, needs_food, medical_concerns, additional_information, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := t.tx.ExecContext(ctx, query,
		p.ID, p.UserID, p.EventID, p.ChildName, p.RegistrationDate, string(p.Status),
		nullInt(p.ChildAge), nullString(p.Allergies), nullString(p.EmergencyContact), nullBool(p.NeedsFood),
		nullString(p.MedicalConcerns), nullString(p.AdditionalInformation), p.CreatedAt,
	)
	return err
}

func scanParticipant(row rowScanner) (*domain.Participant, error) {
	p := &domain.Participant{}
	var status string
	var childAge sql.NullInt64
	var allergies, emergency, medical, additional sql.NullString
	var needsFood sql.NullBool
	err := row.Scan(
		&p.ID, &p.UserID, &p.EventID, &p.ChildName, &p.RegistrationDate, &status, &childAge, &allergies,
		&emergency, &needsFood, &medical, &additional, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.RegistrationDate = domain.DateOnly(p.RegistrationDate)
	p.Status = domain.ParticipantStatus(status)
	p.ChildAge = intPtr(childAge)
	p.Allergies = stringPtr(allergies)
	p.EmergencyContact = stringPtr(emergency)
	p.NeedsFood = boolPtr(needsFood)
	p.MedicalConcerns = stringPtr(medical)
	p.AdditionalInformation = stringPtr(additional)
	return p, nil
}
