package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

const registrationColumns = `
	id, event_id, customer_id, status,
	request_at, approved_at, paid_at, attended_at, cancelled_at, refunded_at,
	amount_minor, currency, version, created_at, updated_at`

type registrationRepository struct {
	db *sql.DB
}

// NewRegistrationRepository создаёт PostgreSQL-реализацию RegistrationRepository.
func NewRegistrationRepository(store *Store) domain.RegistrationRepository {
	return &registrationRepository{db: store.DB()}
}

func (r *registrationRepository) Create(registration domain.Registration) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO registrations (
			id, event_id, customer_id, status,
			request_at, approved_at, paid_at, attended_at, cancelled_at, refunded_at,
			amount_minor, currency, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		registration.ID, registration.EventID, registration.CustomerID, string(registration.Status),
		registration.RequestAt, registration.ApprovedAt, registration.PaidAt,
		registration.AttendedAt, registration.CancelledAt, registration.RefundedAt,
		registration.AmountMinor, registration.Currency, registration.Version,
		registration.CreatedAt, registration.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderVersionConflict
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (r *registrationRepository) Get(id string) (domain.Registration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE id = $1
	`, id)

	registration, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Registration{}, domain.ErrRegistrationNotFound
		}
		return domain.Registration{}, fmt.Errorf("select registration: %w", err)
	}
	return registration, nil
}

func (r *registrationRepository) ListByEvent(eventID string) ([]domain.Registration, error) {
	return r.queryRegistrations(`
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE event_id = $1
		ORDER BY created_at DESC, id DESC
	`, eventID)
}

func (r *registrationRepository) ListByCustomer(customerID string) ([]domain.Registration, error) {
	return r.queryRegistrations(`
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
	`, customerID)
}

func (r *registrationRepository) CountActive(eventID string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM registrations
		WHERE event_id = $1
		  AND status NOT IN ('cancelled', 'refunded')
	`, eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active registrations: %w", err)
	}
	return count, nil
}

func (r *registrationRepository) Save(registration domain.Registration) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE registrations
		SET status = $1,
		    request_at = $2,
		    approved_at = $3,
		    paid_at = $4,
		    attended_at = $5,
		    cancelled_at = $6,
		    refunded_at = $7,
		    amount_minor = $8,
		    version = version + 1,
		    updated_at = $9
		WHERE id = $10
		  AND version = $11
	`,
		string(registration.Status),
		registration.RequestAt, registration.ApprovedAt, registration.PaidAt,
		registration.AttendedAt, registration.CancelledAt, registration.RefundedAt,
		registration.AmountMinor, registration.UpdatedAt,
		registration.ID, registration.Version,
	)
	if err != nil {
		return fmt.Errorf("update registration: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		var id string
		err := r.db.QueryRowContext(ctx, `SELECT id FROM registrations WHERE id = $1`, registration.ID).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrRegistrationNotFound
		}
		if err != nil {
			return fmt.Errorf("check registration exists: %w", err)
		}
		return domain.ErrOrderVersionConflict
	}

	return nil
}

func (r *registrationRepository) queryRegistrations(query string, args ...any) ([]domain.Registration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	registrations := make([]domain.Registration, 0)
	for rows.Next() {
		registration, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration row: %w", err)
		}
		registrations = append(registrations, registration)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registration rows: %w", err)
	}

	return registrations, nil
}

func scanRegistration(row rowScanner) (domain.Registration, error) {
	var registration domain.Registration
	var status string

	err := row.Scan(
		&registration.ID, &registration.EventID, &registration.CustomerID, &status,
		&registration.RequestAt, &registration.ApprovedAt, &registration.PaidAt,
		&registration.AttendedAt, &registration.CancelledAt, &registration.RefundedAt,
		&registration.AmountMinor, &registration.Currency, &registration.Version,
		&registration.CreatedAt, &registration.UpdatedAt,
	)
	if err != nil {
		return domain.Registration{}, err
	}
	registration.Status = domain.RegistrationStatus(status)
	return registration, nil
}

var _ domain.RegistrationRepository = (*registrationRepository)(nil)
