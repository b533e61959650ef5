package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres constraint names the repository translates into domain errors.
const (
	activeSlotIndex = "appointments_active_slot_idx"
	numberUniqueKey = "appointments_number_key"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const appointmentColumns = `
	id, appointment_number, practitioner_id, patient_name,
	appointment_date::text, start_time, end_time, note, status,
	created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID,
		&a.AppointmentNumber,
		&a.PractitionerID,
		&a.PatientName,
		&a.AppointmentDate,
		&a.StartTime,
		&a.EndTime,
		&a.Note,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

// translateUnique maps a unique violation onto the domain error for whichever
// constraint fired. Raw storage errors never leave the repository for these
// two indexes.
func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case activeSlotIndex:
			return ErrSlotAlreadyBooked
		case numberUniqueKey:
			return ErrNumberTaken
		}
	}
	return err
}

func (r *PgRepository) Insert(ctx context.Context, a *Appointment) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (
			id, appointment_number, practitioner_id, patient_name,
			appointment_date, start_time, end_time, note, status,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8, $9, now(), now())
		RETURNING `+appointmentColumns,
		a.ID, a.AppointmentNumber, a.PractitionerID, a.PatientName,
		a.AppointmentDate, a.StartTime, a.EndTime, a.Note, a.Status,
	)

	inserted, err := scanAppointment(row)
	if err != nil {
		return translateUnique(err)
	}
	*a = *inserted
	return nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) List(ctx context.Context, filter ListFilter) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR practitioner_id = $2)
		  AND ($3 = '' OR patient_name = $3)
		ORDER BY appointment_date, start_time, appointment_number
	`, string(filter.Status), filter.PractitionerID, filter.PatientName)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) FindActive(ctx context.Context, practitionerID, date, startTime string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE practitioner_id = $1
		  AND appointment_date = $2::date
		  AND start_time = $3
		  AND status <> 'cancelled'
	`, practitionerID, date, startTime)
	return scanAppointment(row)
}

func (r *PgRepository) MaxNumberForDate(ctx context.Context, dateSegment string) (string, error) {
	// Ordering by length first keeps the comparison numeric once a day's
	// sequence outgrows three digits.
	row := r.pool.QueryRow(ctx, `
		SELECT appointment_number
		FROM appointments
		WHERE appointment_number LIKE 'APT-' || $1 || '-%'
		ORDER BY length(appointment_number) DESC, appointment_number DESC
		LIMIT 1
	`, dateSegment)

	var number string
	if err := row.Scan(&number); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("max appointment number: %w", err)
	}
	return number, nil
}

func (r *PgRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from []Status, to Status) (*Appointment, error) {
	states := make([]string, len(from))
	for i, st := range from {
		states[i] = string(st)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = ANY($3)
		RETURNING `+appointmentColumns,
		id, to, states,
	)

	a, err := scanAppointment(row)
	if err != nil {
		return nil, translateUnique(err)
	}
	return a, nil
}

func (r *PgRepository) CompleteElapsed(ctx context.Context, today string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET status = 'completed',
		    updated_at = now()
		WHERE status IN ('pending', 'upcoming')
		  AND appointment_date < $1::date
	`, today)
	if err != nil {
		return 0, fmt.Errorf("complete elapsed appointments: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PgRepository) CountActiveByDate(ctx context.Context, practitionerID string, dates []string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT appointment_date::text, count(*)
		FROM appointments
		WHERE practitioner_id = $1
		  AND appointment_date = ANY($2::date[])
		  AND status <> 'cancelled'
		GROUP BY appointment_date
	`, practitionerID, dates)
	if err != nil {
		return nil, fmt.Errorf("count appointments by date: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var date string
		var n int
		if err := rows.Scan(&date, &n); err != nil {
			return nil, err
		}
		counts[date] = n
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}
