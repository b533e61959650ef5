package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanSlot(row pgx.Row) (*Slot, error) {
	var s Slot
	err := row.Scan(
		&s.ID,
		&s.PractitionerID,
		&s.Day,
		&s.StartTime,
		&s.EndTime,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PgRepository) Append(ctx context.Context, slots []Slot) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin append slots: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range slots {
		_, err := tx.Exec(ctx, `
			INSERT INTO availability_slots (id, practitioner_id, day, start_time, end_time, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
		`, s.ID, s.PractitionerID, s.Day, s.StartTime, s.EndTime)
		if err != nil {
			return fmt.Errorf("insert availability slot: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Slot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, practitioner_id, day, start_time, end_time, created_at, updated_at
		FROM availability_slots
		WHERE id = $1
	`, id)
	return scanSlot(row)
}

func (r *PgRepository) UpdateTimes(ctx context.Context, id uuid.UUID, startTime, endTime string) (*Slot, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE availability_slots
		SET start_time = $2,
		    end_time = $3,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, practitioner_id, day, start_time, end_time, created_at, updated_at
	`, id, startTime, endTime)
	return scanSlot(row)
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM availability_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete availability slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotNotFound
	}
	return nil
}

func (r *PgRepository) ClearAll(ctx context.Context, practitionerID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM availability_slots WHERE practitioner_id = $1`, practitionerID)
	if err != nil {
		return fmt.Errorf("clear availability: %w", err)
	}
	return nil
}

func (r *PgRepository) ListFor(ctx context.Context, practitionerID string) ([]Slot, error) {
	byPractitioner, err := r.ListForMany(ctx, []string{practitionerID})
	if err != nil {
		return nil, err
	}
	return byPractitioner[practitionerID], nil
}

func (r *PgRepository) ListForMany(ctx context.Context, practitionerIDs []string) (map[string][]Slot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, practitioner_id, day, start_time, end_time, created_at, updated_at
		FROM availability_slots
		WHERE practitioner_id = ANY($1)
		ORDER BY practitioner_id, day, start_time
	`, practitionerIDs)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]Slot, len(practitionerIDs))
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		result[s.PractitionerID] = append(result[s.PractitionerID], *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
