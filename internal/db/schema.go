package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The partial unique index on appointments is the authoritative
// double-booking guard: cancelled rows fall outside it, so cancelling an
// appointment frees its slot for rebooking. The plain unique constraint on
// appointment_number backs the insert-with-retry numbering scheme.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS availability_slots (
		id              UUID PRIMARY KEY,
		practitioner_id TEXT NOT NULL,
		day             TEXT NOT NULL,
		start_time      TEXT NOT NULL,
		end_time        TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS availability_slots_practitioner_idx
		ON availability_slots (practitioner_id)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id                 UUID PRIMARY KEY,
		appointment_number TEXT NOT NULL,
		practitioner_id    TEXT NOT NULL,
		patient_name       TEXT NOT NULL,
		appointment_date   DATE NOT NULL,
		start_time         TEXT NOT NULL,
		end_time           TEXT NOT NULL,
		note               TEXT NOT NULL DEFAULT '',
		status             TEXT NOT NULL,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT appointments_number_key UNIQUE (appointment_number)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS appointments_active_slot_idx
		ON appointments (practitioner_id, appointment_date, start_time)
		WHERE status <> 'cancelled'`,
	`CREATE INDEX IF NOT EXISTS appointments_lookup_idx
		ON appointments (practitioner_id, appointment_date, start_time, status)`,
}

// Migrate applies the schema. Statements are idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
