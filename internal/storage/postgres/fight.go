package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FightStatus is the validation state of a stored fight.
type FightStatus string

const (
	StatusPending  FightStatus = "pending"
	StatusVerified FightStatus = "verified"
	StatusRejected FightStatus = "rejected"
)

// ErrFightNotFound is returned when a fight lookup yields no results.
var ErrFightNotFound = errors.New("fight not found")

// ErrFightNotPending is returned when a status change targets a fight that
// has already been validated.
var ErrFightNotPending = errors.New("fight is not pending")

// Fight is a client-reported encounter outcome awaiting server-side
// re-simulation.
type Fight struct {
	ID uuid.UUID
	// Encounter is the JSON-encoded encounter input.
	Encounter json.RawMessage
	Formula   string
	Seed      string
	// Hash is the content hash the client reported.
	Hash       string
	Winner     int
	Status     FightStatus
	Reason     string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	VerifiedAt *time.Time
}

const fightColumns = `id, encounter, formula, seed, hash, winner, status, reason, created_at, expires_at, verified_at`

// FightRepository provides fight record persistence operations.
type FightRepository struct {
	db *pgxpool.Pool
}

// NewFightRepository creates a FightRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewFightRepository(db *pgxpool.Pool) *FightRepository {
	return &FightRepository{db: db}
}

// Create inserts f as a pending fight. A nil ID is replaced by a fresh
// random UUID.
//
// Precondition: f.Encounter must be valid JSON; f.ExpiresAt must be set.
// Postcondition: Returns the stored fight with ID, Status and CreatedAt set.
func (r *FightRepository) Create(ctx context.Context, f *Fight) (*Fight, error) {
	id := f.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO fights (id, encounter, formula, seed, hash, winner, status, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+fightColumns,
		id, []byte(f.Encounter), f.Formula, f.Seed, f.Hash, f.Winner, StatusPending, f.ExpiresAt,
	)
	out, err := scanFight(row)
	if err != nil {
		return nil, fmt.Errorf("inserting fight: %w", err)
	}
	return out, nil
}

// Get retrieves the fight with the given id.
//
// Postcondition: Returns the fight or ErrFightNotFound.
func (r *FightRepository) Get(ctx context.Context, id uuid.UUID) (*Fight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+fightColumns+` FROM fights WHERE id = $1`, id)
	f, err := scanFight(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFightNotFound
		}
		return nil, fmt.Errorf("querying fight: %w", err)
	}
	return f, nil
}

// ListPending returns up to limit pending fights, oldest first.
//
// Precondition: limit > 0.
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *FightRepository) ListPending(ctx context.Context, limit int) ([]*Fight, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+fightColumns+` FROM fights
		 WHERE status = $1
		 ORDER BY created_at, id
		 LIMIT $2`,
		StatusPending, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying pending fights: %w", err)
	}
	defer rows.Close()

	var out []*Fight
	for rows.Next() {
		f, err := scanFight(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning fight: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fights: %w", err)
	}
	return out, nil
}

// MarkVerified records that the fight re-simulated to its reported hash.
//
// Postcondition: Returns ErrFightNotFound for an unknown id and
// ErrFightNotPending when the fight was already validated.
func (r *FightRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return r.resolve(ctx, id, StatusVerified, "")
}

// MarkRejected records that the fight failed validation, with a reason.
//
// Postcondition: Returns ErrFightNotFound for an unknown id and
// ErrFightNotPending when the fight was already validated.
func (r *FightRepository) MarkRejected(ctx context.Context, id uuid.UUID, reason string) error {
	return r.resolve(ctx, id, StatusRejected, reason)
}

func (r *FightRepository) resolve(ctx context.Context, id uuid.UUID, status FightStatus, reason string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE fights SET status = $2, reason = $3, verified_at = NOW()
		 WHERE id = $1 AND status = $4`,
		id, status, reason, StatusPending,
	)
	if err != nil {
		return fmt.Errorf("updating fight status: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return ErrFightNotPending
}

// DeleteExpired removes every fight whose expiry is at or before now.
//
// Postcondition: Returns the number of deleted rows.
func (r *FightRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM fights WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("deleting expired fights: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanFight(row pgx.Row) (*Fight, error) {
	var (
		f         Fight
		encounter []byte
		status    string
	)
	err := row.Scan(&f.ID, &encounter, &f.Formula, &f.Seed, &f.Hash, &f.Winner,
		&status, &f.Reason, &f.CreatedAt, &f.ExpiresAt, &f.VerifiedAt)
	if err != nil {
		return nil, err
	}
	f.Encounter = json.RawMessage(encounter)
	f.Status = FightStatus(status)
	return &f, nil
}
