// Package validation re-simulates client-reported fights and records
// whether they reproduce the reported outcome.
package validation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/storage/postgres"
)

// Store is the fight persistence the validator depends on.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*postgres.Fight, error)
	ListPending(ctx context.Context, limit int) ([]*postgres.Fight, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
	MarkRejected(ctx context.Context, id uuid.UUID, reason string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Replayer re-simulates an encounter and compares it with a hash.
type Replayer interface {
	Replay(enc combat.Encounter, hash string) (*combat.Result, error)
}

// ErrWinnerMismatch is the rejection cause when the hash reproduces but the
// reported winner does not.
var ErrWinnerMismatch = errors.New("validation: reported winner does not match")

// Verdict is the outcome of validating one fight.
type Verdict struct {
	ID     uuid.UUID
	Status postgres.FightStatus
	Reason string
}

// Validator checks stored fights against a fresh simulation.
type Validator struct {
	store  Store
	sim    Replayer
	logger *zap.Logger
}

// NewValidator creates a Validator.
//
// Precondition: store, sim and logger must be non-nil.
func NewValidator(store Store, sim Replayer, logger *zap.Logger) *Validator {
	return &Validator{store: store, sim: sim, logger: logger}
}

// Validate re-simulates the fight with the given id and marks it verified
// or rejected. A fight whose encounter cannot be decoded or built, whose
// hash differs or whose winner differs is rejected.
//
// Postcondition: returns the recorded verdict, or an error when the store
// fails; rejection is a verdict, not an error.
func (v *Validator) Validate(ctx context.Context, id uuid.UUID) (Verdict, error) {
	f, err := v.store.Get(ctx, id)
	if err != nil {
		return Verdict{}, fmt.Errorf("loading fight %s: %w", id, err)
	}
	return v.validate(ctx, f)
}

func (v *Validator) validate(ctx context.Context, f *postgres.Fight) (Verdict, error) {
	start := time.Now()
	cause := v.check(f)
	verdict := Verdict{ID: f.ID, Status: postgres.StatusVerified}
	if cause != nil {
		verdict.Status = postgres.StatusRejected
		verdict.Reason = cause.Error()
		if err := v.store.MarkRejected(ctx, f.ID, verdict.Reason); err != nil {
			return Verdict{}, fmt.Errorf("rejecting fight %s: %w", f.ID, err)
		}
	} else if err := v.store.MarkVerified(ctx, f.ID); err != nil {
		return Verdict{}, fmt.Errorf("verifying fight %s: %w", f.ID, err)
	}
	v.logger.Info("fight validated",
		zap.String("fight", f.ID.String()),
		zap.String("status", string(verdict.Status)),
		zap.String("reason", verdict.Reason),
		zap.Duration("elapsed", time.Since(start)),
	)
	return verdict, nil
}

// check returns the reason f must be rejected, or nil.
func (v *Validator) check(f *postgres.Fight) error {
	var enc combat.Encounter
	if err := json.Unmarshal(f.Encounter, &enc); err != nil {
		return fmt.Errorf("decoding encounter: %w", err)
	}
	// The stored columns are authoritative over the embedded document.
	enc.Seed = f.Seed
	enc.Formula = f.Formula
	if enc.Seed == "" {
		return errors.New("encounter has no seed")
	}
	r, err := v.sim.Replay(enc, f.Hash)
	if err != nil {
		return err
	}
	if r.Winner != f.Winner {
		return fmt.Errorf("%w: reported %d, simulated %d", ErrWinnerMismatch, f.Winner, r.Winner)
	}
	return nil
}
