package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/flixport/internal/models"
	"github.com/desertthunder/flixport/internal/shared"
)

const runColumns = `
	id, sequence, mode, profile, email, status, ratings_total,
	ratings_applied, error_message, started_at, completed_at,
	created_at, updated_at, deleted_at
`

// RunRepository implements models.Repository[*models.Run] for run history.
//
// Handles run CRUD operations with soft delete support and mode/status/profile queries.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run with a generated ID and the next sequence number
func (r *RunRepository) Create(run *models.Run) error {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.SetID(shared.GenerateID())
	run.SetSequence(sequence)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO runs (
			id, sequence, mode, profile, email, status, ratings_total,
			ratings_applied, error_message, started_at, completed_at,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		run.ID(),
		run.Sequence(),
		run.Mode(),
		run.Profile(),
		run.Email(),
		run.Status(),
		run.RatingsTotal(),
		run.RatingsApplied(),
		nullString(run.ErrorMessage()),
		run.StartedAt(),
		run.CompletedAt(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID, excluding soft-deleted runs
func (r *RunRepository) Get(id string) (*models.Run, error) {
	query := "SELECT " + runColumns + " FROM runs WHERE id = ? AND deleted_at IS NULL"
	return r.scanOne(r.db.QueryRow(query, id), id)
}

// GetBySequence retrieves a run by its sequence number, excluding soft-deleted runs
func (r *RunRepository) GetBySequence(sequence int) (*models.Run, error) {
	query := "SELECT " + runColumns + " FROM runs WHERE sequence = ? AND deleted_at IS NULL"
	return r.scanOne(r.db.QueryRow(query, sequence), "#"+strconv.Itoa(sequence))
}

// Find resolves ref as a sequence number when it is numeric, otherwise as an ID
func (r *RunRepository) Find(ref string) (*models.Run, error) {
	if seq, err := strconv.Atoi(ref); err == nil {
		return r.GetBySequence(seq)
	}
	return r.Get(ref)
}

// Update writes the run's mutable fields: status, counts, error and timestamps
func (r *RunRepository) Update(run *models.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE runs
		SET status = ?, ratings_total = ?, ratings_applied = ?, error_message = ?,
			started_at = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		run.Status(),
		run.RatingsTotal(),
		run.RatingsApplied(),
		nullString(run.ErrorMessage()),
		run.StartedAt(),
		run.CompletedAt(),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	return checkAffected(result, run.ID())
}

// Delete soft-deletes a run by ID
func (r *RunRepository) Delete(id string) error {
	query := `
		UPDATE runs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	return checkAffected(result, id)
}

// List retrieves runs matching the given criteria, newest first, excluding soft-deleted runs.
//
// Supported criteria: "mode", "status", "profile" (string) and "limit" (int).
func (r *RunRepository) List(criteria map[string]any) ([]*models.Run, error) {
	query := "SELECT " + runColumns + " FROM runs WHERE deleted_at IS NULL"
	args := []any{}

	if mode, ok := criteria["mode"].(string); ok && mode != "" {
		query += " AND mode = ?"
		args = append(args, mode)
	}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	if profile, ok := criteria["profile"].(string); ok && profile != "" {
		query += " AND profile = ?"
		args = append(args, profile)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// scanOne scans a single [sql.Row] into a [models.Run]
func (r *RunRepository) scanOne(row *sql.Row, ref string) (*models.Run, error) {
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrRunNotFound, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	return run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*models.Run, error) {
	var (
		id             string
		sequence       int
		mode           string
		profile        string
		email          string
		status         string
		ratingsTotal   int
		ratingsApplied int
		errorMessage   sql.NullString
		startedAt      sql.NullTime
		completedAt    sql.NullTime
		createdAt      time.Time
		updatedAt      time.Time
		deletedAt      sql.NullTime
	)

	err := s.Scan(
		&id, &sequence, &mode, &profile, &email, &status, &ratingsTotal,
		&ratingsApplied, &errorMessage, &startedAt, &completedAt,
		&createdAt, &updatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	run := models.NewRun(sequence, models.RunMode(mode), profile, email)
	run.SetID(id)
	run.SetStatus(models.RunStatus(status))
	run.SetRatingsTotal(ratingsTotal)
	run.SetRatingsApplied(ratingsApplied)
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)

	if errorMessage.Valid {
		run.SetErrorMessage(errorMessage.String)
	}
	if startedAt.Valid {
		run.SetStartedAt(&startedAt.Time)
	}
	if completedAt.Valid {
		run.SetCompletedAt(&completedAt.Time)
	}
	if deletedAt.Valid {
		run.SetDeletedAt(&deletedAt.Time)
	}

	return run, nil
}

func checkAffected(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s not found or already deleted", shared.ErrRunNotFound, id)
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
