package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/flixport/internal/formatter"
	"github.com/desertthunder/flixport/internal/models"
	"github.com/desertthunder/flixport/internal/repositories"
	"github.com/desertthunder/flixport/internal/shared"
	"github.com/desertthunder/flixport/internal/ui"
	"github.com/urfave/cli/v3"
)

// runRecord is the JSON view of a [models.Run].
type runRecord struct {
	ID             string     `json:"id"`
	Sequence       int        `json:"sequence"`
	Mode           string     `json:"mode"`
	Profile        string     `json:"profile"`
	Email          string     `json:"email,omitempty"`
	Status         string     `json:"status"`
	RatingsTotal   int        `json:"ratings_total"`
	RatingsApplied int        `json:"ratings_applied"`
	Error          string     `json:"error,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func newRunRecord(run *models.Run) runRecord {
	return runRecord{
		ID:             run.ID(),
		Sequence:       run.Sequence(),
		Mode:           string(run.Mode()),
		Profile:        run.Profile(),
		Email:          run.Email(),
		Status:         string(run.Status()),
		RatingsTotal:   run.RatingsTotal(),
		RatingsApplied: run.RatingsApplied(),
		Error:          run.ErrorMessage(),
		StartedAt:      run.StartedAt(),
		CompletedAt:    run.CompletedAt(),
		CreatedAt:      run.CreatedAt(),
	}
}

func (r *Runner) openRuns() (*repositories.RunRepository, func(), error) {
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open run history: %w", err)
	}
	return repositories.NewRunRepository(db), func() { db.Close() }, nil
}

// RunsList prints recorded runs, newest first.
func (r *Runner) RunsList(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("json") && cmd.Bool("csv") {
		return fmt.Errorf("%w: cannot specify both --json and --csv", shared.ErrInvalidArgument)
	}

	repo, closeStore, err := r.openRuns()
	if err != nil {
		return err
	}
	defer closeStore()

	runs, err := repo.List(map[string]any{
		"mode":    cmd.String("mode"),
		"status":  cmd.String("status"),
		"profile": cmd.String("profile"),
		"limit":   cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	switch {
	case cmd.Bool("json"):
		records := make([]runRecord, 0, len(runs))
		for _, run := range runs {
			records = append(records, newRunRecord(run))
		}
		return r.writeJSON(records, true)
	case cmd.Bool("csv"):
		data, err := formatter.RunsToCSV(runs)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}

	r.writePlainHeader("Run History")
	if len(runs) == 0 {
		return r.writePlain("%s\n", ui.Help("No runs recorded yet. Run `flixport export` or `flixport import` first."))
	}
	return r.writePlain("%s\n", formatter.RunsTable(runs))
}

// RunsShow prints one run by sequence number or ID.
func (r *Runner) RunsShow(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.Args().First()
	if ref == "" {
		return fmt.Errorf("%w: run sequence number or ID", shared.ErrMissingArgument)
	}

	repo, closeStore, err := r.openRuns()
	if err != nil {
		return err
	}
	defer closeStore()

	run, err := repo.Find(ref)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(newRunRecord(run), true)
	}
	return r.writePlain("%s", formatter.RunToText(run))
}
