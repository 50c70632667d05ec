package tasks

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/desertthunder/flixport/internal/formatter"
	"github.com/desertthunder/flixport/internal/models"
	"github.com/desertthunder/flixport/internal/services"
	"github.com/desertthunder/flixport/internal/shared"
)

// Importer applies a serialized rating list to the active profile.
type Importer interface {
	Import(ctx context.Context, src models.ImportSource) (ImportResult, error)
}

// ImportResult counts what an import did, including on failure.
type ImportResult struct {
	Total   int // Ratings in the source document
	Applied int // SetVideoRating calls that succeeded
	Failed  int // SetVideoRating calls that returned an error
}

// RatingImporter reads a rating list and replays each entry through the executor, one SetVideoRating per rating.
type RatingImporter struct {
	session  services.Session
	fs       shared.FileSystem
	stdin    io.Reader
	executor Executor
	progress chan<- ProgressUpdate
}

// ImporterOpts configures a [RatingImporter].
type ImporterOpts struct {
	FileSystem shared.FileSystem     // defaults to [shared.OSFileSystem]
	Stdin      io.Reader             // defaults to os.Stdin
	Executor   Executor              // defaults to a Waterfall with no pacing
	Progress   chan<- ProgressUpdate // optional
}

// NewRatingImporter creates a [RatingImporter].
func NewRatingImporter(session services.Session, opts ImporterOpts) *RatingImporter {
	if opts.FileSystem == nil {
		opts.FileSystem = shared.OSFileSystem{}
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Executor == nil {
		opts.Executor = NewWaterfall(0, StopOnError)
	}

	return &RatingImporter{
		session:  session,
		fs:       opts.FileSystem,
		stdin:    opts.Stdin,
		executor: opts.Executor,
		progress: opts.Progress,
	}
}

// Import reads src.Source (or standard input when empty), parses it as a JSON array of ratings and
// calls SetVideoRating(MovieID, YourRating) once per element, in document order.
//
// Values are passed through unchanged; nothing beyond JSON parsing is validated.
func (i *RatingImporter) Import(ctx context.Context, src models.ImportSource) (ImportResult, error) {
	var result ImportResult

	data, err := i.read(src)
	if err != nil {
		return result, err
	}

	ratings, err := formatter.DecodeRatings(data)
	if err != nil {
		return result, err
	}
	result.Total = len(ratings)

	tasks := make([]Task, len(ratings))
	for idx, r := range ratings {
		tasks[idx] = func(ctx context.Context) error {
			sendProgress(i.progress, importRatingUpdate(idx+1, result.Total, r))
			if err := i.session.SetVideoRating(ctx, r.MovieID, r.YourRating); err != nil {
				result.Failed++
				return fmt.Errorf("failed to rate %d (%s): %w", r.MovieID, r.Title, err)
			}
			result.Applied++
			return nil
		}
	}

	err = i.executor.Run(ctx, tasks)
	return result, err
}

func (i *RatingImporter) read(src models.ImportSource) ([]byte, error) {
	if src.Source != "" {
		return i.fs.ReadFile(src.Source)
	}

	data, err := io.ReadAll(i.stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read ratings from stdin: %w", err)
	}
	return data, nil
}
