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

// Exporter writes the active profile's rating history somewhere.
type Exporter interface {
	Export(ctx context.Context, opts models.ExportOptions) (int, error)
}

// RatingExporter fetches the full rating history and writes it as one JSON document.
type RatingExporter struct {
	session services.Session
	fs      shared.FileSystem
	stdout  io.Writer
}

// NewRatingExporter creates a [RatingExporter]. A nil fs or stdout falls back to the OS equivalents.
func NewRatingExporter(session services.Session, fs shared.FileSystem, stdout io.Writer) *RatingExporter {
	if fs == nil {
		fs = shared.OSFileSystem{}
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	return &RatingExporter{session: session, fs: fs, stdout: stdout}
}

// Export serializes the rating history with opts.Indent spaces per level (zero or less means compact) and writes the
// text exactly once: to opts.Sink when set, otherwise to standard output. Returns the number of ratings written.
func (e *RatingExporter) Export(ctx context.Context, opts models.ExportOptions) (int, error) {
	ratings, err := e.session.GetRatingHistory(ctx)
	if err != nil {
		return 0, err
	}

	data, err := formatter.EncodeRatings(ratings, opts.Indent)
	if err != nil {
		return 0, err
	}

	if opts.Sink != "" {
		if err := e.fs.WriteFile(opts.Sink, data); err != nil {
			return 0, err
		}
		return len(ratings), nil
	}

	if _, err := e.stdout.Write(data); err != nil {
		return 0, fmt.Errorf("failed to write ratings to stdout: %w", err)
	}
	return len(ratings), nil
}
