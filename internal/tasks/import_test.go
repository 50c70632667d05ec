package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/flixport/internal/models"
	"github.com/desertthunder/flixport/internal/shared"
	th "github.com/desertthunder/flixport/internal/testing"
	"github.com/google/go-cmp/cmp"
)

func ratingCalls(ratings []models.Rating) []th.SetRatingCall {
	calls := make([]th.SetRatingCall, len(ratings))
	for i, r := range ratings {
		calls[i] = th.SetRatingCall{MovieID: r.MovieID, Rating: r.YourRating}
	}
	return calls
}

var ignoreCallTime = cmp.Comparer(func(a, b th.SetRatingCall) bool {
	return a.MovieID == b.MovieID && a.Rating == b.Rating
})

func TestRatingImporter(t *testing.T) {
	ctx := context.Background()
	ratings := th.SampleRatings(5)
	doc, _ := json.Marshal(ratings)

	t.Run("replays every rating from a file in order", func(t *testing.T) {
		session := &th.MockSession{}
		fs := th.NewMemFS()
		fs.Files["ratings.json"] = doc

		result, err := NewRatingImporter(session, ImporterOpts{FileSystem: fs, Stdin: &th.FReader{}}).
			Import(ctx, models.ImportSource{Source: "ratings.json"})
		if err != nil {
			t.Fatalf("Import() error = %v", err)
		}

		if diff := cmp.Diff(ratingCalls(ratings), session.SetRatings, ignoreCallTime); diff != "" {
			t.Errorf("SetVideoRating calls mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(ImportResult{Total: 5, Applied: 5}, result); diff != "" {
			t.Errorf("result mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("reads stdin when no source is set", func(t *testing.T) {
		session := &th.MockSession{}
		fs := th.NewMemFS()

		result, err := NewRatingImporter(session, ImporterOpts{FileSystem: fs, Stdin: strings.NewReader(string(doc))}).
			Import(ctx, models.ImportSource{})
		if err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		if result.Applied != len(ratings) {
			t.Errorf("applied %d ratings, want %d", result.Applied, len(ratings))
		}
	})

	t.Run("passes values through unchanged", func(t *testing.T) {
		session := &th.MockSession{}
		input := `[{"movieID":42,"yourRating":-1.25},{"movieID":42,"yourRating":7}]`

		_, err := NewRatingImporter(session, ImporterOpts{Stdin: strings.NewReader(input)}).Import(ctx, models.ImportSource{})
		if err != nil {
			t.Fatalf("Import() error = %v", err)
		}

		want := []th.SetRatingCall{{MovieID: 42, Rating: -1.25}, {MovieID: 42, Rating: 7}}
		if diff := cmp.Diff(want, session.SetRatings, ignoreCallTime); diff != "" {
			t.Errorf("SetVideoRating calls mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty array makes no calls", func(t *testing.T) {
		session := &th.MockSession{}
		result, err := NewRatingImporter(session, ImporterOpts{Stdin: strings.NewReader("[]")}).Import(ctx, models.ImportSource{})
		if err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		if session.CallCount("SetVideoRating") != 0 || result.Total != 0 {
			t.Errorf("expected no calls, got %d", session.CallCount("SetVideoRating"))
		}
	})

	t.Run("malformed input makes no calls", func(t *testing.T) {
		tc := []struct {
			name  string
			input string
		}{
			{name: "truncated", input: `[{"movieID":`},
			{name: "null document", input: "null"},
			{name: "null element", input: `[null]`},
			{name: "null among ratings", input: `[{"movieID":1,"yourRating":2},null]`},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				session := &th.MockSession{}
				result, err := NewRatingImporter(session, ImporterOpts{Stdin: strings.NewReader(tt.input)}).Import(ctx, models.ImportSource{})
				if !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				if session.CallCount("SetVideoRating") != 0 {
					t.Error("expected no SetVideoRating calls")
				}
				if result.Total != 0 {
					t.Errorf("expected no ratings counted, got %d", result.Total)
				}
			})
		}
	})

	t.Run("missing file propagates read error", func(t *testing.T) {
		session := &th.MockSession{}
		_, err := NewRatingImporter(session, ImporterOpts{FileSystem: th.NewMemFS()}).Import(ctx, models.ImportSource{Source: "missing.json"})
		if err == nil {
			t.Fatal("expected read error")
		}
		if session.CallCount("SetVideoRating") != 0 {
			t.Error("expected no SetVideoRating calls")
		}
	})

	t.Run("stdin failure propagates", func(t *testing.T) {
		_, err := NewRatingImporter(&th.MockSession{}, ImporterOpts{Stdin: &th.FReader{}}).Import(ctx, models.ImportSource{})
		if err == nil {
			t.Error("expected stdin read error")
		}
	})

	t.Run("stops at the first failed rating", func(t *testing.T) {
		rateErr := errors.New("title unavailable")
		session := &th.MockSession{SetRatingErrs: map[int64]error{ratings[2].MovieID: rateErr}}

		result, err := NewRatingImporter(session, ImporterOpts{Stdin: strings.NewReader(string(doc))}).Import(ctx, models.ImportSource{})
		if !errors.Is(err, rateErr) {
			t.Errorf("expected rating error, got %v", err)
		}
		if got := session.CallCount("SetVideoRating"); got != 3 {
			t.Errorf("expected 3 SetVideoRating calls, got %d", got)
		}
		if diff := cmp.Diff(ImportResult{Total: 5, Applied: 2, Failed: 1}, result); diff != "" {
			t.Errorf("result mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("continue policy attempts every rating", func(t *testing.T) {
		rateErr := errors.New("title unavailable")
		session := &th.MockSession{SetRatingErrs: map[int64]error{ratings[1].MovieID: rateErr}}
		importer := NewRatingImporter(session, ImporterOpts{
			Stdin:    strings.NewReader(string(doc)),
			Executor: NewWaterfall(0, ContinueOnError),
		})

		result, err := importer.Import(ctx, models.ImportSource{})
		if !errors.Is(err, rateErr) {
			t.Errorf("expected rating error, got %v", err)
		}
		if diff := cmp.Diff(ImportResult{Total: 5, Applied: 4, Failed: 1}, result); diff != "" {
			t.Errorf("result mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("paces rating writes", func(t *testing.T) {
		const interval = 100 * time.Millisecond
		session := &th.MockSession{}
		input, _ := json.Marshal(th.SampleRatings(2))
		importer := NewRatingImporter(session, ImporterOpts{
			Stdin:    strings.NewReader(string(input)),
			Executor: NewWaterfall(interval, StopOnError),
		})

		start := time.Now()
		if _, err := importer.Import(ctx, models.ImportSource{}); err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		if elapsed := time.Since(start); elapsed < 2*interval {
			t.Errorf("2 ratings imported in %v, want at least %v", elapsed, 2*interval)
		}
		if len(session.SetRatings) == 2 {
			if gap := session.SetRatings[1].At.Sub(session.SetRatings[0].At); gap < interval {
				t.Errorf("second rating sent %v after the first, want at least %v", gap, interval)
			}
		}
	})

	t.Run("emits progress per rating", func(t *testing.T) {
		progress := make(chan ProgressUpdate, 10)
		importer := NewRatingImporter(&th.MockSession{}, ImporterOpts{
			Stdin:    strings.NewReader(string(doc)),
			Progress: progress,
		})

		if _, err := importer.Import(ctx, models.ImportSource{}); err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		close(progress)

		var steps []int
		for update := range progress {
			if update.Phase != ImportRatings {
				t.Errorf("unexpected phase %v", update.Phase)
			}
			steps = append(steps, update.Step)
		}
		if diff := cmp.Diff([]int{1, 2, 3, 4, 5}, steps); diff != "" {
			t.Errorf("progress steps mismatch (-want +got):\n%s", diff)
		}
	})
}
