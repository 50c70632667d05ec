package formatter

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/flixport/internal/models"
	"github.com/desertthunder/flixport/internal/shared"
	th "github.com/desertthunder/flixport/internal/testing"
	"github.com/google/go-cmp/cmp"
)

func intPtr(v int) *int { return &v }

func TestEncodeRatings(t *testing.T) {
	t.Run("compact keeps service key order", func(t *testing.T) {
		ratings := []models.Rating{{
			RatingType:     models.RatingTypeThumb,
			Title:          "Dark",
			MovieID:        80100172,
			YourRating:     2,
			Date:           "03/14/2021",
			Timestamp:      1615700000000,
			ComparableDate: 1615680000,
		}}

		data, err := EncodeRatings(ratings, 0)
		if err != nil {
			t.Fatalf("EncodeRatings failed: %v", err)
		}

		want := `[{"ratingType":"thumb","title":"Dark","movieID":80100172,"yourRating":2,"date":"03/14/2021","timestamp":1615700000000,"comparableDate":1615680000}]`
		if string(data) != want {
			t.Errorf("EncodeRatings() =\n%s\nwant\n%s", data, want)
		}
	})

	t.Run("star rating includes intRating", func(t *testing.T) {
		ratings := []models.Rating{{RatingType: models.RatingTypeStar, Title: "Heat", MovieID: 1, YourRating: 4, IntRating: intPtr(40)}}

		data, err := EncodeRatings(ratings, 0)
		if err != nil {
			t.Fatalf("EncodeRatings failed: %v", err)
		}
		if !strings.Contains(string(data), `"yourRating":4,"intRating":40,"date"`) {
			t.Errorf("expected intRating after yourRating, got %s", data)
		}
	})

	t.Run("indent matches canonical four space serialization", func(t *testing.T) {
		ratings := th.SampleRatings(3)

		data, err := EncodeRatings(ratings, 4)
		if err != nil {
			t.Fatalf("EncodeRatings failed: %v", err)
		}

		want, err := json.MarshalIndent(ratings, "", "    ")
		if err != nil {
			t.Fatalf("MarshalIndent failed: %v", err)
		}
		if string(data) != string(want) {
			t.Errorf("EncodeRatings() =\n%s\nwant\n%s", data, want)
		}
	})

	t.Run("negative indent is compact", func(t *testing.T) {
		ratings := th.SampleRatings(2)
		compact, _ := EncodeRatings(ratings, 0)
		negative, err := EncodeRatings(ratings, -2)
		if err != nil {
			t.Fatalf("EncodeRatings failed: %v", err)
		}
		if string(compact) != string(negative) {
			t.Errorf("expected compact output, got %s", negative)
		}
	})

	t.Run("does not escape HTML", func(t *testing.T) {
		ratings := []models.Rating{{RatingType: models.RatingTypeThumb, Title: "Love & <Death>", MovieID: 1, YourRating: 1}}

		data, err := EncodeRatings(ratings, 0)
		if err != nil {
			t.Fatalf("EncodeRatings failed: %v", err)
		}
		if !strings.Contains(string(data), `"title":"Love & <Death>"`) {
			t.Errorf("expected unescaped title, got %s", data)
		}
	})

	t.Run("no trailing newline", func(t *testing.T) {
		data, err := EncodeRatings(th.SampleRatings(1), 2)
		if err != nil {
			t.Fatalf("EncodeRatings failed: %v", err)
		}
		if strings.HasSuffix(string(data), "\n") {
			t.Error("output should not end with a newline")
		}
	})

	t.Run("empty and nil encode as empty array", func(t *testing.T) {
		for _, ratings := range [][]models.Rating{nil, {}} {
			data, err := EncodeRatings(ratings, 4)
			if err != nil {
				t.Fatalf("EncodeRatings failed: %v", err)
			}
			if string(data) != "[]" {
				t.Errorf("expected [], got %q", data)
			}
		}
	})
}

func TestDecodeRatings(t *testing.T) {
	t.Run("round trips encoded ratings", func(t *testing.T) {
		ratings := th.SampleRatings(5)
		ratings[2].RatingType = models.RatingTypeStar
		ratings[2].IntRating = intPtr(30)

		for _, indent := range []int{0, 4} {
			data, err := EncodeRatings(ratings, indent)
			if err != nil {
				t.Fatalf("EncodeRatings failed: %v", err)
			}
			got, err := DecodeRatings(data)
			if err != nil {
				t.Fatalf("DecodeRatings failed: %v", err)
			}
			if diff := cmp.Diff(ratings, got); diff != "" {
				t.Errorf("round trip mismatch (indent %d) (-want +got):\n%s", indent, diff)
			}
		}
	})

	t.Run("keeps values verbatim", func(t *testing.T) {
		got, err := DecodeRatings([]byte(`[{"movieID":7,"yourRating":-3.5},{"movieID":7,"yourRating":99}]`))
		if err != nil {
			t.Fatalf("DecodeRatings failed: %v", err)
		}
		want := []models.Rating{{MovieID: 7, YourRating: -3.5}, {MovieID: 7, YourRating: 99}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("DecodeRatings() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		tc := []struct {
			name  string
			input string
		}{
			{name: "not json", input: "ratings"},
			{name: "object instead of array", input: `{"movieID":1}`},
			{name: "wrong field type", input: `[{"movieID":"abc"}]`},
			{name: "truncated", input: `[{"movieID":1}`},
			{name: "null document", input: "null"},
			{name: "null element", input: `[null]`},
			{name: "null after a rating", input: `[{"movieID":1,"yourRating":2},null]`},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				_, err := DecodeRatings([]byte(tt.input))
				if !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
			})
		}
	})

	t.Run("null element names its index", func(t *testing.T) {
		_, err := DecodeRatings([]byte(`[{"movieID":1},{"movieID":2},null]`))
		if err == nil || !strings.Contains(err.Error(), "index 2") {
			t.Errorf("expected error naming index 2, got %v", err)
		}
	})

	t.Run("empty array", func(t *testing.T) {
		got, err := DecodeRatings([]byte("[]"))
		if err != nil {
			t.Fatalf("DecodeRatings failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no ratings, got %d", len(got))
		}
	})
}

func sampleRuns() []*models.Run {
	export := models.NewRun(1, models.RunModeExport, "Klaus", "klaus@example.com")
	export.SetID("0b5d1c9e-1111-2222-3333-444455556666")
	export.Start()
	export.SetRatingsTotal(12)
	export.Complete()

	imp := models.NewRun(2, models.RunModeImport, "Kids", "klaus@example.com")
	imp.SetID("9f8e7d6c-1111-2222-3333-444455556666")
	imp.Start()
	imp.SetRatingsTotal(5)
	imp.SetRatingsApplied(3)
	imp.Fail(errors.New("api request failed: status 500"))

	return []*models.Run{export, imp}
}

func TestRunRendering(t *testing.T) {
	runs := sampleRuns()

	t.Run("RunsToCSV", func(t *testing.T) {
		data, err := RunsToCSV(runs)
		if err != nil {
			t.Fatalf("RunsToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
		}
		if lines[0] != "ID,Sequence,Mode,Profile,Email,Status,Total,Applied,Started,Completed,Error" {
			t.Errorf("unexpected CSV header: %s", lines[0])
		}
		if !strings.Contains(lines[2], "import,Kids,klaus@example.com,failed,5,3") {
			t.Errorf("unexpected import row: %s", lines[2])
		}
		if !strings.Contains(lines[2], "api request failed: status 500") {
			t.Errorf("expected error message in row: %s", lines[2])
		}
	})

	t.Run("RunsToCSV empty", func(t *testing.T) {
		data, err := RunsToCSV(nil)
		if err != nil {
			t.Fatalf("RunsToCSV failed: %v", err)
		}
		if strings.Count(string(data), "\n") != 1 {
			t.Errorf("expected only the header, got %q", data)
		}
	})

	t.Run("RunsTable", func(t *testing.T) {
		out := RunsTable(runs)
		for _, want := range []string{"Mode", "Status", "0b5d1c9e", "Klaus", "completed", "3/5", "12"} {
			if !strings.Contains(out, want) {
				t.Errorf("table missing %q:\n%s", want, out)
			}
		}
		if strings.Contains(out, "0b5d1c9e-1111") {
			t.Error("table should shorten run ids")
		}
	})

	t.Run("ProfilesTable", func(t *testing.T) {
		out := ProfilesTable([]models.Profile{{GUID: "G1", FirstName: "Klaus"}, {GUID: "G2", FirstName: "Kids"}})
		for _, want := range []string{"Name", "GUID", "Klaus", "G1", "Kids", "G2"} {
			if !strings.Contains(out, want) {
				t.Errorf("table missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("RunToText", func(t *testing.T) {
		output := string(RunToText(runs[1]))

		for _, want := range []string{
			"Run: 9f8e7d6c-1111-2222-3333-444455556666",
			"Mode: import",
			"Profile: Kids",
			"Account: klaus@example.com",
			"Status: failed",
			"Ratings: 3/5",
			"Error: api request failed: status 500",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("text missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("RunToText pending run", func(t *testing.T) {
		run := models.NewRun(3, models.RunModeExport, "Klaus", "")
		output := string(RunToText(run))

		if !strings.Contains(output, "Started: -") {
			t.Errorf("expected placeholder start time:\n%s", output)
		}
		if strings.Contains(output, "Account:") || strings.Contains(output, "Error:") {
			t.Errorf("unexpected optional fields:\n%s", output)
		}
	})
}
