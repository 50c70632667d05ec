package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRatingJSON(t *testing.T) {
	four := 4

	t.Run("star rating keeps service key order", func(t *testing.T) {
		r := Rating{
			RatingType:     RatingTypeStar,
			Title:          "Heat",
			MovieID:        60001,
			YourRating:     4,
			IntRating:      &four,
			Date:           "01/02/2017",
			Timestamp:      1485993600000,
			ComparableDate: 1485993600,
		}

		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}

		want := `{"ratingType":"star","title":"Heat","movieID":60001,"yourRating":4,"intRating":4,"date":"01/02/2017","timestamp":1485993600000,"comparableDate":1485993600}`
		if string(data) != want {
			t.Errorf("Marshal() = %s\nwant %s", data, want)
		}
	})

	t.Run("thumb rating omits intRating", func(t *testing.T) {
		r := Rating{RatingType: RatingTypeThumb, Title: "Dark", MovieID: 80100172, YourRating: 2, Date: "3/4/19"}

		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}

		want := `{"ratingType":"thumb","title":"Dark","movieID":80100172,"yourRating":2,"date":"3/4/19","timestamp":0,"comparableDate":0}`
		if string(data) != want {
			t.Errorf("Marshal() = %s\nwant %s", data, want)
		}
	})
}

func TestCredentials(t *testing.T) {
	tc := []struct {
		name  string
		creds Credentials
		want  bool
	}{
		{name: "complete", creds: Credentials{Email: "a@b.c", Password: "pw"}, want: true},
		{name: "missing password", creds: Credentials{Email: "a@b.c"}, want: false},
		{name: "blank email", creds: Credentials{Email: "  ", Password: "pw"}, want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.creds.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRun(t *testing.T) {
	t.Run("lifecycle", func(t *testing.T) {
		run := NewRun(1, RunModeImport, "Klaus", "klaus@example.com")
		run.SetID("run-1")

		if run.Status() != RunStatusPending {
			t.Errorf("expected pending, got %s", run.Status())
		}
		if err := run.Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}

		run.Start()
		if run.Status() != RunStatusRunning || run.StartedAt() == nil {
			t.Errorf("expected running with start time, got %s", run.Status())
		}

		run.Fail(errors.New("boom"))
		if run.Status() != RunStatusFailed || run.ErrorMessage() != "boom" {
			t.Errorf("expected failed with message, got %s %q", run.Status(), run.ErrorMessage())
		}
		if run.Duration() < 0 {
			t.Errorf("duration should not be negative, got %v", run.Duration())
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name string
			run  func() *Run
		}{
			{name: "missing id", run: func() *Run { return NewRun(1, RunModeExport, "Klaus", "") }},
			{name: "bad mode", run: func() *Run {
				r := NewRun(1, RunMode("sync"), "Klaus", "")
				r.SetID("x")
				return r
			}},
			{name: "missing profile", run: func() *Run {
				r := NewRun(1, RunModeExport, "", "")
				r.SetID("x")
				return r
			}},
			{name: "negative counts", run: func() *Run {
				r := NewRun(1, RunModeExport, "Klaus", "")
				r.SetID("x")
				r.SetRatingsApplied(-1)
				return r
			}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if err := tt.run().Validate(); err == nil {
					t.Error("expected validation error")
				}
			})
		}
	})
}
