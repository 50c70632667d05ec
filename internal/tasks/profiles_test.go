package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/flixport/internal/models"
	"github.com/desertthunder/flixport/internal/shared"
	th "github.com/desertthunder/flixport/internal/testing"
)

func TestProfileResolver(t *testing.T) {
	ctx := context.Background()
	profiles := []models.Profile{
		{GUID: "G-ANNA", FirstName: "Anna"},
		{GUID: "G-KLAUS", FirstName: "Klaus"},
		{GUID: "G-KLAUS-2", FirstName: "Klaus"},
	}

	tests := []struct {
		name    string
		lookup  string
		want    string
		wantErr error
	}{
		{name: "exact match", lookup: "Klaus", want: "G-KLAUS"},
		{name: "first entry", lookup: "Anna", want: "G-ANNA"},
		{name: "case sensitive", lookup: "klaus", wantErr: shared.ErrProfileNotFound},
		{name: "no match", lookup: "Nobody", wantErr: shared.ErrProfileNotFound},
		{name: "empty name", lookup: "", wantErr: shared.ErrProfileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &th.MockSession{Profiles: profiles}
			got, err := NewProfileResolver(session).Resolve(ctx, tt.lookup)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.lookup, got, tt.want)
			}
		})
	}

	t.Run("list failure propagates unchanged", func(t *testing.T) {
		listErr := errors.New("profiles unavailable")
		session := &th.MockSession{ListProfilesErr: listErr}

		_, err := NewProfileResolver(session).Resolve(ctx, "Klaus")
		if err != listErr {
			t.Errorf("expected list error unchanged, got %v", err)
		}
	})

	t.Run("empty profile list", func(t *testing.T) {
		_, err := NewProfileResolver(&th.MockSession{}).Resolve(ctx, "Klaus")
		if !errors.Is(err, shared.ErrProfileNotFound) {
			t.Errorf("expected ErrProfileNotFound, got %v", err)
		}
	})
}

func TestProfileSwitcher(t *testing.T) {
	ctx := context.Background()

	t.Run("activates guid", func(t *testing.T) {
		session := &th.MockSession{}
		if err := NewProfileSwitcher(session).Switch(ctx, "G-KLAUS"); err != nil {
			t.Fatalf("Switch() error = %v", err)
		}
		if len(session.Switched) != 1 || session.Switched[0] != "G-KLAUS" {
			t.Errorf("expected switch to G-KLAUS, got %v", session.Switched)
		}
	})

	t.Run("failure propagates unchanged", func(t *testing.T) {
		switchErr := errors.New("switch rejected")
		session := &th.MockSession{SwitchErr: switchErr}
		if err := NewProfileSwitcher(session).Switch(ctx, "G-KLAUS"); err != switchErr {
			t.Errorf("expected switch error unchanged, got %v", err)
		}
	})
}
