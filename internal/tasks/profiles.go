package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/flixport/internal/models"
	"github.com/desertthunder/flixport/internal/services"
	"github.com/desertthunder/flixport/internal/shared"
)

// Resolver turns a profile display name into its GUID.
type Resolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// Switcher activates a profile on the session.
type Switcher interface {
	Switch(ctx context.Context, guid string) error
}

// ProfileResolver finds a profile by exact, case-sensitive first name.
type ProfileResolver struct {
	session services.Session
}

// NewProfileResolver creates a [ProfileResolver] over an authenticated session.
func NewProfileResolver(session services.Session) *ProfileResolver {
	return &ProfileResolver{session: session}
}

// Resolve returns the GUID of the first profile whose FirstName equals name.
//
// Returns [shared.ErrProfileNotFound] when no profile matches.
func (r *ProfileResolver) Resolve(ctx context.Context, name string) (string, error) {
	profiles, err := r.session.ListProfiles(ctx)
	if err != nil {
		return "", err
	}

	if p, ok := FindProfile(profiles, name); ok {
		return p.GUID, nil
	}
	return "", fmt.Errorf("%w: %q", shared.ErrProfileNotFound, name)
}

// FindProfile returns the first profile in list order whose FirstName equals name.
func FindProfile(profiles []models.Profile, name string) (models.Profile, bool) {
	for _, p := range profiles {
		if p.FirstName == name {
			return p, true
		}
	}
	return models.Profile{}, false
}

// ProfileSwitcher makes a profile the session's active profile.
type ProfileSwitcher struct {
	session services.Session
}

// NewProfileSwitcher creates a [ProfileSwitcher] over an authenticated session.
func NewProfileSwitcher(session services.Session) *ProfileSwitcher {
	return &ProfileSwitcher{session: session}
}

// Switch activates guid. Later rating reads and writes on the session act on that profile.
func (s *ProfileSwitcher) Switch(ctx context.Context, guid string) error {
	return s.session.SwitchProfile(ctx, guid)
}
