// package services defines interface Session for interacting with the streaming account API
package services

import (
	"context"

	"github.com/desertthunder/flixport/internal/models"
)

// Session is an authenticated conversation with a streaming account.
//
// A Session is stateful: [Session.SwitchProfile] changes which profile later rating calls act on.
type Session interface {
	// Login authenticates the session. Every other method requires a successful Login.
	Login(ctx context.Context, creds models.Credentials) error

	// ListProfiles returns all profiles of the account in service order.
	ListProfiles(ctx context.Context) ([]models.Profile, error)

	// SwitchProfile makes the profile with the given GUID the active one.
	SwitchProfile(ctx context.Context, guid string) error

	// GetRatingHistory returns every rating of the active profile in service order.
	GetRatingHistory(ctx context.Context) ([]models.Rating, error)

	// SetVideoRating rates a title on the active profile.
	SetVideoRating(ctx context.Context, movieID int64, rating float64) error
}
