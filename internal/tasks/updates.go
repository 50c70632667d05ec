package tasks

import (
	"fmt"

	"github.com/desertthunder/flixport/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	Authenticate Phase = iota
	ResolveProfile
	ActivateProfile
	ExportRatings
	ImportRatings
)

func (p Phase) String() string {
	switch p {
	case Authenticate:
		return "authenticate"
	case ResolveProfile:
		return "resolve_profile"
	case ActivateProfile:
		return "activate_profile"
	case ExportRatings:
		return "export_ratings"
	case ImportRatings:
		return "import_ratings"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func authenticateUpdate(email string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Authenticate,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Signing in as %s...", email),
	}
}

func resolveProfileUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveProfile,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Looking up profile %q...", name),
	}
}

func activateProfileUpdate(guid string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ActivateProfile,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Switching to profile %s...", guid),
		Data:    guid,
	}
}

func exportRatingsUpdate(count int, sink string) ProgressUpdate {
	if sink == "" {
		sink = "stdout"
	}
	return ProgressUpdate{
		Phase:   ExportRatings,
		Step:    count,
		Total:   count,
		Message: fmt.Sprintf("Exported %d ratings to %s", count, sink),
	}
}

func importRatingUpdate(step, total int, r models.Rating) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportRatings,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s (%v)", step, total, r.Title, r.YourRating),
		Data:    r,
	}
}
