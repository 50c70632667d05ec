package models

import "strings"

// Credentials identifies an account. Never persisted.
type Credentials struct {
	Email    string
	Password string
}

// Valid reports whether both fields are present.
func (c Credentials) Valid() bool {
	return strings.TrimSpace(c.Email) != "" && c.Password != ""
}

// Profile is a named sub-account with its own rating history.
type Profile struct {
	GUID      string `json:"guid"`
	FirstName string `json:"firstName"`
}

// Rating types reported by the account service.
const (
	RatingTypeStar  = "star"
	RatingTypeThumb = "thumb"
)

// Rating is a single title's score as recorded by the account service.
//
// Field order matches the service's key order so that encoding reproduces it.
// IntRating is only present for star ratings.
type Rating struct {
	RatingType     string  `json:"ratingType"`
	Title          string  `json:"title"`
	MovieID        int64   `json:"movieID"`
	YourRating     float64 `json:"yourRating"`
	IntRating      *int    `json:"intRating,omitempty"`
	Date           string  `json:"date"`
	Timestamp      int64   `json:"timestamp"`
	ComparableDate int64   `json:"comparableDate"`
}

// ExportOptions selects the export sink. An empty Sink means standard output; Indent <= 0 means compact JSON.
type ExportOptions struct {
	Sink   string
	Indent int
}

// ImportSource selects the import source. An empty Source means standard input.
type ImportSource struct {
	Source string
}
