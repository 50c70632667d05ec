// package formatter encodes rating documents and renders profiles and run history (JSON, CSV, tables, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/flixport/internal/models"
	"github.com/desertthunder/flixport/internal/shared"
)

const timeLayout = "2006-01-02 15:04:05"

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// EncodeRatings serializes ratings as a JSON array, indent spaces per level, or compact when indent <= 0.
//
// HTML characters are not escaped and no trailing newline is added, so the output is exactly the
// canonical serialization. A nil slice encodes as [].
func EncodeRatings(ratings []models.Rating, indent int) ([]byte, error) {
	if ratings == nil {
		ratings = []models.Rating{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}

	if err := enc.Encode(ratings); err != nil {
		return nil, fmt.Errorf("failed to encode ratings: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// DecodeRatings parses a JSON array of ratings. Values are kept as written; only syntax and types are checked.
//
// A null document or a null element is rejected rather than read as an empty list or a zero rating.
func DecodeRatings(data []byte) ([]models.Rating, error) {
	var items []*models.Rating
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: rating document is not a JSON array of ratings: %v", shared.ErrInvalidInput, err)
	}
	if items == nil {
		return nil, fmt.Errorf("%w: rating document is null, expected a JSON array", shared.ErrInvalidInput)
	}

	ratings := make([]models.Rating, len(items))
	for i, item := range items {
		if item == nil {
			return nil, fmt.Errorf("%w: rating at index %d is null", shared.ErrInvalidInput, i)
		}
		ratings[i] = *item
	}
	return ratings, nil
}

// RunsToCSV converts runs to CSV with columns: ID, Sequence, Mode, Profile, Email, Status, Total, Applied, Started, Completed, Error
func RunsToCSV(runs []*models.Run) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Sequence", "Mode", "Profile", "Email", "Status", "Total", "Applied", "Started", "Completed", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, run := range runs {
		record := []string{
			run.ID(),
			strconv.Itoa(run.Sequence()),
			string(run.Mode()),
			run.Profile(),
			run.Email(),
			string(run.Status()),
			strconv.Itoa(run.RatingsTotal()),
			strconv.Itoa(run.RatingsApplied()),
			formatTime(run.StartedAt()),
			formatTime(run.CompletedAt()),
			run.ErrorMessage(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// RunsTable renders runs as a bordered table, one row per run in the given order.
func RunsTable(runs []*models.Run) string {
	t := newTable("#", "ID", "Mode", "Profile", "Status", "Ratings", "Started")
	for _, run := range runs {
		t.Row(
			strconv.Itoa(run.Sequence()),
			shortID(run.ID()),
			string(run.Mode()),
			run.Profile(),
			string(run.Status()),
			ratingCounts(run),
			formatTime(run.StartedAt()),
		)
	}
	return t.String()
}

// ProfilesTable renders profiles as a bordered table of name and guid.
func ProfilesTable(profiles []models.Profile) string {
	t := newTable("Name", "GUID")
	for _, p := range profiles {
		t.Row(p.FirstName, p.GUID)
	}
	return t.String()
}

// RunToText converts a single run to a plain text report
func RunToText(run *models.Run) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Run: %s\n", run.ID()))
	buf.WriteString(fmt.Sprintf("Sequence: %d\n", run.Sequence()))
	buf.WriteString(fmt.Sprintf("Mode: %s\n", run.Mode()))
	buf.WriteString(fmt.Sprintf("Profile: %s\n", run.Profile()))
	if run.Email() != "" {
		buf.WriteString(fmt.Sprintf("Account: %s\n", run.Email()))
	}
	buf.WriteString(fmt.Sprintf("Status: %s\n", run.Status()))
	buf.WriteString(fmt.Sprintf("Ratings: %s\n", ratingCounts(run)))
	buf.WriteString(fmt.Sprintf("Started: %s\n", formatTime(run.StartedAt())))
	buf.WriteString(fmt.Sprintf("Completed: %s\n", formatTime(run.CompletedAt())))
	if d := run.Duration(); d > 0 {
		buf.WriteString(fmt.Sprintf("Duration: %s\n", d.Round(time.Millisecond)))
	}
	if run.ErrorMessage() != "" {
		buf.WriteString(fmt.Sprintf("Error: %s\n", run.ErrorMessage()))
	}

	return buf.Bytes()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func ratingCounts(run *models.Run) string {
	if run.Mode() == models.RunModeExport {
		return strconv.Itoa(run.RatingsTotal())
	}
	return fmt.Sprintf("%d/%d", run.RatingsApplied(), run.RatingsTotal())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(timeLayout)
}
