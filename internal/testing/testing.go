// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/flixport/internal/models"
)

// SetRatingCall records one [MockSession.SetVideoRating] invocation.
type SetRatingCall struct {
	MovieID int64
	Rating  float64
	At      time.Time
}

// MockSession is a test double for [services.Session].
//
// Every call is appended to Calls ("Login", "ListProfiles", "SwitchProfile", "GetRatingHistory",
// "SetVideoRating") so tests can assert ordering and absence.
type MockSession struct {
	mu sync.Mutex

	Profiles []models.Profile
	Ratings  []models.Rating

	LoginErr        error
	ListProfilesErr error
	SwitchErr       error
	HistoryErr      error
	SetRatingErr    error
	SetRatingErrs   map[int64]error // per movie id, checked before SetRatingErr

	Calls      []string
	Creds      models.Credentials
	Switched   []string
	SetRatings []SetRatingCall
}

func (m *MockSession) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

func (m *MockSession) Login(ctx context.Context, creds models.Credentials) error {
	m.record("Login")
	m.mu.Lock()
	m.Creds = creds
	m.mu.Unlock()
	return m.LoginErr
}

func (m *MockSession) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	m.record("ListProfiles")
	if m.ListProfilesErr != nil {
		return nil, m.ListProfilesErr
	}
	return m.Profiles, nil
}

func (m *MockSession) SwitchProfile(ctx context.Context, guid string) error {
	m.record("SwitchProfile")
	m.mu.Lock()
	m.Switched = append(m.Switched, guid)
	m.mu.Unlock()
	return m.SwitchErr
}

func (m *MockSession) GetRatingHistory(ctx context.Context) ([]models.Rating, error) {
	m.record("GetRatingHistory")
	if m.HistoryErr != nil {
		return nil, m.HistoryErr
	}
	return m.Ratings, nil
}

func (m *MockSession) SetVideoRating(ctx context.Context, movieID int64, rating float64) error {
	m.record("SetVideoRating")
	m.mu.Lock()
	m.SetRatings = append(m.SetRatings, SetRatingCall{MovieID: movieID, Rating: rating, At: time.Now()})
	m.mu.Unlock()

	if err, ok := m.SetRatingErrs[movieID]; ok {
		return err
	}
	return m.SetRatingErr
}

// CallCount returns how many times name appears in Calls.
func (m *MockSession) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == name {
			n++
		}
	}
	return n
}

// MemFS is an in-memory [shared.FileSystem] that records every write.
type MemFS struct {
	mu       sync.Mutex
	Files    map[string][]byte
	Writes   []string
	ReadErr  error
	WriteErr error
}

func NewMemFS() *MemFS {
	return &MemFS{Files: map[string][]byte{}}
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Files[path]
	if !ok {
		return nil, fmt.Errorf("failed to read %s: %w", path, fs.ErrNotExist)
	}
	return data, nil
}

func (m *MemFS) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes = append(m.Writes, path)
	if m.WriteErr != nil {
		return m.WriteErr
	}
	if m.Files == nil {
		m.Files = map[string][]byte{}
	}
	m.Files[path] = append([]byte(nil), data...)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// CountingWriter counts Write calls and keeps what was written
type CountingWriter struct {
	Writes int
	target io.Writer
}

func NewCountingWriter(target io.Writer) *CountingWriter {
	return &CountingWriter{target: target}
}

func (c *CountingWriter) Write(p []byte) (n int, err error) {
	c.Writes++
	return c.target.Write(p)
}

// FReader simulates a failure when reading input
type FReader struct{}

func (f *FReader) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

// SampleRatings returns n thumb ratings with distinct movie ids.
func SampleRatings(n int) []models.Rating {
	ratings := make([]models.Rating, n)
	for i := range ratings {
		ratings[i] = models.Rating{
			RatingType:     models.RatingTypeThumb,
			Title:          fmt.Sprintf("Title %d", i+1),
			MovieID:        int64(80000000 + i),
			YourRating:     float64(i%2 + 1),
			Date:           "03/14/2021",
			Timestamp:      1615700000000 + int64(i),
			ComparableDate: 1615680000,
		}
	}
	return ratings
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
