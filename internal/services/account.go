// Account API [Session] implementation
//
// Talks JSON over HTTP to the account API. Login uses the OAuth2 resource owner password grant and
// every later call goes through the token-refreshing client it produces.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/flixport/internal/models"
	"github.com/desertthunder/flixport/internal/shared"
	"golang.org/x/oauth2"
)

const (
	defaultBaseURL  string = "http://localhost:8080"
	defaultPageSize int    = 100
)

// AccountOpts configures an [AccountService].
type AccountOpts struct {
	BaseURL      string
	TokenURL     string // defaults to BaseURL + "/oauth/token"
	ClientID     string
	ClientSecret string
	PageSize     int
	HTTPClient   *http.Client
}

// AccountService implements [Session] against the account HTTP API.
type AccountService struct {
	baseURL    string
	pageSize   int
	config     *oauth2.Config
	httpClient *http.Client // unauthenticated, used for the token exchange
	client     *http.Client // set by Login
}

type profilesResponse struct {
	Profiles []models.Profile `json:"profiles"`
}

type ratingHistoryPage struct {
	RatingItems  []models.Rating `json:"ratingItems"`
	TotalRatings int             `json:"totalRatings"`
}

type setRatingRequest struct {
	TitleID int64   `json:"titleid"`
	Rating  float64 `json:"rating"`
}

// NewAccountService creates a new account API client. Call [AccountService.Login] before anything else.
func NewAccountService(opts AccountOpts) *AccountService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.TokenURL == "" {
		opts.TokenURL = opts.BaseURL + "/oauth/token"
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &AccountService{
		baseURL:    opts.BaseURL,
		pageSize:   opts.PageSize,
		httpClient: opts.HTTPClient,
		config: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  opts.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}
}

// Login exchanges the account email and password for a token.
func (a *AccountService) Login(ctx context.Context, creds models.Credentials) error {
	if !creds.Valid() {
		return fmt.Errorf("%w: email and password are required", shared.ErrMissingCredentials)
	}

	// the client outlives this call and refreshes tokens on its own
	base := context.WithValue(context.WithoutCancel(ctx), oauth2.HTTPClient, a.httpClient)

	token, err := a.config.PasswordCredentialsToken(base, creds.Email, creds.Password)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.Response != nil {
			return fmt.Errorf("%w: status %d", shared.ErrAuthFailed, rerr.Response.StatusCode)
		}
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	a.client = a.config.Client(base, token)
	return nil
}

// Authenticated reports whether Login has succeeded.
func (a *AccountService) Authenticated() bool {
	return a.client != nil
}

// ListProfiles calls GET /api/profiles.
func (a *AccountService) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	var resp profilesResponse
	if err := a.doRequest(ctx, http.MethodGet, "/api/profiles", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Profiles, nil
}

// SwitchProfile calls POST /api/profiles/{guid}/switch.
func (a *AccountService) SwitchProfile(ctx context.Context, guid string) error {
	endpoint := fmt.Sprintf("/api/profiles/%s/switch", url.PathEscape(guid))
	return a.doRequest(ctx, http.MethodPost, endpoint, nil, nil)
}

// GetRatingHistory pages through GET /api/ratings until totalRatings items have been collected or a page comes back empty.
func (a *AccountService) GetRatingHistory(ctx context.Context) ([]models.Rating, error) {
	var ratings []models.Rating

	for page := 0; ; page++ {
		q := url.Values{}
		q.Set("pg", fmt.Sprint(page))
		q.Set("pgsize", fmt.Sprint(a.pageSize))

		var resp ratingHistoryPage
		if err := a.doRequest(ctx, http.MethodGet, "/api/ratings?"+q.Encode(), nil, &resp); err != nil {
			return nil, fmt.Errorf("failed to fetch rating page %d: %w", page, err)
		}

		ratings = append(ratings, resp.RatingItems...)
		if len(resp.RatingItems) == 0 || len(ratings) >= resp.TotalRatings {
			break
		}
	}

	if ratings == nil {
		ratings = []models.Rating{}
	}
	return ratings, nil
}

// SetVideoRating calls POST /api/ratings with the title id and rating passed through unchanged.
func (a *AccountService) SetVideoRating(ctx context.Context, movieID int64, rating float64) error {
	return a.doRequest(ctx, http.MethodPost, "/api/ratings", setRatingRequest{TitleID: movieID, Rating: rating}, nil)
}

func (a *AccountService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if a.client == nil {
		return fmt.Errorf("%w: call Login first", shared.ErrNotAuthenticated)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// statusError maps a non-2xx response to a sentinel, keeping the API's detail message when it sends one.
func statusError(resp *http.Response) error {
	sentinel := shared.ErrAPIRequest
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		sentinel = shared.ErrAuthFailed
	}

	var errResp struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
		return fmt.Errorf("%w: status %d: %s", sentinel, resp.StatusCode, errResp.Detail)
	}
	return fmt.Errorf("%w: status %d", sentinel, resp.StatusCode)
}
