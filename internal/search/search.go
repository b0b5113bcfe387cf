// Package search finds reference photos for a design on Unsplash.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"jewelry-studio-backend/internal/models"
)

const (
	DefaultAPIURL  = "https://api.unsplash.com"
	DefaultPerPage = 9
	MaxPerPage     = 30
)

var jewelryTerms = []string{"jewelry", "pendant", "ring", "necklace", "bracelet", "earring", "chain", "gold"}

type Options struct {
	APIURL     string
	AccessKey  string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type Service struct {
	apiURL     string
	accessKey  string
	httpClient *http.Client
	log        *zap.Logger
}

func NewService(opts Options) *Service {
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{
		apiURL:     strings.TrimRight(opts.APIURL, "/"),
		accessKey:  opts.AccessKey,
		httpClient: opts.HTTPClient,
		log:        opts.Logger.Named("search"),
	}
}

// BuildQuery steers a customer query toward clean product shots. Queries
// without a jewelry term are framed as gold jewelry.
func BuildQuery(userQuery string) string {
	base := strings.ToLower(strings.TrimSpace(userQuery))
	for _, term := range jewelryTerms {
		if strings.Contains(base, term) {
			return base + " product photography white background"
		}
	}
	return "gold " + base + " jewelry product photography white background"
}

type apiResponse struct {
	Results []struct {
		Width          int    `json:"width"`
		Height         int    `json:"height"`
		Description    string `json:"description"`
		AltDescription string `json:"alt_description"`
		URLs           struct {
			Regular string `json:"regular"`
			Small   string `json:"small"`
		} `json:"urls"`
		Links struct {
			HTML string `json:"html"`
		} `json:"links"`
		User struct {
			Name  string `json:"name"`
			Links struct {
				HTML string `json:"html"`
			} `json:"links"`
		} `json:"user"`
	} `json:"results"`
}

// Search returns up to perPage square-ish reference photos for the query.
func (s *Service) Search(ctx context.Context, query string, perPage int) ([]models.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("q", "Search query is required")
	}
	if s.accessKey == "" {
		return nil, models.ErrSearchUnavailable
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	endpoint, err := url.Parse(s.apiURL + "/search/photos")
	if err != nil {
		return nil, fmt.Errorf("invalid search url: %w", err)
	}
	q := endpoint.Query()
	q.Set("query", BuildQuery(query))
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("orientation", "squarish")
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+s.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call unsplash api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		s.log.Warn("unsplash search failed", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("unsplash api error: status %d", resp.StatusCode)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]models.SearchResult, 0, len(parsed.Results))
	for _, photo := range parsed.Results {
		title := photo.AltDescription
		if title == "" {
			title = photo.Description
		}
		if title == "" {
			title = "Jewelry"
		}
		photographer := photo.User.Name
		if photographer == "" {
			photographer = "Unknown"
		}
		results = append(results, models.SearchResult{
			ImageURL:        photo.URLs.Regular,
			Thumbnail:       photo.URLs.Small,
			Title:           title,
			Width:           photo.Width,
			Height:          photo.Height,
			Photographer:    photographer,
			PhotographerURL: photo.User.Links.HTML,
			SourceURL:       photo.Links.HTML,
		})
	}
	return results, nil
}
