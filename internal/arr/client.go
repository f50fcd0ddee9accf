package arr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is an API client for a single Radarr or Sonarr instance.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the instance at baseURL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// URL returns the instance base URL.
func (c *Client) URL() string {
	return c.baseURL
}

// QualityProfile is a quality profile as returned by /api/v3/qualityprofile.
type QualityProfile struct {
	ID                int64 `json:"id"`
	CutoffFormatScore int   `json:"cutoffFormatScore"`
}

// Movie is a Radarr movie with its current file, if any.
type Movie struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Monitored        bool       `json:"monitored"`
	HasFile          bool       `json:"hasFile"`
	QualityProfileID int64      `json:"qualityProfileId"`
	MovieFile        *MovieFile `json:"movieFile"`
}

// MovieFile carries the custom-format score of the acquired movie file.
type MovieFile struct {
	ID                int64 `json:"id"`
	CustomFormatScore int   `json:"customFormatScore"`
}

// Series is a Sonarr series with its file statistics.
type Series struct {
	ID               int64            `json:"id"`
	Title            string           `json:"title"`
	Monitored        bool             `json:"monitored"`
	QualityProfileID int64            `json:"qualityProfileId"`
	Statistics       SeriesStatistics `json:"statistics"`
}

// SeriesStatistics is the subset of series statistics the scan needs.
type SeriesStatistics struct {
	EpisodeFileCount int `json:"episodeFileCount"`
}

// Episode is a Sonarr episode.
type Episode struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	SeasonNumber  int    `json:"seasonNumber"`
	EpisodeNumber int    `json:"episodeNumber"`
	Monitored     bool   `json:"monitored"`
	EpisodeFileID int64  `json:"episodeFileId"`
}

// EpisodeFile carries the custom-format score of an acquired episode file.
type EpisodeFile struct {
	ID                int64 `json:"id"`
	EpisodeID         int64 `json:"episodeId"`
	CustomFormatScore int   `json:"customFormatScore"`
}

// Ping checks connectivity and credentials via the system status endpoint.
func (c *Client) Ping(ctx context.Context) error {
	var status struct {
		Version string `json:"version"`
	}
	return c.get(ctx, "system/status", nil, &status)
}

// QualityProfiles returns profile ID mapped to its cutoff format score.
func (c *Client) QualityProfiles(ctx context.Context) (map[int64]int, error) {
	var profiles []QualityProfile
	if err := c.get(ctx, "qualityprofile", nil, &profiles); err != nil {
		return nil, err
	}
	scores := make(map[int64]int, len(profiles))
	for _, p := range profiles {
		scores[p.ID] = p.CutoffFormatScore
	}
	return scores, nil
}

// Movies lists all movies known to a Radarr instance.
func (c *Client) Movies(ctx context.Context) ([]Movie, error) {
	var movies []Movie
	if err := c.get(ctx, "movie", nil, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// AllSeries lists all series known to a Sonarr instance.
func (c *Client) AllSeries(ctx context.Context) ([]Series, error) {
	var series []Series
	if err := c.get(ctx, "series", nil, &series); err != nil {
		return nil, err
	}
	return series, nil
}

// Episodes lists all episodes of one series.
func (c *Client) Episodes(ctx context.Context, seriesID int64) ([]Episode, error) {
	params := url.Values{"seriesId": {fmt.Sprint(seriesID)}}
	var episodes []Episode
	if err := c.get(ctx, "episode", params, &episodes); err != nil {
		return nil, err
	}
	return episodes, nil
}

// EpisodeFiles lists all episode files of one series.
func (c *Client) EpisodeFiles(ctx context.Context, seriesID int64) ([]EpisodeFile, error) {
	params := url.Values{"seriesId": {fmt.Sprint(seriesID)}}
	var files []EpisodeFile
	if err := c.get(ctx, "episodefile", params, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// TriggerSearch posts a command that enqueues a search for the given item
// IDs, e.g. ("MoviesSearch", "movieIds", ids) on Radarr or
// ("EpisodeSearch", "episodeIds", ids) on Sonarr.
func (c *Client) TriggerSearch(ctx context.Context, command, idsKey string, ids []int64) error {
	payload := map[string]any{
		"name": command,
		idsKey: ids,
	}
	return c.post(ctx, "command", payload)
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, result any) error {
	u := c.baseURL + "/api/v3/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrUnavailable, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := classifyStatus(resp.StatusCode, endpoint, http.StatusOK); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrProtocol, endpoint, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, endpoint string, body any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v3/"+endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: POST %s: %v", ErrUnavailable, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	return classifyStatus(resp.StatusCode, endpoint, http.StatusOK, http.StatusCreated)
}

func classifyStatus(status int, endpoint string, accepted ...int) error {
	for _, code := range accepted {
		if status == code {
			return nil
		}
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s returned %d", ErrAuth, endpoint, status)
	case status >= 500:
		return fmt.Errorf("%w: %s returned %d", ErrUnavailable, endpoint, status)
	default:
		return fmt.Errorf("%w: %s returned %d", ErrProtocol, endpoint, status)
	}
}
