// Package googlebooks is a thin client for the Google Books volumes API,
// used to look up externally sourced titles for virtual reads.
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Volume is the subset of volume metadata the library cares about.
type Volume struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Category string `json:"category,omitempty"`
	CoverURL string `json:"coverUrl,omitempty"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://www.googleapis.com/books/v1",
		apiKey:     apiKey,
	}
}

type volumeInfo struct {
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Categories []string `json:"categories"`
	ImageLinks struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"imageLinks"`
}

type volumeItem struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type searchResponse struct {
	Items []volumeItem `json:"items"`
}

// Search queries volumes by free text and returns at most max results.
func (c *Client) Search(ctx context.Context, query string, max int) ([]Volume, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if max <= 0 || max > 40 {
		max = 20
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", fmt.Sprintf("%d", max))
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	var res searchResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/volumes?%s", c.baseURL, params.Encode()), &res); err != nil {
		return nil, err
	}

	vols := make([]Volume, 0, len(res.Items))
	for _, it := range res.Items {
		vols = append(vols, toVolume(it))
	}
	return vols, nil
}

// GetVolume fetches a single volume by id.
func (c *Client) GetVolume(ctx context.Context, id string) (*Volume, error) {
	if id == "" {
		return nil, fmt.Errorf("volume id is required")
	}
	u := fmt.Sprintf("%s/volumes/%s", c.baseURL, url.PathEscape(id))
	if c.apiKey != "" {
		u += "?key=" + url.QueryEscape(c.apiKey)
	}

	var it volumeItem
	if err := c.getJSON(ctx, u, &it); err != nil {
		return nil, err
	}
	v := toVolume(it)
	return &v, nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch volumes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("volume not found")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func toVolume(it volumeItem) Volume {
	v := Volume{ID: it.ID, Title: it.VolumeInfo.Title}
	if len(it.VolumeInfo.Authors) > 0 {
		v.Author = strings.Join(it.VolumeInfo.Authors, ", ")
	}
	if len(it.VolumeInfo.Categories) > 0 {
		v.Category = it.VolumeInfo.Categories[0]
	}
	// Google serves thumbnails over http by default
	v.CoverURL = strings.Replace(it.VolumeInfo.ImageLinks.Thumbnail, "http://", "https://", 1)
	return v
}
