/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const maxResponseSize = 4 << 20

// Source is where boards get their raw category data.
type Source interface {
	RandomCategoryIDs(ctx context.Context, count int) ([]int, error)
	Category(ctx context.Context, id int) (*RawCategory, error)
}

// RawCategory is a category as the trivia API returns it.
type RawCategory struct {
	ID    int       `json:"id"`
	Title string    `json:"title"`
	Clues []RawClue `json:"clues"`
}

type RawClue struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type randomItem struct {
	CategoryID int `json:"category_id"`
}

// Client talks to a jService-compatible trivia API.
type Client struct {
	base *url.URL
	http *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: missing host", baseURL)
	}

	return &Client{
		base: u,
		http: &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = u.Path + path
	u.RawQuery = query.Encode()
	return u.String()
}

// RandomCategoryIDs asks for count random clues and returns their category ids.
func (c *Client) RandomCategoryIDs(ctx context.Context, count int) ([]int, error) {
	endpoint := c.endpoint("/api/random", url.Values{"count": {strconv.Itoa(count)}})

	var items []randomItem
	if err := c.get(ctx, endpoint, &items); err != nil {
		return nil, err
	}

	if len(items) < count {
		return nil, &NetworkError{
			Op:  "GET",
			URL: endpoint,
			Err: fmt.Errorf("got %d random clues, want %d", len(items), count),
		}
	}

	ids := make([]int, 0, count)
	for _, item := range items[:count] {
		if item.CategoryID <= 0 {
			return nil, &NetworkError{Op: "GET", URL: endpoint, Err: errors.New("random clue without category_id")}
		}
		ids = append(ids, item.CategoryID)
	}

	return ids, nil
}

// Category fetches the title and every clue of one category.
func (c *Client) Category(ctx context.Context, id int) (*RawCategory, error) {
	endpoint := c.endpoint("/api/category", url.Values{"id": {strconv.Itoa(id)}})

	var cat RawCategory
	if err := c.get(ctx, endpoint, &cat); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cat.Title) == "" {
		return nil, &NetworkError{Op: "GET", URL: endpoint, Err: errors.New("category without title")}
	}

	return &cat, nil
}

func (c *Client) get(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &NetworkError{Op: "GET", URL: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: "GET", URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return &NetworkError{Op: "GET", URL: endpoint, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(v); err != nil {
		return &NetworkError{Op: "GET", URL: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}
