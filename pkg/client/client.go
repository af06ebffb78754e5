// Package client talks to the podcast server's data API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tableflip.dev/pods/pkg/episode"
)

// ErrNoAPIKey is returned before any request when no key is configured.
var ErrNoAPIKey = errors.New("client: API key is missing")

// StatusError is a non-2xx response.
type StatusError struct {
	Op     string
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %s - %s", e.Op, e.Status, e.Body)
}

// Client is safe for concurrent use once configured.
type Client struct {
	Server     string
	APIKey     string
	UserID     int32
	HTTPClient *http.Client
	Logger     *log.Logger
}

// New returns a client for server.
func New(server, apiKey string, userID int32) *Client {
	return &Client{
		Server: strings.TrimRight(server, "/"),
		APIKey: apiKey,
		UserID: userID,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type queueRequest struct {
	EpisodeID episode.ID `json:"episode_id"`
	UserID    int32      `json:"user_id"`
	IsYouTube bool       `json:"is_youtube"`
}

type reorderRequest struct {
	EpisodeIDs []episode.ID `json:"episode_ids"`
}

// RecentEpisodes returns the home feed.
func (c *Client) RecentEpisodes(ctx context.Context) ([]episode.Episode, error) {
	var wrapper struct {
		Episodes []episode.Episode `json:"episodes"`
	}
	if err := c.getJSON(ctx, "fetch episodes", fmt.Sprintf("/api/data/return_episodes/%d", c.UserID), &wrapper); err != nil {
		return nil, err
	}
	return nonNil(wrapper.Episodes), nil
}

// QueuedEpisodes returns the queue in server order.
func (c *Client) QueuedEpisodes(ctx context.Context) ([]episode.Episode, error) {
	var wrapper struct {
		Data []episode.Episode `json:"data"`
	}
	path := "/api/data/get_queued_episodes?" + c.userQuery()
	if err := c.getJSON(ctx, "fetch queued episodes", path, &wrapper); err != nil {
		return nil, err
	}
	return nonNil(wrapper.Data), nil
}

// SavedEpisodes returns the saved list.
func (c *Client) SavedEpisodes(ctx context.Context) ([]episode.Episode, error) {
	var wrapper struct {
		SavedEpisodes []episode.Episode `json:"saved_episodes"`
	}
	if err := c.getJSON(ctx, "fetch saved episodes", fmt.Sprintf("/api/data/saved_episode_list/%d", c.UserID), &wrapper); err != nil {
		return nil, err
	}
	return nonNil(wrapper.SavedEpisodes), nil
}

// History returns the listening history.
func (c *Client) History(ctx context.Context) ([]episode.Episode, error) {
	var wrapper struct {
		Data []episode.Episode `json:"data"`
	}
	if err := c.getJSON(ctx, "fetch history", fmt.Sprintf("/api/data/user_history/%d", c.UserID), &wrapper); err != nil {
		return nil, err
	}
	return nonNil(wrapper.Data), nil
}

// ReorderQueue replaces the server's queue order with ids.
func (c *Client) ReorderQueue(ctx context.Context, ids []episode.ID) error {
	if ids == nil {
		ids = []episode.ID{}
	}
	path := "/api/data/reorder_queue?" + c.userQuery()
	resp, err := c.postJSON(ctx, path, reorderRequest{EpisodeIDs: ids})
	if err != nil {
		return fmt.Errorf("reorder queue: %w", err)
	}
	defer resp.Body.Close()
	if !ok(resp) {
		return c.parseError("failed to reorder queue", resp)
	}
	c.logf("reordered queue (%d episodes)", len(ids))
	return nil
}

// QueueEpisode adds an episode to the queue and returns the server's message.
func (c *Client) QueueEpisode(ctx context.Context, id episode.ID, youtube bool) (string, error) {
	return c.queueCall(ctx, "/api/data/queue_pod", "failed to queue", id, youtube)
}

// RemoveQueuedEpisode removes an episode from the queue.
func (c *Client) RemoveQueuedEpisode(ctx context.Context, id episode.ID, youtube bool) (string, error) {
	return c.queueCall(ctx, "/api/data/remove_queued_pod", "failed to remove queued", id, youtube)
}

func (c *Client) queueCall(ctx context.Context, path, op string, id episode.ID, youtube bool) (string, error) {
	kind := "episode"
	if youtube {
		kind = "video"
	}
	resp, err := c.postJSON(ctx, path, queueRequest{EpisodeID: id, UserID: c.UserID, IsYouTube: youtube})
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", op, kind, err)
	}
	defer resp.Body.Close()
	if !ok(resp) {
		return "", c.parseError(op+" "+kind, resp)
	}
	var result struct {
		Data string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return result.Data, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, into any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	if !ok(resp) {
		return c.parseError("failed to "+op, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("decode %s: %w", op, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, data)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	if c.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.Server, "/")+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Api-Key", c.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return hc.Do(req)
}

func (c *Client) userQuery() string {
	return url.Values{"user_id": {fmt.Sprint(c.UserID)}}.Encode()
}

func (c *Client) parseError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{
		Op:     op,
		Code:   resp.StatusCode,
		Status: resp.Status,
		Body:   strings.TrimSpace(string(body)),
	}
}

func (c *Client) logf(format string, args ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}

func ok(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func nonNil(list []episode.Episode) []episode.Episode {
	if list == nil {
		return []episode.Episode{}
	}
	return list
}
