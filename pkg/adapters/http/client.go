package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/aretw0/inkmap/pkg/ports"
)

// Client is a ports.CoordinateStore backed by a remote coordinate API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

var _ ports.CoordinateStore = (*Client)(nil)

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    http.DefaultClient,
	}
}

func (c *Client) Save(ctx context.Context, wordID domain.WordID, coords domain.Coordinates) error {
	if err := wordID.Validate(); err != nil {
		return err
	}
	return c.post(ctx, "/add_coordinates/", SaveRequest{WordID: wordID, Coordinates: coords}, nil)
}

func (c *Client) Load(ctx context.Context, wordID domain.WordID) (domain.Coordinates, error) {
	if err := wordID.Validate(); err != nil {
		return nil, err
	}
	var resp CoordinatesResponse
	path := "/coordinates/" + url.PathEscape(string(wordID)) + "/"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Coordinates == nil {
		return nil, domain.ErrWordNotFound
	}
	return resp.Coordinates, nil
}

func (c *Client) Delete(ctx context.Context, wordID domain.WordID) error {
	if err := wordID.Validate(); err != nil {
		return err
	}
	return c.post(ctx, "/delete_coordinate/", DeleteRequest{WordID: wordID}, nil)
}

func (c *Client) List(ctx context.Context) ([]domain.WordID, error) {
	var resp WordsResponse
	if err := c.do(ctx, http.MethodGet, "/words/", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Words, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(data), out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		text := strings.TrimSpace(string(msg))
		if resp.StatusCode == http.StatusBadRequest && strings.Contains(text, domain.ErrInvalidWordID.Error()) {
			return fmt.Errorf("%w: %s", domain.ErrInvalidWordID, text)
		}
		return fmt.Errorf("request %s %s: %s: %s", method, path, resp.Status, text)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
