// Package bibleapi is a client for bible-api.com-compatible verse lookup
// services: GET /<reference> returning a JSON body with the passage text.
package bibleapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrEmptyReference = errors.New("empty scripture reference")
	ErrNoText         = errors.New("no passage text in response")
)

// Client fetches passage text over HTTP. Requests carry a bounded timeout;
// a slow upstream degrades to a skipped enrichment, never a hung session.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// PrimaryClause reduces a reference to the portion before the first comma or
// semicolon, keeping the lookup to a single passage ("John 3:16, 18" and
// "John 3:16; 4:1" both become "John 3:16").
func PrimaryClause(reference string) string {
	if i := strings.IndexAny(reference, ",;"); i >= 0 {
		reference = reference[:i]
	}
	return strings.TrimSpace(reference)
}

type passageResponse struct {
	Text string `json:"text"`
}

// PassageText looks up the quoted text for a scripture reference.
func (c *Client) PassageText(ctx context.Context, reference string) (string, error) {
	clause := PrimaryClause(reference)
	if clause == "" {
		return "", ErrEmptyReference
	}

	endpoint := c.baseURL + "/" + url.PathEscape(clause)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch passage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch passage: unexpected status %d", resp.StatusCode)
	}

	var body passageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode passage: %w", err)
	}

	text := strings.TrimSpace(body.Text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}
