// Package credits implements the pre-flight consumption check that can veto
// a session start on gated books.
package credits

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrDenied = errors.New("credit consumption denied")

// Gate calls the remote consumption endpoint before a gated session starts.
// Unlike every other remote collaborator this one is allowed to stop the
// quiz: any non-OK outcome aborts loading questions.
type Gate struct {
	endpoint   string
	httpClient *http.Client
}

func NewGate(endpoint string, timeout time.Duration) *Gate {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Gate{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type consumeRequest struct {
	UserID string `json:"user_id"`
	Book   string `json:"book"`
}

type consumeResponse struct {
	OK bool `json:"ok"`
}

// Consume asks the endpoint to spend one credit for the user and book.
// With no endpoint configured the gate is open.
func (g *Gate) Consume(ctx context.Context, userID, book string) error {
	if g.endpoint == "" {
		return nil
	}
	if userID == "" {
		return fmt.Errorf("%w: gated book requires a signed-in user", ErrDenied)
	}

	payload, err := json.Marshal(consumeRequest{UserID: userID, Book: book})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("consume credit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrDenied, resp.StatusCode)
	}

	var body consumeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !body.OK {
		return ErrDenied
	}
	return nil
}
