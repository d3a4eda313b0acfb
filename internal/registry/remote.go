package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tentamen-io/tentamen/internal/exam"
	"github.com/tentamen-io/tentamen/internal/record"
)

// Client talks to the collaborative exam registry. Conflicts on the
// revision token come back as ConcurrencyError, anything network- or
// server-side as TransportError.
type Client struct {
	base string
	http *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		base: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Update(ctx context.Context, examID, externalRef string, s record.Snapshot, rev string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"snapshot": s,
		"rev":      rev,
	})
	if err != nil {
		return "", err
	}
	u := fmt.Sprintf("%s/reviews/%s/%s/record", c.base, examID, externalRef)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return "", &exam.TransportError{Op: "registry update", Err: err}
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusConflict:
		return "", &exam.ConcurrencyError{ExamID: examID, Rev: rev}
	case res.StatusCode/100 != 2:
		return "", &exam.TransportError{Op: "registry update", Err: fmt.Errorf("unexpected status %s", res.Status)}
	}

	var out struct {
		Rev string `json:"rev"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", &exam.TransportError{Op: "registry update", Err: err}
	}
	return out.Rev, nil
}
