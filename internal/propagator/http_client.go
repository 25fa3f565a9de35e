// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package propagator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	uuid "github.com/gofrs/uuid"

	"github.com/vidora/vidora/shared/interfaces"
)

const defaultRequestTimeout = 5 * time.Second

// HTTPStatsUpdater implements interfaces.VideoStatsUpdater against the
// primary service's internal stats endpoint. One comment stored means one
// POST with {"action": "increment"}; the caller decides whether to wait.
type HTTPStatsUpdater struct {
	baseURL string
	client  *http.Client
}

// NewHTTPStatsUpdater creates an updater pointed at the primary service
func NewHTTPStatsUpdater(baseURL string, timeout time.Duration) *HTTPStatsUpdater {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &HTTPStatsUpdater{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

var _ interfaces.VideoStatsUpdater = (*HTTPStatsUpdater)(nil)

// IncrementCommentCount bumps the video's denormalized comment counter on
// the primary service.
func (u *HTTPStatsUpdater) IncrementCommentCount(ctx context.Context, videoID uuid.UUID) error {
	body, err := json.Marshal(map[string]string{"action": "increment"})
	if err != nil {
		return fmt.Errorf("failed to marshal stats payload: %w", err)
	}

	url := fmt.Sprintf("%s/api/videos/%s/stats/comments", u.baseURL, videoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build stats request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("stats request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("stats request rejected: %s", resp.Status)
	}

	return nil
}
