// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	uuid "github.com/gofrs/uuid"

	commentModels "github.com/vidora/vidora/comments/models"
	"github.com/vidora/vidora/shared/interfaces"
)

const defaultRequestTimeout = 5 * time.Second

// DownstreamError carries the comment service's own response through the
// gateway so write failures surface to the caller with the original status.
type DownstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("comment service responded %d", e.StatusCode)
}

// HTTPCommentClient implements interfaces.CommentServiceClient over the
// comment service's HTTP API.
type HTTPCommentClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPCommentClient creates a client pointed at the comment service
func NewHTTPCommentClient(baseURL string, timeout time.Duration) *HTTPCommentClient {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &HTTPCommentClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

var _ interfaces.CommentServiceClient = (*HTTPCommentClient)(nil)

// CreateComment forwards a create request
func (c *HTTPCommentClient) CreateComment(ctx context.Context, req *commentModels.CreateCommentRequest) (*commentModels.Comment, error) {
	var comment commentModels.Comment
	err := c.do(ctx, http.MethodPost, c.baseURL+"/comments", req, &comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments returns all comments for a video, newest first
func (c *HTTPCommentClient) ListComments(ctx context.Context, videoID uuid.UUID) ([]commentModels.Comment, error) {
	comments := []commentModels.Comment{}
	url := fmt.Sprintf("%s/comments/%s", c.baseURL, videoID)
	if err := c.do(ctx, http.MethodGet, url, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CommentAction toggles a reaction on a comment
func (c *HTTPCommentClient) CommentAction(ctx context.Context, commentID uuid.UUID, req *commentModels.CommentActionRequest) (*commentModels.CommentActionResponse, error) {
	var result commentModels.CommentActionResponse
	url := fmt.Sprintf("%s/comments/%s/action", c.baseURL, commentID)
	if err := c.do(ctx, http.MethodPost, url, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPCommentClient) do(ctx context.Context, method, url string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("comment service request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &DownstreamError{StatusCode: resp.StatusCode, Body: data}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
