package piston

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type ExecuteRequest struct {
	Language       string   `json:"language"`
	Version        string   `json:"version"`
	Files          []File   `json:"files"`
	Stdin          string   `json:"stdin"`
	Args           []string `json:"args"`
	CompileTimeout int      `json:"compile_timeout"`
	RunTimeout     int      `json:"run_timeout"`
}

type ProcessResult struct {
	Stdout string  `json:"stdout"`
	Stderr string  `json:"stderr"`
	Output string  `json:"output"`
	Code   *int    `json:"code"`
	Signal *string `json:"signal"`
}

type ExecuteResponse struct {
	Run     ProcessResult  `json:"run"`
	Compile *ProcessResult `json:"compile,omitempty"`
}

// StatusError carries a non-success status from the sandbox along with its
// body verbatim, so the HTTP layer can mirror both.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sandbox returned status %d: %s", e.StatusCode, e.Detail)
}

// Client talks to a Piston-compatible execution sandbox.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) Execute(ctx context.Context, execReq ExecuteRequest) (*ExecuteResponse, error) {
	payload, err := json.Marshal(execReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	c.logger.Debug("sandbox execute request",
		zap.String("language", execReq.Language),
		zap.String("version", execReq.Version),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("sandbox error", zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return nil, &StatusError{StatusCode: resp.StatusCode, Detail: string(body)}
	}

	var result ExecuteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	return &result, nil
}
