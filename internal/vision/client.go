// Package vision is the boundary to the external text-recognition
// service. The core treats its confidence as an opaque prior and never
// interprets the service's internal scoring.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ktanaka/notices-tracker/internal/common"
)

// RecognitionResult is the raw text + score the service produced for
// one image.
type RecognitionResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// TextRecognizer is the upstream OCR boundary.
type TextRecognizer interface {
	Recognize(ctx context.Context, imagePath string) (RecognitionResult, error)
}

// BatchItem pairs one image path with its recognition outcome. Batch
// submission isolates failures per image.
type BatchItem struct {
	Path   string
	Result RecognitionResult
	Err    error
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration // per-call ceiling; default 30s
}

type Client struct {
	cfg    Config
	httpc  *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		httpc:  &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type recognizeRequest struct {
	Image string `json:"image"` // base64-encoded bytes
}

// Recognize submits one image and returns the recognized text with the
// service's confidence score.
func (c *Client) Recognize(ctx context.Context, imagePath string) (RecognitionResult, error) {
	raw, err := os.ReadFile(imagePath)
	if err != nil {
		return RecognitionResult{}, common.NewProcessingError("read image", err.Error())
	}

	reqID := uuid.New().String()
	start := time.Now()

	body, err := json.Marshal(recognizeRequest{Image: base64.StdEncoding.EncodeToString(raw)})
	if err != nil {
		return RecognitionResult{}, fmt.Errorf("encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/recognize", bytes.NewReader(body))
	if err != nil {
		return RecognitionResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	c.logger.Info("vision.http.request", "req_id", reqID, "image", imagePath, "bytes", len(raw))

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Error("vision.http.send_error", "req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return RecognitionResult{}, common.NewProcessingError("vision request failed", err.Error())
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("vision.http.body_close_error", "req_id", reqID, "error", err)
		}
	}()

	payload, _ := io.ReadAll(resp.Body)

	c.logger.Info("vision.http.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(payload),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return RecognitionResult{}, common.NewProcessingError("vision request failed",
			fmt.Sprintf("non-2xx status: %d", resp.StatusCode))
	}

	var result RecognitionResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return RecognitionResult{}, common.NewProcessingError("decode vision response", err.Error())
	}
	return result, nil
}

// RecognizeBatch submits each image independently and collects per-item
// outcomes in input order.
func (c *Client) RecognizeBatch(ctx context.Context, imagePaths []string) []BatchItem {
	items := make([]BatchItem, len(imagePaths))
	for i, path := range imagePaths {
		res, err := c.Recognize(ctx, path)
		items[i] = BatchItem{Path: path, Result: res, Err: err}
	}
	return items
}
