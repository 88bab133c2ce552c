package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	perr "codewarden/internal/platform/errors"
	"codewarden/internal/platform/logger"
)

// Client talks to an OCR sidecar over HTTP
// one attempt, bounded deadline, any failure reads as unavailable
type Client struct {
	http    http.Client
	host    string
	timeout time.Duration
	log     logger.Logger
}

// Config for the HTTP client
type Config struct {
	Host    string
	Timeout time.Duration
}

// NewClient builds a Client, a zero timeout defaults to 10s
func NewClient(cfg Config, log logger.Logger) *Client {
	t := cfg.Timeout
	if t <= 0 {
		t = 10 * time.Second
	}
	return &Client{
		http:    http.Client{Timeout: t},
		host:    cfg.Host,
		timeout: t,
		log:     log,
	}
}

type extractResp struct {
	Text string `json:"text"`
}

// ExtractText implements ExtractorPort
func (c *Client) ExtractText(ctx context.Context, img Image) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/v1/extract", bytes.NewReader(img.Bytes))
	if err != nil {
		return "", perr.OCRUnavailablef("build request: %v", err)
	}
	req.Header.Set("Content-Type", img.MimeType)
	req.Header.Set("Content-Length", fmt.Sprintf("%d", len(img.Bytes)))
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("url", img.URL).Msg("ocr request failed")
		return "", perr.OCRUnavailablef("ocr request failed: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", perr.OCRUnavailablef("ocr request failed statusCode=%d", res.StatusCode)
	}

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return "", perr.OCRUnavailablef("read ocr response: %v", err)
	}
	var out extractResp
	if err := json.Unmarshal(b, &out); err != nil {
		return "", perr.OCRUnavailablef("parse ocr response: %v", err)
	}

	c.log.Debug().
		Str("url", img.URL).
		Int("bytes", len(img.Bytes)).
		Dur("took", time.Since(start)).
		Msg("ocr extract done")
	return out.Text, nil
}

// Disabled is an ExtractorPort that always reports unavailable
// used when no sidecar host is configured
type Disabled struct{}

// ExtractText implements ExtractorPort
func (Disabled) ExtractText(context.Context, Image) (string, error) {
	return "", perr.OCRUnavailablef("ocr is not configured")
}
