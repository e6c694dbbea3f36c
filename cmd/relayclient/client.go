package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

type ClientConfig struct {
	BaseURL  string
	ClientID string
	Secret   string
	Timeout  time.Duration
}

// Client drives the relay's three routes for smoke testing a deployment.
type Client struct {
	config ClientConfig
	http   *http.Client
	log    *zap.Logger
}

type Result struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func NewClient(config ClientConfig, log *zap.Logger) *Client {
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		log:    log,
	}
}

func (c *Client) Transcribe(ctx context.Context, filename string, audio []byte) (*Result, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(audio); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return c.post(ctx, "/api/transcribe", w.FormDataContentType(), buf.Bytes())
}

func (c *Client) Speak(ctx context.Context, text, voice, format string) (*Result, error) {
	body, err := json.Marshal(map[string]string{
		"text":   text,
		"voice":  voice,
		"format": format,
	})
	if err != nil {
		return nil, err
	}
	return c.post(ctx, "/api/speak", "application/json", body)
}

func (c *Client) Webhook(ctx context.Context, payload []byte) (*Result, error) {
	if !json.Valid(payload) {
		return nil, fmt.Errorf("webhook payload is not valid JSON")
	}
	return c.post(ctx, "/api/webhook", "application/json", payload)
}

func (c *Client) post(ctx context.Context, path, contentType string, body []byte) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if c.config.ClientID != "" {
		req.Header.Set("X-Client-Id", c.config.ClientID)
	}
	if c.config.Secret != "" {
		req.Header.Set("X-Relay-Secret", c.config.Secret)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	c.log.Debug("Relay call finished",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Result{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}
