package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

var ErrEmptyTranslation = errors.New("translation returned no text")

type GoogleTranslateClient struct {
	Client   *http.Client
	APIKey   string
	Endpoint string
}

type googleTranslateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage,omitempty"`
		} `json:"translations"`
	} `json:"data"`
}

type googleAPIError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewGoogleTranslateClient talks to the Cloud Translation v2 REST API. Call
// deadlines come from the caller's context.
func NewGoogleTranslateClient(apiKey, endpoint string) *GoogleTranslateClient {
	slog.Info("[GoogleTranslateClient] Initializing Client",
		slog.String("endpoint", endpoint))
	return &GoogleTranslateClient{
		Client:   &http.Client{},
		APIKey:   apiKey,
		Endpoint: endpoint,
	}
}

func (g *GoogleTranslateClient) Name() string {
	return GOOGLE_BACKEND
}

// Translate asks for an English rendering of text with the source language
// auto-detected.
func (g *GoogleTranslateClient) Translate(ctx context.Context, text string) (string, error) {
	params := url.Values{}
	params.Set("key", g.APIKey)
	params.Set("q", text)
	params.Set("target", ENGLISH)
	params.Set("format", "text")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.Endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr googleAPIError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("google translate error (status %d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("google translate error: status code %d", resp.StatusCode)
	}

	var out googleTranslateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		slog.Error("[GoogleTranslateClient] Failed to unmarshal response",
			slog.String("error", err.Error()),
			getPreview(body))
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(out.Data.Translations) == 0 {
		return "", ErrEmptyTranslation
	}
	translated := strings.TrimSpace(html.UnescapeString(out.Data.Translations[0].TranslatedText))
	if translated == "" {
		return "", ErrEmptyTranslation
	}

	return translated, nil
}

// HealthCheck lists the supported languages, which is not billed as
// translated characters.
func (g *GoogleTranslateClient) HealthCheck(ctx context.Context) error {
	params := url.Values{}
	params.Set("key", g.APIKey)
	endpoint := strings.TrimSuffix(g.Endpoint, "/") + LANGUAGES_PATH + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("languages request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("google translate health check: status code %d", resp.StatusCode)
	}
	return nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > PREVIEW_LENGTH {
		raw = raw[:PREVIEW_LENGTH]
	}
	return slog.String("raw_response", raw)
}
