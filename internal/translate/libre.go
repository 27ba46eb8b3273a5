package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

const maxResponseBytes = 1 << 20

// LibreTranslator talks to a LibreTranslate server (POST /translate).
type LibreTranslator struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewLibreTranslator creates a client for the server at baseURL. apiKey may be empty.
func NewLibreTranslator(baseURL, apiKey string, httpClient *http.Client) *LibreTranslator {
	return &LibreTranslator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

// Translate sends text with source "auto" and returns translatedText.
// Error payloads ({"error": ...}) are surfaced in the returned error.
func (l *LibreTranslator) Translate(ctx context.Context, text, target string) (string, error) {
	payload, err := json.Marshal(libreRequest{
		Q:      text,
		Source: "auto",
		Target: target,
		Format: "text",
		APIKey: l.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("libretranslate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("reading libretranslate response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if msg := gjson.GetBytes(body, "error").String(); msg != "" {
			return "", fmt.Errorf("libretranslate returned status %d: %s", resp.StatusCode, msg)
		}
		return "", fmt.Errorf("libretranslate returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	translated := gjson.GetBytes(body, "translatedText")
	if !translated.Exists() || translated.String() == "" {
		return "", fmt.Errorf("libretranslate response has no translatedText")
	}
	return translated.String(), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
