package translate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

const defaultGoogleBaseURL = "https://translate.googleapis.com"

// GoogleTranslator calls the public Google Translate web endpoint (client=gtx).
// No API key is needed; quota errors surface as non-200 responses.
type GoogleTranslator struct {
	baseURL    string
	httpClient *http.Client
}

// NewGoogleTranslator creates a client for baseURL, or the public endpoint when it is empty.
func NewGoogleTranslator(baseURL string, httpClient *http.Client) *GoogleTranslator {
	if baseURL == "" {
		baseURL = defaultGoogleBaseURL
	}
	return &GoogleTranslator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Translate detects the source language and translates text into target.
// The text goes in a form body so long instructions do not hit URL length limits.
func (g *GoogleTranslator) Translate(ctx context.Context, text, target string) (string, error) {
	params := url.Values{
		"client": {"gtx"},
		"sl":     {"auto"},
		"tl":     {target},
		"dt":     {"t"},
	}
	endpoint := g.baseURL + "/translate_a/single?" + params.Encode()
	form := url.Values{"q": {text}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("google translate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("reading google translate response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google translate returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return parseGoogleResponse(body)
}

// parseGoogleResponse joins the translated segments of a gtx response:
// [[["Hola ","Hello ",...],["mundo","world",...]],null,"en",...]
func parseGoogleResponse(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("google translate response is not valid JSON")
	}

	segments := gjson.GetBytes(body, "0")
	if !segments.IsArray() {
		return "", fmt.Errorf("google translate response has no segments")
	}

	var sb strings.Builder
	for _, segment := range segments.Array() {
		sb.WriteString(segment.Get("0").String())
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("google translate returned an empty translation")
	}
	return sb.String(), nil
}
