// Package translate wraps machine translation backends behind a fallback-on-error adapter.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Lixing-Zhang/meal-service/internal/metrics"
)

// Provider IDs
const (
	ProviderGoogle         = "google"
	ProviderLibreTranslate = "libretranslate"
	ProviderNone           = "none"
)

// Translator is a machine translation backend.
// target is a BCP 47 language code such as "es" or "en".
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// Options configures a backend built by New
type Options struct {
	Provider string
	BaseURL  string
	APIKey   string
	// Timeout applies to the HTTP client New creates when none is passed in
	Timeout  time.Duration
}

const defaultHTTPTimeout = 30 * time.Second

// New builds the backend for opts.Provider.
// A nil httpClient is replaced by one with opts.Timeout, or 30 seconds when that is zero.
func New(opts Options, httpClient *http.Client) (Translator, error) {
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	switch strings.ToLower(opts.Provider) {
	case ProviderGoogle, "":
		return NewGoogleTranslator(opts.BaseURL, httpClient), nil
	case ProviderLibreTranslate:
		if opts.BaseURL == "" {
			return nil, fmt.Errorf("provider %s requires TRANSLATOR_BASE_URL", ProviderLibreTranslate)
		}
		return NewLibreTranslator(opts.BaseURL, opts.APIKey, httpClient), nil
	case ProviderNone:
		return Identity{}, nil
	default:
		return nil, fmt.Errorf("unknown translator provider: %s", opts.Provider)
	}
}

// Identity returns every text unchanged
type Identity struct{}

// Translate returns text as is
func (Identity) Translate(_ context.Context, text, _ string) (string, error) {
	return text, nil
}

// Service is the adapter the rest of the service talks to.
// It never returns an error: when the backend fails, the original text comes back.
type Service struct {
	backend  Translator
	provider string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewService wraps backend. A zero timeout leaves calls bounded only by the caller's context.
func NewService(backend Translator, provider string, timeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		backend:  backend,
		provider: provider,
		timeout:  timeout,
		logger:   logger,
	}
}

// Text translates text into target.
// Empty input returns "" without calling the backend.
func (s *Service) Text(ctx context.Context, text, target string) string {
	if text == "" {
		metrics.RecordTranslation(s.provider, metrics.TranslationSkipped)
		return ""
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	translated, err := s.backend.Translate(ctx, text, target)
	if err != nil {
		s.logger.Warn("translation failed, keeping original text",
			"provider", s.provider,
			"target", target,
			"text_length", len(text),
			"error", err,
		)
		metrics.RecordTranslation(s.provider, metrics.TranslationFallback)
		return text
	}

	metrics.RecordTranslation(s.provider, metrics.TranslationOK)
	return translated
}
