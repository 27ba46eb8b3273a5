package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/meal-service/pkg/logger"
)

// stubTranslator answers from a fixed dictionary and fails on anything else
type stubTranslator struct {
	dict  map[string]string
	err   error
	calls atomic.Int32
}

func (s *stubTranslator) Translate(ctx context.Context, text, target string) (string, error) {
	s.calls.Add(1)
	if s.err != nil {
		return "", s.err
	}
	if out, ok := s.dict[text]; ok {
		return out, nil
	}
	return "", errors.New("no translation")
}

// blockingTranslator waits until the context is done
type blockingTranslator struct{}

func (blockingTranslator) Translate(ctx context.Context, text, target string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestService_Text(t *testing.T) {
	backend := &stubTranslator{dict: map[string]string{"Chicken": "Pollo"}}
	svc := NewService(backend, "stub", time.Second, logger.Discard())

	tests := []struct {
		name      string
		text      string
		want      string
		wantCalls int32
	}{
		{"translated", "Chicken", "Pollo", 1},
		{"backend error falls back to original", "Beef Wellington", "Beef Wellington", 1},
		{"empty text skips backend", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend.calls.Store(0)
			got := svc.Text(context.Background(), tt.text, "es")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCalls, backend.calls.Load())
		})
	}
}

func TestService_TextTimeoutFallsBack(t *testing.T) {
	svc := NewService(blockingTranslator{}, "slow", 20*time.Millisecond, logger.Discard())

	start := time.Now()
	got := svc.Text(context.Background(), "Seafood", "es")

	assert.Equal(t, "Seafood", got)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    any
		wantErr bool
	}{
		{"google by default", Options{}, &GoogleTranslator{}, false},
		{"google", Options{Provider: "google"}, &GoogleTranslator{}, false},
		{"libretranslate", Options{Provider: "libretranslate", BaseURL: "http://localhost:5000"}, &LibreTranslator{}, false},
		{"libretranslate without url", Options{Provider: "libretranslate"}, nil, true},
		{"none", Options{Provider: "none"}, Identity{}, false},
		{"unknown", Options{Provider: "babelfish"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.opts, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}
}

func TestNew_HTTPClientTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{"from options", 2 * time.Second, 2 * time.Second},
		{"default", 0, defaultHTTPTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := New(Options{Provider: ProviderGoogle, Timeout: tt.timeout}, nil)
			require.NoError(t, err)

			g, ok := backend.(*GoogleTranslator)
			require.True(t, ok)
			assert.Equal(t, tt.want, g.httpClient.Timeout)
		})
	}

	t.Run("caller client wins", func(t *testing.T) {
		client := &http.Client{Timeout: time.Second}
		backend, err := New(Options{Provider: ProviderLibreTranslate, BaseURL: "http://localhost:5000", Timeout: time.Minute}, client)
		require.NoError(t, err)
		assert.Same(t, client, backend.(*LibreTranslator).httpClient)
	})
}

func TestGoogleTranslator_Translate(t *testing.T) {
	t.Run("joins segments", func(t *testing.T) {
		var gotTarget, gotText, gotClient string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, r.ParseForm())
			gotTarget = r.URL.Query().Get("tl")
			gotClient = r.URL.Query().Get("client")
			gotText = r.PostForm.Get("q")
			_, _ = w.Write([]byte(`[[["Precaliente el horno. ","Preheat the oven. ",null,null,10],["Hornee 30 minutos.","Bake 30 minutes.",null,null,10]],null,"en"]`))
		}))
		defer srv.Close()

		g := NewGoogleTranslator(srv.URL, srv.Client())
		got, err := g.Translate(context.Background(), "Preheat the oven. Bake 30 minutes.", "es")

		require.NoError(t, err)
		assert.Equal(t, "Precaliente el horno. Hornee 30 minutos.", got)
		assert.Equal(t, "es", gotTarget)
		assert.Equal(t, "gtx", gotClient)
		assert.Equal(t, "Preheat the oven. Bake 30 minutes.", gotText)
	})

	t.Run("rate limited", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := NewGoogleTranslator(srv.URL, srv.Client()).Translate(context.Background(), "Soup", "es")
		assert.ErrorContains(t, err, "429")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"unexpected":true}`))
		}))
		defer srv.Close()

		_, err := NewGoogleTranslator(srv.URL, srv.Client()).Translate(context.Background(), "Soup", "es")
		assert.Error(t, err)
	})
}

func TestLibreTranslator_Translate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var got libreRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/translate", r.URL.Path)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte(`{"translatedText":"pollo"}`))
		}))
		defer srv.Close()

		l := NewLibreTranslator(srv.URL+"/", "secret", srv.Client())
		out, err := l.Translate(context.Background(), "chicken", "es")

		require.NoError(t, err)
		assert.Equal(t, "pollo", out)
		assert.Equal(t, libreRequest{Q: "chicken", Source: "auto", Target: "es", Format: "text", APIKey: "secret"}, got)
	})

	t.Run("error payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"es is not supported"}`))
		}))
		defer srv.Close()

		_, err := NewLibreTranslator(srv.URL, "", srv.Client()).Translate(context.Background(), "chicken", "es")
		assert.ErrorContains(t, err, "es is not supported")
	})
}

func TestService_WithFailingHTTPBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc := NewService(NewGoogleTranslator(srv.URL, srv.Client()), ProviderGoogle, time.Second, logger.Discard())
	assert.Equal(t, "Teriyaki Chicken Casserole", svc.Text(context.Background(), "Teriyaki Chicken Casserole", "es"))
}
