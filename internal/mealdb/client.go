// Package mealdb is a client for TheMealDB JSON API.
package mealdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Lixing-Zhang/meal-service/internal/metrics"
	"github.com/Lixing-Zhang/meal-service/internal/models"
)

const (
	endpointRandom = "random.php"
	endpointSearch = "search.php"
	endpointLookup = "lookup.php"

	maxBodyBytes = 4 << 20
)

// ErrUpstream marks transport failures: network errors, non-2xx responses and unparsable bodies.
var ErrUpstream = errors.New("mealdb upstream failure")

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d - %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Unwrap() error {
	return ErrUpstream
}

// Client fetches raw meal records from TheMealDB
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the API rooted at baseURL.
// A nil httpClient is replaced by one with a 10 second timeout.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		baseURL:    u,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Random returns the records of the random.php endpoint (one meal when the upstream is healthy).
func (c *Client) Random(ctx context.Context) ([]models.RawMeal, error) {
	return c.fetch(ctx, endpointRandom, nil)
}

// SearchByName returns meals whose name matches query.
// A nil slice with a nil error means no match.
func (c *Client) SearchByName(ctx context.Context, query string) ([]models.RawMeal, error) {
	return c.fetch(ctx, endpointSearch, url.Values{"s": {query}})
}

// LookupByID returns the meal with the given id, if any.
func (c *Client) LookupByID(ctx context.Context, id string) ([]models.RawMeal, error) {
	return c.fetch(ctx, endpointLookup, url.Values{"i": {id}})
}

// fetch is the single boundary where transport failures are logged
func (c *Client) fetch(ctx context.Context, endpoint string, query url.Values) ([]models.RawMeal, error) {
	start := time.Now()

	meals, err := c.get(ctx, endpoint, query)

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
		c.logger.Error("failed to fetch data from mealdb",
			"endpoint", endpoint,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
	case len(meals) == 0:
		outcome = "empty"
	}
	metrics.RecordUpstreamRequest(endpoint, outcome, time.Since(start))

	return meals, err
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values) ([]models.RawMeal, error) {
	u := c.baseURL.ResolveReference(&url.URL{Path: endpoint})
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %v", ErrUpstream, err)
	}

	return ParseMeals(body)
}

// ParseMeals decodes a TheMealDB response body.
// An empty body, a null "meals" field or a missing one all mean no records.
func ParseMeals(body []byte) ([]models.RawMeal, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: response body is not valid JSON", ErrUpstream)
	}

	list := gjson.GetBytes(body, "meals")
	if !list.IsArray() {
		return nil, nil
	}

	records := list.Array()
	meals := make([]models.RawMeal, 0, len(records))
	for _, record := range records {
		if !record.IsObject() {
			continue
		}
		meals = append(meals, decodeMeal(record))
	}
	if len(meals) == 0 {
		return nil, nil
	}
	return meals, nil
}

func decodeMeal(record gjson.Result) models.RawMeal {
	var m models.RawMeal
	record.ForEach(func(key, value gjson.Result) bool {
		v := value.String()
		switch k := key.String(); k {
		case "idMeal":
			m.ID = v
		case "strMeal":
			m.Name = v
		case "strCategory":
			m.Category = v
		case "strArea":
			m.Area = v
		case "strInstructions":
			m.Instructions = v
		case "strMealThumb":
			m.Thumbnail = v
		case "strYoutube":
			m.Youtube = v
		case "strSource":
			m.Source = v
		case "strTags":
			m.Tags = v
		default:
			if i, ok := slotIndex(k, "strIngredient"); ok {
				m.Ingredients[i] = v
			} else if i, ok := slotIndex(k, "strMeasure"); ok {
				m.Measures[i] = v
			}
		}
		return true
	})
	return m
}

// slotIndex maps "strIngredient7" to 6. Keys outside 1..20 are ignored.
func slotIndex(key, prefix string) (int, bool) {
	suffix, found := strings.CutPrefix(key, prefix)
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 1 || n > models.MaxIngredientSlots {
		return 0, false
	}
	return n - 1, true
}
