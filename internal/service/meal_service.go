package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Lixing-Zhang/meal-service/internal/models"
)

// SearchLimit caps how many search results are translated and returned.
const SearchLimit = 10

var (
	ErrEmptyQuery   = errors.New("search name is required")
	ErrEmptyID      = errors.New("meal id is required")
	ErrMealNotFound = errors.New("meal not found")
	ErrUpstream     = errors.New("recipe source unavailable")
)

// MealSource is the upstream recipe API
type MealSource interface {
	Random(ctx context.Context) ([]models.RawMeal, error)
	SearchByName(ctx context.Context, query string) ([]models.RawMeal, error)
	LookupByID(ctx context.Context, id string) ([]models.RawMeal, error)
}

// TextTranslator translates text and never fails; on error it returns the input.
type TextTranslator interface {
	Text(ctx context.Context, text, target string) string
}

// Languages names the two translation directions.
type Languages struct {
	// Output is the language meals are presented in
	Output string
	// Source is the language of the upstream index; search queries are translated into it
	Source string
}

// MealService fetches meals from the upstream source and localizes them
type MealService struct {
	source         MealSource
	translator     TextTranslator
	langs          Languages
	maxConcurrency int
	logger         *slog.Logger
}

// NewMealService creates a new meal service.
// maxConcurrency bounds in-flight translations per request; 0 means unbounded.
func NewMealService(source MealSource, translator TextTranslator, langs Languages, maxConcurrency int, logger *slog.Logger) *MealService {
	return &MealService{
		source:         source,
		translator:     translator,
		langs:          langs,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}
}

// Random returns one random meal with name, category and instructions translated.
// Area, links and ingredients are passed through untranslated.
func (s *MealService) Random(ctx context.Context) (*models.Meal, error) {
	records, err := s.source.Random(ctx)
	if err != nil {
		return nil, upstreamError(err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: random pick returned no meals", ErrMealNotFound)
	}

	meal := records[0].ToMeal()
	s.translateAll(ctx, s.langs.Output, &meal.Name, &meal.Category, &meal.Instructions)

	return meal, nil
}

// SearchByName searches meals by name. The query is first translated into the
// upstream's language; at most SearchLimit summaries come back, in upstream order.
func (s *MealService) SearchByName(ctx context.Context, name string) ([]models.MealSummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyQuery
	}

	query := s.translator.Text(ctx, name, s.langs.Source)
	s.logger.Debug("searching meals", "name", name, "query", query)

	records, err := s.source.SearchByName(ctx, query)
	if err != nil {
		return nil, upstreamError(err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no meals named %q", ErrMealNotFound, name)
	}

	if len(records) > SearchLimit {
		records = records[:SearchLimit]
	}

	summaries := make([]models.MealSummary, len(records))
	fields := make([]*string, 0, 2*len(records))
	for i := range records {
		summaries[i] = records[i].ToSummary()
		fields = append(fields, &summaries[i].Name, &summaries[i].Category)
	}
	s.translateAll(ctx, s.langs.Output, fields...)

	return summaries, nil
}

// GetByID returns the full meal with every text field translated, ingredients included.
func (s *MealService) GetByID(ctx context.Context, id string) (*models.Meal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrEmptyID
	}

	records, err := s.source.LookupByID(ctx, id)
	if err != nil {
		return nil, upstreamError(err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no meal with id %q", ErrMealNotFound, id)
	}

	raw := records[0]
	meal := raw.ToMeal()
	meal.Tags = raw.TagList()

	fields := []*string{&meal.Name, &meal.Category, &meal.Instructions, &meal.Area}
	for i := range meal.Ingredients {
		fields = append(fields, &meal.Ingredients[i].Ingredient, &meal.Ingredients[i].Measure)
	}
	s.translateAll(ctx, s.langs.Output, fields...)

	return meal, nil
}

// translateAll replaces every field with its translation and returns once all are done.
// Each goroutine owns exactly one field.
func (s *MealService) translateAll(ctx context.Context, target string, fields ...*string) {
	var g errgroup.Group
	if s.maxConcurrency > 0 {
		g.SetLimit(s.maxConcurrency)
	}

	for _, field := range fields {
		field := field
		g.Go(func() error {
			*field = s.translator.Text(ctx, *field, target)
			return nil
		})
	}

	_ = g.Wait()
}

func upstreamError(err error) error {
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}
