// Package app assembles the meal service from configuration.
// Both the HTTP server and the mealctl CLI build their service here.
package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/meal-service/internal/config"
	"github.com/Lixing-Zhang/meal-service/internal/mealdb"
	"github.com/Lixing-Zhang/meal-service/internal/service"
	"github.com/Lixing-Zhang/meal-service/internal/translate"
)

// ServiceName identifies this process in health checks and logs
const ServiceName = "meal-service"

// BuildMealService wires the upstream client and the translator into a MealService
func BuildMealService(cfg *config.Config, log *slog.Logger) (*service.MealService, error) {
	source, err := mealdb.NewClient(cfg.MealDB.BaseURL, &http.Client{Timeout: cfg.MealDB.Timeout}, log)
	if err != nil {
		return nil, fmt.Errorf("creating mealdb client: %w", err)
	}

	backend, err := translate.New(translate.Options{
		Provider: cfg.Translator.Provider,
		BaseURL:  cfg.Translator.BaseURL,
		APIKey:   cfg.Translator.APIKey,
		Timeout:  cfg.Translator.Timeout,
	}, &http.Client{Timeout: cfg.Translator.Timeout})
	if err != nil {
		return nil, fmt.Errorf("creating translator: %w", err)
	}

	translator := translate.NewService(backend, cfg.Translator.Provider, cfg.Translator.Timeout, log)

	langs := service.Languages{
		Output: cfg.Translator.TargetLanguage,
		Source: cfg.MealDB.Language,
	}

	log.Debug("meal service configured",
		"mealdb_base_url", cfg.MealDB.BaseURL,
		"translator", cfg.Translator.Provider,
		"target_language", langs.Output,
		"max_concurrency", cfg.Translator.MaxConcurrency,
	)

	return service.NewMealService(source, translator, langs, cfg.Translator.MaxConcurrency, log), nil
}
