package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/meal-service/internal/models"
	"github.com/Lixing-Zhang/meal-service/internal/service"
)

// Client-facing messages. The API answers in Spanish.
const (
	msgRandomNotFound = "No se encontró una comida aleatoria."
	msgRandomFailed   = "Error al obtener la comida aleatoria."
	msgNameRequired   = "Se requiere un parámetro 'name' para la búsqueda."
	msgSearchFailed   = "Error al buscar comidas por nombre."
	msgIDRequired     = "Se requiere un ID para buscar."
	msgDetailFailed   = "Error al obtener el detalle de la comida."
)

// MealService is what the handler needs from the service layer
type MealService interface {
	Random(ctx context.Context) (*models.Meal, error)
	SearchByName(ctx context.Context, name string) ([]models.MealSummary, error)
	GetByID(ctx context.Context, id string) (*models.Meal, error)
}

// MealHandler handles meal-related HTTP requests
type MealHandler struct {
	service MealService
	logger  *slog.Logger
}

// NewMealHandler creates a new meal handler
func NewMealHandler(service MealService, logger *slog.Logger) *MealHandler {
	return &MealHandler{
		service: service,
		logger:  logger,
	}
}

// Random handles GET /api/meals/random
func (h *MealHandler) Random(w http.ResponseWriter, r *http.Request) {
	meal, err := h.service.Random(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrMealNotFound) {
			WriteMessage(w, http.StatusNotFound, msgRandomNotFound, h.logger)
			return
		}

		h.logger.Error("failed to get random meal", "error", err)
		WriteFailure(w, msgRandomFailed, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, meal, h.logger)
}

// Search handles GET /api/meals/search?name=
// Returns up to service.SearchLimit summaries:
// - 400: name missing
// - 404: no match
func (h *MealHandler) Search(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		WriteMessage(w, http.StatusBadRequest, msgNameRequired, h.logger)
		return
	}

	meals, err := h.service.SearchByName(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyQuery):
			WriteMessage(w, http.StatusBadRequest, msgNameRequired, h.logger)
		case errors.Is(err, service.ErrMealNotFound):
			h.logger.Info("no meals matched", "name", name)
			WriteMessage(w, http.StatusNotFound, fmt.Sprintf("No se encontraron comidas con el nombre \"%s\".", name), h.logger)
		default:
			h.logger.Error("failed to search meals", "name", name, "error", err)
			WriteFailure(w, msgSearchFailed, err, h.logger)
		}
		return
	}

	WriteJSON(w, http.StatusOK, meals, h.logger)
}

// Detail handles GET /api/meals/detail/{id}
func (h *MealHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		WriteMessage(w, http.StatusBadRequest, msgIDRequired, h.logger)
		return
	}

	meal, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyID):
			WriteMessage(w, http.StatusBadRequest, msgIDRequired, h.logger)
		case errors.Is(err, service.ErrMealNotFound):
			h.logger.Info("meal not found", "id", id)
			WriteMessage(w, http.StatusNotFound, fmt.Sprintf("No se encontró comida con el ID \"%s\".", id), h.logger)
		default:
			h.logger.Error("failed to get meal detail", "id", id, "error", err)
			WriteFailure(w, msgDetailFailed, err, h.logger)
		}
		return
	}

	WriteJSON(w, http.StatusOK, meal, h.logger)
}
