package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Lixing-Zhang/meal-service/internal/models"
	"github.com/Lixing-Zhang/meal-service/internal/service"
)

const lookupBody = `{"meals":[{"idMeal":"52771","strMeal":"Spicy Arrabiata Penne","strCategory":"Vegetarian","strArea":"Italian","strInstructions":"Bring a large pot of water to a boil.","strMealThumb":"https://img/arrabiata.jpg","strTags":"Pasta,Curry","strIngredient1":"penne rigate","strMeasure1":"1 pound","strIngredient2":"","strMeasure2":""}]}`

func startMealDB(t *testing.T) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lookup.php":
			if r.URL.Query().Get("i") == "52771" {
				_, _ = w.Write([]byte(lookupBody))
				return
			}
			_, _ = w.Write([]byte(`{"meals":null}`))
		case "/search.php":
			_, _ = w.Write([]byte(lookupBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	t.Setenv("MEALDB_BASE_URL", srv.URL)
	t.Setenv("TRANSLATOR_PROVIDER", "none")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	outputFormat, logLevel = "json", "error"

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestDetailCmd(t *testing.T) {
	startMealDB(t)

	out, err := execute(t, "detail", "52771")
	require.NoError(t, err)

	var meal models.Meal
	require.NoError(t, json.Unmarshal([]byte(out), &meal))
	assert.Equal(t, "Spicy Arrabiata Penne", meal.Name)
	assert.Equal(t, []string{"Pasta", "Curry"}, meal.Tags)
	assert.Equal(t, []models.Ingredient{{Ingredient: "penne rigate", Measure: "1 pound"}}, meal.Ingredients)
}

func TestDetailCmd_NotFound(t *testing.T) {
	startMealDB(t)

	_, err := execute(t, "detail", "999999")
	assert.ErrorIs(t, err, service.ErrMealNotFound)
}

func TestSearchCmd_YAML(t *testing.T) {
	startMealDB(t)

	out, err := execute(t, "search", "arrabiata", "-o", "yaml")
	require.NoError(t, err)

	var meals []models.MealSummary
	require.NoError(t, yaml.Unmarshal([]byte(out), &meals))
	require.Len(t, meals, 1)
	assert.Equal(t, "52771", meals[0].ID)
	assert.Equal(t, "Italian", meals[0].Area)
}

func TestArgsAndFlags(t *testing.T) {
	startMealDB(t)

	tests := []struct {
		name string
		args []string
	}{
		{"detail without id", []string{"detail"}},
		{"search without name", []string{"search"}},
		{"random with args", []string{"random", "extra"}},
		{"unknown format", []string{"detail", "52771", "-o", "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestRender(t *testing.T) {
	summary := models.MealSummary{ID: "1", Name: "Sopa de pan", Category: "Sopa", Thumbnail: "https://img/1.jpg?w=1&h=2"}

	var js bytes.Buffer
	require.NoError(t, render(&js, "json", summary))
	assert.Contains(t, js.String(), `"name": "Sopa de pan"`)
	assert.Contains(t, js.String(), `w=1&h=2`, "no HTML escaping")

	var ym bytes.Buffer
	require.NoError(t, render(&ym, "yaml", summary))
	assert.Contains(t, ym.String(), "name: Sopa de pan")
	assert.NotContains(t, ym.String(), "area:")
}
