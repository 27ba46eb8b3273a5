package models

import "strings"

// MaxIngredientSlots is the number of numbered ingredient/measure pairs
// an upstream record can carry (strIngredient1..20, strMeasure1..20).
const MaxIngredientSlots = 20

// RawMeal is one record as returned by TheMealDB. Null upstream values are empty strings.
// Ingredient and measure slot N lives at index N-1.
type RawMeal struct {
	ID           string
	Name         string
	Category     string
	Area         string
	Instructions string
	Thumbnail    string
	Youtube      string
	Source       string
	Tags         string
	Ingredients  [MaxIngredientSlots]string
	Measures     [MaxIngredientSlots]string
}

// Ingredient is a single ingredient line of a meal
type Ingredient struct {
	Ingredient string `json:"ingredient" yaml:"ingredient"`
	Measure    string `json:"measure" yaml:"measure"`
}

// Meal is the normalized, client-facing representation of a recipe
type Meal struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Category     string       `json:"category" yaml:"category"`
	Area         string       `json:"area,omitempty" yaml:"area,omitempty"`
	Instructions string       `json:"instructions" yaml:"instructions"`
	Thumbnail    string       `json:"thumbnail" yaml:"thumbnail"`
	Youtube      string       `json:"youtube,omitempty" yaml:"youtube,omitempty"`
	Source       string       `json:"source,omitempty" yaml:"source,omitempty"`
	Tags         []string     `json:"tags,omitempty" yaml:"tags,omitempty"`
	Ingredients  []Ingredient `json:"ingredients" yaml:"ingredients"`
}

// MealSummary is the reduced shape returned by name searches
type MealSummary struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Category  string `json:"category" yaml:"category"`
	Area      string `json:"area,omitempty" yaml:"area,omitempty"`
	Thumbnail string `json:"thumbnail" yaml:"thumbnail"`
}

// IngredientList returns the filled slots in slot order.
// A slot is kept when its ingredient name is not blank; text is passed through as-is.
func (m *RawMeal) IngredientList() []Ingredient {
	ingredients := make([]Ingredient, 0, MaxIngredientSlots)
	for i := 0; i < MaxIngredientSlots; i++ {
		if strings.TrimSpace(m.Ingredients[i]) == "" {
			continue
		}
		ingredients = append(ingredients, Ingredient{
			Ingredient: m.Ingredients[i],
			Measure:    m.Measures[i],
		})
	}
	return ingredients
}

// TagList splits the comma separated tag string. Returns nil when there are no tags.
func (m *RawMeal) TagList() []string {
	if strings.TrimSpace(m.Tags) == "" {
		return nil
	}

	var tags []string
	for _, tag := range strings.Split(m.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ToMeal copies the scalar fields and ingredient list into a Meal. Tags are not included.
func (m *RawMeal) ToMeal() *Meal {
	return &Meal{
		ID:           m.ID,
		Name:         m.Name,
		Category:     m.Category,
		Area:         m.Area,
		Instructions: m.Instructions,
		Thumbnail:    m.Thumbnail,
		Youtube:      m.Youtube,
		Source:       m.Source,
		Ingredients:  m.IngredientList(),
	}
}

// ToSummary reduces the record to its search summary
func (m *RawMeal) ToSummary() MealSummary {
	return MealSummary{
		ID:        m.ID,
		Name:      m.Name,
		Category:  m.Category,
		Area:      m.Area,
		Thumbnail: m.Thumbnail,
	}
}
