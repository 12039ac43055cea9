package models

import "time"

// RecipeSummary is the list/card projection of an enriched recipe: chef
// identity resolved, nutrition and comment detail stripped.
type RecipeSummary struct {
	ID          string    `json:"_id"`
	ChefID      string    `json:"chef_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image"`
	Time        string    `json:"time,omitempty"`
	Difficulty  int       `json:"difficulty"`
	Tags        []string  `json:"tags"`
	Rating      float64   `json:"rating"`
	UserName    string    `json:"user_name,omitempty"`
	UserAvatar  string    `json:"user_avatar,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// Nutrition holds calculated per-ingredient values, rounded to two
// decimal places for display.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// EnrichedIngredient is one resolved ingredient line: reference data
// joined in and nutrition scaled to the recipe's quantity.
type EnrichedIngredient struct {
	IngredientID          string    `json:"ingredientId"`
	Name                  string    `json:"name"`
	Quantity              float64   `json:"quantity"`
	Unit                  string    `json:"unit"`
	ScientificDescription string    `json:"scientificDescription,omitempty"`
	CalculatedNutrition   Nutrition `json:"calculated_nutrition"`
}

// EnrichedRecipe is the fully denormalized read model of a recipe. All of
// its derived fields are view projections recomputed on every read; none
// are written back to the store.
type EnrichedRecipe struct {
	RecipeSummary

	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fats     int `json:"fats"`

	Ingredients []EnrichedIngredient `json:"ingredients"`
	Steps       []PrepStep           `json:"preparationSteps"`
	Comments    []Comment            `json:"comments,omitempty"`

	// Degraded names the fields that fell back to defaults because of
	// missing or malformed source data. Logged, never serialized.
	Degraded []string `json:"-"`
}
