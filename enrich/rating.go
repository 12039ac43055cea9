package enrich

import (
	"context"
	"log"

	"tasteknowledge/models"
)

// RecomputeRating rebuilds a recipe's cached aggregate rating from its
// comment list and persists it. Comments whose rate is absent or not a
// usable number are excluded from both the sum and the divisor. A recipe
// with no valid rates is stored as 0. Runs synchronously so the caller
// responds with the fresh value.
func (e *Enricher) RecomputeRating(ctx context.Context, recipeID string) (float64, error) {
	rec, err := e.store.RecipeByID(ctx, recipeID)
	if err != nil {
		if isDataError(err) {
			log.Printf("rating: recipe %s gone, skipping recompute", recipeID)
			return 0, nil
		}
		return 0, err
	}

	comments, err := e.Comments(ctx, rec)
	if err != nil {
		return 0, err
	}

	rating := MeanRating(comments)
	if err := e.store.SetRecipeRating(ctx, recipeID, rating); err != nil {
		return 0, err
	}
	return rating, nil
}

// MeanRating averages the valid rates in comments to one decimal place.
// A rate outside 1-5, which only out-of-band writes can produce, counts
// as invalid.
func MeanRating(comments []models.Comment) float64 {
	var sum float64
	var n int
	for _, c := range comments {
		if c.Rate.OK && c.Rate.Value >= 1 && c.Rate.Value <= 5 {
			sum += c.Rate.Value
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return round1(sum / float64(n))
}
