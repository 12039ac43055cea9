package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"tasteknowledge/models"
)

// Typed accessors over the generic query helpers. These are the methods
// the enrichment engine consumes through its narrow interface.

func (s *Store) ChefByID(ctx context.Context, hexID string) (*models.User, error) {
	return FindOneByID[models.User](ctx, s.Chefs, hexID)
}

func (s *Store) ChefsByIDs(ctx context.Context, hexIDs []string) ([]models.User, error) {
	return FindManyByIDs[models.User](ctx, s.Chefs, hexIDs)
}

func (s *Store) RecipeByID(ctx context.Context, hexID string) (*models.Recipe, error) {
	return FindOneByID[models.Recipe](ctx, s.Recipes, hexID)
}

func (s *Store) IngredientsByIDs(ctx context.Context, hexIDs []string) ([]models.Ingredient, error) {
	return FindManyByIDs[models.Ingredient](ctx, s.Ingredients, hexIDs)
}

func (s *Store) CommentsByIDs(ctx context.Context, hexIDs []string) ([]models.Comment, error) {
	return FindManyByIDs[models.Comment](ctx, s.Comments, hexIDs)
}

func (s *Store) SetRecipeRating(ctx context.Context, hexID string, rating float64) error {
	return UpdateFieldsByID(ctx, s.Recipes, hexID, bson.M{"rating": rating})
}
