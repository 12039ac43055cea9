// Package enrich assembles the denormalized read models of recipes:
// chef identity, batched ingredient nutrition, computed totals, and the
// cached aggregate rating. Its functions are total over partially corrupt
// input; a bad foreign key degrades one entry to defaults instead of
// failing the whole view.
package enrich

import (
	"context"
	"math"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tasteknowledge/models"
)

const unknownIngredient = "Unknown Ingredient"

// Store is the slice of the document store the engine needs. db.Store
// satisfies it; tests plug in an in-memory fake.
type Store interface {
	ChefByID(ctx context.Context, hexID string) (*models.User, error)
	ChefsByIDs(ctx context.Context, hexIDs []string) ([]models.User, error)
	RecipeByID(ctx context.Context, hexID string) (*models.Recipe, error)
	IngredientsByIDs(ctx context.Context, hexIDs []string) ([]models.Ingredient, error)
	CommentsByIDs(ctx context.Context, hexIDs []string) ([]models.Comment, error)
	SetRecipeRating(ctx context.Context, hexID string, rating float64) error
}

type Enricher struct {
	store         Store
	defaultAvatar string
}

func New(store Store, defaultAvatar string) *Enricher {
	return &Enricher{store: store, defaultAvatar: defaultAvatar}
}

// Enrich produces the full view of one recipe. It only errors on store
// transport failures; every data-shape problem degrades the affected
// field and is recorded in Degraded.
func (e *Enricher) Enrich(ctx context.Context, rec *models.Recipe) (*models.EnrichedRecipe, error) {
	out := &models.EnrichedRecipe{
		RecipeSummary: summaryOf(rec),
		Ingredients:   []models.EnrichedIngredient{},
		Steps:         rec.Steps,
	}
	if out.Steps == nil {
		out.Steps = []models.PrepStep{}
	}

	chef, err := e.store.ChefByID(ctx, string(rec.ChefID))
	switch {
	case err == nil:
		out.UserName = chef.DisplayName()
		out.UserAvatar = chef.AvatarOrDefault(e.defaultAvatar)
	case isDataError(err):
		out.Degraded = append(out.Degraded, "chef")
	default:
		return nil, err
	}

	index, err := e.ingredientIndex(ctx, rec.Ingredients)
	if err != nil {
		return nil, err
	}

	var calories, protein, carbs, fats float64
	for _, line := range rec.Ingredients {
		enriched := models.EnrichedIngredient{
			IngredientID: string(line.IngredientID),
			Name:         unknownIngredient,
			Quantity:     line.Quantity.Float(),
		}

		if doc, ok := index[string(line.IngredientID)]; ok {
			if name := doc.Name(); name != "" {
				enriched.Name = name
			}
			enriched.Unit = doc.Unit
			enriched.ScientificDescription = doc.ScientificDescription
			enriched.CalculatedNutrition = scaleNutrition(doc, line.Quantity.Float())
		} else {
			out.Degraded = append(out.Degraded, "ingredient:"+string(line.IngredientID))
		}

		calories += enriched.CalculatedNutrition.Calories
		protein += enriched.CalculatedNutrition.Protein
		carbs += enriched.CalculatedNutrition.Carbs
		fats += enriched.CalculatedNutrition.Fats
		out.Ingredients = append(out.Ingredients, enriched)
	}

	out.Calories = roundInt(calories)
	out.Protein = roundInt(protein)
	out.Carbs = roundInt(carbs)
	out.Fats = roundInt(fats)
	return out, nil
}

// Summaries produces the list projection for a page of recipes, resolving
// all chef identities with a single batched lookup.
func (e *Enricher) Summaries(ctx context.Context, recipes []models.Recipe) ([]models.RecipeSummary, error) {
	chefIDs := make([]string, 0, len(recipes))
	seen := map[string]bool{}
	for i := range recipes {
		id := string(recipes[i].ChefID)
		if _, err := primitive.ObjectIDFromHex(id); err == nil && !seen[id] {
			seen[id] = true
			chefIDs = append(chefIDs, id)
		}
	}

	chefs, err := e.store.ChefsByIDs(ctx, chefIDs)
	if err != nil && !isDataError(err) {
		return nil, err
	}
	byID := make(map[string]*models.User, len(chefs))
	for i := range chefs {
		byID[string(chefs[i].ID)] = &chefs[i]
	}

	out := make([]models.RecipeSummary, 0, len(recipes))
	for i := range recipes {
		s := summaryOf(&recipes[i])
		if chef, ok := byID[string(recipes[i].ChefID)]; ok {
			s.UserName = chef.DisplayName()
			s.UserAvatar = chef.AvatarOrDefault(e.defaultAvatar)
		}
		out = append(out, s)
	}
	return out, nil
}

// Comments resolves a recipe's comment list through one batched fetch,
// newest first. Unparsable comment ids are skipped.
func (e *Enricher) Comments(ctx context.Context, rec *models.Recipe) ([]models.Comment, error) {
	ids := refIDs(rec.CommentsList)
	comments, err := e.store.CommentsByIDs(ctx, ids)
	if err != nil {
		if isDataError(err) {
			return []models.Comment{}, nil
		}
		return nil, err
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

// ingredientIndex batches the nutrition lookup: one $in query for every
// syntactically valid id on the recipe, indexed by hex id.
func (e *Enricher) ingredientIndex(ctx context.Context, lines []models.RecipeIngredient) (map[string]*models.Ingredient, error) {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := line.IngredientID.ObjectID(); ok {
			ids = append(ids, string(line.IngredientID))
		}
	}

	docs, err := e.store.IngredientsByIDs(ctx, ids)
	if err != nil {
		if isDataError(err) {
			return map[string]*models.Ingredient{}, nil
		}
		return nil, err
	}

	index := make(map[string]*models.Ingredient, len(docs))
	for i := range docs {
		index[string(docs[i].ID)] = &docs[i]
	}
	return index, nil
}

func summaryOf(rec *models.Recipe) models.RecipeSummary {
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.RecipeSummary{
		ID:          string(rec.ID),
		ChefID:      string(rec.ChefID),
		Title:       rec.Title,
		Description: rec.Description,
		Image:       rec.Image,
		Time:        rec.Time,
		Difficulty:  rec.Difficulty,
		Tags:        tags,
		Rating:      rec.Rating,
		CreatedAt:   rec.CreatedAt,
	}
}

// scaleNutrition applies the linear proportion value*qty/100, rounded to
// two decimals per ingredient.
func scaleNutrition(doc *models.Ingredient, qty float64) models.Nutrition {
	return models.Nutrition{
		Calories: round2(doc.Calories.Float() * qty / 100),
		Protein:  round2(doc.Protein.Float() * qty / 100),
		Carbs:    round2(doc.Carbs.Float() * qty / 100),
		Fats:     round2(doc.Fats.Float() * qty / 100),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func refIDs(refs []models.Ref) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if r != "" {
			out = append(out, string(r))
		}
	}
	return out
}
