package enrich

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasteknowledge/db"
	"tasteknowledge/models"
)

const (
	chefHex   = "5f1f77bcf86cd799439011aa"
	recipeHex = "6f1f77bcf86cd799439011bb"
	flourHex  = "7f1f77bcf86cd799439011cc"
	sugarHex  = "7f1f77bcf86cd799439011dd"
)

type fakeStore struct {
	chefs       map[string]models.User
	recipes     map[string]models.Recipe
	ingredients map[string]models.Ingredient
	comments    map[string]models.Comment
	ratings     map[string]float64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		chefs:       map[string]models.User{},
		recipes:     map[string]models.Recipe{},
		ingredients: map[string]models.Ingredient{},
		comments:    map[string]models.Comment{},
		ratings:     map[string]float64{},
	}
}

func (f *fakeStore) ChefByID(_ context.Context, id string) (*models.User, error) {
	if c, ok := f.chefs[id]; ok {
		return &c, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) ChefsByIDs(_ context.Context, ids []string) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if c, ok := f.chefs[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) RecipeByID(_ context.Context, id string) (*models.Recipe, error) {
	if r, ok := f.recipes[id]; ok {
		return &r, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) IngredientsByIDs(_ context.Context, ids []string) ([]models.Ingredient, error) {
	var out []models.Ingredient
	for _, id := range ids {
		if doc, ok := f.ingredients[id]; ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (f *fakeStore) CommentsByIDs(_ context.Context, ids []string) ([]models.Comment, error) {
	var out []models.Comment
	for _, id := range ids {
		if c, ok := f.comments[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) SetRecipeRating(_ context.Context, id string, rating float64) error {
	f.ratings[id] = rating
	if r, ok := f.recipes[id]; ok {
		r.Rating = rating
		f.recipes[id] = r
	}
	return nil
}

func seededStore() *fakeStore {
	f := newFakeStore()
	f.chefs[chefHex] = models.User{
		ID:       models.ID(chefHex),
		Nickname: "Chef Remy",
		Avatar:   "/uploads/remy.png",
	}
	f.ingredients[flourHex] = models.Ingredient{
		ID:             models.ID(flourHex),
		IngredientName: "Flour",
		Unit:           "g",
		Calories:       364,
		Protein:        10,
		Carbs:          76,
		Fats:           1,
	}
	f.ingredients[sugarHex] = models.Ingredient{
		ID:         models.ID(sugarHex),
		LegacyName: "Sugar",
		Unit:       "g",
		Calories:   387,
		Carbs:      100,
	}
	return f
}

func testRecipe() *models.Recipe {
	return &models.Recipe{
		ID:     models.ID(recipeHex),
		ChefID: models.ID(chefHex),
		Title:  "Plain Cake",
		Ingredients: []models.RecipeIngredient{
			{IngredientID: models.ID(flourHex), Quantity: 200},
			{IngredientID: models.ID(sugarHex), Quantity: 50},
		},
		Steps: []models.PrepStep{{Description: "Mix"}, {Description: "Bake"}},
	}
}

func TestEnrichResolvesChefAndIngredients(t *testing.T) {
	e := New(seededStore(), "/default.png")

	out, err := e.Enrich(context.Background(), testRecipe())
	require.NoError(t, err)

	assert.Equal(t, "Chef Remy", out.UserName)
	assert.Equal(t, "/uploads/remy.png", out.UserAvatar)
	assert.Empty(t, out.Degraded)

	require.Len(t, out.Ingredients, 2)
	flour := out.Ingredients[0]
	assert.Equal(t, "Flour", flour.Name)
	assert.Equal(t, "g", flour.Unit)
	assert.Equal(t, 728.0, flour.CalculatedNutrition.Calories)
	assert.Equal(t, 20.0, flour.CalculatedNutrition.Protein)
	assert.Equal(t, 152.0, flour.CalculatedNutrition.Carbs)
	assert.Equal(t, 2.0, flour.CalculatedNutrition.Fats)

	sugar := out.Ingredients[1]
	assert.Equal(t, "Sugar", sugar.Name)
	assert.Equal(t, 193.5, sugar.CalculatedNutrition.Calories)
	assert.Equal(t, 50.0, sugar.CalculatedNutrition.Carbs)
}

func TestEnrichTotalsRoundToInt(t *testing.T) {
	e := New(seededStore(), "/default.png")

	out, err := e.Enrich(context.Background(), testRecipe())
	require.NoError(t, err)

	// 728 + 193.5 calories, 152 + 50 carbs
	assert.Equal(t, 922, out.Calories)
	assert.Equal(t, 20, out.Protein)
	assert.Equal(t, 202, out.Carbs)
	assert.Equal(t, 2, out.Fats)
}

func TestEnrichFractionalRounding(t *testing.T) {
	f := seededStore()
	f.ingredients[flourHex] = models.Ingredient{
		ID:             models.ID(flourHex),
		IngredientName: "Olive Oil",
		Unit:           "ml",
		Calories:       884,
		Fats:           models.Number(93.333),
	}
	e := New(f, "/default.png")

	rec := testRecipe()
	rec.Ingredients = []models.RecipeIngredient{{IngredientID: models.ID(flourHex), Quantity: 15}}

	out, err := e.Enrich(context.Background(), rec)
	require.NoError(t, err)

	// 93.333 * 15 / 100 = 13.99995 -> 14.00 per ingredient, 14 total
	assert.Equal(t, 14.0, out.Ingredients[0].CalculatedNutrition.Fats)
	assert.Equal(t, 132.6, out.Ingredients[0].CalculatedNutrition.Calories)
	assert.Equal(t, 133, out.Calories)
	assert.Equal(t, 14, out.Fats)
}

func TestEnrichDegradesMissingChef(t *testing.T) {
	f := seededStore()
	delete(f.chefs, chefHex)
	e := New(f, "/default.png")

	out, err := e.Enrich(context.Background(), testRecipe())
	require.NoError(t, err)

	assert.Empty(t, out.UserName)
	assert.Contains(t, out.Degraded, "chef")
}

func TestEnrichDegradesUnknownIngredient(t *testing.T) {
	f := seededStore()
	delete(f.ingredients, sugarHex)
	e := New(f, "/default.png")

	out, err := e.Enrich(context.Background(), testRecipe())
	require.NoError(t, err)

	require.Len(t, out.Ingredients, 2)
	sugar := out.Ingredients[1]
	assert.Equal(t, "Unknown Ingredient", sugar.Name)
	assert.Zero(t, sugar.CalculatedNutrition.Calories)
	assert.Contains(t, out.Degraded, "ingredient:"+sugarHex)

	// missing ingredient contributes nothing to the totals
	assert.Equal(t, 728, out.Calories)
}

func TestEnrichSkipsMalformedIngredientID(t *testing.T) {
	e := New(seededStore(), "/default.png")

	rec := testRecipe()
	rec.Ingredients = append(rec.Ingredients, models.RecipeIngredient{
		IngredientID: "not-a-hex-id",
		Quantity:     30,
	})

	out, err := e.Enrich(context.Background(), rec)
	require.NoError(t, err)

	require.Len(t, out.Ingredients, 3)
	assert.Equal(t, "Unknown Ingredient", out.Ingredients[2].Name)
	assert.Equal(t, 922, out.Calories)
}

func TestEnrichIsIdempotent(t *testing.T) {
	e := New(seededStore(), "/default.png")

	first, err := e.Enrich(context.Background(), testRecipe())
	require.NoError(t, err)
	second, err := e.Enrich(context.Background(), testRecipe())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSummariesBatchChefLookup(t *testing.T) {
	f := seededStore()
	f.chefs["5f1f77bcf86cd799439011ab"] = models.User{
		ID:       "5f1f77bcf86cd799439011ab",
		UserName: "gusteau",
	}
	e := New(f, "/default.png")

	recipes := []models.Recipe{
		{ID: "1", ChefID: models.ID(chefHex), Title: "A"},
		{ID: "2", ChefID: "5f1f77bcf86cd799439011ab", Title: "B"},
		{ID: "3", ChefID: "garbage", Title: "C"},
	}

	out, err := e.Summaries(context.Background(), recipes)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "Chef Remy", out[0].UserName)
	assert.Equal(t, "gusteau", out[1].UserName)
	assert.Empty(t, out[2].UserName)
}

func TestCommentsNewestFirst(t *testing.T) {
	f := seededStore()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f.comments["a1"] = models.Comment{ID: "a1", Description: "old", CreatedAt: base}
	f.comments["a2"] = models.Comment{ID: "a2", Description: "new", CreatedAt: base.Add(time.Hour)}
	e := New(f, "/default.png")

	rec := testRecipe()
	rec.CommentsList = []models.Ref{"a1", "a2"}

	out, err := e.Comments(context.Background(), rec)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "new", out[0].Description)
	assert.Equal(t, "old", out[1].Description)
}

func TestRecomputeRatingExcludesInvalidRates(t *testing.T) {
	f := seededStore()
	rec := testRecipe()
	rec.CommentsList = []models.Ref{"c1", "c2", "c3"}
	f.recipes[recipeHex] = *rec
	f.comments["c1"] = models.Comment{ID: "c1", Rate: models.NewRate(4)}
	f.comments["c2"] = models.Comment{ID: "c2", Rate: models.NewRate(2)}
	f.comments["c3"] = models.Comment{ID: "c3"} // unusable rate
	e := New(f, "/default.png")

	rating, err := e.RecomputeRating(context.Background(), recipeHex)
	require.NoError(t, err)

	assert.Equal(t, 3.0, rating)
	assert.Equal(t, 3.0, f.ratings[recipeHex])
}

func TestRecomputeRatingIgnoresOutOfRangeRates(t *testing.T) {
	f := seededStore()
	rec := testRecipe()
	rec.CommentsList = []models.Ref{"c1", "c2", "c3"}
	f.recipes[recipeHex] = *rec
	f.comments["c1"] = models.Comment{ID: "c1", Rate: models.NewRate(4)}
	f.comments["c2"] = models.Comment{ID: "c2", Rate: models.NewRate(7)}
	f.comments["c3"] = models.Comment{ID: "c3", Rate: models.NewRate(0)}
	e := New(f, "/default.png")

	rating, err := e.RecomputeRating(context.Background(), recipeHex)
	require.NoError(t, err)

	// only the 4 counts; 7 and 0 are outside the valid range
	assert.Equal(t, 4.0, rating)
}

func TestRecomputeRatingRoundsToOneDecimal(t *testing.T) {
	f := seededStore()
	rec := testRecipe()
	rec.CommentsList = []models.Ref{"c1", "c2", "c3"}
	f.recipes[recipeHex] = *rec
	f.comments["c1"] = models.Comment{ID: "c1", Rate: models.NewRate(5)}
	f.comments["c2"] = models.Comment{ID: "c2", Rate: models.NewRate(4)}
	f.comments["c3"] = models.Comment{ID: "c3", Rate: models.NewRate(4)}
	e := New(f, "/default.png")

	rating, err := e.RecomputeRating(context.Background(), recipeHex)
	require.NoError(t, err)

	// 13/3 = 4.333... -> 4.3
	assert.Equal(t, 4.3, rating)
}

func TestRecomputeRatingEmptyList(t *testing.T) {
	f := seededStore()
	f.recipes[recipeHex] = *testRecipe()
	e := New(f, "/default.png")

	rating, err := e.RecomputeRating(context.Background(), recipeHex)
	require.NoError(t, err)

	assert.Equal(t, 0.0, rating)
	assert.Equal(t, 0.0, f.ratings[recipeHex])
}

func TestRecomputeRatingMissingRecipe(t *testing.T) {
	e := New(seededStore(), "/default.png")

	rating, err := e.RecomputeRating(context.Background(), recipeHex)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rating)
}
