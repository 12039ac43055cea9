// Package recipes serves the recipe REST surface: listing, enrichment,
// publishing, search, the followed-chefs feed, comments, and the
// printable card.
package recipes

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tasteknowledge/db"
	"tasteknowledge/enrich"
	"tasteknowledge/membership"
	"tasteknowledge/middleware"
	"tasteknowledge/models"
	"tasteknowledge/utils"
)

type Handlers struct {
	store    *db.Store
	enricher *enrich.Enricher
	validate *validator.Validate
	baseURL  string
}

func NewHandlers(store *db.Store, enricher *enrich.Enricher, baseURL string) *Handlers {
	return &Handlers{
		store:    store,
		enricher: enricher,
		validate: validator.New(),
		baseURL:  baseURL,
	}
}

// List serves summary views of every recipe, newest first.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	recipes, err := db.FindAndDecode[models.Recipe](r.Context(), h.store.Recipes, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load recipes")
		return
	}
	h.respondSummaries(w, r, recipes)
}

// Get serves the full enriched view of one recipe, comments newest first.
// The :id segment also carries the reserved word "followed", which the
// router cannot register as its own static route next to the wildcard;
// it dispatches to the followed-chefs feed and requires a session.
func (h *Handlers) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("id") == "followed" {
		if _, ok := middleware.PrincipalFrom(r.Context()); !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h.Followed(w, r, ps)
		return
	}

	rec, err := h.store.RecipeByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrInvalidID) {
			utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load recipe")
		return
	}

	enriched, err := h.enricher.Enrich(r.Context(), rec)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load recipe")
		return
	}
	if len(enriched.Degraded) > 0 {
		log.Printf("recipes: degraded fields on %s: %v", rec.ID, enriched.Degraded)
	}

	comments, err := h.enricher.Comments(r.Context(), rec)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load recipe")
		return
	}
	enriched.Comments = comments

	utils.RespondWithJSON(w, http.StatusOK, enriched)
}

type createRecipeRequest struct {
	Title       string                    `json:"title" validate:"required"`
	Description string                    `json:"description"`
	Image       string                    `json:"image" validate:"required"`
	Time        string                    `json:"time"`
	Difficulty  int                       `json:"difficulty" validate:"required,min=1,max=5"`
	Tags        []string                  `json:"tags"`
	Ingredients []models.RecipeIngredient `json:"ingredients" validate:"required,min=1"`
	Steps       []models.PrepStep         `json:"preparationSteps" validate:"required,min=1"`
}

// Create publishes a recipe under the calling chef and links it onto the
// chef's recipeList. The insert and the list push are two writes; a crash
// between them leaves a recipe reachable by id but absent from the
// profile.
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	p, _ := middleware.PrincipalFrom(r.Context())

	var req createRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	oid := primitive.NewObjectID()
	rec := models.Recipe{
		ID:          models.ID(oid.Hex()),
		ChefID:      models.ID(p.UserID),
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Time:        req.Time,
		Difficulty:  req.Difficulty,
		Tags:        req.Tags,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
		Rating:      0,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := db.InsertOne(r.Context(), h.store.Recipes, rec); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create recipe")
		return
	}
	if err := db.Push(r.Context(), h.store.Chefs, p.UserID, "recipeList", oid); err != nil {
		log.Printf("recipes: recipeList push failed for chef %s: %v", p.UserID, err)
	}

	enriched, err := h.enricher.Enrich(r.Context(), &rec)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create recipe")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, enriched)
}

// Delete removes one of the caller's own recipes and unlinks it from the
// chef's recipeList.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, _ := middleware.PrincipalFrom(r.Context())
	recipeID := ps.ByName("id")

	rec, err := h.store.RecipeByID(r.Context(), recipeID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrInvalidID) {
			utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete recipe")
		return
	}
	if string(rec.ChefID) != p.UserID {
		utils.RespondWithError(w, http.StatusForbidden, "Not your recipe")
		return
	}

	if err := db.DeleteByID(r.Context(), h.store.Recipes, recipeID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete recipe")
		return
	}
	if err := db.Pull(r.Context(), h.store.Chefs, p.UserID, "recipeList", "recipeId", recipeID); err != nil {
		log.Printf("recipes: recipeList pull failed for chef %s: %v", p.UserID, err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "success"})
}

// Search matches the query as a case-insensitive title substring and
// returns fully enriched views.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query().Get("q")
	if q == "" {
		utils.RespondWithJSON(w, http.StatusOK, []models.EnrichedRecipe{})
		return
	}

	filter := bson.M{"title": bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}}
	recipes, err := db.FindAndDecode[models.Recipe](r.Context(), h.store.Recipes, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	out := make([]*models.EnrichedRecipe, 0, len(recipes))
	for i := range recipes {
		enriched, err := h.enricher.Enrich(r.Context(), &recipes[i])
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Search failed")
			return
		}
		out = append(out, enriched)
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// Followed serves summary views of recipes by the chefs the caller
// follows.
func (h *Handlers) Followed(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	p, _ := middleware.PrincipalFrom(r.Context())

	account, err := db.FindOneByID[models.User](r.Context(), h.store.Identity(p.Role), p.UserID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load feed")
		return
	}

	chefIDs := membership.IDs(account.FollowedChefs)
	if len(chefIDs) == 0 {
		utils.RespondWithJSON(w, http.StatusOK, []models.RecipeSummary{})
		return
	}

	// chefId is stored both as hex string and ObjectID across document
	// generations, so match every encoding.
	forms := make([]any, 0, len(chefIDs)*2)
	for _, id := range chefIDs {
		forms = append(forms, db.IDForms(id)...)
	}
	recipes, err := db.FindAndDecode[models.Recipe](r.Context(), h.store.Recipes,
		bson.M{"chefId": bson.M{"$in": forms}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load feed")
		return
	}
	h.respondSummaries(w, r, recipes)
}

func (h *Handlers) respondSummaries(w http.ResponseWriter, r *http.Request, recipes []models.Recipe) {
	summaries, err := h.enricher.Summaries(r.Context(), recipes)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load recipes")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, summaries)
}
