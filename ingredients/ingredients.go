// Package ingredients exposes read-only lookups over the ingredient
// reference collection, used by the recipe editor's autocomplete.
package ingredients

import (
	"net/http"
	"regexp"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tasteknowledge/db"
	"tasteknowledge/models"
	"tasteknowledge/utils"
)

const searchLimit = 10

type Handlers struct {
	store *db.Store
}

func NewHandlers(store *db.Store) *Handlers {
	return &Handlers{store: store}
}

// Search matches the query as a case-insensitive substring of either
// name field and returns at most ten compact results.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query().Get("q")
	if q == "" {
		utils.RespondWithJSON(w, http.StatusOK, []utils.M{})
		return
	}

	pattern := bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
	filter := bson.M{"$or": []bson.M{
		{"ingredientName": pattern},
		{"name": pattern},
	}}

	docs, err := db.FindAndDecode[models.Ingredient](r.Context(), h.store.Ingredients, filter,
		options.Find().SetLimit(searchLimit))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	out := make([]utils.M, 0, len(docs))
	for i := range docs {
		out = append(out, utils.M{
			"_id":  string(docs[i].ID),
			"name": docs[i].Name(),
			"unit": docs[i].Unit,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}
