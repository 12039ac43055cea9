// Package profile serves account-scoped views and the membership toggles
// hanging off user documents: favorites, followed chefs, and profile
// updates.
package profile

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"tasteknowledge/db"
	"tasteknowledge/enrich"
	"tasteknowledge/membership"
	"tasteknowledge/middleware"
	"tasteknowledge/models"
	"tasteknowledge/utils"
)

type Handlers struct {
	store         *db.Store
	enricher      *enrich.Enricher
	auth          *middleware.Auth
	defaultAvatar string
}

func NewHandlers(store *db.Store, enricher *enrich.Enricher, auth *middleware.Auth, defaultAvatar string) *Handlers {
	return &Handlers{store: store, enricher: enricher, auth: auth, defaultAvatar: defaultAvatar}
}

func (h *Handlers) account(r *http.Request, p middleware.Principal) (*models.User, error) {
	return db.FindOneByID[models.User](r.Context(), h.store.Identity(p.Role), p.UserID)
}

// Favorites lists the caller's favorited recipes as summary views.
func (h *Handlers) Favorites(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	p, _ := middleware.PrincipalFrom(r.Context())

	account, err := h.account(r, p)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrInvalidID) {
			utils.RespondWithJSON(w, http.StatusOK, []models.RecipeSummary{})
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load favorites")
		return
	}

	recipes, err := db.FindManyByIDs[models.Recipe](r.Context(), h.store.Recipes, membership.IDs(account.Favorites))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load favorites")
		return
	}

	summaries, err := h.enricher.Summaries(r.Context(), recipes)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load favorites")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, summaries)
}

// ToggleFavorite flips a recipe's membership in the caller's favorites
// and writes the whole list back. Concurrent toggles on one account are
// last-write-wins.
func (h *Handlers) ToggleFavorite(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	p, _ := middleware.PrincipalFrom(r.Context())

	var body struct {
		RecipeID string `json:"recipe_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RecipeID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "recipe_id is required")
		return
	}

	account, err := h.account(r, p)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update favorites")
		return
	}

	favorites, isFavorited := membership.Toggle(account.Favorites, body.RecipeID)
	err = db.UpdateFieldsByID(r.Context(), h.store.Identity(p.Role), p.UserID, bson.M{"favorites": favorites})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update favorites")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"is_favorited": isFavorited})
}

// ChefProfile serves a chef's public page. include_recipes=true attaches
// summary views of the chef's published recipes.
func (h *Handlers) ChefProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	chefID := ps.ByName("id")

	chef, err := h.store.ChefByID(r.Context(), chefID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrInvalidID) {
			utils.RespondWithError(w, http.StatusNotFound, "Chef not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	out := utils.M{
		"_id":         string(chef.ID),
		"user_name":   chef.DisplayName(),
		"user_avatar": chef.AvatarOrDefault(h.defaultAvatar),
		"followers":   chef.Followers,
	}

	if p, ok := middleware.PrincipalFrom(r.Context()); ok {
		out["is_me"] = p.UserID == chefID && p.IsChef()
		if account, err := h.account(r, p); err == nil {
			out["is_followed"] = membership.Contains(account.FollowedChefs, chefID)
		}
	}

	if r.URL.Query().Get("include_recipes") == "true" {
		recipes, err := db.FindAndDecode[models.Recipe](r.Context(), h.store.Recipes,
			bson.M{"chefId": bson.M{"$in": db.IDForms(chefID)}})
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load profile")
			return
		}
		summaries, err := h.enricher.Summaries(r.Context(), recipes)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load profile")
			return
		}
		out["recipes"] = summaries
	}

	utils.RespondWithJSON(w, http.StatusOK, out)
}

// ToggleFollow flips the caller's follow state on a chef and adjusts the
// chef's follower count by the same step.
func (h *Handlers) ToggleFollow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, _ := middleware.PrincipalFrom(r.Context())
	chefID := ps.ByName("id")

	if _, err := h.store.ChefByID(r.Context(), chefID); err != nil {
		if errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrInvalidID) {
			utils.RespondWithError(w, http.StatusNotFound, "Chef not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update follow")
		return
	}

	account, err := h.account(r, p)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update follow")
		return
	}

	followed, isFollowed := membership.Toggle(account.FollowedChefs, chefID)
	err = db.UpdateFieldsByID(r.Context(), h.store.Identity(p.Role), p.UserID, bson.M{"followedChefs": followed})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update follow")
		return
	}

	delta := 1
	if !isFollowed {
		delta = -1
	}
	if err := h.bumpFollowers(r, chefID, delta); err != nil {
		log.Printf("profile: follower count update failed for chef %s: %v", chefID, err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"is_followed": isFollowed})
}

func (h *Handlers) bumpFollowers(r *http.Request, chefID string, delta int) error {
	oid, ok := models.ID(chefID).ObjectID()
	if !ok {
		return db.ErrInvalidID
	}
	ctx, cancel := db.WithTimeout(r.Context())
	defer cancel()
	_, err := h.store.Chefs.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"followers": delta}})
	return err
}

// UpdateProfile changes the caller's display name and avatar, then
// reissues the session cookie so the navbar reflects the change without
// a new login.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	p, _ := middleware.PrincipalFrom(r.Context())

	var body struct {
		UserName   string `json:"user_name"`
		UserAvatar string `json:"user_avatar"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	body.UserName = strings.TrimSpace(body.UserName)
	if body.UserName == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "user_name is required")
		return
	}

	fields := bson.M{"nickname": body.UserName}
	if body.UserAvatar != "" {
		fields["user_avatar"] = body.UserAvatar
	}
	if err := db.UpdateFieldsByID(r.Context(), h.store.Identity(p.Role), p.UserID, fields); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	p.UserName = body.UserName
	if body.UserAvatar != "" {
		p.UserAvatar = body.UserAvatar
	}
	if cookie, err := h.auth.IssueCookie(p); err == nil {
		http.SetCookie(w, cookie)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":     true,
		"user_name":   p.UserName,
		"user_avatar": p.UserAvatar,
	})
}
