package recipes

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tasteknowledge/db"
	"tasteknowledge/middleware"
	"tasteknowledge/models"
	"tasteknowledge/utils"
)

type createCommentRequest struct {
	Description string   `json:"description"`
	Rate        *float64 `json:"rate"`
}

// CreateComment posts a comment, optionally rated 1 to 5, and recomputes
// the recipe's aggregate rating before responding so the client sees the
// fresh value.
func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, _ := middleware.PrincipalFrom(r.Context())
	recipeID := ps.ByName("id")

	rec, err := h.store.RecipeByID(r.Context(), recipeID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrInvalidID) {
			utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to post comment")
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "description is required")
		return
	}
	rate := models.Rate{}
	if req.Rate != nil {
		if *req.Rate < 1 || *req.Rate > 5 {
			utils.RespondWithError(w, http.StatusBadRequest, "rate must be between 1 and 5")
			return
		}
		rate = models.NewRate(*req.Rate)
	}

	oid := primitive.NewObjectID()
	comment := models.Comment{
		ID:          models.ID(oid.Hex()),
		RecipeID:    models.ID(string(rec.ID)),
		UserID:      models.ID(p.UserID),
		UserName:    p.UserName,
		UserAvatar:  p.UserAvatar,
		Description: req.Description,
		Rate:        rate,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := db.InsertOne(r.Context(), h.store.Comments, comment); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to post comment")
		return
	}
	if err := db.Push(r.Context(), h.store.Recipes, recipeID, "commentsList", oid); err != nil {
		log.Printf("comments: commentsList push failed for recipe %s: %v", recipeID, err)
	}

	if _, err := h.enricher.RecomputeRating(r.Context(), recipeID); err != nil {
		log.Printf("comments: rating recompute failed for recipe %s: %v", recipeID, err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"status":  "success",
		"comment": comment,
	})
}

// DeleteComment removes a comment. The author may delete their own;
// anyone with the chef role may moderate. The rating is recomputed
// afterwards.
func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, _ := middleware.PrincipalFrom(r.Context())
	recipeID := ps.ByName("id")
	commentID := ps.ByName("commentId")

	comment, err := db.FindOneByID[models.Comment](r.Context(), h.store.Comments, commentID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrInvalidID) {
			utils.RespondWithError(w, http.StatusNotFound, "Comment not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete comment")
		return
	}

	if string(comment.UserID) != p.UserID && !p.IsChef() {
		utils.RespondWithError(w, http.StatusForbidden, "Not allowed")
		return
	}

	if err := db.DeleteByID(r.Context(), h.store.Comments, commentID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete comment")
		return
	}
	if err := db.Pull(r.Context(), h.store.Recipes, recipeID, "commentsList", "commentId", commentID); err != nil {
		log.Printf("comments: commentsList pull failed for recipe %s: %v", recipeID, err)
	}

	if _, err := h.enricher.RecomputeRating(r.Context(), recipeID); err != nil {
		log.Printf("comments: rating recompute failed for recipe %s: %v", recipeID, err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "success"})
}
