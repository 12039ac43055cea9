// Package auth implements registration, login, and session handling for
// the two account roles. Users and chefs live in separate collections;
// the role on the login form decides which one is consulted.
package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"tasteknowledge/db"
	"tasteknowledge/middleware"
	"tasteknowledge/models"
	"tasteknowledge/utils"
)

type Handlers struct {
	store         *db.Store
	auth          *middleware.Auth
	defaultAvatar string
}

func NewHandlers(store *db.Store, auth *middleware.Auth, defaultAvatar string) *Handlers {
	return &Handlers{store: store, auth: auth, defaultAvatar: defaultAvatar}
}

// Register creates an account from a form submission. Email uniqueness
// holds per collection, so the same address may exist once as a user and
// once as a chef.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	nickname := strings.TrimSpace(r.FormValue("nickname"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	role := r.FormValue("role")

	if nickname == "" || email == "" || password == "" || role == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing fields")
		return
	}

	coll := h.store.Identity(role)
	if _, err := db.FindOneBy[models.User](r.Context(), coll, bson.M{"email": email}); err == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Email already registered")
		return
	} else if !errors.Is(err, db.ErrNotFound) {
		utils.RespondWithError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	_, err = db.InsertOne(r.Context(), coll, bson.M{
		"nickname":    nickname,
		"email":       email,
		"password":    string(hashed),
		"user_avatar": h.defaultAvatar,
	})
	if err != nil {
		log.Printf("auth: register insert failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success":  true,
		"redirect": "/login",
	})
}

// Login verifies form credentials against the role's collection and
// issues the session cookie.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	role := r.FormValue("role")

	if email == "" || password == "" || role == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Please fill in all fields")
		return
	}

	account, err := db.FindOneBy[models.User](r.Context(), h.store.Identity(role), bson.M{"email": email})
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		utils.RespondWithError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	if account == nil || !passwordMatches(account.Password, password) {
		utils.RespondWithJSON(w, http.StatusUnauthorized, utils.M{
			"success": false,
			"message": "Invalid email or password",
		})
		return
	}

	principal := middleware.Principal{
		UserID:     string(account.ID),
		Role:       role,
		UserName:   account.DisplayName(),
		UserAvatar: account.AvatarOrDefault(h.defaultAvatar),
	}
	cookie, err := h.auth.IssueCookie(principal)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	http.SetCookie(w, cookie)

	dest := "/"
	if role == "chef" {
		dest = "/chefProfile"
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":  true,
		"redirect": dest,
		"role":     role,
	})
}

// Logout clears the session cookie.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	http.SetCookie(w, middleware.ClearedCookie())
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":  true,
		"redirect": "/",
	})
}

// Session reports the caller's session state for the navbar.
func (h *Handlers) Session(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"logged_in": false})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"logged_in":   true,
		"user_id":     p.UserID,
		"user_name":   p.UserName,
		"user_avatar": p.UserAvatar,
		"role":        p.Role,
	})
}

// passwordMatches checks a bcrypt hash, falling back to a plaintext
// comparison for legacy accounts seeded before hashing existed.
func passwordMatches(stored, given string) bool {
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)); err == nil {
		return true
	}
	return stored != "" && stored == given
}
