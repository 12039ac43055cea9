// Package routes binds handlers to the router. Each Add function covers
// one area of the API surface.
package routes

import (
	"github.com/julienschmidt/httprouter"

	"tasteknowledge/auth"
	"tasteknowledge/chefbot"
	"tasteknowledge/ingredients"
	"tasteknowledge/middleware"
	"tasteknowledge/profile"
	"tasteknowledge/ratelim"
	"tasteknowledge/recipes"
)

func AddAuthRoutes(router *httprouter.Router, h *auth.Handlers, mw *middleware.Auth, rl *ratelim.RateLimiter) {
	router.POST("/register", rl.Limit(h.Register))
	router.POST("/login", rl.Limit(h.Login))
	router.POST("/logout", h.Logout)
	router.POST("/api/logout", h.Logout)
	router.GET("/api/session", mw.OptionalAuth(h.Session))
}

func AddRecipeRoutes(router *httprouter.Router, h *recipes.Handlers, mw *middleware.Auth) {
	router.GET("/api/recipes", h.List)
	router.POST("/api/recipes", mw.RequireChef(h.Create))
	// /api/recipes/followed resolves through the :id wildcard; Get
	// dispatches it to the feed.
	router.GET("/api/feed/followed", mw.Authenticate(h.Followed))
	router.GET("/api/recipes/:id", mw.OptionalAuth(h.Get))
	router.DELETE("/api/recipes/:id", mw.RequireChef(h.Delete))
	router.GET("/api/recipes/:id/card", h.Card)
	router.POST("/api/recipes/:id/comments", mw.Authenticate(h.CreateComment))
	router.DELETE("/api/recipes/:id/comments/:commentId", mw.Authenticate(h.DeleteComment))
	router.GET("/api/search", h.Search)
}

func AddProfileRoutes(router *httprouter.Router, h *profile.Handlers, mw *middleware.Auth) {
	router.GET("/api/user/favorites", mw.Authenticate(h.Favorites))
	router.POST("/api/user/favorites/toggle", mw.Authenticate(h.ToggleFavorite))
	router.GET("/api/chefs/:id", mw.OptionalAuth(h.ChefProfile))
	router.POST("/api/chefs/:id/follow", mw.Authenticate(h.ToggleFollow))
	router.POST("/api/update_profile", mw.Authenticate(h.UpdateProfile))
}

func AddIngredientRoutes(router *httprouter.Router, h *ingredients.Handlers) {
	router.GET("/api/ingredients/search", h.Search)
}

func AddChefBotRoutes(router *httprouter.Router, h *chefbot.Handlers, mw *middleware.Auth, rl *ratelim.RateLimiter) {
	router.POST("/set_recipe", mw.OptionalAuth(h.SetRecipe))
	router.POST("/chat", mw.OptionalAuth(rl.Limit(h.Chat)))
}
