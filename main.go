package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"tasteknowledge/auth"
	"tasteknowledge/chefbot"
	"tasteknowledge/config"
	"tasteknowledge/db"
	"tasteknowledge/enrich"
	"tasteknowledge/ingredients"
	"tasteknowledge/middleware"
	"tasteknowledge/profile"
	"tasteknowledge/ratelim"
	"tasteknowledge/recipes"
	"tasteknowledge/routes"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s - %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

// sessionStore picks Redis when configured and falls back to the
// in-process store otherwise.
func sessionStore(redisURL string) chefbot.SessionStore {
	if redisURL == "" {
		log.Println("No REDIS_URL set; assistant sessions held in memory")
		return chefbot.NewMemoryStore()
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("Invalid REDIS_URL (%v); assistant sessions held in memory", err)
		return chefbot.NewMemoryStore()
	}
	return chefbot.NewRedisStore(redis.NewClient(opts))
}

func setupRouter(cfg config.Config, store *db.Store) *httprouter.Router {
	mw := middleware.NewAuth(string(cfg.JWTSecret))
	enricher := enrich.New(store, cfg.DefaultAvatar)
	limiter := ratelim.New(5, 1)

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost" + cfg.Port
	}

	authHandlers := auth.NewHandlers(store, mw, cfg.DefaultAvatar)
	recipeHandlers := recipes.NewHandlers(store, enricher, baseURL)
	profileHandlers := profile.NewHandlers(store, enricher, mw, cfg.DefaultAvatar)
	ingredientHandlers := ingredients.NewHandlers(store)
	botHandlers := chefbot.NewHandlers(
		chefbot.NewClient(cfg.HFBaseURL, cfg.HFAPIKey, cfg.HFModel),
		sessionStore(cfg.RedisURL),
	)
	if cfg.HFAPIKey == "" {
		log.Println("No HUGGINGFACE_API_KEY set; assistant disabled")
	}

	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddAuthRoutes(router, authHandlers, mw, limiter)
	routes.AddRecipeRoutes(router, recipeHandlers, mw)
	routes.AddProfileRoutes(router, profileHandlers, mw)
	routes.AddIngredientRoutes(router, ingredientHandlers)
	routes.AddChefBotRoutes(router, botHandlers, mw, limiter)

	return router
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}
	cfg := config.Load()

	store, err := db.Connect(cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}

	router := setupRouter(cfg, store)

	// CORS -> security headers -> logging -> router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}
	if err := store.Close(ctx); err != nil {
		log.Printf("MongoDB disconnect failed: %v", err)
	}

	log.Println("Server stopped cleanly")
}
