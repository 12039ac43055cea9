package config

import "os"

// DefaultAvatar is used when a user or chef has no avatar set.
const DefaultAvatar = "https://imgs.search.brave.com/GgV2avlvxYDeuhFu8D5KI3V8PNMBf6gEm59lDgvqhmg/rs:fit:860:0:0:0/g:ce/aHR0cHM6Ly9pLnBp/bmltZy5jb20vb3Jp/Z2luYWxzLzIzLzkx/LzllLzIzOTE5ZTlm/ZWRlYjIwZjljMDY3/OWYxYjI1NzllMzc0/LmpwZw"

type Config struct {
	Port          string
	MongoURI      string
	DBName        string
	RedisURL      string
	JWTSecret     []byte
	HFAPIKey      string
	HFModel       string
	HFBaseURL     string
	DefaultAvatar string
}

// Load reads configuration from the environment. main loads .env first.
func Load() Config {
	cfg := Config{
		Port:          getenv("PORT", ":8080"),
		MongoURI:      getenv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:        getenv("DB_NAME", "tasteknowledge"),
		RedisURL:      os.Getenv("REDIS_URL"),
		JWTSecret:     []byte(getenv("JWT_SECRET", "change_me_in_production")),
		HFAPIKey:      os.Getenv("HUGGINGFACE_API_KEY"),
		HFModel:       getenv("HF_MODEL", "meta-llama/Llama-3.2-3B-Instruct"),
		HFBaseURL:     getenv("HF_BASE_URL", "https://router.huggingface.co/v1"),
		DefaultAvatar: getenv("DEFAULT_AVATAR", DefaultAvatar),
	}
	if cfg.Port[0] != ':' {
		cfg.Port = ":" + cfg.Port
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
