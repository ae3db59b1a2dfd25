package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	MongoURI       string
	MongoDB        string
	ServerAddr     string
	FrontendOrigin string

	RedisURL        string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTLSeconds int

	AdminAPIKey      string
	JWTSecret        string
	AccessTTLMinutes int

	RateLimitAuth         int
	RateLimitAppointments int
	RateLimitWindowSec    int

	BrevoAPIKey      string
	BrevoSenderEmail string
	BrevoSenderName  string
	ResetURLBase     string

	WhatsApp WhatsAppConfig
	Reminder ReminderConfig

	Timezone *time.Location
}

// WhatsAppConfig gates the real channel: Enabled plus both credentials are
// required before any outbound call is attempted.
type WhatsAppConfig struct {
	Enabled       bool
	SenderID      string
	AccessToken   string
	APIVersion    string
	CountryPrefix string
}

type ReminderConfig struct {
	TickInterval time.Duration
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	loc, err := time.LoadLocation(getEnv("TZ", "Europe/Madrid"))
	if err != nil {
		return nil, err
	}

	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017/tacbarber")
	mongoDB := getEnv("MONGO_DB", "")
	if mongoDB == "" {
		mongoDB = mongoDBFromURI(mongoURI)
	}
	if mongoDB == "" {
		mongoDB = "tacbarber"
	}

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		MongoURI:       mongoURI,
		MongoDB:        mongoDB,
		ServerAddr:     getEnv("SERVER_ADDR", ":8080"),
		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),

		RedisURL:        getEnv("REDIS_URL", ""),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 60),

		AdminAPIKey:      getEnv("ADMIN_API_KEY", ""),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		AccessTTLMinutes: getEnvInt("ACCESS_TTL_MINUTES", 60),

		RateLimitAuth:         getEnvInt("RATE_LIMIT_AUTH", 5),
		RateLimitAppointments: getEnvInt("RATE_LIMIT_APPOINTMENTS", 10),
		RateLimitWindowSec:    getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),

		BrevoAPIKey:      getEnv("BREVO_API_KEY", ""),
		BrevoSenderEmail: getEnv("BREVO_SENDER_EMAIL", ""),
		BrevoSenderName:  getEnv("BREVO_SENDER_NAME", "TacBarber"),
		ResetURLBase:     getEnv("RESET_URL_BASE", "http://localhost:3000/resetear-password.html"),

		WhatsApp: WhatsAppConfig{
			Enabled:       getEnv("WHATSAPP_ENABLED", "false") == "true",
			SenderID:      getEnv("WHATSAPP_SENDER_ID", ""),
			AccessToken:   getEnv("WHATSAPP_ACCESS_TOKEN", ""),
			APIVersion:    getEnv("WHATSAPP_API_VERSION", "v20.0"),
			CountryPrefix: getEnv("WHATSAPP_COUNTRY_PREFIX", "34"),
		},
		Reminder: ReminderConfig{
			TickInterval: time.Duration(getEnvInt("REMINDER_TICK_SECONDS", 60)) * time.Second,
		},

		Timezone: loc,
	}

	return cfg, nil
}

func mongoDBFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	db := strings.Trim(u.Path, "/")
	if db == "" {
		return ""
	}
	// mongodb URIs sometimes include extra path segments; we only support the first one as db name.
	if idx := strings.Index(db, "/"); idx >= 0 {
		db = db[:idx]
	}
	return db
}
