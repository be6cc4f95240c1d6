package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBDSN         string
	JWTSecret     string
	TokenTTLHours int

	// Optional integrations. Empty values disable the integration and the
	// service falls back to a local substitute (see cmd/tradewind/main.go).
	RedisAddr     string
	CloudinaryURL string
	UploadDir     string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	LogFile string
}

func Load() Config {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := Config{
		Port:          getenv("PORT", "5000"),
		DBDSN:         getenv("DB_DSN", "tradewind.db"),
		JWTSecret:     getenv("JWT_SECRET", ""),
		TokenTTLHours: getint("TOKEN_TTL_HOURS", 1),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
		UploadDir:     getenv("UPLOAD_DIR", "./uploads"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getint("SMTP_PORT", 587),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		MailFrom:      getenv("MAIL_FROM", "orders@tradewind.test"),
		LogFile:       os.Getenv("LOG_FILE"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[config] JWT_SECRET is required")
	}
	log.Printf("[config] PORT=%s DB_DSN=%s REDIS=%q SMTP=%q CLOUDINARY=%v",
		cfg.Port, cfg.DBDSN, cfg.RedisAddr, cfg.SMTPHost, cfg.CloudinaryURL != "")
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] %s=%q is not a number, using %d", key, v, def)
		return def
	}
	return n
}
