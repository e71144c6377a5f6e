package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. Gateway credentials
// and the webhook secret are carried here and handed to the components that
// need them at construction time; nothing reads the environment at a call
// site.
type Config struct {
	DBHost                string
	DBPort                string
	DBUser                string
	DBPassword            string
	DBName                string
	JWTSecret             string
	RazorpayKey           string
	RazorpaySecret        string
	RazorpayWebhookSecret string
	Port                  string
	Env                   string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// .env is optional outside local development
	_ = godotenv.Load()

	config := &Config{
		DBHost:                os.Getenv("DB_HOST"),
		DBPort:                os.Getenv("DB_PORT"),
		DBUser:                os.Getenv("DB_USER"),
		DBPassword:            os.Getenv("DB_PASSWORD"),
		DBName:                os.Getenv("DB_NAME"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		RazorpayKey:           os.Getenv("RAZORPAY_KEY"),
		RazorpaySecret:        os.Getenv("RAZORPAY_SECRET"),
		RazorpayWebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),
		Port:                  os.Getenv("PORT"),
		Env:                   os.Getenv("ENV"),
	}

	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if config.RazorpaySecret == "" {
		return nil, fmt.Errorf("RAZORPAY_SECRET is required")
	}
	if config.Port == "" {
		config.Port = "8080"
	}

	return config, nil
}
