package config

import "os"

type R2 struct {
	AccountID string
	AccessKey string
	SecretKey string
	PublicURL string
}

type Config struct {
	FacebookAppID        string
	FacebookAppSecret    string
	FacebookRedirectURI  string
	InstagramAppID       string
	InstagramAppSecret   string
	InstagramRedirectURI string
	GoogleClientID       string
	GoogleClientSecret   string
	GoogleRedirectURI    string
	PostgresURI          string
	RedisURI             string
	FrontendURL          string
	R2                   R2
	SecretKey            string

	// Platform API bases, overridable for local testing.
	FacebookGraphURL  string
	InstagramGraphURL string
	GmbAPIURL         string
}

func LoadConfig() *Config {
	return &Config{
		FacebookAppID:        getEnv("FACEBOOK_APP_ID", ""),
		FacebookAppSecret:    getEnv("FACEBOOK_APP_SECRET", ""),
		FacebookRedirectURI:  getEnv("FACEBOOK_REDIRECT_URI", ""),
		InstagramAppID:       getEnv("INSTAGRAM_APP_ID", ""),
		InstagramAppSecret:   getEnv("INSTAGRAM_APP_SECRET", ""),
		InstagramRedirectURI: getEnv("INSTAGRAM_REDIRECT_URI", ""),
		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:    getEnv("GOOGLE_REDIRECT_URI", ""),
		PostgresURI:          getEnv("POSTGRES_URI", ""),
		RedisURI:             getEnv("REDIS_URI", "127.0.0.1:6379"),
		FrontendURL:          getEnv("FRONTEND_URL", "http://localhost:5173"),
		R2: R2{
			AccountID: getEnv("R2_ACCOUNT_ID", ""),
			AccessKey: getEnv("R2_ACCESS_KEY", ""),
			SecretKey: getEnv("R2_SECRET_KEY", ""),
			PublicURL: getEnv("R2_PUBLIC_URL", ""),
		},
		SecretKey:         getEnv("SECRET_KEY", ""),
		FacebookGraphURL:  getEnv("FACEBOOK_GRAPH_URL", "https://graph.facebook.com/v21.0"),
		InstagramGraphURL: getEnv("INSTAGRAM_GRAPH_URL", "https://graph.instagram.com/v21.0"),
		GmbAPIURL:         getEnv("GMB_API_URL", "https://mybusiness.googleapis.com/v4"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
