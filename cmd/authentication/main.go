// This is a **mock authentication service**, designed to provide JWT tokens
// for the directory's admin endpoint (catalog reload), simulating user
// authentication.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gartstein/directory/internal/directory/auth"
	"github.com/gartstein/directory/internal/directory/config"
	"go.uber.org/zap"
)

const (
	defaultPort   = 8081         // Default port for the authentication service
	defaultSecret = "jwt_secret" // Secret for signing JWT
	defaultUserID = "12345"
)

// TokenResponse represents the response structure
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// tokenHandler issues a JWT for the user named by the "user" query
// parameter, or a fixed demo user.
func tokenHandler(secret string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user")
		if userID == "" {
			userID = defaultUserID
		}

		token, err := auth.GenerateToken(userID, secret, auth.DefaultTokenTTL)
		if err != nil {
			logger.Error("Failed to generate token", zap.Error(err))
			http.Error(w, "Failed to generate token", http.StatusInternalServerError)
			return
		}

		resp := TokenResponse{Token: token, ExpiresAt: time.Now().Add(auth.DefaultTokenTTL).UTC()}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("Failed to encode token", zap.Error(err))
		}
	}
}

// resolveSecret prefers the JWT_SECRET environment variable, then the
// config file, then the built-in default.
func resolveSecret(configPath string) string {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return secret
	}
	if cfg, err := config.Load(configPath); err == nil && cfg.JWTSecret != "" {
		return cfg.JWTSecret
	}
	return defaultSecret
}

func main() {
	port := flag.Int("port", defaultPort, "listen port")
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	mux := http.NewServeMux()
	mux.Handle("/token", tokenHandler(resolveSecret(*configPath), logger))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("Authentication service running", zap.String("addr", addr))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("Authentication service stopped", zap.Error(err))
	}
}
