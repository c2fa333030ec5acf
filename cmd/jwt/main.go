// Command jwt generates a signing secret, or issues a development bearer token for a user.
package main

import (
	"bealive-agent-backend/config"
	"bealive-agent-backend/middleware"
	"crypto/rand"
	"encoding/base64"
	"flag"
	"log/slog"
	"os"
)

func generateJWTSecret() (string, error) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(key), nil
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	userID := flag.Int64("user", 0, "issue a token for this user id instead of generating a secret")
	flag.Parse()

	if *userID == 0 {
		secret, err := generateJWTSecret()
		if err != nil {
			slog.Error("Error generating secret", "err", err)
			os.Exit(1)
		}
		slog.Info("Generated JWT Secret:", "secret", secret)
		return
	}

	if err := config.Init(*configPath); err != nil {
		slog.Error("Error loading config", "err", err)
		os.Exit(1)
	}
	token, err := middleware.GenerateToken(*userID)
	if err != nil {
		slog.Error("Error generating token", "err", err)
		os.Exit(1)
	}
	slog.Info("Generated token:", "user_id", *userID, "token", token)
}
