package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"hoteldesk-panel/internal/config"
	"hoteldesk-panel/internal/logger"
	"hoteldesk-panel/internal/security"
)

// Issues a desk operator access token signed with the configured JWT secret.
func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	operatorID := flag.String("operator", "", "Operator ID to put in the token subject")
	roles := flag.String("roles", "", "Comma-separated operator roles")
	flag.Parse()

	if *operatorID == "" {
		log.Fatalf("-operator is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// stdout carries only the token
	logger.InitializeWithWriter(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	var roleList []string
	for _, r := range strings.Split(*roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roleList = append(roleList, r)
		}
	}

	tm := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())
	token, err := tm.GenerateAccessToken(*operatorID, cfg.Backend.HotelID, roleList)
	if err != nil {
		logger.Error("Failed to sign access token", "operator_id", *operatorID, "error", err)
		log.Fatalf("Failed to sign access token: %v", err)
	}
	logger.Debug("Access token issued", "operator_id", *operatorID, "roles", roleList, "ttl", cfg.AccessTokenTTL())
	fmt.Println(token)
}
