package config

import (
	"log"
	"os"
)

// MatrixConfig carries the homeserver settings for the chat room service.
// Loaded once at startup and injected into the service constructor; business
// logic never reads the environment directly.
type MatrixConfig struct {
	// HomeserverURL is the base URL of the Matrix homeserver
	// (e.g. "https://matrix.openmeet.net").
	HomeserverURL string
	// ServerName is the domain part of Matrix identifiers on this
	// homeserver (e.g. "matrix.openmeet.net").
	ServerName string
	// AdminUsername/AdminPassword are the credentials of the automation
	// account that performs all room administration.
	AdminUsername string
	AdminPassword string
	// DefaultTenantID is used for requests that carry no tenant header.
	DefaultTenantID string
}

// LoadMatrix reads the Matrix settings from the environment. Missing
// homeserver settings are fatal: every chat operation needs them.
func LoadMatrix() MatrixConfig {
	cfg := MatrixConfig{
		HomeserverURL:   os.Getenv("MATRIX_HOMESERVER_URL"),
		ServerName:      os.Getenv("MATRIX_SERVER_NAME"),
		AdminUsername:   os.Getenv("MATRIX_ADMIN_USERNAME"),
		AdminPassword:   os.Getenv("MATRIX_ADMIN_PASSWORD"),
		DefaultTenantID: os.Getenv("DEFAULT_TENANT_ID"),
	}
	if cfg.HomeserverURL == "" || cfg.AdminUsername == "" {
		log.Fatal("MATRIX_HOMESERVER_URL and MATRIX_ADMIN_USERNAME are required")
	}
	if cfg.DefaultTenantID == "" {
		cfg.DefaultTenantID = "default"
	}
	return cfg
}
