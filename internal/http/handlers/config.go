package handlers

import (
	intconfig "fleet-backend/internal/config"
)

var cfg intconfig.Env

// Configure hands the loaded environment to the handler package. Called once
// from the router before any route is mounted.
func Configure(env intconfig.Env) {
	cfg = env
}

func jwtSecret() []byte {
	return []byte(cfg.JWTSecret)
}
