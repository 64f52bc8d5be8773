// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the shared structured logger.
package logging

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a sugared zap logger. Mode "prod"/"production" selects the
// JSON production encoder; anything else the development console encoder.
func New(mode string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// Nop returns a logger that discards everything. Used by tests and as the
// default when a caller passes nil.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
