// Package logger builds the application's zap logger.
package logger

import "go.uber.org/zap"

// New returns a production logger in prod and a human-readable
// development logger everywhere else.
func New(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
