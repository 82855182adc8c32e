// Package logger wraps zap construction so the rest of the code only
// deals with *zap.Logger.
package logger

import (
	"go.uber.org/zap"
)

// New builds the application logger. Debug mode logs human-readable
// output; anything else logs production JSON.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
