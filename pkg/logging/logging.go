// Package logging configures the shared zap logger for the CLI.
package logging

import (
	"go.uber.org/zap"
)

// Logger is the configured logger. Set by Setup.
var Logger *zap.Logger

// Setup builds the logger (development config when debug is set, production
// otherwise) with the application name and version attached to every entry,
// and installs it as the zap global.
func Setup(debug bool, appName, appVersion string) error {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	cfg.InitialFields = map[string]interface{}{
		"appName":    appName,
		"appVersion": appVersion,
	}

	logger, err := cfg.Build()
	if err != nil {
		Logger = zap.NewExample()
		return err
	}

	Logger = logger
	zap.ReplaceGlobals(Logger)
	return nil
}
