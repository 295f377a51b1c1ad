package infra

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// SetupLogging configures the global logrus logger: JSON in production, text elsewhere
func SetupLogging(level string, production bool) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	log.SetLevel(lvl)

	if production {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
