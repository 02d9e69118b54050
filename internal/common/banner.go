package common

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner and logs the resolved source
func PrintBanner(config *Config, logger arbor.ILogger) {
	banner.Print("Treatyview", GetVersion())

	logger.Info().
		Str("version", GetFullVersion()).
		Str("environment", config.Environment).
		Str("source", config.Source.Path).
		Int("min_year", config.Period.MinYear).
		Int("max_year", config.Period.MaxYear).
		Msg("Treatyview starting")
}
