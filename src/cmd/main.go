package main

import (
	"os"
	"strings"

	cfg "stylerelay/src/configuration"
	server "stylerelay/src/server"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	log.Info().Msg("starting style relay...")

	if err := cfg.LoadDotEnv(".env"); err != nil {
		log.Fatal().Err(err).Msg("could not read .env file")
	}

	config, err := cfg.ReadProperties()
	if err != nil {
		log.Fatal().Err(err).Msg("could not read config")
	}

	logLevel, err := zerolog.ParseLevel(strings.ToLower(config.LogLevel))
	if err != nil || logLevel == zerolog.NoLevel {
		log.Warn().Str("level", config.LogLevel).Msg("unknown log level, falling back to info")
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	log.Debug().
		Str("port", config.Port).
		Str("mode", config.Server.Mode).
		Str("upstream", config.Recraft.URL).
		Dur("upstreamTimeout", config.Recraft.Timeout).
		Bool("apiKeySet", config.HasAPIKey()).
		Msg("config loaded")

	if err := server.RunServer(config); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}
