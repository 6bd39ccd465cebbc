package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"browser-matrix/internal/app"
	"browser-matrix/internal/config"
	"browser-matrix/internal/matcher"
)

func main() {
	cfg := config.Load()
	config.SetupLogging(cfg.LogLevel)

	if err := app.Run(context.Background(), cfg); err != nil {
		// Unsatisfiable specs carry their own JSON; print it plainly so the
		// offending declaration is visible without log decoration.
		var ce *matcher.ConfigError
		if errors.As(err, &ce) {
			fmt.Fprintln(os.Stderr, ce.Error())
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("run failed")
	}
}
