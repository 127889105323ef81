package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/laserscanqa/internal/errors"
	"codeberg.org/mutker/laserscanqa/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := Execute(ctx)
	stop()

	if err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.ErrorWithCode(appErr).Msg("laserscanqa failed")
		} else {
			logger.Error().Err(err).Msg("laserscanqa failed")
		}
		os.Exit(1)
	}
}
