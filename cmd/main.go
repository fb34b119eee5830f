package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/podfetch-console/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	err := runner.App().Run(context.Background(), os.Args)
	if cerr := runner.Close(); cerr != nil {
		logger.Warn("failed to close database", "error", cerr)
	}

	if err != nil {
		if errors.Is(err, shared.ErrUserExists) {
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
