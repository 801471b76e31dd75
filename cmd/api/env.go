package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// envFileVar names an alternative dotenv file.
const envFileVar = "CALC_ENV_FILE"

// loadDotEnv loads CALC_* and OTEL_* settings from $CALC_ENV_FILE, or .env
// when that is unset. A missing file is not an error. Variables already in
// the process environment win.
func loadDotEnv() error {
	path := os.Getenv(envFileVar)
	if path == "" {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
