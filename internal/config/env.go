package config

import (
	stderrors "errors"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/errors"
)

// ParseEnv loads configuration from environment variables into target
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "parse env")
	}
	return nil
}

// LoadDotEnv loads variables from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped; with no arguments ".env" is tried. It returns the files
// that were loaded.
func LoadDotEnv(files ...string) ([]string, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	var loaded []string
	for _, file := range files {
		if _, err := os.Stat(file); stderrors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return loaded, errors.Wrapf(err, "load %s", file)
		}
		loaded = append(loaded, file)
	}
	return loaded, nil
}
