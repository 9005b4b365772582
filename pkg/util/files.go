package util

import (
	"os"

	"github.com/rs/zerolog/log"
)

// RemoveDir deletes a directory tree. A missing directory is not an error.
func RemoveDir(dir string) error {
	log.Info().Str("dir", dir).Msg("Removing")
	if err := os.RemoveAll(dir); err != nil {
		log.Error().Err(err).Str("dir", dir).Msg("Failed to remove")
		return err
	}
	return nil
}
