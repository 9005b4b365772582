package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "jonah"

// DefaultWorkDir is where git sources are cloned when --work-dir is not given.
//
//	Linux:   $XDG_CACHE_HOME/jonah or ~/.cache/jonah
//	macOS:   ~/Library/Caches/jonah
func DefaultWorkDir() string {
	return filepath.Join(xdg.CacheHome, appName)
}
