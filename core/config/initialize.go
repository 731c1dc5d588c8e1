package config

import (
	"log"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration into the directory,
// refusing to overwrite an existing one, then loads it back.
func Initialize(path string, logger *log.Logger) (*Configuration, error) {
	return InitializeFs(afero.NewOsFs(), path, logger)
}

// InitializeFs is Initialize against an arbitrary filesystem.
func InitializeFs(fs afero.Fs, path string, logger *log.Logger) (*Configuration, error) {
	configPath := filepath.Join(path, ConfigurationName)

	exists, err := afero.Exists(fs, configPath)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Printf("Configuration %q already exists, leaving as-is", configPath)
	} else {
		logger.Printf("Writing default configuration to %q", configPath)
		if err := afero.WriteFile(fs, configPath, defaultConfigData, 0600); err != nil {
			return nil, err
		}
	}

	return LoadFs(fs, path)
}
