package common

import (
	"os"
	"path/filepath"
)

// GetConfigDir returns the path to the application configuration
// directory, creating it if necessary.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", Wrapf(ErrRead, "common: Failed to get home directory (%s)", err)
	}

	configDir := filepath.Join(homeDir, ".config", ConfigDirName)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", Wrapf(ErrWrite, "common: Failed to create config directory (%s)", err)
	}

	return configDir, nil
}

// GetProfilesDir returns the directory holding the persisted profile
// records. The directory is not created; an absent directory means no
// profiles exist yet.
func GetProfilesDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, ProfilesDirName), nil
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
