package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GetGlobalConfigDir returns the path to the global configuration directory (~/.zhice).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".zhice"), nil
}

// GetDataPath returns the directory the plan store lives in.
// Resolution order (first match wins):
// 1. Explicit config via "storage.path" (Viper/env/flag)
// 2. Local project directory: .zhice/data (if exists)
// 3. XDG_DATA_HOME/zhice
// 4. Global fallback: ~/.zhice/data
func GetDataPath() string {
	if path := viper.GetString(KeyStoragePath); path != "" {
		return path
	}

	localData := filepath.Join(".zhice", "data")
	if info, err := os.Stat(localData); err == nil && info.IsDir() {
		return localData
	}

	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, AppName)
	}

	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "./data"
	}
	return filepath.Join(dir, "data")
}
