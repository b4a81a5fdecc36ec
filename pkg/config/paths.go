package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".educonnect-session"
	}
	return filepath.Join(dir, "educonnect", "session")
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
