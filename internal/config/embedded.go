package config

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/tildaslashalef/snapreview/internal/loggy"
)

// sampleEnvFile is the commented .env written by init
const sampleEnvFile = "env.sample"

//go:embed env.sample
var configFS embed.FS

// SetupConfigDirectory creates configDir and writes the sample .env into it.
// An existing .env is kept unless backupExisting is set, in which case it is
// copied aside before being replaced.
func SetupConfigDirectory(configDir string, backupExisting bool) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	target := filepath.Join(configDir, defaultEnvFileName)
	backup, err := ExtractEmbeddedFile(sampleEnvFile, target, backupExisting)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	if backup != "" {
		loggy.Info("Backed up existing configuration", "original", target, "backup", backup)
	}
	return nil
}

// ExtractEmbeddedFile writes an embedded file to targetPath. When targetPath
// exists it is left untouched, or with backupExisting copied to
// <targetPath>.<timestamp>.bak and then overwritten. The backup path is
// returned when one was made.
func ExtractEmbeddedFile(embeddedPath, targetPath string, backupExisting bool) (string, error) {
	data, err := configFS.ReadFile(embeddedPath)
	if err != nil {
		return "", err
	}

	var backupPath string
	existing, err := os.ReadFile(targetPath)
	switch {
	case err == nil && !backupExisting:
		loggy.Debug("Keeping existing file", "target", targetPath)
		return "", nil
	case err == nil:
		backupPath = fmt.Sprintf("%s.%s.bak", targetPath, time.Now().Format("20060102-150405"))
		if err := os.WriteFile(backupPath, existing, 0600); err != nil {
			return "", fmt.Errorf("failed to write backup file: %w", err)
		}
	case !os.IsNotExist(err):
		return "", fmt.Errorf("failed to read existing file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return "", err
	}
	// The .env holds the API key
	if err := os.WriteFile(targetPath, data, 0600); err != nil {
		return "", err
	}

	loggy.Info("Extracted embedded file", "source", embeddedPath, "target", targetPath)
	return backupPath, nil
}

// ListEmbeddedFiles returns the names of the embedded config files, sorted
func ListEmbeddedFiles() []string {
	var files []string
	_ = fs.WalkDir(configFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files
}
