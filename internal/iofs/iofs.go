// Package iofs manages files and directories kpilake keeps on the local
// file system.
package iofs

import (
	"bytes"
	_ "embed"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/kpilake/kpilake/pkg/config"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var ConfigYAML string

// EnsureDirs creates configuration and log directories.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

// EnsureParentDir creates the directory of a file path.
func EnsureParentDir(path string) error {
	return touchDir(filepath.Dir(path))
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes the default config.yaml if there is none.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// ValidateConfigFile checks that the config file is valid YAML and has
// no unknown keys. Viper silently ignores misspelled keys, this catches
// them.
func ValidateConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return ReadFileError(path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var cfg config.Config
	if err = dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return ConfigFormatError(path, err)
	}
	return nil
}

// ReadFile reads a local file.
func ReadFile(path string) ([]byte, error) {
	res, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadFileError(path, err)
	}
	return res, nil
}
