package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	yaml "gopkg.in/yaml.v2"

	"github.com/yyyoichi/hidepix"
	"github.com/yyyoichi/hidepix/validate"
)

type Config struct {
	// Format of encoded carriers: png, bmp or tiff.
	Format           string   `yaml:"format,omitempty"`
	CompressionLevel *int     `yaml:"compression-level,omitempty"`
	MaxBytes         int64    `yaml:"max-bytes,omitempty"`
	ImageExtensions  []string `yaml:"image-extensions,omitempty"`
	AudioExtensions  []string `yaml:"audio-extensions,omitempty"`
	OutputDir        string   `yaml:"output-dir,omitempty"`

	// configPath is the file path used for reading and writing this config.
	configPath string `yaml:"-"`
}

// Policy returns the default validation policy with the configured overrides applied.
func (c *Config) Policy() validate.Policy {
	p := validate.DefaultPolicy()
	if c.MaxBytes != 0 {
		p.MaxBytes = c.MaxBytes
	}
	if len(c.ImageExtensions) > 0 {
		p.ImageExtensions = lower(c.ImageExtensions)
	}
	if len(c.AudioExtensions) > 0 {
		p.AudioExtensions = lower(c.AudioExtensions)
	}
	return p
}

// Options converts the codec settings to options for hidepix.New.
func (c *Config) Options() ([]hidepix.Option, error) {
	var opts []hidepix.Option
	if c.Format != "" {
		f, err := hidepix.ParseFormat(c.Format)
		if err != nil {
			return nil, fmt.Errorf("config format: %w", err)
		}
		opts = append(opts, hidepix.WithFormat(f))
	}
	if c.CompressionLevel != nil {
		opts = append(opts, hidepix.WithCompressionLevel(*c.CompressionLevel))
	}
	return opts, nil
}

func lower(exts []string) []string {
	out := make([]string, len(exts))
	for i, e := range exts {
		out[i] = strings.ToLower(strings.TrimPrefix(e, "."))
	}
	return out
}

// Path returns the file this config was read from.
func (c *Config) Path() string {
	return c.configPath
}

func (c *Config) Write() error {
	configPath := c.configPath
	if configPath == "" {
		var err error
		configPath, err = getDefaultConfigPath()
		if err != nil {
			return err
		}
	}
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(configDir, "config.*.tmp")
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}
	tmpPath := tmpFile.Name()

	encoder := yaml.NewEncoder(tmpFile)
	if err := encoder.Encode(c); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flush config: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp config file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp config file: %w", err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp config file: %w", err)
	}
	c.configPath = configPath
	return nil
}

// ReadConfig reads cfgPath, or $HOME/.hidepix/config when cfgPath is empty.
// A missing default file yields an empty config; an explicit path must exist.
func ReadConfig(cfgPath string) (c Config, err error) {
	resolvedPath, err := resolveConfigPath(cfgPath)
	if err != nil {
		return Config{}, err
	}

	file, err := os.OpenFile(resolvedPath, os.O_RDONLY, 0644)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{configPath: resolvedPath}, nil
		}
		return Config{}, fmt.Errorf("open config file: %w", err)
	}
	defer file.Close()
	decoder := yaml.NewDecoder(file)
	decoder.SetStrict(true)
	err = decoder.Decode(&c)
	if errors.Is(err, io.EOF) {
		return Config{configPath: resolvedPath}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.configPath = resolvedPath
	return c, nil
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func resolveConfigPath(cfgPath string) (string, error) {
	if cfgPath == "" {
		return getDefaultConfigPath()
	}
	if !fileExists(cfgPath) {
		return "", fmt.Errorf("config file %q does not exist", cfgPath)
	}
	return cfgPath, nil
}

func getDefaultConfigPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}

	return filepath.Join(home, ".hidepix", "config"), nil
}
