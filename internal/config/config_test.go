package config

import (
	"os"
	"path/filepath"
	"testing"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yyyoichi/hidepix"
)

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")
	err := os.WriteFile(path, []byte(`format: tiff
compression-level: 0
max-bytes: 2048
image-extensions:
  - PNG
  - .tiff
audio-extensions:
  - flac
output-dir: /tmp/hidepix
`), 0644)
	require.NoError(t, err)

	cfg, err := ReadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "tiff", cfg.Format)
	require.NotNil(t, cfg.CompressionLevel)
	require.Equal(t, 0, *cfg.CompressionLevel)
	require.Equal(t, "/tmp/hidepix", cfg.OutputDir)
	require.Equal(t, path, cfg.Path())

	p := cfg.Policy()
	assert.Equal(t, []string{"png", "tiff"}, p.ImageExtensions)
	assert.Equal(t, []string{"flac"}, p.AudioExtensions)
	assert.Equal(t, int64(2048), p.MaxBytes)

	opts, err := cfg.Options()
	require.NoError(t, err)
	s, err := hidepix.New(opts...)
	require.NoError(t, err)
	assert.Equal(t, hidepix.FormatTIFF, s.Format())
}

func TestReadConfig_ExplicitPathMustExist(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadConfig(filepath.Join(dir, "nope"))
	require.Error(t, err)
}

func TestReadConfig_MissingDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	cfg, err := ReadConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Format)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".hidepix", "config"), cfg.Path())
	assert.Equal(t, int64(100*1024*1024), cfg.Policy().MaxBytes)
}

func TestReadConfig_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	cfg, err := ReadConfig(path)
	require.NoError(t, err)
	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Empty(t, opts)
}

func TestReadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"unknown key": "colour: red\n",
		"bad yaml":    "format: [png\n",
	} {
		path := filepath.Join(dir, "config")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		_, err := ReadConfig(path)
		assert.Error(t, err, name)
	}
}

func TestOptionsInvalid(t *testing.T) {
	cfg := Config{Format: "jpeg"}
	_, err := cfg.Options()
	assert.ErrorIs(t, err, hidepix.ErrUnsupportedFormat)

	level := 12
	cfg = Config{CompressionLevel: &level}
	opts, err := cfg.Options()
	require.NoError(t, err)
	_, err = hidepix.New(opts...)
	assert.ErrorIs(t, err, hidepix.ErrInvalidOption)
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config")
	level := 6
	cfg := Config{Format: "bmp", CompressionLevel: &level, configPath: path}
	require.NoError(t, cfg.Write())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	read, err := ReadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "bmp", read.Format)
	assert.Equal(t, 6, *read.CompressionLevel)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
