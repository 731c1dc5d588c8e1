package config

import (
	"io/ioutil"
	"log"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	tempDir := t.TempDir()
	logger := log.New(ioutil.Discard, "", 0)

	cfg, err := Initialize(tempDir, logger)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Check that the config loads back and is valid.
	cfg, err = Load(tempDir)
	require.NoError(t, err)
	assert.Nil(t, cfg.Validate())

	t.Run("OpenAuditLog", func(t *testing.T) {
		fd, err := cfg.OpenAuditLog()
		assert.Nil(t, err)
		require.NotNil(t, fd)
		fd.Close()
	})

	t.Run("ReadAuditLog", func(t *testing.T) {
		fd, err := cfg.ReadAuditLog()
		assert.Nil(t, err)
		require.NotNil(t, fd)
		fd.Close()
	})
}

func TestInitializeKeepsExisting(t *testing.T) {
	fs := afero.NewMemMapFs()
	logger := log.New(ioutil.Discard, "", 0)

	_, err := InitializeFs(fs, "/etc/minsh", logger)
	require.NoError(t, err)

	// Local edits must survive a second init.
	edited := []byte("prompt: 'edited> '\nmax_tokens: 16\nmax_args: 8\n")
	require.NoError(t, afero.WriteFile(fs, "/etc/minsh/config.yaml", edited, 0600))

	cfg, err := InitializeFs(fs, "/etc/minsh", logger)
	require.NoError(t, err)
	assert.Equal(t, "edited> ", cfg.Prompt)
	assert.Equal(t, 16, cfg.MaxTokens)
}

func TestLoadMissing(t *testing.T) {
	_, err := LoadFs(afero.NewMemMapFs(), "/nowhere")
	assert.NotNil(t, err)
}
