package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnvFromConfiguredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.env")
	require.NoError(t, os.WriteFile(path, []byte("CALC_TEST_PRECISION=6\nCALC_TEST_KEPT=from-file\n"), 0o600))

	t.Setenv(envFileVar, path)
	t.Setenv("CALC_TEST_KEPT", "from-env")
	t.Setenv("CALC_TEST_PRECISION", "")
	os.Unsetenv("CALC_TEST_PRECISION")

	require.NoError(t, loadDotEnv())
	assert.Equal(t, "6", os.Getenv("CALC_TEST_PRECISION"))
	assert.Equal(t, "from-env", os.Getenv("CALC_TEST_KEPT"))
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	t.Setenv(envFileVar, filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, loadDotEnv())
}

func TestLoadDotEnvMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.env")
	require.NoError(t, os.WriteFile(path, []byte("CALC_TEST_BAD='unterminated\n"), 0o600))

	t.Setenv(envFileVar, path)
	err := loadDotEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
