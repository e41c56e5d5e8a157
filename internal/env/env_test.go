package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	t.Setenv("COCKPIT_TEST_STR", "hello")
	t.Setenv("COCKPIT_TEST_INT", "42")
	t.Setenv("COCKPIT_TEST_BAD_INT", "forty-two")

	assert.Equal(t, "hello", GetString("COCKPIT_TEST_STR", "x"))
	assert.Equal(t, "x", GetString("COCKPIT_TEST_UNSET", "x"))
	assert.Equal(t, 42, GetInt("COCKPIT_TEST_INT", 1))
	assert.Equal(t, 1, GetInt("COCKPIT_TEST_BAD_INT", 1))
	assert.Equal(t, 7, GetInt("COCKPIT_TEST_UNSET", 7))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("COCKPIT_TEST_FROM_FILE=yes\n"), 0o644))
	t.Setenv("COCKPIT_TEST_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("COCKPIT_TEST_FROM_FILE"))

	require.NoError(t, Load(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "yes", os.Getenv("COCKPIT_TEST_FROM_FILE"))
}
