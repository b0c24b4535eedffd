package fixtures

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixturesDir returns the absolute path to the fixtures directory.
func fixturesDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}

// LoadABI loads a fixture definition file (raw ABI array or build artifact)
// and returns its raw bytes.
func LoadABI(t *testing.T, filename string) []byte {
	t.Helper()
	path := filepath.Join(fixturesDir(), "abis", filename)
	data, err := os.ReadFile(path)
	require.NoError(t, err, "failed to load fixture ABI: %s", filename)
	return data
}

// ExportPath returns the absolute path of a fixture export file, for
// commands that take a file argument.
func ExportPath(t *testing.T, filename string) string {
	t.Helper()
	path := filepath.Join(fixturesDir(), "exports", filename)
	_, err := os.Stat(path)
	require.NoError(t, err, "missing fixture export: %s", filename)
	return path
}
