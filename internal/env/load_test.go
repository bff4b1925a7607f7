package env

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	vars, err := Parse(strings.NewReader(`
# renderer
CRAY_LIB = "/opt/c-ray/lib/libc-ray.so"
export CRAY_BIN='bin/c ray'
CRAY_OUTPUT=renders
not a pair
=orphan
MIXED="quote'
CRAY_OUTPUT=renders2
`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"CRAY_LIB":    "/opt/c-ray/lib/libc-ray.so",
		"CRAY_BIN":    "bin/c ray",
		"CRAY_OUTPUT": "renders2",
		"MIXED":       `"quote'`,
	}, vars)
}

func TestLoad(t *testing.T) {
	require.NoError(t, Load(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CRAYSCENE_TEST_A=file\nCRAYSCENE_TEST_B=file\n"), 0644))
	t.Setenv("CRAYSCENE_TEST_A", "shell")
	t.Setenv("CRAYSCENE_TEST_B", "")
	require.NoError(t, os.Unsetenv("CRAYSCENE_TEST_B"))

	require.NoError(t, Load(path))
	assert.Equal(t, "shell", os.Getenv("CRAYSCENE_TEST_A"))
	assert.Equal(t, "file", os.Getenv("CRAYSCENE_TEST_B"))
}
