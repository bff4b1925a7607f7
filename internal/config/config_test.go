package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "crayscene.json")
	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSaveLoadFormats(t *testing.T) {
	want := Default()
	want.Library = "/opt/c-ray/lib/libc-ray.so"
	want.Attempts = 3
	want.RetryDelay = "2s"
	want.Render = Render{Threads: 8, Samples: 64, Width: 640, Height: 360}

	for _, name := range []string{"prefs.json", "prefs.yaml", "prefs.yml", "prefs.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			require.NoError(t, Save(path, want))
			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadKeepsDefaultsForAbsentFields(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"a.json": `{"attempts": 4}`,
		"b.yaml": "attempts: 4\n",
		"c.toml": "attempts = 4\n",
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		p, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, 4, p.Attempts, name)
		assert.Equal(t, "bin/c-ray", p.Binary, name)
		assert.Equal(t, "output/project", p.OutputDir, name)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	p, err := Load(bad)
	assert.Error(t, err)
	assert.Equal(t, Default(), p)

	ini := filepath.Join(dir, "prefs.ini")
	require.NoError(t, os.WriteFile(ini, []byte("x=1"), 0644))
	_, err = Load(ini)
	assert.ErrorContains(t, err, "unsupported config format")
	assert.Error(t, Save(ini, Default()))
}

func TestDelay(t *testing.T) {
	p := Default()
	d, err := p.Delay()
	require.NoError(t, err)
	assert.Zero(t, d)

	p.RetryDelay = "1m30s"
	d, err = p.Delay()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	p.RetryDelay = "soon"
	_, err = p.Delay()
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLibrary, "~/lib/libc-ray.so")
	t.Setenv(EnvBinary, "")
	t.Setenv(EnvOutput, "renders")

	p := Default()
	require.NoError(t, p.ApplyEnv())
	home, err := homedir.Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "lib", "libc-ray.so"), p.Library)
	assert.Equal(t, "bin/c-ray", p.Binary)
	assert.Equal(t, "renders", p.OutputDir)
	assert.Contains(t, p.String(), `output_dir="renders"`)
}
