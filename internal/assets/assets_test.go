package assets

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, body := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	pack := zipBytes(t, map[string]string{
		"HDRs/sunset.hdr": "#?RADIANCE",
		"../escape.txt":   "nope",
		"sphere10.obj":    "v 0 0 0\n",
	})
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, image.NewRGBA(image.Rect(0, 0, 1, 1))))

	mux := http.NewServeMux()
	mux.HandleFunc("/packs/volcano.zip", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.UserAgent(), "crayscene")
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(pack)
	})
	mux.HandleFunc("/download", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="sphere 10.obj"`)
		_, _ = w.Write([]byte("v 0 0 0\n"))
	})
	mux.HandleFunc("/textures/fiery", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(pngBuf.Bytes())
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchNames(t *testing.T) {
	srv := newServer(t)
	fsys, err := mem.NewFS()
	require.NoError(t, err)
	ctx := context.Background()

	saved, err := Fetch(ctx, srv.Client(), srv.URL+"/download?id=3", fsys, "input")
	require.NoError(t, err)
	assert.Equal(t, "input/sphere_10.obj", saved)
	data, err := hackpadfs.ReadFile(fsys, saved)
	require.NoError(t, err)
	assert.Equal(t, "v 0 0 0\n", string(data))

	saved, err = Fetch(ctx, srv.Client(), srv.URL+"/textures/fiery", fsys, "input")
	require.NoError(t, err)
	assert.Equal(t, "input/fiery.png", saved)

	_, err = Fetch(ctx, srv.Client(), srv.URL+"/missing.hdr", fsys, "input")
	assert.ErrorContains(t, err, "HTTP 404")
}

func TestFetchAndUnzip(t *testing.T) {
	srv := newServer(t)
	fsys, err := mem.NewFS()
	require.NoError(t, err)

	saved, err := Fetch(context.Background(), nil, srv.URL+"/packs/volcano.zip", fsys, "input")
	require.NoError(t, err)
	assert.Equal(t, "input/volcano.zip", saved)
	data, err := hackpadfs.ReadFile(fsys, saved)
	require.NoError(t, err)
	assert.True(t, IsZip(data))
	assert.False(t, IsZip([]byte("v 0 0 0")))

	files, err := Unzip(fsys, saved, "input")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"input/HDRs/sunset.hdr", "input/sphere10.obj"}, files)
	hdr, err := hackpadfs.ReadFile(fsys, "input/HDRs/sunset.hdr")
	require.NoError(t, err)
	assert.Equal(t, "#?RADIANCE", string(hdr))
	_, err = hackpadfs.Stat(fsys, "escape.txt")
	assert.Error(t, err)

	_, err = Unzip(fsys, "input/sphere10.obj", "input")
	assert.ErrorContains(t, err, "assets: unzip: input/sphere10.obj")
}

func TestFetchCancelled(t *testing.T) {
	srv := newServer(t)
	fsys, err := mem.NewFS()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Fetch(ctx, srv.Client(), srv.URL+"/download", fsys, "input")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "download", sanitize(""))
	assert.Equal(t, "download", sanitize("..."))
	assert.Equal(t, "sunset_1_.hdr", sanitize("sunset(1).hdr"))
	long := sanitize(string(bytes.Repeat([]byte("a"), 200)) + ".hdr")
	assert.Len(t, long, 96)
	assert.Equal(t, ".hdr", long[92:])
}
