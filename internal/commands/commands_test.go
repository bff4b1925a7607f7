package commands

import (
	"bytes"
	"context"
	"flag"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	args, ok, err := Parse(`  orbit -frames 12 -out "output/my scene.json"`)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"orbit", "-frames", "12", "-out", "output/my scene.json"}, args)

	for _, line := range []string{"", "   ", "# comment"} {
		_, ok, err := Parse(line)
		assert.NoError(t, err)
		assert.False(t, ok, line)
	}

	_, _, err = Parse(`sphere -out "open`)
	assert.Error(t, err)
}

type recorded struct {
	name  string
	count int
	args  []string
}

func newTestRegistry(out *bytes.Buffer, calls *[]recorded) *Registry {
	r := NewRegistry(out)
	r.Register("sphere", "write a UV sphere", func(fs *flag.FlagSet) RunFunc {
		n := fs.Int("n", 1, "divisions")
		return func(ctx context.Context) error {
			*calls = append(*calls, recorded{"sphere", *n, fs.Args()})
			return nil
		}
	})
	r.Register("fail", "always fails", func(fs *flag.FlagSet) RunFunc {
		return func(ctx context.Context) error { return assert.AnError }
	})
	return r
}

func TestExecute(t *testing.T) {
	var out bytes.Buffer
	var calls []recorded
	r := newTestRegistry(&out, &calls)

	require.NoError(t, r.Execute(context.Background(), []string{"sphere", "-n", "10", "a.obj"}))
	require.NoError(t, r.Execute(context.Background(), []string{"sphere"}))
	assert.Equal(t, []recorded{{"sphere", 10, []string{"a.obj"}}, {"sphere", 1, []string{}}}, calls)

	assert.EqualError(t, r.Execute(context.Background(), nil), "missing subcommand")
	assert.EqualError(t, r.Execute(context.Background(), []string{"nope"}), "unknown command: nope")
	assert.Error(t, r.Execute(context.Background(), []string{"sphere", "-bogus"}))
	assert.ErrorIs(t, r.Execute(context.Background(), []string{"fail"}), assert.AnError)

	out.Reset()
	require.NoError(t, r.Execute(context.Background(), []string{"sphere", "-h"}))
	assert.Contains(t, out.String(), "divisions")
}

func TestUsage(t *testing.T) {
	var out bytes.Buffer
	r := newTestRegistry(&out, new([]recorded))
	assert.Equal(t, []string{"fail", "sphere"}, r.Names())
	r.Usage()
	assert.Contains(t, out.String(), "sphere     write a UV sphere")
}

func TestExecuteScript(t *testing.T) {
	var out bytes.Buffer
	var calls []recorded
	r := newTestRegistry(&out, &calls)

	script := "# build\nsphere -n 4 'out dir/s.obj'\n\nsphere\nfail\nsphere -n 9\n"
	err := r.ExecuteScript(context.Background(), strings.NewReader(script))
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "line 5: fail")
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"out dir/s.obj"}, calls[0].args)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.ExecuteScript(ctx, strings.NewReader("sphere\n")), context.Canceled)
}
