package harness

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorpus_Conformance(t *testing.T) {
	manifests, err := filepath.Glob(filepath.Join("testdata", "corpus", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, manifests, "no corpus manifests found")

	for _, path := range manifests {
		corpus, err := LoadCorpus(path)
		require.NoError(t, err, "parsing %s", path)

		base := strings.TrimSuffix(filepath.Base(path), ".yaml")
		for _, cs := range corpus.Cases {
			t.Run(base+"/"+cs.Name, func(t *testing.T) {
				out := cs.Run(context.Background())
				if !out.Pass() {
					t.Errorf("case does not conform:\n  %s",
						strings.Join(out.Errors, "\n  "))
				}
			})
		}
	}
}

func TestCase_ReportsUnexpectedOutcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("load error expected but load succeeds", func(t *testing.T) {
		c := &Case{Name: "x", Source: "$c wff $.", LoadError: "DUPLICATE_LABEL"}
		out := c.Run(ctx)
		assert.False(t, out.Pass())
	})

	t.Run("wrong load error code", func(t *testing.T) {
		c := &Case{Name: "x", Source: "$c wff $.\n$}", LoadError: "DUPLICATE_LABEL"}
		out := c.Run(ctx)
		assert.False(t, out.Pass())
	})

	t.Run("theorem missing from expectations", func(t *testing.T) {
		c := &Case{Name: "x", Source: "$c |- X $.\naxX $a |- X $.\nth $p |- X $= axX $."}
		out := c.Run(ctx)
		require.False(t, out.Pass())
		assert.Contains(t, out.Errors[0], "not listed")
	})

	t.Run("expected label does not exist", func(t *testing.T) {
		c := &Case{Name: "x", Source: "$c wff $.",
			Expect: map[string]string{"ghost": "verified"}}
		out := c.Run(ctx)
		require.False(t, out.Pass())
		assert.Contains(t, out.Errors[0], "not a theorem")
	})

	t.Run("verified where failure expected", func(t *testing.T) {
		c := &Case{Name: "x", Source: "$c |- X $.\naxX $a |- X $.\nth $p |- X $= axX $.",
			Expect: map[string]string{"th": "STACK_UNDERFLOW"}}
		out := c.Run(ctx)
		assert.False(t, out.Pass())
	})
}

func TestLoadCorpus_Errors(t *testing.T) {
	_, err := LoadCorpus(filepath.Join("testdata", "does-not-exist.yaml"))
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("cases:\n  - source: \"$c wff $.\"\n"), 0o644))
	_, err = LoadCorpus(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no name")
}
