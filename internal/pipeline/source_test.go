package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/relcorpus/internal/model"
)

func TestSourceLoader_Files(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "a.txt")
	page := filepath.Join(dir, "b.html")
	require.NoError(t, os.WriteFile(txt, []byte("plain <kept>"), 0o644))
	require.NoError(t, os.WriteFile(page, []byte("<p>from html</p>"), 0o644))

	loader := NewSourceLoader(nil)

	got, err := loader.Load(context.Background(), model.FileSource(txt))
	require.NoError(t, err)
	assert.Equal(t, "plain <kept>", got)

	got, err = loader.Load(context.Background(), model.FileSource(page))
	require.NoError(t, err)
	assert.Equal(t, "from html", got)
}

func TestSourceLoader_MissingFile(t *testing.T) {
	_, err := NewSourceLoader(nil).Load(context.Background(), model.FileSource("nope.txt"))
	assert.True(t, errors.Is(err, model.ErrMissingFile))
}

func TestSourceLoader_URLWithoutFetcher(t *testing.T) {
	_, err := NewSourceLoader(nil).Load(context.Background(), model.URLSource("http://example.com"))
	assert.Error(t, err)
}
