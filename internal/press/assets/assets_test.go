package assets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), nil)
	require.NoError(t, err)
	return s
}

func TestSaveRenamesAndKeepsExtension(t *testing.T) {
	s := newTestStore(t)

	name, err := s.Save("My Photo.PNG", strings.NewReader("fake-png"))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(name, ".png"), "extension should be lowercased: %s", name)
	assert.NotContains(t, name, "My Photo")

	data, err := os.ReadFile(filepath.Join(s.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, "fake-png", string(data))
}

func TestSaveRejectsDisallowedExtension(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"script.exe", "page.html", "noext", "archive.tar.xz"} {
		_, err := s.Save(name, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrUnsupportedExtension, "name %q", name)
	}
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	s := newTestStore(t)

	a, err := s.Save("one.jpg", strings.NewReader("a"))
	require.NoError(t, err)
	b, err := s.Save("one.jpg", strings.NewReader("b"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	name, err := s.Save("pic.gif", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(name))
	assert.NoError(t, s.Delete(name))
}

func TestPathRefusesTraversal(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"", "../etc/passwd", "a/b.png", ".", "..", ".hidden"} {
		_, err := s.Path(name)
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}
}

func TestSweepRemovesOnlyUnreferenced(t *testing.T) {
	s := newTestStore(t)

	kept, err := s.Save("keep.png", strings.NewReader("k"))
	require.NoError(t, err)
	orphan, err := s.Save("orphan.png", strings.NewReader("o"))
	require.NoError(t, err)

	removed, err := s.Sweep(map[string]struct{}{kept: {}})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(filepath.Join(s.Dir(), kept))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(s.Dir(), orphan))
	assert.True(t, os.IsNotExist(err))
}
