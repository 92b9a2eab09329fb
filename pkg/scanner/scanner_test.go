package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rayhashcell/skills-manager/pkg/errdefs"
)

func TestScanDirClassifiesEntries(t *testing.T) {
	dir := t.TempDir()
	targetDir := t.TempDir()

	require.NoError(t, os.Mkdir(filepath.Join(dir, "local-skill"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink(targetDir, filepath.Join(dir, "linked-skill")))

	entries, err := ScanDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byName := map[string]Entry{}
	for _, e := range entries {
		byName[e.Name] = e
	}

	assert.Equal(t, KindSymlink, byName["linked-skill"].Kind)
	assert.Equal(t, targetDir, byName["linked-skill"].LinkTarget)
	assert.Equal(t, KindDir, byName["local-skill"].Kind)
	assert.Empty(t, byName["local-skill"].LinkTarget)
	assert.Equal(t, KindOther, byName["notes.txt"].Kind)
}

func TestScanDirKeepsBrokenSymlinks(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Symlink("/nonexistent/skills/gone", filepath.Join(dir, "dangling")))

	entries, err := ScanDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, KindSymlink, entries[0].Kind)
	assert.Equal(t, "/nonexistent/skills/gone", entries[0].LinkTarget)
}

func TestScanDirKeepsRawRelativeTargets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "real"), 0o755))
	require.NoError(t, os.Symlink("../elsewhere/real", filepath.Join(dir, "rel")))

	entries, err := ScanDir(dir)
	require.NoError(t, err)

	var rel *Entry
	for i := range entries {
		if entries[i].Name == "rel" {
			rel = &entries[i]
		}
	}
	require.NotNil(t, rel)
	assert.Equal(t, "../elsewhere/real", rel.LinkTarget)
}

func TestScanDirSkipsHiddenEntries(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".DS_Store"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "visible"), 0o755))

	entries, err := ScanDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "visible", entries[0].Name)
}

func TestScanDirFollowsSymlinkedRoot(t *testing.T) {
	real := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(real, "skill"), 0o755))

	link := filepath.Join(t.TempDir(), "skills")
	require.NoError(t, os.Symlink(real, link))

	entries, err := ScanDir(link)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "skill", entries[0].Name)
	assert.Equal(t, KindDir, entries[0].Kind)
}

func TestScanDirMissingPathIsEmpty(t *testing.T) {
	entries, err := ScanDir(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestScanDirRejectsNonDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "skills")
	require.NoError(t, os.WriteFile(file, []byte("not a dir"), 0o644))

	_, err := ScanDir(file)
	require.Error(t, err)
	assert.True(t, errdefs.IsInvalidPath(err))
	assert.Contains(t, err.Error(), file)
}

func TestScanDirEmptyDirectory(t *testing.T) {
	entries, err := ScanDir(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestScanDirSortsByName(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, name), 0o755))
	}

	entries, err := ScanDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "alpha", entries[0].Name)
	assert.Equal(t, "mid", entries[1].Name)
	assert.Equal(t, "zeta", entries[2].Name)
}
