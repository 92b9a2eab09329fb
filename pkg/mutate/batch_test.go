package mutate

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rayhashcell/skills-manager/pkg/errdefs"
	"github.com/rayhashcell/skills-manager/pkg/registry"
)

func TestLinkAgentsPartialFailure(t *testing.T) {
	home := t.TempDir()
	createGlobalSkill(t, home, "custom-skill", "mine")
	cursorDir := createAgentDir(t, home, "cursor")
	claudeDir := createAgentDir(t, home, "claude-code")
	// goose stays undetected on purpose

	result, err := New(home).LinkAgents(context.Background(), "custom-skill", []string{"cursor", "goose", "claude-code"})
	require.NoError(t, err, "per-agent failures must not fail the batch")

	assert.Equal(t, []string{"cursor", "claude-code"}, result.Success)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "goose", result.Failed[0].ID)
	assert.Contains(t, result.Failed[0].Error, "skills directory does not exist")

	assert.True(t, isSymlink(t, filepath.Join(cursorDir, "custom-skill")), "successful targets keep their links")
	assert.True(t, isSymlink(t, filepath.Join(claudeDir, "custom-skill")))
}

func TestLinkAgentsMissingSkillFailsOutright(t *testing.T) {
	home := t.TempDir()
	cursorDir := createAgentDir(t, home, "cursor")

	result, err := New(home).LinkAgents(context.Background(), "ghost", []string{"cursor"})
	require.Error(t, err)
	assert.True(t, errdefs.IsNotInGlobal(err))
	assert.Empty(t, result.Success)
	assert.Empty(t, result.Failed)

	entries, readErr := os.ReadDir(cursorDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "no agent may be touched when the skill is missing")
}

func TestLinkAgentsRecordsAlreadyLinked(t *testing.T) {
	home := t.TempDir()
	createGlobalSkill(t, home, "skill", "x")
	createAgentDir(t, home, "cursor")
	createAgentDir(t, home, "claude-code")
	engine := New(home)
	require.NoError(t, engine.Link(context.Background(), "cursor", "skill"))

	result, err := engine.LinkAgents(context.Background(), "skill", []string{"cursor", "claude-code"})
	require.NoError(t, err)

	assert.Equal(t, []string{"claude-code"}, result.Success)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "cursor", result.Failed[0].ID)
	assert.Contains(t, result.Failed[0].Error, "already exists")
}

func TestLinkAgentsEmptyList(t *testing.T) {
	home := t.TempDir()
	createGlobalSkill(t, home, "skill", "x")

	result, err := New(home).LinkAgents(context.Background(), "skill", nil)
	require.NoError(t, err)
	assert.NoError(t, result.Err())

	encoded, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":[],"failed":[]}`, string(encoded))
}

func TestUnlinkAgentsMixedTargets(t *testing.T) {
	home := t.TempDir()
	global := createGlobalSkill(t, home, "skill", "x")
	gooseDir := createAgentDir(t, home, "goose")
	cursorDir := createAgentDir(t, home, "cursor")
	createAgentDir(t, home, "claude-code")

	require.NoError(t, os.Symlink(global, filepath.Join(gooseDir, "skill")))
	localCopy := filepath.Join(cursorDir, "skill")
	require.NoError(t, os.MkdirAll(localCopy, 0o755))

	result, err := New(home).UnlinkAgents(context.Background(), "skill", []string{"goose", "cursor", "claude-code"})
	require.NoError(t, err)

	assert.Equal(t, []string{"goose"}, result.Success)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, "cursor", result.Failed[0].ID)
	assert.Contains(t, result.Failed[0].Error, "is not a symlink")
	assert.Equal(t, "claude-code", result.Failed[1].ID)
	assert.Contains(t, result.Failed[1].Error, "is not a symlink")

	_, statErr := os.Stat(localCopy)
	assert.NoError(t, statErr, "a local copy must survive a batch unlink")
}

func TestUnlinkAgentsRecordsUnknownAgent(t *testing.T) {
	home := t.TempDir()
	global := createGlobalSkill(t, home, "skill", "x")
	cursorDir := createAgentDir(t, home, "cursor")
	require.NoError(t, os.Symlink(global, filepath.Join(cursorDir, "skill")))

	result, err := New(home).UnlinkAgents(context.Background(), "skill", []string{"not-an-agent", "cursor"})
	require.NoError(t, err, "unlink batches have no outright failure mode")

	assert.Equal(t, []string{"cursor"}, result.Success)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "not-an-agent", result.Failed[0].ID)
	assert.Contains(t, result.Failed[0].Error, "unknown agent")
}

func TestLinkSkillsPartialFailure(t *testing.T) {
	home := t.TempDir()
	createGlobalSkill(t, home, "alpha", "a")
	createGlobalSkill(t, home, "gamma", "c")
	cursorDir := createAgentDir(t, home, "cursor")
	require.NoError(t, os.MkdirAll(filepath.Join(cursorDir, "gamma"), 0o755))

	result, err := New(home).LinkSkills(context.Background(), "cursor", []string{"alpha", "beta", "gamma"})
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha"}, result.Success)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, "beta", result.Failed[0].ID)
	assert.Contains(t, result.Failed[0].Error, "does not exist in the global directory")
	assert.Equal(t, "gamma", result.Failed[1].ID)
	assert.Contains(t, result.Failed[1].Error, "already exists")

	assert.True(t, isSymlink(t, filepath.Join(cursorDir, "alpha")))
}

func TestLinkSkillsOutrightErrors(t *testing.T) {
	t.Run("unknown agent", func(t *testing.T) {
		home := t.TempDir()
		createGlobalSkill(t, home, "skill", "x")

		result, err := New(home).LinkSkills(context.Background(), "not-an-agent", []string{"skill"})
		require.Error(t, err)
		assert.ErrorIs(t, err, registry.ErrUnknownAgent)
		assert.Empty(t, result.Success)
	})

	t.Run("undetected agent", func(t *testing.T) {
		home := t.TempDir()
		createGlobalSkill(t, home, "skill", "x")

		result, err := New(home).LinkSkills(context.Background(), "cursor", []string{"skill"})
		require.Error(t, err)
		assert.True(t, errdefs.IsAgentNotDetected(err))
		assert.Empty(t, result.Success)
	})
}

func TestUnlinkSkills(t *testing.T) {
	t.Run("removes every listed symlink", func(t *testing.T) {
		home := t.TempDir()
		createGlobalSkill(t, home, "alpha", "a")
		createGlobalSkill(t, home, "beta", "b")
		cursorDir := createAgentDir(t, home, "cursor")
		engine := New(home)
		require.NoError(t, engine.Link(context.Background(), "cursor", "alpha"))
		require.NoError(t, engine.Link(context.Background(), "cursor", "beta"))

		result, err := engine.UnlinkSkills(context.Background(), "cursor", []string{"alpha", "beta"})
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "beta"}, result.Success)
		assert.Empty(t, result.Failed)

		for _, name := range []string{"alpha", "beta"} {
			_, statErr := os.Lstat(filepath.Join(cursorDir, name))
			assert.True(t, os.IsNotExist(statErr))
		}
	})

	t.Run("undetected agent fails outright", func(t *testing.T) {
		home := t.TempDir()

		_, err := New(home).UnlinkSkills(context.Background(), "cursor", []string{"skill"})
		require.Error(t, err)
		assert.True(t, errdefs.IsAgentNotDetected(err))
	})
}

func TestBatchResultErr(t *testing.T) {
	home := t.TempDir()
	createGlobalSkill(t, home, "skill", "x")
	createAgentDir(t, home, "cursor")

	result, err := New(home).LinkAgents(context.Background(), "skill", []string{"cursor", "goose", "windsurf"})
	require.NoError(t, err)

	combined := result.Err()
	require.Error(t, combined)
	assert.Contains(t, combined.Error(), "goose")
	assert.Contains(t, combined.Error(), "windsurf")

	clean, err := New(home).LinkAgents(context.Background(), "skill", []string{"claude-code"})
	require.NoError(t, err)
	assert.Contains(t, clean.Failed[0].Error, "skills directory does not exist")

	all, err := New(home).UnlinkAgents(context.Background(), "skill", []string{"cursor"})
	require.NoError(t, err)
	assert.NoError(t, all.Err())
}
