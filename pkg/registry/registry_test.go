package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitionsTable(t *testing.T) {
	defs := Definitions()
	require.Len(t, defs, 27)

	seen := map[string]Definition{}
	for _, def := range defs {
		assert.NotEmpty(t, def.ID)
		assert.NotEmpty(t, def.Name)
		assert.NotEmpty(t, def.Path)
		_, dup := seen[def.ID]
		assert.False(t, dup, "duplicate agent id %s", def.ID)
		seen[def.ID] = def
	}

	expected := map[string][2]string{
		"cursor":      {"Cursor", ".cursor/skills"},
		"claude-code": {"Claude Code", ".claude/skills"},
		"antigravity": {"Antigravity", ".gemini/antigravity/global_skills"},
		"windsurf":    {"Windsurf", ".codeium/windsurf/skills"},
		"pi":          {"Pi", ".pi/agent/skills"},
		"crush":       {"Crush", ".config/crush/skills"},
		"neovate":     {"Neovate", ".neovate/skills"},
	}
	for id, want := range expected {
		def, ok := seen[id]
		require.True(t, ok, "agent %s missing", id)
		assert.Equal(t, want[0], def.Name)
		assert.Equal(t, want[1], def.Path)
	}
}

func TestLookup(t *testing.T) {
	def, ok := Lookup("goose")
	require.True(t, ok)
	assert.Equal(t, "Goose", def.Name)
	assert.Equal(t, ".config/goose/skills", def.Path)

	_, ok = Lookup("not-an-agent")
	assert.False(t, ok)
}

func TestGetUnknownAgent(t *testing.T) {
	_, err := Get("not-an-agent")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownAgent)
	assert.Contains(t, err.Error(), "not-an-agent")

	def, err := Get("cursor")
	require.NoError(t, err)
	assert.Equal(t, "Cursor", def.Name)
}

func TestGlobalSkillsDir(t *testing.T) {
	assert.Equal(t, filepath.Join("/home/u", ".agents", "skills"), GlobalSkillsDir("/home/u"))
}

func TestSkillsDir(t *testing.T) {
	def, ok := Lookup("windsurf")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/home/u", ".codeium", "windsurf", "skills"), def.SkillsDir("/home/u"))
}

func TestDetectEmptyHome(t *testing.T) {
	agents := Detect(t.TempDir())
	require.Len(t, agents, 27)
	for _, agent := range agents {
		assert.False(t, agent.Detected, "agent %s should not be detected in an empty home", agent.ID)
	}
}

func TestDetectMixed(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".cursor", "skills"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".claude", "skills"), 0o755))

	byID := map[string]Agent{}
	for _, agent := range Detect(home) {
		byID[agent.ID] = agent
	}

	assert.True(t, byID["cursor"].Detected)
	assert.True(t, byID["claude-code"].Detected)
	assert.False(t, byID["goose"].Detected)
	assert.False(t, byID["codex"].Detected)
}

func TestDetectNestedPaths(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".gemini", "antigravity", "global_skills"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".codeium", "windsurf", "skills"), 0o755))

	byID := map[string]Agent{}
	for _, agent := range Detect(home) {
		byID[agent.ID] = agent
	}

	assert.True(t, byID["antigravity"].Detected)
	assert.True(t, byID["windsurf"].Detected)
	assert.False(t, byID["gemini-cli"].Detected, "parent directory must not detect the sibling agent")
}

func TestDetectKeepsTableOrder(t *testing.T) {
	agents := Detect(t.TempDir())
	defs := Definitions()
	require.Len(t, agents, len(defs))
	for i := range defs {
		assert.Equal(t, defs[i].ID, agents[i].ID)
	}
}
