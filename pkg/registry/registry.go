// Package registry holds the table of known agents and detects which of them
// are present on this machine. An agent is just a skills directory at a
// well-known home-relative path; detection never creates anything.
package registry

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ErrUnknownAgent is returned when an agent id is not in the known table.
var ErrUnknownAgent = errors.New("unknown agent")

// Definition is one known agent: a stable id, a display name, and the
// home-relative path of its skills directory.
type Definition struct {
	ID   string
	Name string
	Path string
}

// Agent is a definition plus its detection result for a concrete home.
type Agent struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Detected bool   `json:"detected"`
}

// definitions lists every agent the manager knows about, in display order.
var definitions = []Definition{
	{ID: "amp", Name: "Amp", Path: ".config/agents/skills"},
	{ID: "antigravity", Name: "Antigravity", Path: ".gemini/antigravity/global_skills"},
	{ID: "claude-code", Name: "Claude Code", Path: ".claude/skills"},
	{ID: "clawdbot", Name: "Clawdbot", Path: ".clawdbot/skills"},
	{ID: "cline", Name: "Cline", Path: ".cline/skills"},
	{ID: "codex", Name: "Codex", Path: ".codex/skills"},
	{ID: "command-code", Name: "Command Code", Path: ".commandcode/skills"},
	{ID: "continue", Name: "Continue", Path: ".continue/skills"},
	{ID: "crush", Name: "Crush", Path: ".config/crush/skills"},
	{ID: "cursor", Name: "Cursor", Path: ".cursor/skills"},
	{ID: "droid", Name: "Droid", Path: ".factory/skills"},
	{ID: "gemini-cli", Name: "Gemini CLI", Path: ".gemini/skills"},
	{ID: "github-copilot", Name: "GitHub Copilot", Path: ".copilot/skills"},
	{ID: "goose", Name: "Goose", Path: ".config/goose/skills"},
	{ID: "kilo-code", Name: "Kilo Code", Path: ".kilocode/skills"},
	{ID: "kiro-cli", Name: "Kiro CLI", Path: ".kiro/skills"},
	{ID: "mcpjam", Name: "MCPJam", Path: ".mcpjam/skills"},
	{ID: "opencode", Name: "OpenCode", Path: ".config/opencode/skills"},
	{ID: "openhands", Name: "OpenHands", Path: ".openhands/skills"},
	{ID: "pi", Name: "Pi", Path: ".pi/agent/skills"},
	{ID: "qoder", Name: "Qoder", Path: ".qoder/skills"},
	{ID: "qwen-code", Name: "Qwen Code", Path: ".qwen/skills"},
	{ID: "roo-code", Name: "Roo Code", Path: ".roo/skills"},
	{ID: "trae", Name: "Trae", Path: ".trae/skills"},
	{ID: "windsurf", Name: "Windsurf", Path: ".codeium/windsurf/skills"},
	{ID: "zencoder", Name: "Zencoder", Path: ".zencoder/skills"},
	{ID: "neovate", Name: "Neovate", Path: ".neovate/skills"},
}

// Definitions returns the known agent table in display order. The returned
// slice is a copy.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup returns the definition for id.
func Lookup(id string) (Definition, bool) {
	for _, def := range definitions {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}

// Get returns the definition for id or an error wrapping ErrUnknownAgent.
func Get(id string) (Definition, error) {
	def, ok := Lookup(id)
	if !ok {
		return Definition{}, errors.Wrapf(ErrUnknownAgent, "agent %q", id)
	}
	return def, nil
}

// SkillsDir returns the absolute path of the agent's skills directory under
// home.
func (d Definition) SkillsDir(home string) string {
	return filepath.Join(home, filepath.FromSlash(d.Path))
}

// Detect checks the definition's skills directory under home. An agent is
// detected when the path exists, whatever it is; scanning and mutations deal
// with pathological entries themselves.
func (d Definition) Detect(home string) Agent {
	_, err := os.Stat(d.SkillsDir(home))
	return Agent{
		ID:       d.ID,
		Name:     d.Name,
		Path:     d.Path,
		Detected: err == nil,
	}
}

// Detect checks every known agent under home, in table order.
func Detect(home string) []Agent {
	agents := make([]Agent, 0, len(definitions))
	for _, def := range definitions {
		agents = append(agents, def.Detect(home))
	}
	return agents
}

// GlobalSkillsDir returns the default global skills directory under home.
// Skills live here; agents receive symlinks into it.
func GlobalSkillsDir(home string) string {
	return filepath.Join(home, ".agents", "skills")
}
