// Package state derives skill installation state from the filesystem. Nothing
// here is cached or persisted: every view is computed from fresh directory
// scans, so external changes (manual symlinks, deleted directories) are picked
// up on the next call.
package state

import (
	"github.com/rayhashcell/skills-manager/pkg/registry"
	"github.com/rayhashcell/skills-manager/pkg/scanner"
	"github.com/rayhashcell/skills-manager/pkg/skillmd"
)

// Status is a skill's installation state for one agent.
type Status string

const (
	// StatusSymlink means the agent entry is a symlink, the managed way of
	// distributing a skill. Broken symlinks classify the same as live ones.
	StatusSymlink Status = "symlink"
	// StatusLocal means the agent entry is a real directory the user put
	// there; it never participates in symlink distribution.
	StatusLocal Status = "local"
	// StatusNotInstalled means the agent has no usable entry for the skill.
	StatusNotInstalled Status = "not_installed"
)

// Classify maps a scanned agent entry to its installation status. A nil entry
// means the agent directory has nothing under the skill's name; stray files
// classify as not installed.
func Classify(entry *scanner.Entry) Status {
	if entry == nil {
		return StatusNotInstalled
	}
	switch entry.Kind {
	case scanner.KindSymlink:
		return StatusSymlink
	case scanner.KindDir:
		return StatusLocal
	default:
		return StatusNotInstalled
	}
}

// Skill is the global view of one skill: where it lives and which agents have
// it. SymlinkedAgents is always a subset of LinkedAgents.
type Skill struct {
	Name            string           `json:"name"`
	Metadata        skillmd.Metadata `json:"metadata"`
	LinkedAgents    []string         `json:"linked_agents"`
	SymlinkedAgents []string         `json:"symlinked_agents"`
}

// AgentSkill is the per-agent view of one skill. SourcePath is the raw
// symlink target for symlink entries, the entry's own path for local ones,
// and empty when not installed.
type AgentSkill struct {
	Name       string           `json:"name"`
	Metadata   skillmd.Metadata `json:"metadata"`
	Status     Status           `json:"status"`
	SourcePath string           `json:"source_path,omitempty"`
	InGlobal   bool             `json:"in_global"`
}

// AgentDetail is everything known about one agent: the union of its installed
// entries and the global skills it could install, sorted by skill name.
type AgentDetail struct {
	Agent  registry.Agent `json:"agent"`
	Skills []AgentSkill   `json:"skills"`
}

// ScanFailure records an agent whose skills directory could not be scanned
// during aggregation.
type ScanFailure struct {
	AgentID string `json:"agent_id"`
	Error   string `json:"error"`
}

// AppData is the full reconciliation snapshot: every known agent plus every
// global skill with its linkage. Agents whose directories failed to scan are
// reported in ScanFailures and treated as having no entries.
type AppData struct {
	Agents       []registry.Agent `json:"agents"`
	Skills       []Skill          `json:"skills"`
	ScanFailures []ScanFailure    `json:"scan_failures,omitempty"`
}
