package state

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/rayhashcell/skills-manager/pkg/logger"
	"github.com/rayhashcell/skills-manager/pkg/registry"
	"github.com/rayhashcell/skills-manager/pkg/scanner"
	"github.com/rayhashcell/skills-manager/pkg/skillmd"
)

// Lister lists the immediate entries of one directory. Each call is one
// directory listing; the aggregator's scan cost is measured in Lister calls.
type Lister interface {
	ScanDir(path string) ([]scanner.Entry, error)
}

// ListerFunc adapts a function to the Lister interface.
type ListerFunc func(path string) ([]scanner.Entry, error)

// ScanDir calls f.
func (f ListerFunc) ScanDir(path string) ([]scanner.Entry, error) {
	return f(path)
}

// Aggregator builds state snapshots for one home directory.
type Aggregator struct {
	home      string
	globalDir string
	list      Lister
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithGlobalDir overrides the global skills directory.
func WithGlobalDir(dir string) Option {
	return func(a *Aggregator) {
		a.globalDir = dir
	}
}

// WithLister overrides the directory lister.
func WithLister(l Lister) Option {
	return func(a *Aggregator) {
		a.list = l
	}
}

// New returns an Aggregator rooted at home. By default it scans the real
// filesystem and uses the standard global skills directory under home.
func New(home string, opts ...Option) *Aggregator {
	a := &Aggregator{
		home:      home,
		globalDir: registry.GlobalSkillsDir(home),
		list:      ListerFunc(scanner.ScanDir),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GlobalDir returns the global skills directory the aggregator scans.
func (a *Aggregator) GlobalDir() string {
	return a.globalDir
}

// AppData builds the full snapshot with one global listing plus one listing
// per detected agent, whatever the number of skills. Per-agent listings are
// reused across every skill, so an agent that fails to scan is recorded once
// and contributes no entries.
func (a *Aggregator) AppData(ctx context.Context) (AppData, error) {
	log := logger.G(ctx)
	agents := registry.Detect(a.home)

	globalEntries, err := a.list.ScanDir(a.globalDir)
	if err != nil {
		return AppData{}, errors.Wrap(err, "scanning global skills directory")
	}

	agentEntries := make(map[string]map[string]scanner.Entry, len(agents))
	var failures []ScanFailure
	for _, agent := range agents {
		if !agent.Detected {
			continue
		}
		def, _ := registry.Lookup(agent.ID)
		entries, err := a.list.ScanDir(def.SkillsDir(a.home))
		if err != nil {
			log.WithField("agent", agent.ID).WithError(err).Warn("skipping agent skills directory")
			failures = append(failures, ScanFailure{AgentID: agent.ID, Error: err.Error()})
			continue
		}
		byName := make(map[string]scanner.Entry, len(entries))
		for _, e := range entries {
			byName[e.Name] = e
		}
		agentEntries[agent.ID] = byName
	}

	skills := make([]Skill, 0, len(globalEntries))
	for _, ge := range globalEntries {
		if ge.Kind != scanner.KindDir {
			continue
		}
		linked := []string{}
		symlinked := []string{}
		for _, agent := range agents {
			entries, ok := agentEntries[agent.ID]
			if !ok {
				continue
			}
			entry, ok := entries[ge.Name]
			if !ok {
				continue
			}
			switch Classify(&entry) {
			case StatusSymlink:
				linked = append(linked, agent.ID)
				symlinked = append(symlinked, agent.ID)
			case StatusLocal:
				linked = append(linked, agent.ID)
			}
		}
		skills = append(skills, Skill{
			Name:            ge.Name,
			Metadata:        skillmd.Load(filepath.Join(a.globalDir, ge.Name), ge.Name),
			LinkedAgents:    linked,
			SymlinkedAgents: symlinked,
		})
	}

	log.WithField("agents", len(agents)).WithField("skills", len(skills)).Debug("aggregated app data")
	return AppData{Agents: agents, Skills: skills, ScanFailures: failures}, nil
}

// AgentDetail builds one agent's view: every entry in its skills directory
// united with every global skill it has not installed. Costs one agent
// listing plus one global listing.
func (a *Aggregator) AgentDetail(ctx context.Context, agentID string) (AgentDetail, error) {
	def, err := registry.Get(agentID)
	if err != nil {
		return AgentDetail{}, err
	}
	agent := def.Detect(a.home)

	globalEntries, err := a.list.ScanDir(a.globalDir)
	if err != nil {
		return AgentDetail{}, errors.Wrap(err, "scanning global skills directory")
	}
	globalNames := make(map[string]bool, len(globalEntries))
	for _, ge := range globalEntries {
		if ge.Kind == scanner.KindDir {
			globalNames[ge.Name] = true
		}
	}

	skills := []AgentSkill{}
	seen := map[string]bool{}
	if agent.Detected {
		agentDir := def.SkillsDir(a.home)
		entries, err := a.list.ScanDir(agentDir)
		if err != nil {
			return AgentDetail{}, errors.Wrapf(err, "scanning skills directory of agent %q", agentID)
		}
		for _, e := range entries {
			entryPath := filepath.Join(agentDir, e.Name)
			switch e.Kind {
			case scanner.KindSymlink:
				skills = append(skills, AgentSkill{
					Name:       e.Name,
					Metadata:   loadSymlinkMetadata(entryPath, e.Name),
					Status:     StatusSymlink,
					SourcePath: e.LinkTarget,
					InGlobal:   globalNames[e.Name],
				})
				seen[e.Name] = true
			case scanner.KindDir:
				skills = append(skills, AgentSkill{
					Name:       e.Name,
					Metadata:   skillmd.Load(entryPath, e.Name),
					Status:     StatusLocal,
					SourcePath: entryPath,
					InGlobal:   globalNames[e.Name],
				})
				seen[e.Name] = true
			}
			// Stray files stay invisible here; they are not skills.
		}
	}

	for name := range globalNames {
		if seen[name] {
			continue
		}
		skills = append(skills, AgentSkill{
			Name:     name,
			Metadata: skillmd.Load(filepath.Join(a.globalDir, name), name),
			Status:   StatusNotInstalled,
			InGlobal: true,
		})
	}

	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })

	logger.G(ctx).WithField("agent", agentID).WithField("skills", len(skills)).Debug("aggregated agent detail")
	return AgentDetail{Agent: agent, Skills: skills}, nil
}

// loadSymlinkMetadata reads metadata through the symlink's resolved target.
// A broken symlink falls back to the usual name and description defaults.
func loadSymlinkMetadata(entryPath, name string) skillmd.Metadata {
	if resolved, err := filepath.EvalSymlinks(entryPath); err == nil {
		return skillmd.Load(resolved, name)
	}
	return skillmd.Load(entryPath, name)
}
