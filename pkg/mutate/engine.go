// Package mutate changes skill installations on disk: linking global skills
// into agents, unlinking them, deleting local copies, and promoting local
// copies to the global directory. Every operation validates its preconditions
// against the live filesystem at call time, so stale views never cause an
// unintended overwrite or deletion.
package mutate

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/rayhashcell/skills-manager/pkg/errdefs"
	"github.com/rayhashcell/skills-manager/pkg/logger"
	"github.com/rayhashcell/skills-manager/pkg/registry"
	"github.com/rayhashcell/skills-manager/pkg/skillmd"
)

// Engine performs mutations for one home directory.
type Engine struct {
	home      string
	globalDir string
}

// Option configures an Engine.
type Option func(*Engine)

// WithGlobalDir overrides the global skills directory.
func WithGlobalDir(dir string) Option {
	return func(e *Engine) {
		e.globalDir = dir
	}
}

// New returns an Engine rooted at home.
func New(home string, opts ...Option) *Engine {
	e := &Engine{
		home:      home,
		globalDir: registry.GlobalSkillsDir(home),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GlobalDir returns the global skills directory the engine mutates.
func (e *Engine) GlobalDir() string {
	return e.globalDir
}

// Link symlinks a global skill into an agent's skills directory. The skill
// must exist as a real directory in the global directory, the agent's
// directory must exist, and nothing may already occupy the target name.
func (e *Engine) Link(ctx context.Context, agentID, skill string) error {
	def, err := registry.Get(agentID)
	if err != nil {
		return err
	}

	globalPath := filepath.Join(e.globalDir, skill)
	info, err := os.Lstat(globalPath)
	if err != nil {
		if os.IsNotExist(err) {
			return errdefs.NotInGlobal(skill)
		}
		return errdefs.IOFailure(err, "stat %q", globalPath)
	}
	if !info.IsDir() {
		return errdefs.NotInGlobal(skill)
	}

	agentDir := def.SkillsDir(e.home)
	if _, err := os.Stat(agentDir); err != nil {
		if os.IsNotExist(err) {
			return errdefs.AgentNotDetected(agentID)
		}
		return errdefs.IOFailure(err, "stat %q", agentDir)
	}

	entry := filepath.Join(agentDir, skill)
	if _, err := os.Lstat(entry); err == nil {
		return errdefs.AlreadyLinked(agentID, skill)
	} else if !os.IsNotExist(err) {
		return errdefs.IOFailure(err, "stat %q", entry)
	}

	if err := os.Symlink(globalPath, entry); err != nil {
		return errdefs.IOFailure(err, "link skill %q into agent %q", skill, agentID)
	}

	logger.G(ctx).WithField("agent", agentID).WithField("skill", skill).Info("linked skill")
	return nil
}

// Unlink removes an agent's symlink for a skill. The entry must be a symlink;
// local directories, stray files, and absent entries are refused so real data
// is never deleted.
func (e *Engine) Unlink(ctx context.Context, agentID, skill string) error {
	def, err := registry.Get(agentID)
	if err != nil {
		return err
	}

	entry := filepath.Join(def.SkillsDir(e.home), skill)
	info, err := os.Lstat(entry)
	if err != nil {
		if os.IsNotExist(err) {
			return errdefs.NotASymlink(agentID, skill)
		}
		return errdefs.IOFailure(err, "stat %q", entry)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return errdefs.NotASymlink(agentID, skill)
	}

	if err := os.Remove(entry); err != nil {
		return errdefs.IOFailure(err, "remove symlink of skill %q from agent %q", skill, agentID)
	}

	logger.G(ctx).WithField("agent", agentID).WithField("skill", skill).Info("unlinked skill")
	return nil
}

// DeleteLocal removes a local skill directory from an agent. The entry must
// be a real directory; symlinks must be unlinked instead.
func (e *Engine) DeleteLocal(ctx context.Context, agentID, skill string) error {
	def, err := registry.Get(agentID)
	if err != nil {
		return err
	}

	entry := filepath.Join(def.SkillsDir(e.home), skill)
	info, err := os.Lstat(entry)
	if err != nil {
		if os.IsNotExist(err) {
			return errdefs.NotLocal(agentID, skill)
		}
		return errdefs.IOFailure(err, "stat %q", entry)
	}
	if !info.IsDir() {
		return errdefs.NotLocal(agentID, skill)
	}

	if err := os.RemoveAll(entry); err != nil {
		return errdefs.IOFailure(err, "delete local skill %q from agent %q", skill, agentID)
	}

	logger.G(ctx).WithField("agent", agentID).WithField("skill", skill).Info("deleted local skill")
	return nil
}

// UploadToGlobal copies an agent's local skill directory into the global
// directory, creating the global directory if needed. The source must be a
// real directory and the global name must be free; the source is left
// untouched.
func (e *Engine) UploadToGlobal(ctx context.Context, agentID, skill string) error {
	def, err := registry.Get(agentID)
	if err != nil {
		return err
	}

	source := filepath.Join(def.SkillsDir(e.home), skill)
	info, err := os.Lstat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return errdefs.NotLocal(agentID, skill)
		}
		return errdefs.IOFailure(err, "stat %q", source)
	}
	if !info.IsDir() {
		return errdefs.NotLocal(agentID, skill)
	}

	globalPath := filepath.Join(e.globalDir, skill)
	if _, err := os.Lstat(globalPath); err == nil {
		return errdefs.AlreadyInGlobal(skill)
	} else if !os.IsNotExist(err) {
		return errdefs.IOFailure(err, "stat %q", globalPath)
	}

	if err := os.MkdirAll(e.globalDir, 0o755); err != nil {
		return errdefs.IOFailure(err, "create global skills directory %q", e.globalDir)
	}
	if err := copyDir(source, globalPath); err != nil {
		return errdefs.IOFailure(err, "upload skill %q from agent %q", skill, agentID)
	}

	logger.G(ctx).WithField("agent", agentID).WithField("skill", skill).Info("uploaded skill to global")
	return nil
}

// CreateGlobal scaffolds a new skill in the global directory with a SKILL.md
// rendered from meta. The name must be free.
func (e *Engine) CreateGlobal(ctx context.Context, name string, meta skillmd.Metadata) error {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return errors.Errorf("invalid skill name %q", name)
	}
	if meta.Name == "" {
		meta.Name = name
	}

	globalPath := filepath.Join(e.globalDir, name)
	if _, err := os.Lstat(globalPath); err == nil {
		return errdefs.AlreadyInGlobal(name)
	} else if !os.IsNotExist(err) {
		return errdefs.IOFailure(err, "stat %q", globalPath)
	}

	if err := os.MkdirAll(globalPath, 0o755); err != nil {
		return errdefs.IOFailure(err, "create skill directory %q", globalPath)
	}
	skillFile := filepath.Join(globalPath, skillmd.FileName)
	if err := os.WriteFile(skillFile, []byte(skillmd.Format(meta)), 0o644); err != nil {
		return errdefs.IOFailure(err, "write %q", skillFile)
	}

	logger.G(ctx).WithField("skill", name).Info("created global skill")
	return nil
}

// copyDir copies a directory tree, following symlinks on the source side.
func copyDir(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		info, err := os.Stat(srcPath)
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath, info.Mode().Perm()); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
