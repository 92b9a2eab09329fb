package mutate

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/rayhashcell/skills-manager/pkg/errdefs"
	"github.com/rayhashcell/skills-manager/pkg/registry"
)

// FailedOperation is one failed target of a batch: an agent id or a skill
// name together with the reason.
type FailedOperation struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BatchResult reports a batch mutation per target. Targets are attempted
// independently in input order; partial progress stands and is never rolled
// back.
type BatchResult struct {
	Success []string          `json:"success"`
	Failed  []FailedOperation `json:"failed"`
}

func newBatchResult() BatchResult {
	return BatchResult{Success: []string{}, Failed: []FailedOperation{}}
}

func (r *BatchResult) record(id string, err error) {
	if err != nil {
		r.Failed = append(r.Failed, FailedOperation{ID: id, Error: err.Error()})
		return
	}
	r.Success = append(r.Success, id)
}

// Err folds the per-target failures into a single error, or nil when every
// target succeeded. The per-target detail stays in Failed.
func (r BatchResult) Err() error {
	var combined *multierror.Error
	for _, f := range r.Failed {
		combined = multierror.Append(combined, errors.Errorf("%s: %s", f.ID, f.Error))
	}
	return combined.ErrorOrNil()
}

// LinkAgents links one global skill into each listed agent. It fails outright
// only when the skill is missing from the global directory; everything else
// is a per-agent result.
func (e *Engine) LinkAgents(ctx context.Context, skill string, agentIDs []string) (BatchResult, error) {
	if err := e.requireGlobalSkill(skill); err != nil {
		return BatchResult{}, err
	}

	result := newBatchResult()
	for _, id := range agentIDs {
		result.record(id, e.Link(ctx, id, skill))
	}
	return result, nil
}

// UnlinkAgents removes one skill's symlink from each listed agent.
func (e *Engine) UnlinkAgents(ctx context.Context, skill string, agentIDs []string) (BatchResult, error) {
	result := newBatchResult()
	for _, id := range agentIDs {
		result.record(id, e.Unlink(ctx, id, skill))
	}
	return result, nil
}

// LinkSkills links each listed global skill into one agent. It fails outright
// when the agent is unknown or not detected; per-skill failures are reported
// in the result.
func (e *Engine) LinkSkills(ctx context.Context, agentID string, skills []string) (BatchResult, error) {
	if err := e.requireDetectedAgent(agentID); err != nil {
		return BatchResult{}, err
	}

	result := newBatchResult()
	for _, skill := range skills {
		result.record(skill, e.Link(ctx, agentID, skill))
	}
	return result, nil
}

// UnlinkSkills removes each listed skill's symlink from one agent. It fails
// outright when the agent is unknown or not detected.
func (e *Engine) UnlinkSkills(ctx context.Context, agentID string, skills []string) (BatchResult, error) {
	if err := e.requireDetectedAgent(agentID); err != nil {
		return BatchResult{}, err
	}

	result := newBatchResult()
	for _, skill := range skills {
		result.record(skill, e.Unlink(ctx, agentID, skill))
	}
	return result, nil
}

func (e *Engine) requireGlobalSkill(skill string) error {
	info, err := os.Lstat(filepath.Join(e.globalDir, skill))
	if err != nil {
		if os.IsNotExist(err) {
			return errdefs.NotInGlobal(skill)
		}
		return errdefs.IOFailure(err, "stat global skill %q", skill)
	}
	if !info.IsDir() {
		return errdefs.NotInGlobal(skill)
	}
	return nil
}

func (e *Engine) requireDetectedAgent(agentID string) error {
	def, err := registry.Get(agentID)
	if err != nil {
		return err
	}
	if !def.Detect(e.home).Detected {
		return errdefs.AgentNotDetected(agentID)
	}
	return nil
}
