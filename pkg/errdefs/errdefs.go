// Package errdefs defines the closed set of error kinds produced by the
// reconciliation engine. Every error carries its kind plus the offending
// agent id and/or skill name so callers can render specific, actionable
// messages instead of a generic failure.
package errdefs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies one error class in the engine's taxonomy.
type Kind int

const (
	// KindUnknown is the zero value for errors outside the taxonomy.
	KindUnknown Kind = iota
	// KindInvalidPath means a scan target exists but is not a directory.
	KindInvalidPath
	// KindAgentNotDetected means a mutation targeted an agent whose skills
	// directory does not exist.
	KindAgentNotDetected
	// KindAlreadyLinked means a link would overwrite an existing agent entry.
	KindAlreadyLinked
	// KindAlreadyInGlobal means an upload would overwrite a global entry.
	KindAlreadyInGlobal
	// KindNotASymlink means an unlink targeted an entry that is not a symlink.
	KindNotASymlink
	// KindNotLocal means a delete or upload targeted an entry that is not a
	// local skill directory.
	KindNotLocal
	// KindNotInGlobal means a link referenced a skill absent from the global
	// directory.
	KindNotInGlobal
	// KindIOFailure wraps an unexpected filesystem error (permission denied,
	// disk full, ...).
	KindIOFailure
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidPath:
		return "invalid_path"
	case KindAgentNotDetected:
		return "agent_not_detected"
	case KindAlreadyLinked:
		return "already_linked"
	case KindAlreadyInGlobal:
		return "already_in_global"
	case KindNotASymlink:
		return "not_a_symlink"
	case KindNotLocal:
		return "not_local"
	case KindNotInGlobal:
		return "not_in_global"
	case KindIOFailure:
		return "io_failure"
	default:
		return "unknown"
	}
}

// Error is a taxonomy error. Agent and Skill are empty when the kind does not
// involve one.
type Error struct {
	Kind  Kind
	Agent string
	Skill string
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// InvalidPath reports a scan target that exists but is not a directory.
func InvalidPath(path string) error {
	return &Error{
		Kind: KindInvalidPath,
		msg:  fmt.Sprintf("path %q exists but is not a directory", path),
	}
}

// AgentNotDetected reports a mutation against an agent whose skills directory
// does not exist.
func AgentNotDetected(agentID string) error {
	return &Error{
		Kind:  KindAgentNotDetected,
		Agent: agentID,
		msg:   fmt.Sprintf("agent %q skills directory does not exist", agentID),
	}
}

// AlreadyLinked reports a link that would overwrite an existing entry.
func AlreadyLinked(agentID, skill string) error {
	return &Error{
		Kind:  KindAlreadyLinked,
		Agent: agentID,
		Skill: skill,
		msg:   fmt.Sprintf("an entry named %q already exists in agent %q", skill, agentID),
	}
}

// AlreadyInGlobal reports an upload that would overwrite a global skill.
func AlreadyInGlobal(skill string) error {
	return &Error{
		Kind:  KindAlreadyInGlobal,
		Skill: skill,
		msg:   fmt.Sprintf("skill %q already exists in the global directory", skill),
	}
}

// NotASymlink reports an unlink against an entry that is absent or is not a
// symlink. Unlink must never delete real user data.
func NotASymlink(agentID, skill string) error {
	return &Error{
		Kind:  KindNotASymlink,
		Agent: agentID,
		Skill: skill,
		msg:   fmt.Sprintf("entry %q in agent %q is not a symlink", skill, agentID),
	}
}

// NotLocal reports a delete or upload against an entry that is absent, a
// symlink, or a stray file rather than a local skill directory.
func NotLocal(agentID, skill string) error {
	return &Error{
		Kind:  KindNotLocal,
		Agent: agentID,
		Skill: skill,
		msg:   fmt.Sprintf("entry %q in agent %q is not a local skill directory", skill, agentID),
	}
}

// NotInGlobal reports a link referencing a skill the global directory does not
// contain.
func NotInGlobal(skill string) error {
	return &Error{
		Kind:  KindNotInGlobal,
		Skill: skill,
		msg:   fmt.Sprintf("skill %q does not exist in the global directory", skill),
	}
}

// IOFailure wraps an unexpected filesystem error with a formatted context
// message.
func IOFailure(cause error, format string, args ...any) error {
	return &Error{
		Kind:  KindIOFailure,
		msg:   fmt.Sprintf(format, args...),
		cause: cause,
	}
}

// GetKind extracts the taxonomy kind from err, unwrapping as needed. It
// returns KindUnknown for errors outside the taxonomy.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsInvalidPath reports whether err is an InvalidPath error.
func IsInvalidPath(err error) bool { return GetKind(err) == KindInvalidPath }

// IsAgentNotDetected reports whether err is an AgentNotDetected error.
func IsAgentNotDetected(err error) bool { return GetKind(err) == KindAgentNotDetected }

// IsAlreadyLinked reports whether err is an AlreadyLinked error.
func IsAlreadyLinked(err error) bool { return GetKind(err) == KindAlreadyLinked }

// IsAlreadyInGlobal reports whether err is an AlreadyInGlobal error.
func IsAlreadyInGlobal(err error) bool { return GetKind(err) == KindAlreadyInGlobal }

// IsNotASymlink reports whether err is a NotASymlink error.
func IsNotASymlink(err error) bool { return GetKind(err) == KindNotASymlink }

// IsNotLocal reports whether err is a NotLocal error.
func IsNotLocal(err error) bool { return GetKind(err) == KindNotLocal }

// IsNotInGlobal reports whether err is a NotInGlobal error.
func IsNotInGlobal(err error) bool { return GetKind(err) == KindNotInGlobal }

// IsIOFailure reports whether err is an IOFailure error.
func IsIOFailure(err error) bool { return GetKind(err) == KindIOFailure }
