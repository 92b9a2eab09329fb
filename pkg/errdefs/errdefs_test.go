package errdefs

import (
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCarriesContext(t *testing.T) {
	err := AlreadyLinked("cursor", "tailwind-v4-shadcn")

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, KindAlreadyLinked, e.Kind)
	assert.Equal(t, "cursor", e.Agent)
	assert.Equal(t, "tailwind-v4-shadcn", e.Skill)
	assert.Contains(t, err.Error(), "tailwind-v4-shadcn")
	assert.Contains(t, err.Error(), "cursor")
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		kind      Kind
		predicate func(error) bool
	}{
		{"invalid path", InvalidPath("/tmp/file.txt"), KindInvalidPath, IsInvalidPath},
		{"agent not detected", AgentNotDetected("goose"), KindAgentNotDetected, IsAgentNotDetected},
		{"already linked", AlreadyLinked("cursor", "a"), KindAlreadyLinked, IsAlreadyLinked},
		{"already in global", AlreadyInGlobal("a"), KindAlreadyInGlobal, IsAlreadyInGlobal},
		{"not a symlink", NotASymlink("cursor", "a"), KindNotASymlink, IsNotASymlink},
		{"not local", NotLocal("cursor", "a"), KindNotLocal, IsNotLocal},
		{"not in global", NotInGlobal("a"), KindNotInGlobal, IsNotInGlobal},
		{"io failure", IOFailure(os.ErrPermission, "read %s", "/tmp"), KindIOFailure, IsIOFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.predicate(tt.err))
			assert.Equal(t, tt.kind, GetKind(tt.err))

			for _, other := range tests {
				if other.kind == tt.kind {
					continue
				}
				assert.False(t, other.predicate(tt.err), "%s should not match %s", tt.name, other.name)
			}
		})
	}
}

func TestPredicatesThroughWrapping(t *testing.T) {
	err := errors.Wrap(NotInGlobal("custom-skill"), "linking skill to all agents")

	assert.True(t, IsNotInGlobal(err))
	assert.Equal(t, KindNotInGlobal, GetKind(err))
	assert.Contains(t, err.Error(), "linking skill to all agents")
}

func TestIOFailureUnwrapsCause(t *testing.T) {
	err := IOFailure(os.ErrPermission, "read directory %q", "/root/.agents/skills")

	assert.True(t, errors.Is(err, os.ErrPermission))
	assert.Contains(t, err.Error(), `read directory "/root/.agents/skills"`)
	assert.Contains(t, err.Error(), os.ErrPermission.Error())
}

func TestGetKindUnknownForForeignErrors(t *testing.T) {
	assert.Equal(t, KindUnknown, GetKind(errors.New("boom")))
	assert.Equal(t, KindUnknown, GetKind(nil))
	assert.False(t, IsIOFailure(errors.New("boom")))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "already_linked", KindAlreadyLinked.String())
	assert.Equal(t, "not_in_global", KindNotInGlobal.String())
	assert.Equal(t, "io_failure", KindIOFailure.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}
