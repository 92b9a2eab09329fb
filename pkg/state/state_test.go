package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rayhashcell/skills-manager/pkg/scanner"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		entry *scanner.Entry
		want  Status
	}{
		{"absent entry", nil, StatusNotInstalled},
		{"symlink", &scanner.Entry{Name: "s", Kind: scanner.KindSymlink, LinkTarget: "/g/s"}, StatusSymlink},
		{"broken symlink", &scanner.Entry{Name: "s", Kind: scanner.KindSymlink, LinkTarget: "/gone"}, StatusSymlink},
		{"real directory", &scanner.Entry{Name: "s", Kind: scanner.KindDir}, StatusLocal},
		{"stray file", &scanner.Entry{Name: "s", Kind: scanner.KindOther}, StatusNotInstalled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.entry))
		})
	}
}

func TestStatusWireValues(t *testing.T) {
	assert.Equal(t, "symlink", string(StatusSymlink))
	assert.Equal(t, "local", string(StatusLocal))
	assert.Equal(t, "not_installed", string(StatusNotInstalled))
}
