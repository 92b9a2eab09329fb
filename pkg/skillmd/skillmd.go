// Package skillmd reads and writes SKILL.md metadata. Parsing is forgiving:
// YAML frontmatter is preferred, a heading-based layout is the fallback, and
// Load never fails so a malformed skill still shows up in listings under its
// directory name.
package skillmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"
)

// FileName is the metadata file every skill directory is expected to carry.
const FileName = "SKILL.md"

// DefaultDescription is used when a skill provides no description.
const DefaultDescription = "No description available"

// Metadata is the parsed content of a SKILL.md file.
type Metadata struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	AllowedTools []string `json:"allowed_tools"`
}

// Parse extracts metadata from SKILL.md content. Frontmatter between ---
// markers wins when present and well-formed (leading whitespace before the
// first marker is tolerated); otherwise the heading-based layout is parsed.
// Parse never fails: unrecognizable content yields empty fields.
func Parse(content []byte) Metadata {
	if m, ok := parseFrontmatter(content); ok {
		return m
	}
	return parseHeadings(string(content))
}

// Load reads and parses dir's SKILL.md. A missing or unreadable file, or one
// with blank fields, falls back to name (the skill's entry name, which can
// differ from dir's base name when dir is a resolved symlink target) and
// DefaultDescription. Load never returns an error.
func Load(dir, name string) Metadata {
	m := Metadata{AllowedTools: []string{}}
	if content, err := os.ReadFile(filepath.Join(dir, FileName)); err == nil {
		m = Parse(content)
	}
	if m.Name == "" {
		m.Name = name
	}
	if m.Description == "" {
		m.Description = DefaultDescription
	}
	return m
}

// Format renders metadata as SKILL.md frontmatter. The output parses back to
// an equivalent Metadata, and the allowed-tools block is omitted when empty.
func Format(m Metadata) string {
	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content,
		keyNode("name"), valueNode(m.Name),
		keyNode("description"), valueNode(m.Description),
	)
	if len(m.AllowedTools) > 0 {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, tool := range m.AllowedTools {
			seq.Content = append(seq.Content, valueNode(tool))
		}
		root.Content = append(root.Content, keyNode("allowed-tools"), seq)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	// Encoding scalar and sequence nodes cannot fail.
	_ = enc.Encode(root)
	_ = enc.Close()

	buf.WriteString("---\n")
	return buf.String()
}

func keyNode(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: key}
}

func valueNode(value string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
	if needsQuoting(value) {
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}

// needsQuoting reports whether a plain YAML scalar would change meaning under
// a YAML 1.1 reader: special punctuation, a special leading character, or one
// of the legacy boolean/null words.
func needsQuoting(value string) bool {
	if value == "" {
		return false
	}
	if strings.ContainsAny(value, ":#[]{},&*!|>'\"%@`") {
		return true
	}
	switch value[0] {
	case '-', '?', ' ':
		return true
	}
	switch strings.ToLower(value) {
	case "true", "false", "yes", "no", "on", "off", "null", "~":
		return true
	}
	return false
}

func parseFrontmatter(content []byte) (Metadata, bool) {
	doc := bytes.TrimLeft(content, " \t\r\n")
	if !bytes.HasPrefix(doc, []byte("---")) {
		return Metadata{}, false
	}
	// Unclosed frontmatter is not frontmatter.
	if !bytes.Contains(doc[3:], []byte("\n---")) {
		return Metadata{}, false
	}

	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(doc, &buf, parser.WithContext(pctx)); err != nil {
		return Metadata{}, false
	}

	fields, err := meta.TryGet(pctx)
	if err != nil || fields == nil {
		return Metadata{}, false
	}

	m := Metadata{AllowedTools: []string{}}
	if name, ok := fields["name"].(string); ok {
		m.Name = name
	}
	if desc, ok := fields["description"].(string); ok {
		m.Description = desc
	}
	if tools, ok := fields["allowed-tools"].([]interface{}); ok {
		for _, tool := range tools {
			if s, ok := tool.(string); ok {
				m.AllowedTools = append(m.AllowedTools, s)
			}
		}
	}
	return m, true
}

// parseHeadings handles SKILL.md files without frontmatter: the first "# "
// heading is the name, the paragraph after it the description, and a heading
// containing "allowed tools" (any level, any case) introduces a -/* list of
// tool names.
func parseHeadings(content string) Metadata {
	m := Metadata{AllowedTools: []string{}}
	lines := strings.Split(content, "\n")

	i := 0
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "# ") {
			m.Name = strings.TrimSpace(line[2:])
			i++
			break
		}
	}

	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}

	var desc []string
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "#") {
			break
		}
		desc = append(desc, line)
	}
	m.Description = strings.Join(desc, " ")

	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "#") || !strings.Contains(strings.ToLower(line), "allowed tools") {
			continue
		}
		for i++; i < len(lines); i++ {
			item := strings.TrimSpace(lines[i])
			if strings.HasPrefix(item, "#") {
				break
			}
			if strings.HasPrefix(item, "- ") || strings.HasPrefix(item, "* ") {
				if tool := strings.TrimSpace(item[2:]); tool != "" {
					m.AllowedTools = append(m.AllowedTools, tool)
				}
			}
		}
		break
	}

	return m
}
