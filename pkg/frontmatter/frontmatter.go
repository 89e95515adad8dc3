// Package frontmatter parses the metadata header of content files. The
// supported surface is deliberately narrow: scalar string values and flat
// string lists (the `tools: ["Read", "Grep"]` shape used by agent files).
// Anything else the YAML grammar allows is rejected rather than coerced.
package frontmatter

import (
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Sentinel errors for the two parse failure modes. Callers branch with
// errors.Is; wrapped messages carry the offending key or feature.
var (
	// ErrMalformed indicates the frontmatter block is not parseable at all.
	ErrMalformed = errors.New("malformed frontmatter")
	// ErrUnsupportedFeature indicates the block parses as YAML but uses a
	// feature outside the supported scalar/string-list subset.
	ErrUnsupportedFeature = errors.New("unsupported frontmatter feature")
)

const delimiter = "---"

// Value is a tagged variant holding either a scalar string or a flat list of
// strings.
type Value struct {
	scalar string
	list   []string
	isList bool
}

// StringValue returns a scalar Value.
func StringValue(s string) Value {
	return Value{scalar: s}
}

// ListValue returns a list Value.
func ListValue(items ...string) Value {
	return Value{list: items, isList: true}
}

// IsList reports whether the value is a list.
func (v Value) IsList() bool { return v.isList }

// String returns the scalar form. For a list it returns the elements joined
// with ", " so callers can always render a value.
func (v Value) String() string {
	if v.isList {
		return strings.Join(v.list, ", ")
	}
	return v.scalar
}

// List returns the list form; a scalar yields nil.
func (v Value) List() []string {
	if !v.isList {
		return nil
	}
	return v.list
}

// Frontmatter maps keys to their parsed values.
type Frontmatter map[string]Value

// GetString returns the scalar value for key, or "" if the key is absent or
// holds a list.
func (f Frontmatter) GetString(key string) string {
	v, ok := f[key]
	if !ok || v.isList {
		return ""
	}
	return v.scalar
}

// GetList returns the list value for key, or nil if the key is absent or
// holds a scalar.
func (f Frontmatter) GetList(key string) []string {
	v, ok := f[key]
	if !ok {
		return nil
	}
	return v.List()
}

// Parse extracts the frontmatter block from contents. A file that does not
// begin with the opening delimiter has no frontmatter; that is not an error
// and yields an empty map. Duplicate keys resolve last-write-wins.
func Parse(contents string) (Frontmatter, error) {
	block, ok, err := extractBlock(contents)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Frontmatter{}, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}

	if len(doc.Content) == 0 {
		return Frontmatter{}, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.Wrap(ErrMalformed, "frontmatter is not a key/value mapping")
	}

	fm := Frontmatter{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode := root.Content[i]
		valNode := root.Content[i+1]

		if keyNode.Kind != yaml.ScalarNode {
			return nil, errors.Wrap(ErrUnsupportedFeature, "non-scalar mapping key")
		}
		if keyNode.Anchor != "" || valNode.Anchor != "" {
			return nil, errors.Wrapf(ErrUnsupportedFeature, "anchor on key %q", keyNode.Value)
		}

		value, err := decodeValue(keyNode.Value, valNode)
		if err != nil {
			return nil, err
		}
		// Last write wins for duplicate keys.
		fm[keyNode.Value] = value
	}

	return fm, nil
}

func decodeValue(key string, node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return StringValue(node.Value), nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, el := range node.Content {
			if el.Kind != yaml.ScalarNode {
				return Value{}, errors.Wrapf(ErrUnsupportedFeature, "non-string list element under key %q", key)
			}
			if el.Anchor != "" {
				return Value{}, errors.Wrapf(ErrUnsupportedFeature, "anchor in list under key %q", key)
			}
			items = append(items, el.Value)
		}
		return ListValue(items...), nil
	case yaml.MappingNode:
		return Value{}, errors.Wrapf(ErrUnsupportedFeature, "nested mapping under key %q", key)
	case yaml.AliasNode:
		return Value{}, errors.Wrapf(ErrUnsupportedFeature, "alias under key %q", key)
	default:
		return Value{}, errors.Wrapf(ErrUnsupportedFeature, "unsupported node under key %q", key)
	}
}

// Body returns contents with any frontmatter block removed. Files without a
// block are returned unchanged.
func Body(contents string) string {
	if !strings.HasPrefix(contents, delimiter) {
		return contents
	}

	lines := strings.Split(contents, "\n")
	if trimLine(lines[0]) != delimiter {
		return contents
	}

	for i := 1; i < len(lines); i++ {
		if trimLine(lines[i]) == delimiter {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}

	return contents
}

// extractBlock returns the text between the opening and closing delimiters.
// ok is false when the file has no frontmatter at all.
func extractBlock(contents string) (block string, ok bool, err error) {
	lines := strings.Split(contents, "\n")
	if len(lines) == 0 || trimLine(lines[0]) != delimiter {
		return "", false, nil
	}

	for i := 1; i < len(lines); i++ {
		if trimLine(lines[i]) == delimiter {
			return strings.Join(lines[1:i], "\n"), true, nil
		}
	}

	return "", false, errors.Wrap(ErrMalformed, "unterminated frontmatter block")
}

// trimLine strips a trailing carriage return so CRLF files parse the same as
// LF files.
func trimLine(line string) string {
	return strings.TrimSuffix(line, "\r")
}
