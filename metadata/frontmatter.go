package metadata

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
)

var frontMatterEnd = regexp.MustCompile(`(?m)^---[ \t]*$`)

// hasFrontMatter reports whether text opens with a "---" line that is closed
// by a later "---" line. A lone leading "---" is a thematic break.
func hasFrontMatter(text string) bool {
	if !strings.HasPrefix(text, "---\n") {
		return false
	}
	return frontMatterEnd.MatchString(text[len("---\n"):])
}

// ParseFrontMatter reads a YAML front matter block delimited by "---" lines.
// Scalar values are kept as their string form; keys are ordered
// alphabetically since YAML mappings carry no order once decoded.
func ParseFrontMatter(text string) (*Metadata, string, error) {
	var raw map[string]any
	body, err := frontmatter.Parse(strings.NewReader(text), &raw)
	if err != nil {
		return nil, "", fmt.Errorf("parse frontmatter: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	meta := New()
	for _, key := range keys {
		meta.Set(key, stringify(raw[key]))
	}

	return meta, string(body), nil
}

func stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(typed)
	case []any:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(typed)
	}
}
