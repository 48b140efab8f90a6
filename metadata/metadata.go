// Package metadata splits the header block of a document from its Markdown
// body.
//
// A header is a run of "key: value" lines at the very start of the document.
// Keys are word characters. A value continues on following lines indented by
// at least two spaces:
//
//	id: 123456
//	title: Release notes
//	summary: first line
//	  second line
//
//	# Body starts here
package metadata

import (
	"regexp"
	"strings"
)

var (
	headerPattern      = regexp.MustCompile(`^(\w+):[ \t]*(.+)\n((?:[ \t]{2,}.*\n)*)`)
	indentationPattern = regexp.MustCompile(`\n\s{2,}`)
)

// Metadata is an ordered mapping of header keys to values. Setting an
// existing key replaces its value and keeps its original position.
type Metadata struct {
	keys   []string
	values map[string]string
}

// New returns an empty Metadata.
func New() *Metadata {
	return &Metadata{values: map[string]string{}}
}

// Set stores value under key.
func (m *Metadata) Set(key, value string) {
	if m.values == nil {
		m.values = map[string]string{}
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *Metadata) Get(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	value, ok := m.values[key]
	return value, ok
}

// Keys returns the keys in first-insertion order.
func (m *Metadata) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of keys.
func (m *Metadata) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Map returns a copy of the key/value pairs.
func (m *Metadata) Map() map[string]string {
	out := make(map[string]string, m.Len())
	if m == nil {
		return out
	}
	for key, value := range m.values {
		out[key] = value
	}
	return out
}

// Extract consumes the header lines at the start of text and returns them
// with the remaining body. Extraction stops at the first line that is not a
// header line; text without a header is returned unchanged.
//
// A body line indented by two or more spaces directly after the header is
// read as a continuation of the last value.
func Extract(text string) (*Metadata, string) {
	meta := New()
	for {
		match := headerPattern.FindStringSubmatch(text)
		if match == nil {
			break
		}

		value := strings.TrimSpace(match[2] + "\n" + match[3])
		meta.Set(match[1], indentationPattern.ReplaceAllString(value, "\n"))
		text = text[len(match[0]):]
	}
	return meta, text
}

// Parse reads YAML front matter when the document opens with one and falls
// back to Extract otherwise. Malformed front matter is an error.
func Parse(text string) (*Metadata, string, error) {
	if hasFrontMatter(text) {
		return ParseFrontMatter(text)
	}
	meta, body := Extract(text)
	return meta, body, nil
}
