package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	meta, body := Extract("id: 123\ntitle: Release notes\nspace: DOC\n# Heading\n\nBody text\n")

	assert.Equal(t, []string{"id", "title", "space"}, meta.Keys())
	assert.Equal(t, map[string]string{
		"id":    "123",
		"title": "Release notes",
		"space": "DOC",
	}, meta.Map())
	assert.Equal(t, "# Heading\n\nBody text\n", body)
}

func TestExtractNoHeader(t *testing.T) {
	text := "# Heading\nid: 1\n"
	meta, body := Extract(text)
	assert.Equal(t, 0, meta.Len())
	assert.Equal(t, text, body)
}

func TestExtractContinuationLines(t *testing.T) {
	meta, body := Extract("summary: first line\n  second line\n\t\tthird line\ntitle: T\nbody\n")

	summary, ok := meta.Get("summary")
	require.True(t, ok)
	assert.Equal(t, "first line\nsecond line\nthird line", summary)

	title, _ := meta.Get("title")
	assert.Equal(t, "T", title)
	assert.Equal(t, "body\n", body)
}

func TestExtractDuplicateKeys(t *testing.T) {
	meta, _ := Extract("title: first\nid: 1\ntitle: second\n")
	assert.Equal(t, []string{"title", "id"}, meta.Keys())

	title, _ := meta.Get("title")
	assert.Equal(t, "second", title)
}

func TestExtractTrimsValues(t *testing.T) {
	meta, _ := Extract("title:    spaced out   \n")
	title, _ := meta.Get("title")
	assert.Equal(t, "spaced out", title)
}

func TestExtractRequiresValue(t *testing.T) {
	meta, body := Extract("title:\n# Body\n")
	assert.Equal(t, 0, meta.Len())
	assert.Equal(t, "title:\n# Body\n", body)
}

func TestExtractHeaderWithoutTrailingNewline(t *testing.T) {
	meta, body := Extract("id: 1\ntitle: last")
	assert.Equal(t, []string{"id"}, meta.Keys())
	assert.Equal(t, "title: last", body)
}

func TestMetadataNilSafe(t *testing.T) {
	var meta *Metadata
	_, ok := meta.Get("id")
	assert.False(t, ok)
	assert.Nil(t, meta.Keys())
	assert.Equal(t, 0, meta.Len())
	assert.Empty(t, meta.Map())
}

func TestParseFrontMatter(t *testing.T) {
	text := "---\ntitle: Release notes\nid: 123\nspace: DOC\ntags:\n  - a\n  - b\n---\n# Heading\n"

	meta, body, err := ParseFrontMatter(text)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "space", "tags", "title"}, meta.Keys())

	id, _ := meta.Get("id")
	assert.Equal(t, "123", id)
	tags, _ := meta.Get("tags")
	assert.Equal(t, "a, b", tags)
	assert.Contains(t, body, "# Heading")
	assert.NotContains(t, body, "title:")
}

func TestParse(t *testing.T) {
	t.Run("front matter", func(t *testing.T) {
		meta, body, err := Parse("---\nid: 7\n---\nBody\n")
		require.NoError(t, err)
		id, ok := meta.Get("id")
		require.True(t, ok)
		assert.Equal(t, "7", id)
		assert.Contains(t, body, "Body")
	})

	t.Run("header lines", func(t *testing.T) {
		meta, body, err := Parse("id: 7\nBody\n")
		require.NoError(t, err)
		id, _ := meta.Get("id")
		assert.Equal(t, "7", id)
		assert.Equal(t, "Body\n", body)
	})

	t.Run("malformed front matter", func(t *testing.T) {
		_, _, err := Parse("---\nid: [7\n---\nBody\n")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse frontmatter")
	})

	t.Run("leading thematic break", func(t *testing.T) {
		meta, body, err := Parse("---\n\nBody\n")
		require.NoError(t, err)
		_, ok := meta.Get("id")
		assert.False(t, ok)
		assert.Contains(t, body, "Body")
	})
}

func TestPageInfo(t *testing.T) {
	meta, _ := Extract("id: 42\ntitle: Guide\nspace: DOC\n")

	info, err := meta.PageInfo()
	require.NoError(t, err)
	assert.Equal(t, PageInfo{ID: "42", Title: "Guide", Space: "DOC"}, info)
}

func TestPageInfoMissingFields(t *testing.T) {
	meta, _ := Extract("title: Guide\n")

	_, err := meta.PageInfo()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingField)

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"id", "space"}, missing.Fields)
	assert.Equal(t, "missing required metadata field(s): id, space", err.Error())
}
