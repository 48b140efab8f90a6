package mdconverter

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

func (s *state) renderBlocks(tokens []Token) string {
	var sb strings.Builder
	for _, token := range tokens {
		sb.WriteString(s.renderBlock(token, false))
	}
	return sb.String()
}

// renderBlock renders one token. Paragraphs directly inside tight list items
// are written without the <p> wrapper. Popup text is XML-escaped, so markup
// typed after a popup marker shows up literally instead of being passed
// through to the page.
func (s *state) renderBlock(token Token, tight bool) string {
	switch token.Type {
	case TokenParagraph:
		if tight {
			return s.renderInline(token.Text) + "\n"
		}
		return "<p>" + s.renderInline(token.Text) + "</p>\n"
	case TokenHeading:
		return s.renderHeading(token)
	case TokenCodeBlock:
		return s.renderCodeBlock(token)
	case TokenPopup:
		return CreatePopup(token.Style, html.EscapeString(token.Text))
	case TokenList:
		return s.renderList(token)
	case TokenBlockquote:
		return "<blockquote>\n" + s.renderBlocks(token.Children) + "</blockquote>\n"
	case TokenThematicBreak:
		return "<hr />\n"
	case TokenHTML:
		return token.Text + "\n"
	default:
		s.addWarning(
			WarningUnknownNode,
			string(token.Type),
			fmt.Sprintf("unsupported markdown block token: %s", token.Type),
		)
		return ""
	}
}

func (s *state) renderHeading(token Token) string {
	level := token.Level + s.config.HeadingOffset
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return fmt.Sprintf("<h%d>%s</h%d>\n", level, s.renderInline(token.Text), level)
}

func (s *state) renderCodeBlock(token Token) string {
	language := strings.TrimSpace(token.Lang)
	if mapped, ok := s.config.LanguageMap[language]; ok {
		language = mapped
	}
	if language == "" {
		language = s.config.DefaultLanguage
	}

	return Fragment(FragmentCode, Slots{
		Lang:     language,
		Contents: escapeCDATA(token.Text),
	})
}

func (s *state) renderList(token Token) string {
	tag, open := "ul", "<ul>"
	if token.Ordered {
		tag, open = "ol", "<ol>"
		if token.Start != 1 {
			open = fmt.Sprintf(`<ol start="%d">`, token.Start)
		}
	}

	var sb strings.Builder
	sb.WriteString(open)
	sb.WriteByte('\n')
	for _, item := range token.Children {
		var inner strings.Builder
		for _, child := range item.Children {
			inner.WriteString(s.renderBlock(child, token.Tight))
		}
		sb.WriteString("<li>")
		sb.WriteString(strings.TrimRight(inner.String(), "\n"))
		sb.WriteString("</li>\n")
	}
	sb.WriteString("</" + tag + ">\n")

	return sb.String()
}

// RenderImage renders an image reference. Sources starting with "http" are
// remote images; anything else is the filename of a page attachment.
func RenderImage(src string) string {
	if strings.HasPrefix(src, "http") {
		return Fragment(FragmentImageURL, Slots{URL: html.EscapeString(src)})
	}
	return Fragment(FragmentImageAttachment, Slots{Filename: html.EscapeString(src)})
}

// escapeCDATA splits any CDATA terminator in s across two sections.
func escapeCDATA(s string) string {
	return strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>")
}
