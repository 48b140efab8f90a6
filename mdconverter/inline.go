package mdconverter

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"
)

// newInlineParser returns a goldmark parser whose only block parser is the
// paragraph parser. Block structure belongs to the lexer; goldmark handles
// inline syntax only.
func newInlineParser() parser.Parser {
	inlineParsers := append(
		parser.DefaultInlineParsers(),
		util.Prioritized(extension.NewStrikethroughParser(), 500),
	)

	return parser.NewParser(
		parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
		parser.WithInlineParsers(inlineParsers...),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	)
}

func (s *state) renderInline(markdown string) string {
	source := []byte(markdown)
	root := s.inline.Parse(text.NewReader(source))

	var sb strings.Builder
	for block := root.FirstChild(); block != nil; block = block.NextSibling() {
		if block != root.FirstChild() {
			sb.WriteByte('\n')
		}
		s.writeInlineChildren(&sb, block, source)
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (s *state) writeInlineChildren(sb *strings.Builder, parent ast.Node, source []byte) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		s.writeInlineNode(sb, child, source)
	}
}

func (s *state) writeInlineNode(sb *strings.Builder, node ast.Node, source []byte) {
	switch typed := node.(type) {
	case *ast.Text:
		sb.WriteString(escapeText(typed.Segment.Value(source)))
		if typed.HardLineBreak() {
			sb.WriteString("<br />\n")
		} else if typed.SoftLineBreak() {
			sb.WriteByte('\n')
		}

	case *ast.String:
		sb.WriteString(escapeText(typed.Value))

	case *ast.Emphasis:
		tag := "em"
		if typed.Level >= 2 {
			tag = "strong"
		}
		sb.WriteString("<" + tag + ">")
		s.writeInlineChildren(sb, typed, source)
		sb.WriteString("</" + tag + ">")

	case *extast.Strikethrough:
		sb.WriteString(`<span style="text-decoration: line-through;">`)
		s.writeInlineChildren(sb, typed, source)
		sb.WriteString("</span>")

	case *ast.CodeSpan:
		code := strings.ReplaceAll(collectText(typed, source), "\n", " ")
		sb.WriteString("<code>" + html.EscapeString(code) + "</code>")

	case *ast.Link:
		sb.WriteString(`<a href="` + html.EscapeString(string(typed.Destination)) + `"`)
		if title := strings.TrimSpace(string(typed.Title)); title != "" {
			sb.WriteString(` title="` + html.EscapeString(title) + `"`)
		}
		sb.WriteString(">")
		s.writeInlineChildren(sb, typed, source)
		sb.WriteString("</a>")

	case *ast.AutoLink:
		href := string(typed.URL(source))
		if typed.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(href), "mailto:") {
			href = "mailto:" + href
		}
		label := string(typed.Label(source))
		sb.WriteString(`<a href="` + html.EscapeString(href) + `">` + html.EscapeString(label) + "</a>")

	case *ast.Image:
		if len(typed.Title) > 0 {
			s.addWarning(WarningDroppedFeature, "image", "image titles are not supported by the image macro")
		}
		sb.WriteString(strings.TrimRight(RenderImage(string(typed.Destination)), "\n"))

	case *ast.RawHTML:
		for i := 0; i < typed.Segments.Len(); i++ {
			segment := typed.Segments.At(i)
			sb.Write(segment.Value(source))
		}

	default:
		if node.HasChildren() {
			s.writeInlineChildren(sb, node, source)
			return
		}
		textValue := collectText(node, source)
		if strings.TrimSpace(textValue) == "" {
			return
		}
		nodeKind := node.Kind().String()
		s.addWarning(
			WarningUnknownNode,
			nodeKind,
			fmt.Sprintf("unsupported markdown inline node: %s", nodeKind),
		)
		sb.WriteString(html.EscapeString(textValue))
	}
}

// escapeText resolves markdown escapes and entity references, then escapes
// the result for XHTML.
func escapeText(value []byte) string {
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	value = util.ResolveEntityNames(value)
	return html.EscapeString(string(value))
}

func collectText(node ast.Node, source []byte) string {
	var sb strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch typed := child.(type) {
		case *ast.Text:
			sb.Write(typed.Segment.Value(source))
			if typed.SoftLineBreak() || typed.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.String:
			sb.Write(typed.Value)
		default:
			sb.WriteString(collectText(child, source))
		}
	}
	return sb.String()
}
