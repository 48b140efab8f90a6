package mdconverter

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	popupPattern         = regexp.MustCompile(`(?s)^~([?!%])(.*?)\n`)
	fenceOpenPattern     = regexp.MustCompile("^( {0,3})(`{3,}|~{3,})[ \\t]*([^`]*?)[ \\t]*$")
	atxHeadingPattern    = regexp.MustCompile(`^ {0,3}(#{1,6})(?:[ \t]+(.*?))?(?:[ \t]+#+)?[ \t]*$`)
	setextPattern        = regexp.MustCompile(`^ {0,3}(=+|-+)[ \t]*$`)
	thematicBreakPattern = regexp.MustCompile(`^ {0,3}(?:(?:-[ \t]*){3,}|(?:\*[ \t]*){3,}|(?:_[ \t]*){3,})$`)
	blockquotePattern    = regexp.MustCompile(`^ {0,3}> ?`)
	listMarkerPattern    = regexp.MustCompile(`^( {0,3})([-*+]|\d{1,9}[.)])(?:[ \t]+|$)`)
	htmlBlockPattern     = regexp.MustCompile(`^ {0,3}(?:<!--|</?[A-Za-z][A-Za-z0-9:-]*(?:[ \t/>]|$))`)
)

// blockRule consumes one block from the start of src. It returns the number
// of bytes consumed, or 0 when it does not apply. A rule may consume input
// without producing a token by returning a Token with an empty Type.
type blockRule struct {
	name  string
	match func(src string) (Token, int)
}

type lexer struct {
	rules []blockRule
}

// newLexer builds the ordered rule list. The popup rule runs first so a
// leading marker line is never claimed by another rule.
func newLexer() *lexer {
	l := &lexer{}
	l.rules = []blockRule{
		{name: "popup", match: l.lexPopup},
		{name: "fenced_code", match: l.lexFencedCode},
		{name: "indented_code", match: l.lexIndentedCode},
		{name: "heading", match: l.lexHeading},
		{name: "thematic_break", match: l.lexThematicBreak},
		{name: "blockquote", match: l.lexBlockquote},
		{name: "list", match: l.lexList},
		{name: "html", match: l.lexHTMLBlock},
		{name: "blank", match: l.lexBlankLine},
		{name: "paragraph", match: l.lexParagraph},
	}
	return l
}

// Tokenize splits a markdown document into block tokens.
func Tokenize(markdown string) []Token {
	return newLexer().tokenize(normalizeSource(markdown))
}

func normalizeSource(src string) string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")
	if src != "" && !strings.HasSuffix(src, "\n") {
		src += "\n"
	}
	return src
}

func (l *lexer) tokenize(src string) []Token {
	var tokens []Token
	for src != "" {
		for _, rule := range l.rules {
			token, n := rule.match(src)
			if n == 0 {
				continue
			}
			if token.Type != "" {
				tokens = append(tokens, token)
			}
			src = src[n:]
			break
		}
	}
	return tokens
}

func (l *lexer) lexPopup(src string) (Token, int) {
	match := popupPattern.FindStringSubmatch(src)
	if match == nil {
		return Token{}, 0
	}

	return Token{
		Type:  TokenPopup,
		Style: popupMarkers[match[1][0]],
		Text:  match[2],
	}, len(match[0])
}

func (l *lexer) lexFencedCode(src string) (Token, int) {
	first, consumed := nextLine(src)
	match := fenceOpenPattern.FindStringSubmatch(first)
	if match == nil {
		return Token{}, 0
	}

	indent, fence, info := len(match[1]), match[2], match[3]
	var body []string
	for consumed < len(src) {
		line, size := nextLine(src[consumed:])
		consumed += size
		if isClosingFence(line, fence) {
			break
		}
		body = append(body, removeIndent(line, indent))
	}

	var language string
	if fields := strings.Fields(info); len(fields) > 0 {
		language = fields[0]
	}

	return Token{
		Type: TokenCodeBlock,
		Lang: language,
		Text: strings.TrimRight(strings.Join(body, "\n"), "\n"),
	}, consumed
}

func (l *lexer) lexIndentedCode(src string) (Token, int) {
	first, consumed := nextLine(src)
	if !isIndentedCode(first) {
		return Token{}, 0
	}

	lines := []string{removeIndent(first, 4)}
	for consumed < len(src) {
		line, size := nextLine(src[consumed:])
		if !isBlank(line) && !isIndentedCode(line) {
			break
		}
		lines = append(lines, removeIndent(line, 4))
		consumed += size
	}
	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}

	return Token{
		Type: TokenCodeBlock,
		Text: strings.Join(lines, "\n"),
	}, consumed
}

func (l *lexer) lexHeading(src string) (Token, int) {
	line, consumed := nextLine(src)
	match := atxHeadingPattern.FindStringSubmatch(line)
	if match == nil {
		return Token{}, 0
	}

	return Token{
		Type:  TokenHeading,
		Level: len(match[1]),
		Text:  strings.TrimSpace(match[2]),
	}, consumed
}

func (l *lexer) lexThematicBreak(src string) (Token, int) {
	line, consumed := nextLine(src)
	if !thematicBreakPattern.MatchString(line) {
		return Token{}, 0
	}
	return Token{Type: TokenThematicBreak}, consumed
}

func (l *lexer) lexBlockquote(src string) (Token, int) {
	var inner strings.Builder
	consumed := 0
	for consumed < len(src) {
		line, size := nextLine(src[consumed:])
		loc := blockquotePattern.FindStringIndex(line)
		if loc == nil {
			break
		}
		inner.WriteString(line[loc[1]:])
		inner.WriteByte('\n')
		consumed += size
	}
	if consumed == 0 {
		return Token{}, 0
	}

	return Token{
		Type:     TokenBlockquote,
		Children: l.tokenize(inner.String()),
	}, consumed
}

func (l *lexer) lexList(src string) (Token, int) {
	first, _ := nextLine(src)
	marker, ok := parseListMarker(first)
	if !ok {
		return Token{}, 0
	}

	list := Token{
		Type:    TokenList,
		Ordered: marker.ordered,
		Start:   marker.start,
		Tight:   true,
	}

	consumed := 0
	current := marker
	for {
		line, size := nextLine(src[consumed:])
		var body strings.Builder
		body.WriteString(line[min(current.width, len(line)):])
		body.WriteByte('\n')
		consumed += size

		for consumed < len(src) {
			next, nextSize := nextLine(src[consumed:])
			if isBlank(next) {
				blanks, blankSize := countBlankLines(src[consumed:])
				after, _ := nextLine(src[consumed+blankSize:])
				if consumed+blankSize < len(src) && indentation(after) >= current.width {
					body.WriteString(strings.Repeat("\n", blanks))
					consumed += blankSize
					list.Tight = false
					continue
				}
				break
			}
			if indentation(next) >= current.width {
				body.WriteString(removeIndent(next, current.width))
				body.WriteByte('\n')
				consumed += nextSize
				continue
			}
			if _, isItem := parseListMarker(next); isItem || startsBlock(next) {
				break
			}
			// Lazy continuation of the item's last paragraph.
			body.WriteString(strings.TrimLeft(next, " \t"))
			body.WriteByte('\n')
			consumed += nextSize
		}

		list.Children = append(list.Children, Token{
			Type:     TokenListItem,
			Children: l.tokenize(body.String()),
		})

		rest := src[consumed:]
		blanks, blankSize := countBlankLines(rest)
		if blankSize >= len(rest) {
			break
		}
		candidate, _ := nextLine(rest[blankSize:])
		sibling, ok := parseListMarker(candidate)
		if !ok || !sibling.sameList(marker) {
			break
		}
		if blanks > 0 {
			list.Tight = false
		}
		consumed += blankSize
		current = sibling
	}

	return list, consumed
}

func (l *lexer) lexHTMLBlock(src string) (Token, int) {
	first, _ := nextLine(src)
	if !htmlBlockPattern.MatchString(first) {
		return Token{}, 0
	}

	var lines []string
	consumed := 0
	for consumed < len(src) {
		line, size := nextLine(src[consumed:])
		if isBlank(line) {
			break
		}
		lines = append(lines, line)
		consumed += size
	}

	return Token{
		Type: TokenHTML,
		Text: strings.Join(lines, "\n"),
	}, consumed
}

func (l *lexer) lexBlankLine(src string) (Token, int) {
	line, consumed := nextLine(src)
	if !isBlank(line) {
		return Token{}, 0
	}
	return Token{}, consumed
}

// lexParagraph always consumes input. A whitespace-preceded popup marker
// outside inline code, link text and angle brackets ends the paragraph so the
// popup rule claims the rest of the line.
func (l *lexer) lexParagraph(src string) (Token, int) {
	var lines []string
	consumed := 0
	for consumed < len(src) {
		line, size := nextLine(src[consumed:])
		if consumed > 0 {
			if isBlank(line) {
				break
			}
			if match := setextPattern.FindStringSubmatch(line); match != nil {
				level := 1
				if match[1][0] == '-' {
					level = 2
				}
				return Token{
					Type:  TokenHeading,
					Level: level,
					Text:  strings.TrimSpace(strings.Join(lines, "\n")),
				}, consumed + size
			}
			if interruptsParagraph(line) {
				break
			}
		}

		if idx := inlinePopupIndex(line); idx >= 0 {
			lines = append(lines, line[:idx])
			consumed += idx + 1
			break
		}

		lines = append(lines, line)
		consumed += size
	}

	text := strings.TrimSpace(strings.Join(lines, "\n"))
	if text == "" {
		return Token{}, consumed
	}
	return Token{Type: TokenParagraph, Text: text}, consumed
}

// inlinePopupIndex returns the offset of the whitespace before a popup marker
// in line, or -1. Markers inside code spans, bracketed link text and angle
// brackets are part of the inline content.
func inlinePopupIndex(line string) int {
	brackets, angle := 0, false
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case c == '\\':
			i++
		case c == '`':
			run := countLeadingChar(line[i:], '`')
			if end := closingBacktickRun(line[i+run:], run); end >= 0 {
				i += run + end + run - 1
			} else {
				i += run - 1
			}
		case c == '<':
			if strings.IndexByte(line[i+1:], '>') >= 0 {
				angle = true
			}
		case c == '>':
			angle = false
		case c == '[':
			if strings.IndexByte(line[i+1:], ']') >= 0 {
				brackets++
			}
		case c == ']':
			if brackets > 0 {
				brackets--
			}
		case c == ' ' || c == '\t':
			if angle || brackets > 0 || i+2 >= len(line) || line[i+1] != '~' {
				continue
			}
			if _, ok := popupMarkers[line[i+2]]; ok {
				return i
			}
		}
	}
	return -1
}

// closingBacktickRun returns the offset of the first backtick run in s that
// is exactly n long, or -1.
func closingBacktickRun(s string, n int) int {
	for i := 0; i < len(s); {
		if s[i] != '`' {
			i++
			continue
		}
		run := countLeadingChar(s[i:], '`')
		if run == n {
			return i
		}
		i += run
	}
	return -1
}

type listMarker struct {
	indent  int
	width   int
	ordered bool
	delim   byte
	start   int
	empty   bool
}

func parseListMarker(line string) (listMarker, bool) {
	match := listMarkerPattern.FindStringSubmatch(line)
	if match == nil {
		return listMarker{}, false
	}

	marker := match[2]
	result := listMarker{
		indent: len(match[1]),
		width:  len(match[0]),
	}

	if last := marker[len(marker)-1]; last == '.' || last == ')' {
		result.ordered = true
		result.delim = last
		result.start, _ = strconv.Atoi(marker[:len(marker)-1])
	} else {
		result.delim = marker[0]
	}

	spacing := len(match[0]) - len(match[1]) - len(marker)
	if strings.TrimSpace(line[len(match[0]):]) == "" {
		result.empty = true
		result.width = len(match[1]) + len(marker) + 1
	} else if spacing > 4 {
		result.width = len(match[1]) + len(marker) + 1
	}

	return result, true
}

func (m listMarker) sameList(other listMarker) bool {
	return m.ordered == other.ordered && m.delim == other.delim
}

func startsBlock(line string) bool {
	return popupPattern.MatchString(line+"\n") ||
		fenceOpenPattern.MatchString(line) ||
		atxHeadingPattern.MatchString(line) ||
		thematicBreakPattern.MatchString(line) ||
		blockquotePattern.MatchString(line) ||
		htmlBlockPattern.MatchString(line)
}

func interruptsParagraph(line string) bool {
	if startsBlock(line) {
		return true
	}
	marker, ok := parseListMarker(line)
	return ok && !marker.empty
}

func isClosingFence(line, fence string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return false
	}
	run := countLeadingChar(trimmed, fence[0])
	if run < len(fence) {
		return false
	}
	return strings.TrimSpace(trimmed[run:]) == ""
}

func isIndentedCode(line string) bool {
	return !isBlank(line) && indentation(line) >= 4
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func nextLine(src string) (string, int) {
	if idx := strings.IndexByte(src, '\n'); idx >= 0 {
		return src[:idx], idx + 1
	}
	return src, len(src)
}

func countBlankLines(src string) (int, int) {
	count, consumed := 0, 0
	for consumed < len(src) {
		line, size := nextLine(src[consumed:])
		if !isBlank(line) {
			break
		}
		count++
		consumed += size
	}
	return count, consumed
}

func countLeadingChar(s string, ch byte) int {
	n := 0
	for n < len(s) && s[n] == ch {
		n++
	}
	return n
}

// indentation returns the leading whitespace width in columns, with tabs
// advancing to the next multiple of four.
func indentation(line string) int {
	width := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			width++
		case '\t':
			width += 4 - width%4
		default:
			return width
		}
	}
	return width
}

// removeIndent strips up to n columns of leading whitespace.
func removeIndent(line string, n int) string {
	width := 0
	for i := 0; i < len(line); i++ {
		if width >= n {
			return line[i:]
		}
		switch line[i] {
		case ' ':
			width++
		case '\t':
			width += 4 - width%4
		default:
			return line[i:]
		}
	}
	return ""
}
