package mdconverter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     []Token
	}{
		{
			name:     "empty",
			markdown: "",
			want:     nil,
		},
		{
			name:     "popup markers",
			markdown: "~?Info text\n~!Careful\n~%Danger zone",
			want: []Token{
				{Type: TokenPopup, Style: PopupInfo, Text: "Info text"},
				{Type: TokenPopup, Style: PopupNote, Text: "Careful"},
				{Type: TokenPopup, Style: PopupWarning, Text: "Danger zone"},
			},
		},
		{
			name:     "popup wins over other block rules",
			markdown: "~?# not a heading\n~!- not a list\n",
			want: []Token{
				{Type: TokenPopup, Style: PopupInfo, Text: "# not a heading"},
				{Type: TokenPopup, Style: PopupNote, Text: "- not a list"},
			},
		},
		{
			name:     "popup ends at first line break",
			markdown: "~?first\nsecond\n",
			want: []Token{
				{Type: TokenPopup, Style: PopupInfo, Text: "first"},
				{Type: TokenParagraph, Text: "second"},
			},
		},
		{
			name:     "popup after text on the same line",
			markdown: "See ~?Note here",
			want: []Token{
				{Type: TokenParagraph, Text: "See"},
				{Type: TokenPopup, Style: PopupInfo, Text: "Note here"},
			},
		},
		{
			name:     "popup marker inside code span is text",
			markdown: "Run `grep ~?x` now\n",
			want: []Token{
				{Type: TokenParagraph, Text: "Run `grep ~?x` now"},
			},
		},
		{
			name:     "popup marker inside link text is text",
			markdown: "[a ~?b](u) then\n",
			want: []Token{
				{Type: TokenParagraph, Text: "[a ~?b](u) then"},
			},
		},
		{
			name:     "popup marker inside inline html is text",
			markdown: "see <span title=\"a ~!b\">x</span> y\n",
			want: []Token{
				{Type: TokenParagraph, Text: "see <span title=\"a ~!b\">x</span> y"},
			},
		},
		{
			name:     "popup after closed code span",
			markdown: "`a` ~?x\n",
			want: []Token{
				{Type: TokenParagraph, Text: "`a`"},
				{Type: TokenPopup, Style: PopupInfo, Text: "x"},
			},
		},
		{
			name:     "tilde without marker is text",
			markdown: "about ~5 minutes and ~~gone~~\n",
			want: []Token{
				{Type: TokenParagraph, Text: "about ~5 minutes and ~~gone~~"},
			},
		},
		{
			name:     "atx and setext headings",
			markdown: "# Title #\n\nSub\n---\n",
			want: []Token{
				{Type: TokenHeading, Level: 1, Text: "Title"},
				{Type: TokenHeading, Level: 2, Text: "Sub"},
			},
		},
		{
			name:     "fenced code",
			markdown: "```python\nprint(\"hi\")\n```\n",
			want: []Token{
				{Type: TokenCodeBlock, Lang: "python", Text: `print("hi")`},
			},
		},
		{
			name:     "unterminated fence runs to end of input",
			markdown: "~~~\na\n\nb\n",
			want: []Token{
				{Type: TokenCodeBlock, Text: "a\n\nb"},
			},
		},
		{
			name:     "indented code",
			markdown: "    code line\n      nested\n",
			want: []Token{
				{Type: TokenCodeBlock, Text: "code line\n  nested"},
			},
		},
		{
			name:     "paragraph lines join",
			markdown: "one\ntwo\n\nthree\n",
			want: []Token{
				{Type: TokenParagraph, Text: "one\ntwo"},
				{Type: TokenParagraph, Text: "three"},
			},
		},
		{
			name:     "thematic break",
			markdown: "***\n",
			want:     []Token{{Type: TokenThematicBreak}},
		},
		{
			name:     "blockquote",
			markdown: "> quoted\n> more\n",
			want: []Token{
				{
					Type: TokenBlockquote,
					Children: []Token{
						{Type: TokenParagraph, Text: "quoted\nmore"},
					},
				},
			},
		},
		{
			name:     "html block",
			markdown: "<div>\nhi\n</div>\n\nafter\n",
			want: []Token{
				{Type: TokenHTML, Text: "<div>\nhi\n</div>"},
				{Type: TokenParagraph, Text: "after"},
			},
		},
		{
			name:     "tight bullet list",
			markdown: "- one\n- two\n",
			want: []Token{
				{
					Type:  TokenList,
					Tight: true,
					Children: []Token{
						{Type: TokenListItem, Children: []Token{{Type: TokenParagraph, Text: "one"}}},
						{Type: TokenListItem, Children: []Token{{Type: TokenParagraph, Text: "two"}}},
					},
				},
			},
		},
		{
			name:     "loose ordered list",
			markdown: "3. a\n\n4. b\n",
			want: []Token{
				{
					Type:    TokenList,
					Ordered: true,
					Start:   3,
					Children: []Token{
						{Type: TokenListItem, Children: []Token{{Type: TokenParagraph, Text: "a"}}},
						{Type: TokenListItem, Children: []Token{{Type: TokenParagraph, Text: "b"}}},
					},
				},
			},
		},
		{
			name:     "popup inside list item",
			markdown: "- ~!careful\n",
			want: []Token{
				{
					Type:  TokenList,
					Tight: true,
					Children: []Token{
						{Type: TokenListItem, Children: []Token{{Type: TokenPopup, Style: PopupNote, Text: "careful"}}},
					},
				},
			},
		},
		{
			name:     "crlf input",
			markdown: "# A\r\n\r\ntext\r\n",
			want: []Token{
				{Type: TokenHeading, Level: 1, Text: "A"},
				{Type: TokenParagraph, Text: "text"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.markdown)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.markdown, diff)
			}
		})
	}
}

func TestLexerRuleOrder(t *testing.T) {
	l := newLexer()
	names := make([]string, 0, len(l.rules))
	for _, rule := range l.rules {
		names = append(names, rule.name)
	}

	want := []string{
		"popup",
		"fenced_code",
		"indented_code",
		"heading",
		"thematic_break",
		"blockquote",
		"list",
		"html",
		"blank",
		"paragraph",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("rule order mismatch (-want +got):\n%s", diff)
	}
}

func TestIndentation(t *testing.T) {
	cases := map[string]int{
		"":        0,
		"a":       0,
		"  a":     2,
		"\ta":     4,
		"  \ta":   4,
		"     a":  5,
		"\t\t  a": 10,
	}
	for line, want := range cases {
		if got := indentation(line); got != want {
			t.Errorf("indentation(%q) = %d, want %d", line, got, want)
		}
	}
}
