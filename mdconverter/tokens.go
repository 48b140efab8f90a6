package mdconverter

// TokenType identifies a block-level construct.
type TokenType string

const (
	TokenParagraph     TokenType = "paragraph"
	TokenHeading       TokenType = "heading"
	TokenCodeBlock     TokenType = "code_block"
	TokenPopup         TokenType = "popup"
	TokenList          TokenType = "list"
	TokenListItem      TokenType = "list_item"
	TokenBlockquote    TokenType = "blockquote"
	TokenThematicBreak TokenType = "thematic_break"
	TokenHTML          TokenType = "html"
)

// PopupStyle is the Confluence macro name used for a popup.
type PopupStyle string

const (
	PopupInfo    PopupStyle = "info"
	PopupNote    PopupStyle = "note"
	PopupWarning PopupStyle = "warning"
)

// Valid reports whether s is one of the recognized popup styles.
func (s PopupStyle) Valid() bool {
	switch s {
	case PopupInfo, PopupNote, PopupWarning:
		return true
	default:
		return false
	}
}

var popupMarkers = map[byte]PopupStyle{
	'?': PopupInfo,
	'!': PopupNote,
	'%': PopupWarning,
}

// Token is one block produced by Tokenize.
//
// Text holds inline markdown for paragraphs and headings, literal content for
// code blocks and popups, and raw markup for HTML blocks. Blockquotes, lists
// and list items carry their content in Children.
type Token struct {
	Type     TokenType
	Text     string
	Level    int
	Lang     string
	Style    PopupStyle
	Ordered  bool
	Start    int
	Tight    bool
	Children []Token
}
