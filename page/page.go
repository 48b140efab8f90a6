// Package page assembles the final storage-format body of a Confluence page.
package page

import (
	"regexp"
	"strings"

	"github.com/rgonek/md2confluence/mdconverter"
	"golang.org/x/net/html"
)

// DefaultEditWarning is shown in an info popup at the top of every page.
const DefaultEditWarning = `<strong>NOTE</strong>: this page is managed with md2confluence:
any manual change to the contents of this page will be overwritten.`

var attachmentPattern = regexp.MustCompile(`<ri:attachment ri:filename="([^"]*)"`)

// Config controls the fixed fragments placed before the page body.
type Config struct {
	// EditWarning is storage markup for the edit warning. Empty uses DefaultEditWarning.
	EditWarning     string
	OmitTOC         bool
	OmitEditWarning bool
}

// Assembler prepends the table of contents and edit warning to rendered
// bodies. It holds no mutable state.
type Assembler struct {
	header string
}

// NewAssembler builds an Assembler. The header fragments are rendered once.
func NewAssembler(config Config) *Assembler {
	warning := config.EditWarning
	if strings.TrimSpace(warning) == "" {
		warning = DefaultEditWarning
	}

	var header strings.Builder
	if !config.OmitTOC {
		header.WriteString(mdconverter.Fragment(mdconverter.FragmentTOC, mdconverter.Slots{}))
	}
	if !config.OmitEditWarning {
		header.WriteString(mdconverter.CreatePopup(mdconverter.PopupInfo, warning))
	}

	return &Assembler{header: header.String()}
}

// Assemble returns the final page markup and the attachment filenames it
// references, in order of appearance. Repeated references are kept.
func (a *Assembler) Assemble(body string) (string, []string) {
	markup := a.header + body
	return markup, ScanAttachments(markup)
}

// ScanAttachments returns every attachment filename referenced by markup.
func ScanAttachments(markup string) []string {
	matches := attachmentPattern.FindAllStringSubmatch(markup, -1)
	if len(matches) == 0 {
		return nil
	}

	filenames := make([]string, 0, len(matches))
	for _, match := range matches {
		filenames = append(filenames, html.UnescapeString(match[1]))
	}
	return filenames
}
