package mdconverter

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed templates/*.xml
var templateFS embed.FS

// FragmentKind selects one of the fixed storage-format templates.
type FragmentKind int

const (
	// FragmentTOC renders the table of contents macro. It has no slots.
	FragmentTOC FragmentKind = iota
	// FragmentPopup renders an info/note/warning macro. Slots: {type}, {contents}.
	FragmentPopup
	// FragmentCode renders a code macro. Slots: {lang}, {contents}.
	FragmentCode
	// FragmentImageAttachment renders an image stored as a page attachment. Slot: {filename}.
	FragmentImageAttachment
	// FragmentImageURL renders a remote image. Slot: {url}.
	FragmentImageURL

	fragmentKindCount
)

var fragmentFiles = [fragmentKindCount]string{
	FragmentTOC:             "templates/toc.xml",
	FragmentPopup:           "templates/popup.xml",
	FragmentCode:            "templates/code.xml",
	FragmentImageAttachment: "templates/image_attachment.xml",
	FragmentImageURL:        "templates/image_remote.xml",
}

var fragmentNames = [fragmentKindCount]string{
	FragmentTOC:             "toc",
	FragmentPopup:           "popup",
	FragmentCode:            "code",
	FragmentImageAttachment: "image_attachment",
	FragmentImageURL:        "image_url",
}

// templates is resolved once from the embedded bundle.
var templates = mustLoadTemplates()

func mustLoadTemplates() [fragmentKindCount]string {
	var loaded [fragmentKindCount]string
	for kind, name := range fragmentFiles {
		data, err := templateFS.ReadFile(name)
		if err != nil {
			panic(fmt.Sprintf("mdconverter: missing embedded template %s: %v", name, err))
		}
		loaded[kind] = string(data)
	}
	return loaded
}

func (k FragmentKind) String() string {
	if k < 0 || k >= fragmentKindCount {
		return fmt.Sprintf("FragmentKind(%d)", int(k))
	}
	return fragmentNames[k]
}

// Slots holds the substitution values for a fragment template.
// Slots a template does not reference are ignored.
type Slots struct {
	Type     string
	Contents string
	Lang     string
	Filename string
	URL      string
}

// Fragment renders the template bound to kind. Substitution is a single pass,
// so slot values containing placeholder text are never expanded again.
func Fragment(kind FragmentKind, slots Slots) string {
	if kind < 0 || kind >= fragmentKindCount {
		panic(fmt.Sprintf("mdconverter: unknown fragment kind %d", int(kind)))
	}

	replacer := strings.NewReplacer(
		"{type}", slots.Type,
		"{contents}", slots.Contents,
		"{lang}", slots.Lang,
		"{filename}", slots.Filename,
		"{url}", slots.URL,
	)
	return replacer.Replace(templates[kind])
}

// CreatePopup renders an info, note or warning macro around contents.
// contents is inserted as-is and may carry storage markup; popup tokens from
// a document are escaped by the renderer before they get here. Any other
// style is a programming error and panics.
func CreatePopup(style PopupStyle, contents string) string {
	if !style.Valid() {
		panic(fmt.Sprintf("mdconverter: invalid popup style %q", string(style)))
	}
	return Fragment(FragmentPopup, Slots{Type: string(style), Contents: contents})
}
