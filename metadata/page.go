package metadata

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Required header keys for publishing a page.
const (
	KeyID    = "id"
	KeyTitle = "title"
	KeySpace = "space"
)

// ErrMissingField matches every *MissingFieldError.
var ErrMissingField = errors.New("missing required metadata field")

// MissingFieldError lists required header keys absent from a document.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required metadata field(s): %s", strings.Join(e.Fields, ", "))
}

// Is reports whether target is ErrMissingField.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// PageInfo identifies the Confluence page a document publishes to.
type PageInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Space string `json:"space"`
}

// Validate checks that every field is present.
func (p PageInfo) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required),
		validation.Field(&p.Title, validation.Required),
		validation.Field(&p.Space, validation.Required),
	)
}

// PageInfo returns the publishing target named by the header. Absent or
// blank required keys yield a *MissingFieldError.
func (m *Metadata) PageInfo() (PageInfo, error) {
	info := PageInfo{}
	info.ID, _ = m.Get(KeyID)
	info.Title, _ = m.Get(KeyTitle)
	info.Space, _ = m.Get(KeySpace)

	err := info.Validate()
	if err == nil {
		return info, nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return PageInfo{}, err
	}

	missing := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		missing = append(missing, field)
	}
	sort.Strings(missing)

	return PageInfo{}, &MissingFieldError{Fields: missing}
}
