package mdconverter

import (
	"fmt"
	"strings"
)

// DefaultCodeLanguage is used for code blocks without a language tag.
const DefaultCodeLanguage = "none"

// Config configures Markdown to storage format conversion.
type Config struct {
	// DefaultLanguage replaces an empty code block language. Defaults to "none".
	DefaultLanguage string `json:"defaultLanguage,omitempty"`
	// HeadingOffset shifts heading levels; results are clamped to 1..6.
	HeadingOffset int `json:"headingOffset,omitempty"`
	// LanguageMap rewrites code block languages, e.g. "golang" -> "go".
	LanguageMap map[string]string `json:"languageMap,omitempty"`
}

func (c Config) applyDefaults() Config {
	if strings.TrimSpace(c.DefaultLanguage) == "" {
		c.DefaultLanguage = DefaultCodeLanguage
	}
	return c
}

func (c Config) clone() Config {
	cloned := c
	cloned.LanguageMap = cloneStringMap(c.LanguageMap)
	return cloned
}

// Validate checks that config values are valid.
func (c Config) Validate() error {
	if strings.ContainsAny(c.DefaultLanguage, " \t\n") {
		return fmt.Errorf("invalid defaultLanguage %q: must be a single word", c.DefaultLanguage)
	}

	if c.HeadingOffset < -5 || c.HeadingOffset > 5 {
		return fmt.Errorf("headingOffset must be between -5 and 5, got %d", c.HeadingOffset)
	}

	for from, to := range c.LanguageMap {
		if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
			return fmt.Errorf("languageMap keys and values must be non-empty")
		}
	}

	return nil
}

func cloneStringMap(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}

	dst := make(map[string]string, len(src))
	for key, value := range src {
		dst[key] = value
	}

	return dst
}
