package mdconverter

import (
	"errors"
	"unicode/utf8"

	"github.com/yuin/goldmark/parser"
)

// Converter converts Markdown to Confluence storage format.
type Converter struct {
	config Config
	inline parser.Parser
}

type state struct {
	config   Config
	inline   parser.Parser
	warnings []Warning
}

// New creates a new Converter with the given config.
func New(config Config) (*Converter, error) {
	cfg := config.applyDefaults().clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Converter{
		config: cfg,
		inline: newInlineParser(),
	}, nil
}

// Convert takes a markdown document body and returns storage format markup.
func (c *Converter) Convert(markdown string) (Result, error) {
	if !utf8.ValidString(markdown) {
		return Result{}, errors.New("markdown input is not valid UTF-8")
	}

	s := &state{
		config: c.config,
		inline: c.inline,
	}

	return Result{
		Markup:   s.renderBlocks(Tokenize(markdown)),
		Warnings: s.warnings,
	}, nil
}

func (s *state) addWarning(warnType WarningType, nodeType, message string) {
	s.warnings = append(s.warnings, Warning{
		Type:     warnType,
		NodeType: nodeType,
		Message:  message,
	})
}
