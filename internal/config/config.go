// Package config loads md2confluence settings from an optional YAML file and
// the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gopkg.in/yaml.v3"

	"github.com/rgonek/md2confluence/confluence"
	"github.com/rgonek/md2confluence/internal/logging"
	"github.com/rgonek/md2confluence/mdconverter"
	"github.com/rgonek/md2confluence/page"
)

// Environment variables read by Load. They take precedence over the file.
const (
	EnvUsername = "JIRA_USERNAME"
	EnvPassword = "JIRA_PASSWORD"
	EnvDomain   = "JIRA_DOMAIN"
	EnvBaseURL  = "MD2CONFLUENCE_BASE_URL"
)

// Settings is the complete runtime configuration.
type Settings struct {
	Credentials Credentials      `yaml:"credentials" json:"credentials"`
	Domain      string           `yaml:"domain" json:"domain"`
	BaseURL     string           `yaml:"base_url" json:"base_url"`
	Log         LogSettings      `yaml:"log" json:"log"`
	Page        PageSettings     `yaml:"page" json:"page"`
	Markdown    MarkdownSettings `yaml:"markdown" json:"markdown"`
}

// Credentials authenticate REST calls with HTTP basic auth. Password is
// usually an API token.
type Credentials struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// LogSettings selects the log level and format.
type LogSettings struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// PageSettings controls the fragments placed before the page body.
type PageSettings struct {
	EditWarning     string `yaml:"edit_warning" json:"edit_warning"`
	OmitTOC         bool   `yaml:"omit_toc" json:"omit_toc"`
	OmitEditWarning bool   `yaml:"omit_edit_warning" json:"omit_edit_warning"`
}

// MarkdownSettings tunes the storage format renderer.
type MarkdownSettings struct {
	DefaultLanguage string            `yaml:"default_language" json:"default_language"`
	HeadingOffset   int               `yaml:"heading_offset" json:"heading_offset"`
	LanguageMap     map[string]string `yaml:"language_map" json:"language_map"`
}

// Default returns the settings used when no file is given.
func Default() Settings {
	return Settings{
		Log: LogSettings{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path when it is non-empty, then applies environment overrides
// looked up with getenv. A nil getenv uses os.Getenv.
func Load(path string, getenv func(string) string) (Settings, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	settings := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("read config %s: %w", path, err)
		}

		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
			return Settings{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	settings.applyEnv(getenv)
	return settings, nil
}

func (s *Settings) applyEnv(getenv func(string) string) {
	override := func(dst *string, key string) {
		if value := strings.TrimSpace(getenv(key)); value != "" {
			*dst = value
		}
	}

	override(&s.Credentials.Username, EnvUsername)
	override(&s.Credentials.Password, EnvPassword)
	override(&s.Domain, EnvDomain)
	override(&s.BaseURL, EnvBaseURL)
}

// Validate checks the settings. Credentials and a site are only required
// when the run talks to Confluence.
func (s Settings) Validate(requireCredentials bool) error {
	needSite := requireCredentials && strings.TrimSpace(s.BaseURL) == ""

	return validation.Errors{
		"credentials": s.Credentials.validate(requireCredentials),
		"domain":      validation.Validate(s.Domain, validation.When(needSite, validation.Required.Error("is required when base_url is not set"))),
		"base_url":    validation.Validate(s.BaseURL, is.RequestURL),
		"markdown":    s.MarkdownConfig().Validate(),
	}.Filter()
}

func (c Credentials) validate(required bool) error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Username, validation.When(required, validation.Required)),
		validation.Field(&c.Password, validation.When(required, validation.Required)),
	)
}

// MarkdownConfig returns the renderer configuration.
func (s Settings) MarkdownConfig() mdconverter.Config {
	return mdconverter.Config{
		DefaultLanguage: s.Markdown.DefaultLanguage,
		HeadingOffset:   s.Markdown.HeadingOffset,
		LanguageMap:     s.Markdown.LanguageMap,
	}
}

// PageConfig returns the page assembler configuration.
func (s Settings) PageConfig() page.Config {
	return page.Config{
		EditWarning:     s.Page.EditWarning,
		OmitTOC:         s.Page.OmitTOC,
		OmitEditWarning: s.Page.OmitEditWarning,
	}
}

// LoggingConfig returns the logger configuration.
func (s Settings) LoggingConfig() logging.Config {
	return logging.Config{
		Level:  s.Log.Level,
		Format: s.Log.Format,
	}
}

// ClientConfig returns the Confluence client configuration.
func (s Settings) ClientConfig(logger logging.Logger) confluence.Config {
	return confluence.Config{
		BaseURL:  s.BaseURL,
		Domain:   s.Domain,
		Username: s.Credentials.Username,
		Password: s.Credentials.Password,
		Logger:   logger,
	}
}
