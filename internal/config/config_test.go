package config

import (
	"os"
	"path/filepath"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "md2confluence.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	settings, err := Load("", envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), settings)
}

func TestLoadFromEnvironment(t *testing.T) {
	settings, err := Load("", envMap(map[string]string{
		EnvUsername: "me@example.com",
		EnvPassword: "secret",
		EnvDomain:   "acme",
	}))
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", settings.Credentials.Username)
	assert.Equal(t, "secret", settings.Credentials.Password)
	assert.Equal(t, "acme", settings.Domain)
	require.NoError(t, settings.Validate(true))

	client := settings.ClientConfig(nil)
	assert.Equal(t, "acme", client.Domain)
	assert.Equal(t, "me@example.com", client.Username)
}

func TestLoadFileWithEnvironmentOverride(t *testing.T) {
	path := writeConfig(t, `
credentials:
  username: file-user
  password: file-pass
domain: file-domain
log:
  level: debug
  format: json
page:
  edit_warning: "Generated page"
  omit_toc: true
markdown:
  default_language: text
  heading_offset: 1
  language_map:
    golang: go
`)

	settings, err := Load(path, envMap(map[string]string{
		EnvPassword: "env-pass",
		EnvBaseURL:  "http://localhost:8090",
	}))
	require.NoError(t, err)

	assert.Equal(t, "file-user", settings.Credentials.Username)
	assert.Equal(t, "env-pass", settings.Credentials.Password)
	assert.Equal(t, "file-domain", settings.Domain)
	assert.Equal(t, "http://localhost:8090", settings.BaseURL)

	assert.Equal(t, "debug", settings.LoggingConfig().Level)
	assert.Equal(t, "json", settings.LoggingConfig().Format)

	pageCfg := settings.PageConfig()
	assert.Equal(t, "Generated page", pageCfg.EditWarning)
	assert.True(t, pageCfg.OmitTOC)
	assert.False(t, pageCfg.OmitEditWarning)

	mdCfg := settings.MarkdownConfig()
	assert.Equal(t, "text", mdCfg.DefaultLanguage)
	assert.Equal(t, 1, mdCfg.HeadingOffset)
	assert.Equal(t, map[string]string{"golang": "go"}, mdCfg.LanguageMap)

	require.NoError(t, settings.Validate(true))
}

func TestLoadKeepsDefaultsForOmittedSections(t *testing.T) {
	path := writeConfig(t, "domain: acme\n")

	settings, err := Load(path, envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, "info", settings.Log.Level)
	assert.Equal(t, "console", settings.Log.Format)
}

func TestLoadEmptyFile(t *testing.T) {
	settings, err := Load(writeConfig(t, ""), envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), settings)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), envMap(nil))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := Load(writeConfig(t, "domian: typo\n"), envMap(nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "domian")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "credentials: [\n"), envMap(nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})
}

func TestValidateCredentials(t *testing.T) {
	settings := Default()

	require.NoError(t, settings.Validate(false), "dry runs need no credentials")

	err := settings.Validate(true)
	require.Error(t, err)

	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "credentials")
	assert.Contains(t, errs, "domain")

	var credErrs validation.Errors
	require.ErrorAs(t, errs["credentials"], &credErrs)
	assert.Contains(t, credErrs, "username")
	assert.Contains(t, credErrs, "password")
}

func TestValidateBaseURLReplacesDomain(t *testing.T) {
	settings := Default()
	settings.Credentials = Credentials{Username: "u", Password: "p"}
	settings.BaseURL = "https://wiki.example.com"
	require.NoError(t, settings.Validate(true))

	settings.BaseURL = "not a url"
	err := settings.Validate(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
}

func TestValidateMarkdown(t *testing.T) {
	settings := Default()
	settings.Markdown.HeadingOffset = 9

	err := settings.Validate(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "markdown")
}
