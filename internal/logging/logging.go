// Package logging provides the leveled logger used by the CLI and the
// Confluence client.
package logging

import (
	"fmt"
	"sort"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

// Logger is the leveled logging contract. Arguments after msg are key/value
// pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	WithFields(fields map[string]any) Logger
}

// Config selects the log level and output format.
type Config struct {
	Level     string
	Format    string
	AddSource bool
}

// New constructs a Logger backed by go-logger. name scopes the logger; an
// empty name returns the root logger.
func New(cfg Config, name string) (Logger, error) {
	options := []glog.Option{}

	level, err := normalizeLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if level != "" {
		options = append(options, glog.WithLevel(level))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("logging: unsupported format %q", cfg.Format)
	}

	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	root := glog.NewLogger(options...)
	name = strings.TrimSpace(name)
	if name == "" {
		return wrap(root), nil
	}
	return wrap(root.GetLogger(name)), nil
}

func wrap(inner glog.Logger) Logger {
	if inner == nil {
		return NoOp()
	}
	return &adapter{inner: inner}
}

type adapter struct {
	inner glog.Logger
}

func (l *adapter) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

func (l *adapter) WithFields(fields map[string]any) Logger {
	if len(fields) == 0 {
		return l
	}

	if with, ok := l.inner.(glog.FieldsLogger); ok {
		return wrap(with.WithFields(cloneFields(fields)))
	}

	return &prefixed{inner: l, args: fieldArgs(fields)}
}

// prefixed prepends fixed key/value pairs for loggers without field support.
type prefixed struct {
	inner Logger
	args  []any
}

func (p *prefixed) Debug(msg string, args ...any) { p.inner.Debug(msg, p.with(args)...) }
func (p *prefixed) Info(msg string, args ...any)  { p.inner.Info(msg, p.with(args)...) }
func (p *prefixed) Warn(msg string, args ...any)  { p.inner.Warn(msg, p.with(args)...) }
func (p *prefixed) Error(msg string, args ...any) { p.inner.Error(msg, p.with(args)...) }

func (p *prefixed) WithFields(fields map[string]any) Logger {
	if len(fields) == 0 {
		return p
	}
	return &prefixed{inner: p, args: fieldArgs(fields)}
}

func (p *prefixed) with(args []any) []any {
	return append(append([]any(nil), p.args...), args...)
}

// fieldArgs flattens fields into sorted key/value pairs.
func fieldArgs(fields map[string]any) []any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	return args
}

func cloneFields(fields map[string]any) map[string]any {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return copied
}

func normalizeLevel(level string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "":
		return "", nil
	case "trace":
		return glog.Trace, nil
	case "debug":
		return glog.Debug, nil
	case "info":
		return glog.Info, nil
	case "warn", "warning":
		return glog.Warn, nil
	case "error":
		return glog.Error, nil
	default:
		return "", fmt.Errorf("logging: unsupported level %q", level)
	}
}
